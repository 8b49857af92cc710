package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/assay/internal/entries"
)

func newRegisterCmd(a *app) *cobra.Command {
	var (
		docType string
		output  string
	)

	cmd := &cobra.Command{
		Use:   "register <dir|file>...",
		Short: "Upload local PDF reports and register them as pending entries",
		Long: `Register uploads every PDF named on the command line, or found under a
named directory, and creates a pending entry for it. Files that are not
readable PDFs are reported and skipped; the command fails when any file
could not be registered.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(output); err != nil {
				return err
			}

			files, err := collectPDFs(args)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return errors.New("no PDF files found")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			s, err := openSession(ctx, a)
			if err != nil {
				return err
			}
			defer s.close()

			results := make([]entries.BatchResult, 0, len(files))
			failed := 0

			for _, path := range files {
				if ctx.Err() != nil {
					break
				}

				br := entries.BatchResult{Filename: filepath.Base(path)}
				e, err := register(ctx, s.domain.Entries, path, docType)
				if err != nil {
					failed++
					br.Error = err.Error()
				} else {
					br.Entry = e
				}
				results = append(results, br)
			}

			if err := write(cmd.OutOrStdout(), output, results); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed to register", failed, len(files))
			}
			return ctx.Err()
		},
	}

	cmd.Flags().StringVarP(&docType, "type", "t", entries.DefaultDocumentType, "Document type of the reports")
	cmd.Flags().StringVarP(&output, "output", "o", formatJSON, "Output format (json, yaml)")
	return cmd
}

func register(ctx context.Context, sys entries.System, path, docType string) (*entries.Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	name := filepath.Base(path)
	return sys.Create(ctx, entries.CreateCommand{
		Data:         data,
		Filename:     name,
		SourceID:     strings.TrimSuffix(name, filepath.Ext(name)),
		DocumentType: docType,
	})
}

// collectPDFs expands directories to the .pdf files beneath them. Files
// named explicitly are kept whatever their extension.
func collectPDFs(paths []string) ([]string, error) {
	var files []string

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			files = append(files, p)
			continue
		}

		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".pdf") {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return files, nil
}
