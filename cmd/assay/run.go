package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		output  string
		requeue bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Process one batch of pending entries and print the summary",
		Long: `Run claims up to pipeline.batch_size pending entries, extracts each
report with the configured model, validates it, and stores the result.
Entries that fail are marked with the error and retried on a later run
until pipeline.attempts_limit is reached.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(output); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			s, err := openSession(ctx, a)
			if err != nil {
				return err
			}
			defer s.close()

			if requeue {
				stale := 2 * s.cfg.Extraction.TimeoutDuration()
				n, err := s.domain.Entries.Requeue(ctx, stale)
				if err != nil {
					return err
				}
				if n > 0 {
					a.logger.Info("stale entries requeued", "count", n)
				}
			}

			summary, err := s.domain.Pipeline.Run(ctx)
			if werr := write(cmd.OutOrStdout(), output, summary); werr != nil {
				return werr
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", formatJSON, "Output format (json, yaml)")
	cmd.Flags().BoolVar(&requeue, "requeue", true, "Return entries stuck in processing to the queue first")
	return cmd
}
