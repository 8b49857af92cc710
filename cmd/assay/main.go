// Command assay is the operator CLI: it registers reports, runs the
// extraction pipeline once, and validates records or looks up sampling
// plans offline against the configured rule tables.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/assay/internal/infrastructure"
)

// app carries the state shared by every subcommand once the persistent
// flags are parsed.
type app struct {
	logLevel  string
	logFormat string
	logger    *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "assay",
		Short:         "Validate final random inspection reports",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := infrastructure.NewLogger(cmd.ErrOrStderr(), a.logLevel, a.logFormat)
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(
		newRunCmd(a),
		newRegisterCmd(a),
		newValidateCmd(a),
		newRulesCmd(a),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
