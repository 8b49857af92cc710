package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/assay/internal/config"
	"github.com/JaimeStill/assay/internal/fri"
	"github.com/JaimeStill/assay/internal/infrastructure"
	"github.com/JaimeStill/assay/internal/inspection"
)

func newValidateCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "validate <record.json>",
		Short: "Validate an extraction record against the rule tables",
		Long: `Validate runs the five validation steps and the verdict on an
extraction record without touching the database, storage, or model.
Contract violations are listed one per line and the command fails.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(output); err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read record: %w", err)
			}

			cfg, err := config.LoadRules()
			if err != nil {
				return err
			}

			validator, err := infrastructure.NewValidator(cfg, a.logger)
			if err != nil {
				return err
			}

			report, err := validateRecord(validator, data)
			if err != nil {
				var ce *fri.ContractError
				if errors.As(err, &ce) {
					for _, v := range ce.Violations {
						fmt.Fprintln(cmd.ErrOrStderr(), v)
					}
				}
				return err
			}
			return write(cmd.OutOrStdout(), output, report)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", formatJSON, "Output format (json, yaml)")
	return cmd
}

func validateRecord(v *inspection.Validator, data []byte) (*inspection.Report, error) {
	rec, err := fri.Decode(data)
	if err != nil {
		return nil, err
	}
	return v.Validate(rec)
}
