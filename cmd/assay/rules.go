package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/assay/internal/config"
	"github.com/JaimeStill/assay/internal/fri"
	"github.com/JaimeStill/assay/internal/infrastructure"
	"github.com/JaimeStill/assay/internal/rules"
)

func newRulesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect the AQL sampling plan tables",
	}
	cmd.AddCommand(newRulesLookupCmd(a), newRulesListCmd(a))
	return cmd
}

func newRulesLookupCmd(a *app) *cobra.Command {
	var (
		quantity int
		level    string
		output   string
	)

	cmd := &cobra.Command{
		Use:   "lookup",
		Short: "Show the sampling plan for a lot size and inspection level",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(output); err != nil {
				return err
			}
			if quantity < 0 {
				return fmt.Errorf("quantity must be non-negative, got %d", quantity)
			}

			table, err := loadTable(a)
			if err != nil {
				return err
			}

			row, err := table.Lookup(quantity, level)
			if err != nil {
				return err
			}
			return write(cmd.OutOrStdout(), output, row)
		},
	}

	cmd.Flags().IntVarP(&quantity, "quantity", "q", 0, "Lot size (order quantity)")
	cmd.Flags().StringVarP(&level, "level", "l", string(fri.LevelII), "Inspection level (I, II, III, S1-S4)")
	cmd.Flags().StringVarP(&output, "output", "o", formatJSON, "Output format (json, yaml)")
	cmd.MarkFlagRequired("quantity")
	return cmd
}

func newRulesListCmd(a *app) *cobra.Command {
	var (
		level  string
		output string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the sampling plans of one inspection level",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(output); err != nil {
				return err
			}

			table, err := loadTable(a)
			if err != nil {
				return err
			}

			rows := table.Rows(level)
			if len(rows) == 0 {
				return fmt.Errorf("unknown level %q (have %v)", level, table.Levels())
			}
			return write(cmd.OutOrStdout(), output, rows)
		},
	}

	cmd.Flags().StringVarP(&level, "level", "l", string(fri.LevelII), "Inspection level (I, II, III, S1-S4)")
	cmd.Flags().StringVarP(&output, "output", "o", formatJSON, "Output format (json, yaml)")
	return cmd
}

func loadTable(a *app) (*rules.Table, error) {
	cfg, err := config.LoadRules()
	if err != nil {
		return nil, err
	}

	table, _, err := infrastructure.LoadRules(cfg)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("rule tables loaded", "aql_rows", table.Len())
	return table, nil
}
