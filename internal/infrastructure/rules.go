package infrastructure

import (
	"fmt"
	"log/slog"

	"github.com/JaimeStill/assay/internal/config"
	"github.com/JaimeStill/assay/internal/inspection"
	"github.com/JaimeStill/assay/internal/rules"
)

// LoadRules opens the AQL tables and the NC decision table named by cfg.
func LoadRules(cfg *config.RulesConfig) (*rules.Table, *rules.NCRules, error) {
	table, err := rules.Open(cfg.AQLGeneral, cfg.AQLSpecial)
	if err != nil {
		return nil, nil, fmt.Errorf("aql tables: %w", err)
	}

	nc, err := rules.OpenNC(cfg.NCRules)
	if err != nil {
		return nil, nil, fmt.Errorf("nc rules: %w", err)
	}
	return table, nc, nil
}

// NewValidator builds the validator over the configured rule tables.
func NewValidator(cfg *config.RulesConfig, logger *slog.Logger) (*inspection.Validator, error) {
	table, nc, err := LoadRules(cfg)
	if err != nil {
		return nil, err
	}
	logRules(logger, table, nc)
	return inspection.NewValidator(table, nc), nil
}

func logRules(logger *slog.Logger, table *rules.Table, nc *rules.NCRules) {
	logger.Info("rule tables loaded",
		"aql_rows", table.Len(),
		"levels", table.Levels(),
		"nc_rules", nc.Len(),
	)
}
