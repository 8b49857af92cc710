package config

import (
	"fmt"
	"time"

	"github.com/JaimeStill/assay/pkg/env"
)

// PipelineConfig bounds batch processing.
type PipelineConfig struct {
	ExtractionLimit int `toml:"extraction_limit"`
	ValidationLimit int `toml:"validation_limit"`
	AttemptsLimit   int `toml:"attempts_limit"`
	BatchSize       int `toml:"batch_size"`
	// Interval between background runs in the server. "0" disables the runner.
	Interval string `toml:"interval"`
}

func (c *PipelineConfig) IntervalDuration() time.Duration {
	d, _ := time.ParseDuration(c.Interval)
	return d
}

func (c *PipelineConfig) Finalize() error {
	if c.ExtractionLimit == 0 {
		c.ExtractionLimit = 20
	}
	if c.ValidationLimit == 0 {
		c.ValidationLimit = 20
	}
	if c.AttemptsLimit == 0 {
		c.AttemptsLimit = 3
	}
	if c.BatchSize == 0 {
		c.BatchSize = 100
	}
	defaultString(&c.Interval, "0")

	env.Int(&c.ExtractionLimit, "ASSAY_PIPELINE_EXTRACTION_LIMIT")
	env.Int(&c.ValidationLimit, "ASSAY_PIPELINE_VALIDATION_LIMIT")
	env.Int(&c.AttemptsLimit, "ASSAY_PIPELINE_ATTEMPTS_LIMIT")
	env.Int(&c.BatchSize, "ASSAY_PIPELINE_BATCH_SIZE")
	env.String(&c.Interval, "ASSAY_PIPELINE_INTERVAL")

	switch {
	case c.ExtractionLimit < 1:
		return fmt.Errorf("extraction_limit must be positive")
	case c.ValidationLimit < 1:
		return fmt.Errorf("validation_limit must be positive")
	case c.AttemptsLimit < 1:
		return fmt.Errorf("attempts_limit must be positive")
	case c.BatchSize < 1:
		return fmt.Errorf("batch_size must be positive")
	}
	if d, err := time.ParseDuration(c.Interval); err != nil || d < 0 {
		return fmt.Errorf("invalid interval %q", c.Interval)
	}
	return nil
}

func (c *PipelineConfig) Merge(overlay *PipelineConfig) {
	if overlay.ExtractionLimit != 0 {
		c.ExtractionLimit = overlay.ExtractionLimit
	}
	if overlay.ValidationLimit != 0 {
		c.ValidationLimit = overlay.ValidationLimit
	}
	if overlay.AttemptsLimit != 0 {
		c.AttemptsLimit = overlay.AttemptsLimit
	}
	if overlay.BatchSize != 0 {
		c.BatchSize = overlay.BatchSize
	}
	mergeString(&c.Interval, overlay.Interval)
}

// RulesConfig points at business rule CSVs. Empty AQL paths select the
// embedded ISO 2859-1 tables; an empty NC path loads no NC rules.
type RulesConfig struct {
	AQLGeneral string `toml:"aql_general"`
	AQLSpecial string `toml:"aql_special"`
	NCRules    string `toml:"nc_rules"`
}

func (c *RulesConfig) Finalize() error {
	env.String(&c.AQLGeneral, "ASSAY_RULES_AQL_GENERAL")
	env.String(&c.AQLSpecial, "ASSAY_RULES_AQL_SPECIAL")
	env.String(&c.NCRules, "ASSAY_RULES_NC_RULES")
	return nil
}

func (c *RulesConfig) Merge(overlay *RulesConfig) {
	mergeString(&c.AQLGeneral, overlay.AQLGeneral)
	mergeString(&c.AQLSpecial, overlay.AQLSpecial)
	mergeString(&c.NCRules, overlay.NCRules)
}
