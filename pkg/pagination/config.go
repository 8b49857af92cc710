package pagination

import (
	"fmt"

	"github.com/JaimeStill/assay/pkg/env"
)

// Config bounds page sizes for list endpoints.
type Config struct {
	DefaultPageSize int `toml:"default_page_size"`
	MaxPageSize     int `toml:"max_page_size"`
}

// ConfigEnv maps config fields to environment variable names.
type ConfigEnv struct {
	DefaultPageSize string
	MaxPageSize     string
}

// Finalize applies defaults, environment overrides, and validation.
func (c *Config) Finalize(e *ConfigEnv) error {
	if c.DefaultPageSize <= 0 {
		c.DefaultPageSize = 20
	}
	if c.MaxPageSize <= 0 {
		c.MaxPageSize = 100
	}

	if e != nil {
		env.Int(&c.DefaultPageSize, e.DefaultPageSize)
		env.Int(&c.MaxPageSize, e.MaxPageSize)
	}

	switch {
	case c.DefaultPageSize < 1:
		return fmt.Errorf("default_page_size must be positive")
	case c.MaxPageSize < 1:
		return fmt.Errorf("max_page_size must be positive")
	case c.DefaultPageSize > c.MaxPageSize:
		return fmt.Errorf("default_page_size cannot exceed max_page_size")
	}
	return nil
}

func (c *Config) Merge(overlay *Config) {
	if overlay.DefaultPageSize != 0 {
		c.DefaultPageSize = overlay.DefaultPageSize
	}
	if overlay.MaxPageSize != 0 {
		c.MaxPageSize = overlay.MaxPageSize
	}
}
