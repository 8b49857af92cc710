package openapi

import "github.com/JaimeStill/assay/pkg/env"

// Config holds the metadata of the generated API document.
type Config struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
}

// ConfigEnv maps config fields to environment variable names.
type ConfigEnv struct {
	Title       string
	Description string
}

func (c *Config) Finalize(e *ConfigEnv) error {
	if c.Title == "" {
		c.Title = "Assay API"
	}
	if c.Description == "" {
		c.Description = "Extraction and validation of final random inspection reports."
	}
	if e != nil {
		env.String(&c.Title, e.Title)
		env.String(&c.Description, e.Description)
	}
	return nil
}

func (c *Config) Merge(overlay *Config) {
	if overlay.Title != "" {
		c.Title = overlay.Title
	}
	if overlay.Description != "" {
		c.Description = overlay.Description
	}
}
