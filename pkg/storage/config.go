package storage

import (
	"fmt"

	"github.com/JaimeStill/assay/pkg/env"
)

// Config locates the blob container holding report PDFs and reference
// images. Either ConnectionString or ServiceURL is required; with a
// ServiceURL the client authenticates through the Azure default credential
// chain.
type Config struct {
	ContainerName    string `toml:"container_name"`
	ConnectionString string `toml:"connection_string"`
	ServiceURL       string `toml:"service_url"`
	// MaxRetries bounds retries per blob request. Zero keeps the SDK
	// default and a negative value disables retries.
	MaxRetries       int    `toml:"max_retries"`
}

// Env maps config fields to environment variable names.
type Env struct {
	ContainerName    string
	ConnectionString string
	ServiceURL       string
	MaxRetries       string
}

// Finalize applies defaults, environment overrides, and validation.
func (c *Config) Finalize(e *Env) error {
	if c.ContainerName == "" {
		c.ContainerName = "reports"
	}

	if e != nil {
		env.String(&c.ContainerName, e.ContainerName)
		env.String(&c.ConnectionString, e.ConnectionString)
		env.String(&c.ServiceURL, e.ServiceURL)
		env.Int(&c.MaxRetries, e.MaxRetries)
	}

	if c.ConnectionString == "" && c.ServiceURL == "" {
		return fmt.Errorf("connection_string or service_url required")
	}
	return nil
}

func (c *Config) Merge(overlay *Config) {
	if overlay.ContainerName != "" {
		c.ContainerName = overlay.ContainerName
	}
	if overlay.ConnectionString != "" {
		c.ConnectionString = overlay.ConnectionString
	}
	if overlay.ServiceURL != "" {
		c.ServiceURL = overlay.ServiceURL
	}
	if overlay.MaxRetries != 0 {
		c.MaxRetries = overlay.MaxRetries
	}
}
