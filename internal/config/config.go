// Package config loads the service configuration from TOML files and
// ASSAY_* environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/assay/pkg/database"
	"github.com/JaimeStill/assay/pkg/env"
	"github.com/JaimeStill/assay/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvAssayEnv             = "ASSAY_ENV"
	EnvAssayConfig          = "ASSAY_CONFIG"
	EnvAssayShutdownTimeout = "ASSAY_SHUTDOWN_TIMEOUT"
	EnvAssayVersion         = "ASSAY_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "ASSAY_DB_HOST",
	Port:            "ASSAY_DB_PORT",
	Name:            "ASSAY_DB_NAME",
	User:            "ASSAY_DB_USER",
	Password:        "ASSAY_DB_PASSWORD",
	SSLMode:         "ASSAY_DB_SSL_MODE",
	ApplicationName: "ASSAY_DB_APPLICATION_NAME",
	MaxOpenConns:    "ASSAY_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "ASSAY_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "ASSAY_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "ASSAY_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "ASSAY_STORAGE_CONTAINER_NAME",
	ConnectionString: "ASSAY_STORAGE_CONNECTION_STRING",
	ServiceURL:       "ASSAY_STORAGE_SERVICE_URL",
	MaxRetries:       "ASSAY_STORAGE_MAX_RETRIES",
}

// Config is the root configuration.
type Config struct {
	Server          ServerConfig     `toml:"server"`
	Database        database.Config  `toml:"database"`
	Storage         storage.Config   `toml:"storage"`
	API             APIConfig        `toml:"api"`
	Extraction      ExtractionConfig `toml:"extraction"`
	Pipeline        PipelineConfig   `toml:"pipeline"`
	Rules           RulesConfig      `toml:"rules"`
	ShutdownTimeout string           `toml:"shutdown_timeout"`
	Version         string           `toml:"version"`
}

// Env returns ASSAY_ENV, defaulting to "local".
func (c *Config) Env() string {
	if e := os.Getenv(EnvAssayEnv); e != "" {
		return e
	}
	return "local"
}

func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base file when present, merges the ASSAY_ENV overlay,
// and finalizes every section.
func Load() (*Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}
	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}
	return cfg, nil
}

// LoadRules reads the same files as Load but finalizes only the rules
// section, for offline commands that need no database, storage, or model.
func LoadRules() (*RulesConfig, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}
	if err := cfg.Rules.Finalize(); err != nil {
		return nil, fmt.Errorf("rules: %w", err)
	}
	return &cfg.Rules, nil
}

func (c *Config) Merge(overlay *Config) {
	mergeString(&c.ShutdownTimeout, overlay.ShutdownTimeout)
	mergeString(&c.Version, overlay.Version)
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.Extraction.Merge(&overlay.Extraction)
	c.Pipeline.Merge(&overlay.Pipeline)
	c.Rules.Merge(&overlay.Rules)
}

func (c *Config) finalize() error {
	defaultString(&c.ShutdownTimeout, "30s")
	defaultString(&c.Version, "0.1.0")
	env.String(&c.ShutdownTimeout, EnvAssayShutdownTimeout)
	env.String(&c.Version, EnvAssayVersion)

	if err := durations(map[string]string{"shutdown_timeout": c.ShutdownTimeout}); err != nil {
		return err
	}

	sections := []struct {
		name     string
		finalize func() error
	}{
		{"server", c.Server.Finalize},
		{"database", func() error { return c.Database.Finalize(databaseEnv) }},
		{"storage", func() error { return c.Storage.Finalize(storageEnv) }},
		{"api", c.API.Finalize},
		{"extraction", c.Extraction.Finalize},
		{"pipeline", c.Pipeline.Finalize},
		{"rules", c.Rules.Finalize},
	}
	for _, s := range sections {
		if err := s.finalize(); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}

func read() (*Config, error) {
	cfg := &Config{}

	base := BaseConfigFile
	env.String(&base, EnvAssayConfig)

	if _, err := os.Stat(base); err == nil {
		loaded, err := load(base)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}
	return cfg, nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

func overlayPath() string {
	e := os.Getenv(EnvAssayEnv)
	if e == "" {
		return ""
	}
	path := fmt.Sprintf(OverlayConfigPattern, e)
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}
