package config

import (
	"fmt"
	"slices"
	"time"

	"github.com/JaimeStill/assay/pkg/env"
)

// ServerConfig holds HTTP listener parameters.
type ServerConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	ReadTimeout     string `toml:"read_timeout"`
	WriteTimeout    string `toml:"write_timeout"`
	ShutdownTimeout string `toml:"shutdown_timeout"`
	LogLevel        string `toml:"log_level"`
	LogFormat       string `toml:"log_format"`
}

func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c *ServerConfig) ReadTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ReadTimeout)
	return d
}

func (c *ServerConfig) WriteTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.WriteTimeout)
	return d
}

func (c *ServerConfig) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Finalize applies defaults, environment overrides, and validation.
func (c *ServerConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

func (c *ServerConfig) Merge(overlay *ServerConfig) {
	mergeString(&c.Host, overlay.Host)
	mergeString(&c.ReadTimeout, overlay.ReadTimeout)
	mergeString(&c.WriteTimeout, overlay.WriteTimeout)
	mergeString(&c.ShutdownTimeout, overlay.ShutdownTimeout)
	mergeString(&c.LogLevel, overlay.LogLevel)
	mergeString(&c.LogFormat, overlay.LogFormat)
	if overlay.Port != 0 {
		c.Port = overlay.Port
	}
}

func (c *ServerConfig) loadDefaults() {
	defaultString(&c.Host, "0.0.0.0")
	defaultString(&c.ReadTimeout, "1m")
	// extraction of a multi-page report can take minutes when processed inline
	defaultString(&c.WriteTimeout, "10m")
	defaultString(&c.ShutdownTimeout, "30s")
	defaultString(&c.LogLevel, "info")
	defaultString(&c.LogFormat, "text")
	if c.Port == 0 {
		c.Port = 8080
	}
}

func (c *ServerConfig) loadEnv() {
	env.String(&c.Host, "ASSAY_SERVER_HOST")
	env.Int(&c.Port, "ASSAY_SERVER_PORT")
	env.String(&c.ReadTimeout, "ASSAY_SERVER_READ_TIMEOUT")
	env.String(&c.WriteTimeout, "ASSAY_SERVER_WRITE_TIMEOUT")
	env.String(&c.ShutdownTimeout, "ASSAY_SERVER_SHUTDOWN_TIMEOUT")
	env.String(&c.LogLevel, "ASSAY_SERVER_LOG_LEVEL")
	env.String(&c.LogFormat, "ASSAY_SERVER_LOG_FORMAT")
}

func (c *ServerConfig) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if !slices.Contains([]string{"debug", "info", "warn", "error"}, c.LogLevel) {
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("invalid log_format %q", c.LogFormat)
	}
	return durations(map[string]string{
		"read_timeout":     c.ReadTimeout,
		"write_timeout":    c.WriteTimeout,
		"shutdown_timeout": c.ShutdownTimeout,
	})
}
