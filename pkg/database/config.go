package database

import (
	"fmt"
	"time"

	"github.com/JaimeStill/assay/pkg/env"
)

// Config holds PostgreSQL connection parameters.
type Config struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	Name            string `toml:"name"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	SSLMode         string `toml:"ssl_mode"`
	ApplicationName string `toml:"application_name"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime string `toml:"conn_max_lifetime"`
	ConnTimeout     string `toml:"conn_timeout"`
}

// Env maps config fields to environment variable names.
type Env struct {
	Host            string
	Port            string
	Name            string
	User            string
	Password        string
	SSLMode         string
	ApplicationName string
	MaxOpenConns    string
	MaxIdleConns    string
	ConnMaxLifetime string
	ConnTimeout     string
}

func (c *Config) ConnMaxLifetimeDuration() time.Duration {
	d, _ := time.ParseDuration(c.ConnMaxLifetime)
	return d
}

func (c *Config) ConnTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ConnTimeout)
	return d
}

// Dsn returns a libpq style connection string understood by pgx.
func (c *Config) Dsn() string {
	dsn := fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		c.Host, c.Port, c.Name, c.User, c.Password, c.SSLMode,
	)
	if c.ApplicationName != "" {
		dsn += " application_name=" + c.ApplicationName
	}
	return dsn
}

// URL returns the connection as a postgres:// URL, the form expected by
// golang-migrate.
func (c *Config) URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode,
	)
}

// Finalize applies defaults, environment overrides, and validation.
func (c *Config) Finalize(e *Env) error {
	c.loadDefaults()
	if e != nil {
		c.loadEnv(e)
	}
	return c.validate()
}

// Merge overwrites fields set in overlay.
func (c *Config) Merge(overlay *Config) {
	mergeString(&c.Host, overlay.Host)
	mergeString(&c.Name, overlay.Name)
	mergeString(&c.User, overlay.User)
	mergeString(&c.Password, overlay.Password)
	mergeString(&c.SSLMode, overlay.SSLMode)
	mergeString(&c.ApplicationName, overlay.ApplicationName)
	mergeString(&c.ConnMaxLifetime, overlay.ConnMaxLifetime)
	mergeString(&c.ConnTimeout, overlay.ConnTimeout)

	if overlay.Port != 0 {
		c.Port = overlay.Port
	}
	if overlay.MaxOpenConns != 0 {
		c.MaxOpenConns = overlay.MaxOpenConns
	}
	if overlay.MaxIdleConns != 0 {
		c.MaxIdleConns = overlay.MaxIdleConns
	}
}

func mergeString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func (c *Config) loadDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 5432
	}
	if c.SSLMode == "" {
		c.SSLMode = "disable"
	}
	if c.MaxOpenConns == 0 {
		c.MaxOpenConns = 25
	}
	if c.MaxIdleConns == 0 {
		c.MaxIdleConns = 5
	}
	if c.ConnMaxLifetime == "" {
		c.ConnMaxLifetime = "15m"
	}
	if c.ConnTimeout == "" {
		c.ConnTimeout = "5s"
	}
}

func (c *Config) loadEnv(e *Env) {
	env.String(&c.Host, e.Host)
	env.Int(&c.Port, e.Port)
	env.String(&c.Name, e.Name)
	env.String(&c.User, e.User)
	env.String(&c.Password, e.Password)
	env.String(&c.SSLMode, e.SSLMode)
	env.String(&c.ApplicationName, e.ApplicationName)
	env.Int(&c.MaxOpenConns, e.MaxOpenConns)
	env.Int(&c.MaxIdleConns, e.MaxIdleConns)
	env.String(&c.ConnMaxLifetime, e.ConnMaxLifetime)
	env.String(&c.ConnTimeout, e.ConnTimeout)
}

func (c *Config) validate() error {
	if c.Name == "" {
		return fmt.Errorf("name required")
	}
	if c.User == "" {
		return fmt.Errorf("user required")
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		return fmt.Errorf("max_idle_conns (%d) exceeds max_open_conns (%d)", c.MaxIdleConns, c.MaxOpenConns)
	}
	if _, err := time.ParseDuration(c.ConnMaxLifetime); err != nil {
		return fmt.Errorf("invalid conn_max_lifetime: %w", err)
	}
	if _, err := time.ParseDuration(c.ConnTimeout); err != nil {
		return fmt.Errorf("invalid conn_timeout: %w", err)
	}
	return nil
}
