package middleware

import (
	"fmt"

	"github.com/JaimeStill/assay/pkg/env"
)

// CORSConfig holds the CORS policy.
type CORSConfig struct {
	Enabled          bool     `toml:"enabled"`
	Origins          []string `toml:"origins"`
	AllowedMethods   []string `toml:"allowed_methods"`
	AllowedHeaders   []string `toml:"allowed_headers"`
	AllowCredentials bool     `toml:"allow_credentials"`
	MaxAge           int      `toml:"max_age"`
}

// CORSEnv maps CORS fields to environment variable names.
type CORSEnv struct {
	Enabled          string
	Origins          string
	AllowedMethods   string
	AllowedHeaders   string
	AllowCredentials string
	MaxAge           string
}

func (c *CORSConfig) Finalize(e *CORSEnv) error {
	if len(c.AllowedMethods) == 0 {
		c.AllowedMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	if len(c.AllowedHeaders) == 0 {
		c.AllowedHeaders = []string{"Content-Type", "Authorization"}
	}
	if c.MaxAge <= 0 {
		c.MaxAge = 3600
	}

	if e != nil {
		env.Bool(&c.Enabled, e.Enabled)
		env.List(&c.Origins, e.Origins)
		env.List(&c.AllowedMethods, e.AllowedMethods)
		env.List(&c.AllowedHeaders, e.AllowedHeaders)
		env.Bool(&c.AllowCredentials, e.AllowCredentials)
		env.Int(&c.MaxAge, e.MaxAge)
	}
	return nil
}

// Merge applies overlay. Booleans always apply; lists and MaxAge apply
// when set.
func (c *CORSConfig) Merge(overlay *CORSConfig) {
	c.Enabled = overlay.Enabled
	c.AllowCredentials = overlay.AllowCredentials

	if overlay.Origins != nil {
		c.Origins = overlay.Origins
	}
	if overlay.AllowedMethods != nil {
		c.AllowedMethods = overlay.AllowedMethods
	}
	if overlay.AllowedHeaders != nil {
		c.AllowedHeaders = overlay.AllowedHeaders
	}
	if overlay.MaxAge > 0 {
		c.MaxAge = overlay.MaxAge
	}
}

// AuthConfig enables bearer token verification against an OIDC issuer.
type AuthConfig struct {
	Enabled  bool   `toml:"enabled"`
	Issuer   string `toml:"issuer"`
	ClientID string `toml:"client_id"`
}

// AuthEnv maps auth fields to environment variable names.
type AuthEnv struct {
	Enabled  string
	Issuer   string
	ClientID string
}

func (c *AuthConfig) Finalize(e *AuthEnv) error {
	if e != nil {
		env.Bool(&c.Enabled, e.Enabled)
		env.String(&c.Issuer, e.Issuer)
		env.String(&c.ClientID, e.ClientID)
	}

	if !c.Enabled {
		return nil
	}
	if c.Issuer == "" {
		return fmt.Errorf("issuer required when auth is enabled")
	}
	if c.ClientID == "" {
		return fmt.Errorf("client_id required when auth is enabled")
	}
	return nil
}

func (c *AuthConfig) Merge(overlay *AuthConfig) {
	c.Enabled = overlay.Enabled
	if overlay.Issuer != "" {
		c.Issuer = overlay.Issuer
	}
	if overlay.ClientID != "" {
		c.ClientID = overlay.ClientID
	}
}
