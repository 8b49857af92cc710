package config

import (
	"fmt"

	"github.com/JaimeStill/assay/pkg/env"
	"github.com/JaimeStill/assay/pkg/formatting"
	"github.com/JaimeStill/assay/pkg/middleware"
	"github.com/JaimeStill/assay/pkg/openapi"
	"github.com/JaimeStill/assay/pkg/pagination"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "ASSAY_CORS_ENABLED",
	Origins:          "ASSAY_CORS_ORIGINS",
	AllowedMethods:   "ASSAY_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "ASSAY_CORS_ALLOWED_HEADERS",
	AllowCredentials: "ASSAY_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "ASSAY_CORS_MAX_AGE",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "ASSAY_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "ASSAY_PAGINATION_MAX_PAGE_SIZE",
}

var openapiEnv = &openapi.ConfigEnv{
	Title:       "ASSAY_API_OPENAPI_TITLE",
	Description: "ASSAY_API_OPENAPI_DESCRIPTION",
}

var authEnv = &middleware.AuthEnv{
	Enabled:  "ASSAY_AUTH_ENABLED",
	Issuer:   "ASSAY_AUTH_ISSUER",
	ClientID: "ASSAY_AUTH_CLIENT_ID",
}

// APIConfig holds the API module settings.
type APIConfig struct {
	BasePath      string                `toml:"base_path"`
	MaxUploadSize string                `toml:"max_upload_size"`
	CORS          middleware.CORSConfig `toml:"cors"`
	Pagination    pagination.Config     `toml:"pagination"`
	Auth          middleware.AuthConfig `toml:"auth"`
	OpenAPI       openapi.Config        `toml:"openapi"`
}

// MaxUploadSizeBytes is validated by Finalize.
func (c *APIConfig) MaxUploadSizeBytes() int64 {
	size, _ := formatting.ParseBytes(c.MaxUploadSize)
	return size
}

func (c *APIConfig) Finalize() error {
	defaultString(&c.BasePath, "/api")
	defaultString(&c.MaxUploadSize, "50MB")

	env.String(&c.BasePath, "ASSAY_API_BASE_PATH")
	env.String(&c.MaxUploadSize, "ASSAY_API_MAX_UPLOAD_SIZE")

	if size, err := formatting.ParseBytes(c.MaxUploadSize); err != nil || size <= 0 {
		return fmt.Errorf("invalid max_upload_size %q", c.MaxUploadSize)
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	if err := c.Auth.Finalize(authEnv); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	return c.OpenAPI.Finalize(openapiEnv)
}

func (c *APIConfig) Merge(overlay *APIConfig) {
	mergeString(&c.BasePath, overlay.BasePath)
	mergeString(&c.MaxUploadSize, overlay.MaxUploadSize)
	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
	c.Auth.Merge(&overlay.Auth)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}
