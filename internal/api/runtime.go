package api

import (
	"github.com/JaimeStill/assay/internal/config"
	"github.com/JaimeStill/assay/internal/infrastructure"
	"github.com/JaimeStill/assay/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
	Pipeline   config.PipelineConfig
	Extraction config.ExtractionConfig
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Storage:   infra.Storage,
			Rules:     infra.Rules,
			Validator: infra.Validator,
		},
		Pagination: cfg.API.Pagination,
		Pipeline:   cfg.Pipeline,
		Extraction: cfg.Extraction,
	}
}

