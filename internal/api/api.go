// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/JaimeStill/assay/internal/config"
	"github.com/JaimeStill/assay/internal/infrastructure"
	"github.com/JaimeStill/assay/pkg/middleware"
	"github.com/JaimeStill/assay/pkg/module"
	"github.com/JaimeStill/assay/pkg/routes"
)

// NewModule creates the API module with all domain handlers and middleware,
// and registers the background pipeline runner with the lifecycle.
func NewModule(ctx context.Context, cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)

	domain, err := NewDomain(ctx, runtime)
	if err != nil {
		return nil, fmt.Errorf("api domain: %w", err)
	}

	groups := routeGroups(domain, cfg, runtime)

	mux := http.NewServeMux()
	patterns := routes.Register(mux, groups...)
	runtime.Logger.Debug("routes registered", "count", len(patterns), "patterns", patterns)

	spec, err := SpecHandler(cfg, groups)
	if err != nil {
		return nil, err
	}
	mux.HandleFunc("GET /openapi.json", spec)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))

	if cfg.API.Auth.Enabled {
		verifier, err := middleware.NewOIDCVerifier(ctx, &cfg.API.Auth)
		if err != nil {
			return nil, fmt.Errorf("api auth: %w", err)
		}
		m.Use(middleware.Auth(verifier, runtime.Logger))
	}

	domain.Pipeline.Start(runtime.Lifecycle)
	return m, nil
}
