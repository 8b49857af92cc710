package main

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/JaimeStill/assay/internal/api"
	"github.com/JaimeStill/assay/internal/config"
	"github.com/JaimeStill/assay/internal/infrastructure"
	"github.com/JaimeStill/assay/pkg/module"
)

type Modules struct {
	API *module.Module
}

func NewModules(ctx context.Context, infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, err := api.NewModule(ctx, cfg, infra)
	if err != nil {
		return nil, err
	}

	return &Modules{API: apiModule}, nil
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
}

func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()

	router.Handle("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, map[string]any{"status": "ok"})
	})

	router.Handle("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		body := map[string]any{"subsystems": infra.Lifecycle.Status()}
		if !infra.Lifecycle.Ready() {
			body["status"] = "not ready"
			writeStatus(w, http.StatusServiceUnavailable, body)
			return
		}
		body["status"] = "ready"
		writeStatus(w, http.StatusOK, body)
	})

	return router
}

func writeStatus(w http.ResponseWriter, status int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
