package main

import (
	"context"
	"fmt"

	"github.com/JaimeStill/assay/internal/api"
	"github.com/JaimeStill/assay/internal/config"
	"github.com/JaimeStill/assay/internal/infrastructure"
)

// session is a started infrastructure and the domain systems built on it,
// for commands that reach the database, blob storage, or the model.
type session struct {
	cfg    *config.Config
	infra  *infrastructure.Infrastructure
	domain *api.Domain
}

func openSession(ctx context.Context, a *app) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	infra, err := infrastructure.New(cfg, a.logger)
	if err != nil {
		return nil, err
	}

	if err := infra.Start(); err != nil {
		return nil, err
	}

	infra.Lifecycle.WaitForStartup()
	s := &session{cfg: cfg, infra: infra}

	if !infra.Lifecycle.Ready() {
		status := infra.Lifecycle.Status()
		s.close()
		return nil, fmt.Errorf("infrastructure not ready: %v", status)
	}

	domain, err := api.NewDomain(ctx, api.NewRuntime(cfg, infra))
	if err != nil {
		s.close()
		return nil, err
	}
	s.domain = domain
	return s, nil
}

func (s *session) close() {
	if err := s.infra.Lifecycle.Shutdown(s.cfg.ShutdownTimeoutDuration()); err != nil {
		s.infra.Logger.Error("shutdown incomplete", "error", err)
	}
}
