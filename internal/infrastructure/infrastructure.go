// Package infrastructure assembles the systems shared by the server and
// the CLI: lifecycle coordination, logging, database, blob storage, and
// the validator built from the configured rule tables.
package infrastructure

import (
	"fmt"
	"log/slog"

	"github.com/JaimeStill/assay/internal/config"
	"github.com/JaimeStill/assay/internal/inspection"
	"github.com/JaimeStill/assay/internal/rules"
	"github.com/JaimeStill/assay/pkg/database"
	"github.com/JaimeStill/assay/pkg/lifecycle"
	"github.com/JaimeStill/assay/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
	Rules     *rules.Table
	Validator *inspection.Validator
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config, logger *slog.Logger) (*Infrastructure, error) {
	table, nc, err := LoadRules(&cfg.Rules)
	if err != nil {
		return nil, fmt.Errorf("rules init failed: %w", err)
	}
	logRules(logger, table, nc)

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lifecycle.New(),
		Logger:    logger,
		Database:  db,
		Storage:   store,
		Rules:     table,
		Validator: inspection.NewValidator(table, nc),
	}, nil
}

// Start registers database and storage with the lifecycle coordinator and
// tracks their readiness.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}

	i.Lifecycle.Track("database", i.Database)
	i.Lifecycle.Track("storage", i.Storage)
	return nil
}
