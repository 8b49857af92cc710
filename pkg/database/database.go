// Package database manages the PostgreSQL connection pool backing entries,
// results, and prompt overrides.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/JaimeStill/assay/pkg/lifecycle"
)

// System owns the connection pool and its lifecycle hooks.
type System interface {
	Connection() *sql.DB
	// Start pings the database once startup begins and closes the pool on shutdown.
	Start(lc *lifecycle.Coordinator) error
	// Ready reports whether the startup ping succeeded.
	Ready() bool
}

type database struct {
	conn        *sql.DB
	logger      *slog.Logger
	connTimeout time.Duration
	ready       atomic.Bool
}

// New opens a pgx-backed pool with the configured limits. No connection is
// made until Start runs.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	db, err := sql.Open("pgx", cfg.Dsn())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

	return &database{
		conn:        db,
		logger:      logger.With("system", "database"),
		connTimeout: cfg.ConnTimeoutDuration(),
	}, nil
}

func (d *database) Connection() *sql.DB {
	return d.conn
}

func (d *database) Ready() bool {
	return d.ready.Load()
}

func (d *database) Start(lc *lifecycle.Coordinator) error {
	lc.OnStartup(func() {
		ctx, cancel := context.WithTimeout(lc.Context(), d.connTimeout)
		defer cancel()

		if err := d.conn.PingContext(ctx); err != nil {
			d.logger.Error("database ping failed", "error", err)
			return
		}

		d.ready.Store(true)
		d.logger.Info("database connection established")
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		d.ready.Store(false)

		if err := d.conn.Close(); err != nil {
			d.logger.Error("database close failed", "error", err)
			return
		}
		d.logger.Info("database connection closed")
	})

	return nil
}
