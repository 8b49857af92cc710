package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/JaimeStill/assay/internal/config"
	"github.com/JaimeStill/assay/internal/entries"
	"github.com/JaimeStill/assay/internal/extraction"
	"github.com/JaimeStill/assay/internal/fri"
	"github.com/JaimeStill/assay/internal/inspection"
	"github.com/JaimeStill/assay/internal/results"
	"github.com/JaimeStill/assay/pkg/storage"
)

// Validator reviews an extraction record. *inspection.Validator satisfies it.
type Validator interface {
	Validate(rec *fri.Record) (*inspection.Report, error)
}

// Runtime bundles the systems a pipeline run touches. It is assembled by
// the server and the CLI from their own infrastructure.
type Runtime struct {
	Config    config.PipelineConfig
	Entries   entries.System
	Results   results.System
	Storage   storage.System
	Extractor extraction.Extractor
	Validator Validator
	Logger    *slog.Logger

	// StaleAfter is how long an entry may sit in processing before a
	// restart returns it to the retry queue. Zero disables requeueing.
	StaleAfter time.Duration
}

// markTimeout bounds status writes made after the run context is gone.
const markTimeout = 10 * time.Second

func detached(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), markTimeout)
}
