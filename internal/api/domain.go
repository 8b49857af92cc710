package api

import (
	"context"

	"github.com/JaimeStill/assay/internal/entries"
	"github.com/JaimeStill/assay/internal/extraction"
	"github.com/JaimeStill/assay/internal/pipeline"
	"github.com/JaimeStill/assay/internal/prompts"
	"github.com/JaimeStill/assay/internal/results"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Entries  entries.System
	Results  results.System
	Prompts  prompts.System
	Pipeline *pipeline.Pipeline
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(ctx context.Context, runtime *Runtime) (*Domain, error) {
	db := runtime.Database.Connection()

	entriesSystem := entries.New(db, runtime.Storage, runtime.Logger, runtime.Pagination)
	resultsSystem := results.New(db, runtime.Logger, runtime.Pagination)
	promptsSystem := prompts.New(db, runtime.Logger, runtime.Pagination)

	extractor, err := extraction.New(ctx, &runtime.Extraction, promptsSystem, runtime.Storage, runtime.Logger)
	if err != nil {
		return nil, err
	}

	p := pipeline.New(pipeline.Runtime{
		Config:     runtime.Pipeline,
		Entries:    entriesSystem,
		Results:    resultsSystem,
		Storage:    runtime.Storage,
		Extractor:  extractor,
		Validator:  runtime.Validator,
		Logger:     runtime.Logger,
		StaleAfter: 2 * runtime.Extraction.TimeoutDuration(),
	})

	return &Domain{
		Entries:  entriesSystem,
		Results:  resultsSystem,
		Prompts:  promptsSystem,
		Pipeline: p,
	}, nil
}
