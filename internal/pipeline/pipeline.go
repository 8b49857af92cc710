// Package pipeline drives entries from pending to complete: each claimed
// entry is downloaded, extracted by the model, validated, and its result
// persisted. Extraction and validation run under separate concurrency
// limits, and a failing entry never stops its siblings.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/JaimeStill/assay/internal/entries"
	"github.com/JaimeStill/assay/internal/extraction"
	"github.com/JaimeStill/assay/internal/prompts"
	"github.com/JaimeStill/assay/internal/results"
	"github.com/JaimeStill/assay/internal/verdict"
	"github.com/JaimeStill/assay/pkg/lifecycle"
)

// Failure names an entry that could not be processed and why.
type Failure struct {
	EntryID  uuid.UUID `json:"entry_id"`
	Filename string    `json:"filename"`
	Reason   string    `json:"reason"`
}

// Summary reports the outcome of one run.
type Summary struct {
	Pending    int                  `json:"pending"`
	Completed  int                  `json:"completed"`
	Failed     int                  `json:"failed"`
	Skipped    int                  `json:"skipped"`
	Verdicts   map[verdict.Type]int `json:"verdicts"`
	Failures   []Failure            `json:"failures,omitempty"`
	DurationMS int64                `json:"duration_ms"`
}

type Pipeline struct {
	rt       Runtime
	logger   *slog.Logger
	extract  *semaphore.Weighted
	validate *semaphore.Weighted
	running  atomic.Bool
}

func New(rt Runtime) *Pipeline {
	return &Pipeline{
		rt:       rt,
		logger:   rt.Logger.With("system", "pipeline"),
		extract:  semaphore.NewWeighted(int64(rt.Config.ExtractionLimit)),
		validate: semaphore.NewWeighted(int64(rt.Config.ValidationLimit)),
	}
}

func (p *Pipeline) Handler() *Handler {
	return NewHandler(p, p.logger)
}

// Run processes one batch of pending entries. Entry failures are recorded
// in the summary and on the entry itself; the returned error is reserved
// for failures of the run as a whole.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	if !p.running.CompareAndSwap(false, true) {
		return Summary{}, ErrRunning
	}
	defer p.running.Store(false)

	start := time.Now()
	summary := Summary{Verdicts: make(map[verdict.Type]int)}

	pending, err := p.rt.Entries.Pending(ctx, p.rt.Config.AttemptsLimit, p.rt.Config.BatchSize)
	if err != nil {
		return summary, fmt.Errorf("list pending entries: %w", err)
	}
	summary.Pending = len(pending)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)

	for _, e := range pending {
		g.Go(func() error {
			res, err := p.process(gctx, e)

			mu.Lock()
			defer mu.Unlock()

			switch {
			case errors.Is(err, entries.ErrInProgress):
				summary.Skipped++
			case err != nil:
				summary.Failed++
				summary.Failures = append(summary.Failures, Failure{
					EntryID:  e.ID,
					Filename: e.Filename,
					Reason:   err.Error(),
				})
			default:
				summary.Completed++
				summary.Verdicts[res.VerdictType]++
			}
			return nil
		})
	}

	g.Wait()
	summary.DurationMS = time.Since(start).Milliseconds()

	p.logger.Info("pipeline run complete",
		"pending", summary.Pending,
		"completed", summary.Completed,
		"failed", summary.Failed,
		"skipped", summary.Skipped,
		"duration", time.Since(start),
	)

	return summary, ctx.Err()
}

// Process runs a single entry regardless of its attempt count. Entries
// already being processed are rejected with entries.ErrInProgress.
func (p *Pipeline) Process(ctx context.Context, id uuid.UUID) (*results.Result, error) {
	e, err := p.rt.Entries.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	return p.process(ctx, *e)
}

func (p *Pipeline) process(ctx context.Context, e entries.Entry) (*results.Result, error) {
	claimed, err := p.rt.Entries.MarkProcessing(ctx, e.ID)
	if err != nil {
		return nil, err
	}

	logger := p.logger.With("entry_id", e.ID, "filename", e.Filename, "attempt", claimed.Attempts)

	res, err := p.run(ctx, *claimed)
	if err != nil {
		logger.Warn("entry failed", "error", err)

		mctx, cancel := detached(ctx)
		defer cancel()
		if merr := p.rt.Entries.MarkFailed(mctx, e.ID, err.Error()); merr != nil {
			logger.Error("mark entry failed", "error", merr)
		}
		return nil, err
	}

	if err := p.rt.Entries.MarkComplete(ctx, e.ID); err != nil {
		return nil, fmt.Errorf("mark complete: %w", err)
	}

	logger.Info("entry processed",
		"verdict_type", res.VerdictType,
		"requires_human_verification", res.RequiresHumanVerification,
	)
	return res, nil
}

func (p *Pipeline) run(ctx context.Context, e entries.Entry) (*results.Result, error) {
	data, err := p.rt.Storage.ReadAll(ctx, e.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", e.StorageKey, err)
	}

	dt, err := prompts.ParseDocumentType(e.DocumentType)
	if err != nil {
		return nil, err
	}

	if err := p.extract.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	rec, err := p.rt.Extractor.Extract(ctx, extraction.Request{
		DocumentType: dt,
		Filename:     e.Filename,
		Data:         data,
	})
	p.extract.Release(1)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}

	if err := p.validate.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	report, err := p.rt.Validator.Validate(rec)
	p.validate.Release(1)
	if err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	res, err := p.rt.Results.Save(ctx, results.SaveCommand{
		EntryID:      e.ID,
		DocumentType: string(dt),
		ModelName:    p.rt.Extractor.Model(),
		Record:       rec,
		Report:       report,
	})
	if err != nil {
		return nil, fmt.Errorf("save result: %w", err)
	}
	return res, nil
}

// Start requeues entries interrupted by a previous shutdown and, when an
// interval is configured, runs the pipeline on that interval until the
// coordinator shuts down.
func (p *Pipeline) Start(lc *lifecycle.Coordinator) {
	ctx := lc.Context()

	if p.rt.StaleAfter > 0 {
		lc.OnStartup(func() {
			n, err := p.rt.Entries.Requeue(ctx, p.rt.StaleAfter)
			if err != nil {
				p.logger.Error("requeue stale entries", "error", err)
				return
			}
			if n > 0 {
				p.logger.Info("stale entries requeued", "count", n)
			}
		})
	}

	interval := p.rt.Config.IntervalDuration()
	if interval <= 0 {
		return
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := p.Run(ctx); err != nil && !errors.Is(err, ErrRunning) && ctx.Err() == nil {
					p.logger.Error("scheduled run failed", "error", err)
				}
			}
		}
	}()

	lc.OnShutdown(func() {
		<-ctx.Done()
		<-done
		p.logger.Info("pipeline runner stopped")
	})

	p.logger.Info("pipeline runner started", "interval", interval)
}
