package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/assay/internal/config"
	"github.com/JaimeStill/assay/internal/entries"
	"github.com/JaimeStill/assay/internal/extraction"
	"github.com/JaimeStill/assay/internal/fri"
	"github.com/JaimeStill/assay/internal/fri/fritest"
	"github.com/JaimeStill/assay/internal/inspection"
	"github.com/JaimeStill/assay/internal/pipeline"
	"github.com/JaimeStill/assay/internal/results"
	"github.com/JaimeStill/assay/internal/rules"
	"github.com/JaimeStill/assay/internal/verdict"
	"github.com/JaimeStill/assay/pkg/lifecycle"
	"github.com/JaimeStill/assay/pkg/storage/storagetest"
)

type fakeEntries struct {
	entries.System
	mu    sync.Mutex
	items map[uuid.UUID]*entries.Entry
	order []uuid.UUID
}

func (f *fakeEntries) add(filename string, status entries.Status) uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.New()
	f.items[id] = &entries.Entry{
		ID:           id,
		DocumentType: entries.DefaultDocumentType,
		Filename:     filename,
		StorageKey:   "entries/" + id.String() + "/" + filename,
		Status:       status,
		UpdatedAt:    time.Now().Add(-time.Hour),
	}
	f.order = append(f.order, id)
	return id
}

func (f *fakeEntries) get(id uuid.UUID) entries.Entry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.items[id]
}

func (f *fakeEntries) Find(_ context.Context, id uuid.UUID) (*entries.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.items[id]
	if !ok {
		return nil, entries.ErrNotFound
	}
	c := *e
	return &c, nil
}

func (f *fakeEntries) Pending(_ context.Context, attemptsLimit, limit int) ([]entries.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entries.Entry
	for _, id := range f.order {
		e := f.items[id]
		if e.Status == entries.StatusPending || (e.Status == entries.StatusError && e.Attempts < attemptsLimit) {
			out = append(out, *e)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeEntries) MarkProcessing(_ context.Context, id uuid.UUID) (*entries.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.items[id]
	if !ok {
		return nil, entries.ErrNotFound
	}
	if e.Status == entries.StatusProcessing {
		return nil, entries.ErrInProgress
	}
	e.Status = entries.StatusProcessing
	e.Attempts++
	c := *e
	return &c, nil
}

func (f *fakeEntries) MarkComplete(_ context.Context, id uuid.UUID) error {
	return f.set(id, entries.StatusComplete, nil)
}

func (f *fakeEntries) MarkFailed(_ context.Context, id uuid.UUID, reason string) error {
	return f.set(id, entries.StatusError, &reason)
}

func (f *fakeEntries) Requeue(_ context.Context, olderThan time.Duration) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, e := range f.items {
		if e.Status == entries.StatusProcessing && time.Since(e.UpdatedAt) > olderThan {
			e.Status = entries.StatusError
			n++
		}
	}
	return n, nil
}

func (f *fakeEntries) set(id uuid.UUID, status entries.Status, reason *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.items[id]
	if !ok {
		return entries.ErrNotFound
	}
	e.Status = status
	e.LastError = reason
	return nil
}

type fakeResults struct {
	results.System
	mu    sync.Mutex
	saved map[uuid.UUID]results.SaveCommand
}

func (f *fakeResults) Save(_ context.Context, cmd results.SaveCommand) (*results.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved[cmd.EntryID] = cmd
	v := cmd.Report.Verdict
	return &results.Result{
		ID:                        uuid.New(),
		EntryID:                   cmd.EntryID,
		LabResult:                 v.LabResult,
		ComputedResult:            v.ComputedResult,
		VerdictType:               v.Type,
		RequiresHumanVerification: v.RequiresHumanVerification,
		ModelName:                 cmd.ModelName,
	}, nil
}

// fakeExtractor answers by filename and tracks peak concurrency.
type fakeExtractor struct {
	records map[string]fri.Record
	errs    map[string]error
	delay   time.Duration
	active  atomic.Int32
	peak    atomic.Int32
}

func (f *fakeExtractor) Model() string { return "fake-model" }

func (f *fakeExtractor) Extract(_ context.Context, req extraction.Request) (*fri.Record, error) {
	n := f.active.Add(1)
	defer f.active.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(f.delay)

	if err, ok := f.errs[req.Filename]; ok {
		return nil, err
	}
	rec, ok := f.records[req.Filename]
	if !ok {
		return nil, errors.New("unknown document")
	}
	return &rec, nil
}

type harness struct {
	pipeline  *pipeline.Pipeline
	entries   *fakeEntries
	results   *fakeResults
	extractor *fakeExtractor
	store     *storagetest.Memory
}

func newHarness(t *testing.T, cfg config.PipelineConfig) *harness {
	t.Helper()
	table, err := rules.Default()
	require.NoError(t, err)

	h := &harness{
		entries: &fakeEntries{items: map[uuid.UUID]*entries.Entry{}},
		results: &fakeResults{saved: map[uuid.UUID]results.SaveCommand{}},
		extractor: &fakeExtractor{
			records: map[string]fri.Record{},
			errs:    map[string]error{},
		},
		store: storagetest.New(),
	}
	h.pipeline = pipeline.New(pipeline.Runtime{
		Config:     cfg,
		Entries:    h.entries,
		Results:    h.results,
		Storage:    h.store,
		Extractor:  h.extractor,
		Validator:  inspection.NewValidator(table, nil),
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		StaleAfter: time.Minute,
	})
	return h
}

func (h *harness) register(filename string, rec *fri.Record, err error) uuid.UUID {
	id := h.entries.add(filename, entries.StatusPending)
	h.store.Put(h.entries.get(id).StorageKey, []byte("%PDF-1.7"))
	if rec != nil {
		h.extractor.records[filename] = *rec
	}
	if err != nil {
		h.extractor.errs[filename] = err
	}
	return id
}

func defaultConfig() config.PipelineConfig {
	return config.PipelineConfig{
		ExtractionLimit: 4,
		ValidationLimit: 4,
		AttemptsLimit:   3,
		BatchSize:       100,
		Interval:        "0",
	}
}

func TestRunMixedBatch(t *testing.T) {
	h := newHarness(t, defaultConfig())

	conforming, failing := fritest.Conforming(), fritest.Failing()
	pass := h.register("pass.pdf", &conforming, nil)
	falsePass := h.register("false-pass.pdf", &failing, nil)
	broken := h.register("broken.pdf", nil, &fri.ContractError{Violations: []fri.Violation{
		{Field: "report.laboratory", Message: "required"},
	}})

	summary, err := h.pipeline.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Pending)
	assert.Equal(t, 2, summary.Completed)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Verdicts[verdict.TruePass])
	assert.Equal(t, 1, summary.Verdicts[verdict.FalsePass])
	require.Len(t, summary.Failures, 1)
	assert.Equal(t, broken, summary.Failures[0].EntryID)

	assert.Equal(t, entries.StatusComplete, h.entries.get(pass).Status)
	assert.Equal(t, entries.StatusComplete, h.entries.get(falsePass).Status)

	e := h.entries.get(broken)
	assert.Equal(t, entries.StatusError, e.Status)
	require.NotNil(t, e.LastError)
	assert.Contains(t, *e.LastError, "report.laboratory")

	saved := h.results.saved[falsePass]
	assert.Equal(t, "fake-model", saved.ModelName)
	assert.Equal(t, "FRI", saved.DocumentType)
	assert.True(t, saved.Report.Verdict.RequiresHumanVerification)
}

func TestRunRetriesUntilAttemptsLimit(t *testing.T) {
	cfg := defaultConfig()
	cfg.AttemptsLimit = 2
	h := newHarness(t, cfg)

	id := h.register("flaky.pdf", nil, errors.New("model unavailable"))

	for range 2 {
		summary, err := h.pipeline.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Failed)
	}

	summary, err := h.pipeline.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, summary.Pending)

	e := h.entries.get(id)
	assert.Equal(t, entries.StatusError, e.Status)
	assert.Equal(t, 2, e.Attempts)
}

func TestRunBoundsExtractionConcurrency(t *testing.T) {
	cfg := defaultConfig()
	cfg.ExtractionLimit = 2
	h := newHarness(t, cfg)
	h.extractor.delay = 20 * time.Millisecond

	rec := fritest.Conforming()
	for _, name := range []string{"a.pdf", "b.pdf", "c.pdf", "d.pdf", "e.pdf", "f.pdf"} {
		h.register(name, &rec, nil)
	}

	summary, err := h.pipeline.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, summary.Completed)
	assert.LessOrEqual(t, h.extractor.peak.Load(), int32(2))
}

func TestRunMissingBlob(t *testing.T) {
	h := newHarness(t, defaultConfig())
	id := h.entries.add("lost.pdf", entries.StatusPending)

	summary, err := h.pipeline.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, entries.StatusError, h.entries.get(id).Status)
}

func TestProcess(t *testing.T) {
	h := newHarness(t, defaultConfig())
	rec := fritest.Conforming()
	id := h.register("one.pdf", &rec, nil)

	res, err := h.pipeline.Process(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, verdict.TruePass, res.VerdictType)

	_, err = h.pipeline.Process(context.Background(), uuid.New())
	assert.ErrorIs(t, err, entries.ErrNotFound)

	busy := h.entries.add("busy.pdf", entries.StatusProcessing)
	_, err = h.pipeline.Process(context.Background(), busy)
	assert.ErrorIs(t, err, entries.ErrInProgress)
}

func TestProcessLookupMiss(t *testing.T) {
	h := newHarness(t, defaultConfig())
	rec := fritest.Conforming()
	rec.Commands.Total.TotalQuantity.OrderQuantity = 0
	rec.AQL.General.MaximumAllowed = nil
	id := h.register("tiny.pdf", &rec, nil)

	_, err := h.pipeline.Process(context.Background(), id)
	assert.ErrorIs(t, err, rules.ErrNoBracket)
	assert.Equal(t, entries.StatusError, h.entries.get(id).Status)
}

func TestStart(t *testing.T) {
	cfg := defaultConfig()
	cfg.Interval = "10ms"
	h := newHarness(t, cfg)

	stale := h.entries.add("stale.pdf", entries.StatusProcessing)
	rec := fritest.Conforming()
	id := h.register("scheduled.pdf", &rec, nil)

	lc := lifecycle.New()
	h.pipeline.Start(lc)
	lc.WaitForStartup()

	assert.Eventually(t, func() bool {
		return h.entries.get(id).Status == entries.StatusComplete
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, lc.Shutdown(time.Second))
	assert.NotEqual(t, entries.StatusProcessing, h.entries.get(stale).Status)
}
