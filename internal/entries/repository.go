package entries

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/JaimeStill/assay/pkg/pagination"
	"github.com/JaimeStill/assay/pkg/query"
	"github.com/JaimeStill/assay/pkg/repository"
	"github.com/JaimeStill/assay/pkg/storage"
)

type repo struct {
	db         *sql.DB
	storage    storage.System
	logger     *slog.Logger
	pagination pagination.Config
}

func New(db *sql.DB, store storage.System, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		storage:    store,
		logger:     logger.With("system", "entries"),
		pagination: pagination,
	}
}

func (r *repo) Handler(maxUploadSize int64) *Handler {
	return NewHandler(r, r.logger, r.pagination, maxUploadSize)
}

func (r *repo) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Entry], error) {
	page.Normalize(r.pagination)

	qb := query.NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "filename", "source_id")
	filters.Apply(qb)
	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	total, err := repository.Count(ctx, r.db, countSQL, countArgs)
	if err != nil {
		return nil, fmt.Errorf("count entries: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanEntry)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Entry, error) {
	q, args := query.NewBuilder(projection).BuildSingle("id", id)

	e, err := repository.QueryOne(ctx, r.db, q, args, scanEntry)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &e, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Entry, error) {
	pages, err := api.PageCount(bytes.NewReader(cmd.Data), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not a readable PDF: %v", ErrInvalidFile, cmd.Filename, err)
	}

	docType := strings.ToUpper(strings.TrimSpace(cmd.DocumentType))
	if docType == "" {
		docType = DefaultDocumentType
	}

	id := uuid.New()
	key := storageKey(id, cmd.Filename)

	if err := r.storage.Upload(ctx, key, bytes.NewReader(cmd.Data), "application/pdf"); err != nil {
		return nil, fmt.Errorf("upload report: %w", err)
	}

	q := `INSERT INTO entries (id, source_id, document_type, filename, storage_key, page_count, size_bytes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + returning

	args := []any{id, cmd.SourceID, docType, cmd.Filename, key, pages, int64(len(cmd.Data))}

	e, err := repository.QueryOne(ctx, r.db, q, args, scanEntry)
	if err != nil {
		if delErr := r.storage.Delete(ctx, key); delErr != nil {
			r.logger.Warn("compensating blob delete failed", "key", key, "error", delErr)
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("entry registered", "id", e.ID, "filename", e.Filename, "pages", pages)
	return &e, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	e, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	if err := repository.ExecExpectOne(ctx, r.db, "DELETE FROM entries WHERE id = $1", id); err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if err := r.storage.Delete(ctx, e.StorageKey); err != nil {
		r.logger.Warn("blob delete failed after entry delete", "key", e.StorageKey, "error", err)
	}

	r.logger.Info("entry deleted", "id", id)
	return nil
}

func (r *repo) Pending(ctx context.Context, attemptsLimit, limit int) ([]Entry, error) {
	q, args := query.NewBuilder(projection, query.SortField{Field: "created_at"}).
		Where("(e.status = ? OR (e.status = ? AND e.attempts < ?))",
			string(StatusPending), string(StatusError), attemptsLimit).
		BuildLimit(limit)

	items, err := repository.QueryMany(ctx, r.db, q, args, scanEntry)
	if err != nil {
		return nil, fmt.Errorf("query pending entries: %w", err)
	}
	return items, nil
}

func (r *repo) MarkProcessing(ctx context.Context, id uuid.UUID) (*Entry, error) {
	q := `UPDATE entries
		SET status = $2, attempts = attempts + 1, updated_at = now()
		WHERE id = $1 AND status <> $2
		RETURNING ` + returning

	e, err := repository.QueryOne(ctx, r.db, q, []any{id, string(StatusProcessing)}, scanEntry)
	if errors.Is(err, sql.ErrNoRows) {
		if _, findErr := r.Find(ctx, id); findErr != nil {
			return nil, findErr
		}
		return nil, ErrInProgress
	}
	if err != nil {
		return nil, fmt.Errorf("claim entry: %w", err)
	}
	return &e, nil
}

func (r *repo) MarkComplete(ctx context.Context, id uuid.UUID) error {
	return r.setStatus(ctx, id, StatusComplete, nil)
}

func (r *repo) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	return r.setStatus(ctx, id, StatusError, &reason)
}

func (r *repo) setStatus(ctx context.Context, id uuid.UUID, status Status, reason *string) error {
	err := repository.ExecExpectOne(ctx, r.db,
		"UPDATE entries SET status = $2, last_error = $3, updated_at = now() WHERE id = $1",
		id, string(status), reason,
	)
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return nil
}

func (r *repo) Requeue(ctx context.Context, olderThan time.Duration) (int64, error) {
	n, err := repository.Exec(ctx, r.db,
		`UPDATE entries SET status = $1, last_error = $2, updated_at = now()
		WHERE status = $3 AND updated_at < $4`,
		string(StatusError), "processing interrupted", string(StatusProcessing), time.Now().Add(-olderThan),
	)
	if err != nil {
		return 0, fmt.Errorf("requeue entries: %w", err)
	}
	if n > 0 {
		r.logger.Warn("requeued interrupted entries", "count", n)
	}
	return n, nil
}

func storageKey(id uuid.UUID, filename string) string {
	name := filepath.Base(filename)
	if name == "." || name == "/" || name == "" {
		name = "report.pdf"
	}
	return fmt.Sprintf("entries/%s/%s", id, url.PathEscape(name))
}
