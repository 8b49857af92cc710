package results

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/assay/internal/verdict"
	"github.com/JaimeStill/assay/pkg/pagination"
	"github.com/JaimeStill/assay/pkg/query"
	"github.com/JaimeStill/assay/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "results"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Result], error) {
	page.Normalize(r.pagination)

	qb := query.NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "model_name", "reviewed_by")
	filters.Apply(qb)
	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	total, err := repository.Count(ctx, r.db, countSQL, countArgs)
	if err != nil {
		return nil, fmt.Errorf("count results: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanResult)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Result, error) {
	return r.findBy(ctx, "id", id)
}

func (r *repo) FindByEntry(ctx context.Context, entryID uuid.UUID) (*Result, error) {
	return r.findBy(ctx, "entry_id", entryID)
}

func (r *repo) findBy(ctx context.Context, field string, id uuid.UUID) (*Result, error) {
	q, args := query.NewBuilder(projection).BuildSingle(field, id)

	res, err := repository.QueryOne(ctx, r.db, q, args, scanResult)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &res, nil
}

func (r *repo) Save(ctx context.Context, cmd SaveCommand) (*Result, error) {
	if cmd.Report == nil {
		return nil, fmt.Errorf("save result for entry %s: missing report", cmd.EntryID)
	}
	v := cmd.Report.Verdict

	q := `INSERT INTO results (
			id, entry_id, document_type, lab_result, computed_result, verdict_type,
			requires_human_verification, blocking_count, payload, model_name
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (entry_id) DO UPDATE SET
			document_type = EXCLUDED.document_type,
			lab_result = EXCLUDED.lab_result,
			computed_result = EXCLUDED.computed_result,
			verdict_type = EXCLUDED.verdict_type,
			requires_human_verification = EXCLUDED.requires_human_verification,
			blocking_count = EXCLUDED.blocking_count,
			payload = EXCLUDED.payload,
			model_name = EXCLUDED.model_name,
			processed_at = now(),
			reviewed_by = NULL,
			reviewed_at = NULL,
			review_note = NULL
		RETURNING ` + returning

	args := []any{
		uuid.New(),
		cmd.EntryID,
		cmd.DocumentType,
		string(v.LabResult),
		string(v.ComputedResult),
		string(v.Type),
		v.RequiresHumanVerification,
		len(v.BlockingIssues),
		Payload{ExtractionOutput: cmd.Record, ValidationOutput: cmd.Report},
		cmd.ModelName,
	}

	res, err := repository.QueryOne(ctx, r.db, q, args, scanResult)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("result saved",
		"id", res.ID,
		"entry_id", res.EntryID,
		"verdict", res.VerdictType,
		"blocking", res.BlockingCount,
	)
	return &res, nil
}

func (r *repo) Review(ctx context.Context, id uuid.UUID, cmd ReviewCommand) (*Result, error) {
	reviewer := strings.TrimSpace(cmd.ReviewedBy)
	if reviewer == "" {
		return nil, ErrInvalidReview
	}

	var note *string
	if n := strings.TrimSpace(cmd.Note); n != "" {
		note = &n
	}

	q := `UPDATE results
		SET reviewed_by = $2, reviewed_at = now(), review_note = $3
		WHERE id = $1
		RETURNING ` + returning

	res, err := repository.QueryOne(ctx, r.db, q, []any{id, reviewer, note}, scanResult)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("result reviewed", "id", id, "reviewed_by", reviewer, "verdict", res.VerdictType)
	return &res, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	if err := repository.ExecExpectOne(ctx, r.db, "DELETE FROM results WHERE id = $1", id); err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	r.logger.Info("result deleted", "id", id)
	return nil
}

func (r *repo) Stats(ctx context.Context) ([]VerdictCount, error) {
	q := `SELECT verdict_type, COUNT(*), COUNT(*) FILTER (WHERE reviewed_at IS NULL)
		FROM results GROUP BY verdict_type`

	rows, err := repository.QueryMany(ctx, r.db, q, nil, func(s repository.Scanner) (VerdictCount, error) {
		var c VerdictCount
		err := s.Scan(&c.VerdictType, &c.Total, &c.Unreviewed)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("count verdicts: %w", err)
	}

	counts := make(map[verdict.Type]VerdictCount, len(rows))
	for _, c := range rows {
		counts[c.VerdictType] = c
	}

	out := make([]VerdictCount, 0, len(verdict.Types()))
	for _, vt := range verdict.Types() {
		c := counts[vt]
		c.VerdictType = vt
		out = append(out, c)
	}
	return out, nil
}
