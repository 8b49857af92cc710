package prompts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/assay/pkg/pagination"
	"github.com/JaimeStill/assay/pkg/query"
	"github.com/JaimeStill/assay/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a prompt repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "prompts"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Prompt], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "name", "description")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	total, err := repository.Count(ctx, r.db, countSQL, countArgs)
	if err != nil {
		return nil, fmt.Errorf("count prompts: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	prompts, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanPrompt)
	if err != nil {
		return nil, fmt.Errorf("query prompts: %w", err)
	}

	result := pagination.NewPageResult(prompts, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Prompt, error) {
	q, args := query.NewBuilder(projection).BuildSingle("id", id)

	p, err := repository.QueryOne(ctx, r.db, q, args, scanPrompt)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &p, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Prompt, error) {
	if err := validate(cmd.Name, cmd.DocumentType, cmd.Instructions); err != nil {
		return nil, err
	}

	q := `
		INSERT INTO prompts(name, document_type, instructions, description)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + returning

	args := []any{cmd.Name, string(cmd.DocumentType), cmd.Instructions, cmd.Description}

	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Prompt, error) {
		return repository.QueryOne(ctx, tx, q, args, scanPrompt)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("prompt created", "id", p.ID, "name", p.Name, "document_type", p.DocumentType)
	return &p, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Prompt, error) {
	if err := validate(cmd.Name, cmd.DocumentType, cmd.Instructions); err != nil {
		return nil, err
	}

	// Moving an active prompt to another document type deactivates it so
	// the target type never ends up with two active overrides.
	q := `
		UPDATE prompts
		SET name = $1,
			instructions = $3,
			description = $4,
			active = active AND document_type = $2,
			document_type = $2
		WHERE id = $5
		RETURNING ` + returning

	args := []any{cmd.Name, string(cmd.DocumentType), cmd.Instructions, cmd.Description, id}

	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Prompt, error) {
		return repository.QueryOne(ctx, tx, q, args, scanPrompt)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("prompt updated", "id", p.ID, "name", p.Name)
	return &p, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(ctx, tx, "DELETE FROM prompts WHERE id = $1", id)
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("prompt deleted", "id", id)
	return nil
}

func (r *repo) Activate(ctx context.Context, id uuid.UUID) (*Prompt, error) {
	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Prompt, error) {
		findQ, findArgs := query.NewBuilder(projection).BuildSingle("id", id)
		target, err := repository.QueryOne(ctx, tx, findQ, findArgs, scanPrompt)
		if err != nil {
			return Prompt{}, err
		}

		if _, err := tx.ExecContext(
			ctx,
			"UPDATE prompts SET active = false WHERE document_type = $1 AND active = true AND id <> $2",
			string(target.DocumentType), id,
		); err != nil {
			return Prompt{}, fmt.Errorf("deactivate current: %w", err)
		}

		q := "UPDATE prompts SET active = true WHERE id = $1 RETURNING " + returning
		return repository.QueryOne(ctx, tx, q, []any{id}, scanPrompt)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("prompt activated", "id", p.ID, "name", p.Name, "document_type", p.DocumentType)
	return &p, nil
}

func (r *repo) Deactivate(ctx context.Context, id uuid.UUID) (*Prompt, error) {
	q := "UPDATE prompts SET active = false WHERE id = $1 RETURNING " + returning

	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Prompt, error) {
		return repository.QueryOne(ctx, tx, q, []any{id}, scanPrompt)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("prompt deactivated", "id", p.ID, "name", p.Name, "document_type", p.DocumentType)
	return &p, nil
}

func (r *repo) Instructions(ctx context.Context, dt DocumentType) (string, error) {
	if !dt.Valid() {
		return "", ErrInvalidDocumentType
	}

	active := true
	doc := string(dt)
	q, args := query.NewBuilder(projection).
		WhereEquals("document_type", &doc).
		WhereEquals("active", &active).
		BuildLimit(1)

	p, err := repository.QueryOne(ctx, r.db, q, args, scanPrompt)
	if errors.Is(err, sql.ErrNoRows) {
		return Instructions(dt)
	}
	if err != nil {
		return "", fmt.Errorf("active prompt: %w", err)
	}
	return p.Instructions, nil
}
