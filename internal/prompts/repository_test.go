package prompts_test

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/assay/internal/prompts"
	"github.com/JaimeStill/assay/pkg/pagination"
)

var columns = []string{"id", "name", "document_type", "instructions", "description", "active"}

var pageCfg = pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}

func newSystem(t *testing.T) (prompts.System, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return prompts.New(db, logger, pageCfg), mock
}

func TestCreate(t *testing.T) {
	sys, mock := newSystem(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO prompts(name, document_type, instructions, description)")).
		WithArgs("strict", "FRI", "be strict", nil).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(id.String(), "strict", "FRI", "be strict", nil, false))
	mock.ExpectCommit()

	p, err := sys.Create(context.Background(), prompts.CreateCommand{
		Name:         "strict",
		DocumentType: prompts.FRI,
		Instructions: "be strict",
	})
	require.NoError(t, err)
	assert.Equal(t, id, p.ID)
	assert.Equal(t, prompts.FRI, p.DocumentType)
	assert.False(t, p.Active)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateValidates(t *testing.T) {
	sys, mock := newSystem(t)

	_, err := sys.Create(context.Background(), prompts.CreateCommand{Name: "x", DocumentType: prompts.FRI})
	assert.ErrorIs(t, err, prompts.ErrInvalidPrompt)

	_, err = sys.Create(context.Background(), prompts.CreateCommand{Name: "x", DocumentType: "OTHER", Instructions: "y"})
	assert.ErrorIs(t, err, prompts.ErrInvalidDocumentType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivate(t *testing.T) {
	sys, mock := newSystem(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM public.prompts p WHERE p.id = $1")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(id.String(), "strict", "FRI", "be strict", nil, false))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE prompts SET active = false WHERE document_type = $1 AND active = true AND id <> $2")).
		WithArgs("FRI", id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE prompts SET active = true WHERE id = $1")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(id.String(), "strict", "FRI", "be strict", nil, true))
	mock.ExpectCommit()

	p, err := sys.Activate(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, p.Active)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivateMissing(t *testing.T) {
	sys, mock := newSystem(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE p.id = $1")).
		WithArgs(id).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := sys.Activate(context.Background(), id)
	assert.ErrorIs(t, err, prompts.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInstructions(t *testing.T) {
	sys, mock := newSystem(t)
	active := regexp.QuoteMeta("FROM public.prompts p WHERE p.document_type = $1 AND p.active = $2 LIMIT 1")

	t.Run("override", func(t *testing.T) {
		mock.ExpectQuery(active).
			WithArgs("FRI", true).
			WillReturnRows(sqlmock.NewRows(columns).AddRow(uuid.NewString(), "strict", "FRI", "be strict", nil, true))

		text, err := sys.Instructions(context.Background(), prompts.FRI)
		require.NoError(t, err)
		assert.Equal(t, "be strict", text)
	})

	t.Run("default", func(t *testing.T) {
		mock.ExpectQuery(active).
			WithArgs("FRI", true).
			WillReturnRows(sqlmock.NewRows(columns))

		text, err := sys.Instructions(context.Background(), prompts.FRI)
		require.NoError(t, err)

		want, _ := prompts.Instructions(prompts.FRI)
		assert.Equal(t, want, text)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := sys.Instructions(context.Background(), "OTHER")
		assert.ErrorIs(t, err, prompts.ErrInvalidDocumentType)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteMissing(t *testing.T) {
	sys, mock := newSystem(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM prompts WHERE id = $1")).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	assert.ErrorIs(t, sys.Delete(context.Background(), id), prompts.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
