package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/assay/pkg/repository"
)

var (
	errNotFound  = errors.New("not found")
	errDuplicate = errors.New("duplicate")
)

func TestMapError(t *testing.T) {
	other := errors.New("connection reset")
	check := &pgconn.PgError{Code: "23514"}

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"no rows", sql.ErrNoRows, errNotFound},
		{"wrapped no rows", fmt.Errorf("find: %w", sql.ErrNoRows), errNotFound},
		{"unique violation", &pgconn.PgError{Code: "23505"}, errDuplicate},
		{"foreign key violation", &pgconn.PgError{Code: "23503"}, errNotFound},
		{"other pg error", check, check},
		{"passthrough", other, other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := repository.MapError(tt.err, errNotFound, errDuplicate)
			assert.Equal(t, tt.want, got)
		})
	}
}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

func scanName(s repository.Scanner) (string, error) {
	var name string
	err := s.Scan(&name)
	return name, err
}

func TestWithTxCommits(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT name FROM prompts")).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("fri-default"))
	mock.ExpectCommit()

	name, err := repository.WithTx(context.Background(), db, func(tx *sql.Tx) (string, error) {
		return repository.QueryOne(context.Background(), tx, "SELECT name FROM prompts", nil, scanName)
	})
	require.NoError(t, err)
	assert.Equal(t, "fri-default", name)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	_, err := repository.WithTx(context.Background(), db, func(tx *sql.Tx) (int, error) {
		return 0, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestQueryMany(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT name FROM entries")).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("a.pdf").AddRow("b.pdf"))

	names, err := repository.QueryMany(context.Background(), db, "SELECT name FROM entries", nil, scanName)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.pdf", "b.pdf"}, names)
}

func TestQueryManyEmptyIsNotNil(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT name FROM entries")).
		WillReturnRows(sqlmock.NewRows([]string{"name"}))

	names, err := repository.QueryMany(context.Background(), db, "SELECT name FROM entries", nil, scanName)
	require.NoError(t, err)
	assert.NotNil(t, names)
	assert.Empty(t, names)
}

func TestCount(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM results")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	n, err := repository.Count(context.Background(), db, "SELECT COUNT(*) FROM results", nil)
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}

func TestExecExpectOne(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM entries WHERE id = $1")).
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM entries WHERE id = $1")).
		WithArgs(2).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ctx := context.Background()
	assert.NoError(t, repository.ExecExpectOne(ctx, db, "DELETE FROM entries WHERE id = $1", 1))
	assert.ErrorIs(t, repository.ExecExpectOne(ctx, db, "DELETE FROM entries WHERE id = $1", 2), sql.ErrNoRows)
}
