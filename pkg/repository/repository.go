// Package repository holds the generic query helpers shared by the
// entries, results, and prompts repositories.
package repository

import (
	"context"
	"database/sql"
)

// Querier is satisfied by *sql.DB and *sql.Tx.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Executor is satisfied by *sql.DB and *sql.Tx.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Scanner is satisfied by *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// ScanFunc reads one entity from a row.
type ScanFunc[T any] func(Scanner) (T, error)

// WithTx runs fn in a transaction, committing when fn succeeds and rolling
// back otherwise.
func WithTx[T any](ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) (T, error)) (T, error) {
	var zero T

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return zero, err
	}
	defer tx.Rollback()

	result, err := fn(tx)
	if err != nil {
		return zero, err
	}

	if err := tx.Commit(); err != nil {
		return zero, err
	}
	return result, nil
}

// QueryOne scans the single row returned by query. A missing row surfaces
// as sql.ErrNoRows.
func QueryOne[T any](ctx context.Context, q Querier, query string, args []any, scan ScanFunc[T]) (T, error) {
	return scan(q.QueryRowContext(ctx, query, args...))
}

// QueryMany scans every row returned by query. The result is never nil.
func QueryMany[T any](ctx context.Context, q Querier, query string, args []any, scan ScanFunc[T]) ([]T, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, item)
	}
	return results, rows.Err()
}

// Count runs a COUNT query and returns its value.
func Count(ctx context.Context, q Querier, query string, args []any) (int, error) {
	var n int
	err := q.QueryRowContext(ctx, query, args...).Scan(&n)
	return n, err
}

// ExecExpectOne runs a statement that must affect exactly one row.
// sql.ErrNoRows is returned when nothing matched.
func ExecExpectOne(ctx context.Context, e Executor, query string, args ...any) error {
	n, err := Exec(ctx, e, query, args...)
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Exec runs a statement and returns the number of affected rows.
func Exec(ctx context.Context, e Executor, query string, args ...any) (int64, error) {
	result, err := e.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
