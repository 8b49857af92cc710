package repository

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// MapError converts driver errors into domain errors: sql.ErrNoRows becomes
// notFound and a unique violation becomes duplicate. A foreign key
// violation also maps to notFound, since it means the referenced row is
// missing. Other errors pass through.
func MapError(err error, notFound, duplicate error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return duplicate
		case pgForeignKeyViolation:
			return notFound
		}
	}

	return err
}
