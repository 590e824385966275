package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the repositories translate.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsDuplicate reports a unique constraint violation, e.g. a reused email or a second evaluation.
func IsDuplicate(err error) bool { return pgCode(err) == pgUniqueViolation }

// IsForeignKey reports a reference to a row that does not exist.
func IsForeignKey(err error) bool { return pgCode(err) == pgForeignKeyViolation }

// IsNotFound reports an empty single-row result.
func IsNotFound(err error) bool { return errors.Is(err, pgx.ErrNoRows) }
