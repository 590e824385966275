package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestErrorClassifiers(t *testing.T) {
	t.Parallel()

	unique := fmt.Errorf("insert user: %w", &pgconn.PgError{Code: pgUniqueViolation})
	fk := &pgconn.PgError{Code: pgForeignKeyViolation}
	other := errors.New("boom")

	tests := []struct {
		name                string
		err                 error
		dup, foreign, empty bool
	}{
		{name: "wrapped unique", err: unique, dup: true},
		{name: "foreign key", err: fk, foreign: true},
		{name: "no rows", err: fmt.Errorf("get: %w", pgx.ErrNoRows), empty: true},
		{name: "plain error", err: other},
		{name: "nil", err: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tt.dup, IsDuplicate(tt.err))
			require.Equal(t, tt.foreign, IsForeignKey(tt.err))
			require.Equal(t, tt.empty, IsNotFound(tt.err))
		})
	}
}
