//go:build integration

package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ecodeli/internal/repository"
)

func TestNewPool(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		dsn     string
		wantErr bool
	}{
		{name: "container", dsn: tcDSN},
		{name: "malformed dsn", dsn: "not-a-valid-dsn", wantErr: true},
		{name: "unreachable", dsn: "postgres://u:p@127.0.0.1:65000/none?sslmode=disable", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			pool, err := repository.NewPool(ctx, tt.dsn)
			if tt.wantErr {
				require.Error(t, err)
				require.Nil(t, pool)
				return
			}
			require.NoError(t, err)
			defer pool.Close()
			require.NoError(t, pool.Ping(ctx))
		})
	}
}

func TestMigrate_IsIdempotent(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	require.NoError(t, repository.Migrate(ctx, tcPool))

	var tables int
	err := tcPool.QueryRow(ctx, `
		SELECT count(*) FROM information_schema.tables
		WHERE table_schema = 'public' AND table_name IN ('users', 'courier_deliveries', 'escrows')
	`).Scan(&tables)
	require.NoError(t, err)
	require.Equal(t, 3, tables)
}
