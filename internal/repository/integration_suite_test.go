//go:build integration

package repository_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"ecodeli/internal/repository"
)

var (
	tcPool *pgxpool.Pool
	tcDSN  string
)

func TestMain(m *testing.M) {
	os.Exit(runWithPostgres(m))
}

// runWithPostgres starts a throwaway database with the migrated schema and
// tears it down after the package tests.
func runWithPostgres(m *testing.M) int {
	ctx := context.Background()

	pg, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("ecodeli"),
		postgres.WithUsername("ecodeli"),
		postgres.WithPassword("ecodeli"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		log.Printf("start postgres: %v", err)
		return 1
	}
	defer func() {
		if err := pg.Terminate(ctx); err != nil {
			log.Printf("terminate postgres: %v", err)
		}
	}()

	if tcDSN, err = pg.ConnectionString(ctx, "sslmode=disable"); err != nil {
		log.Printf("connection string: %v", err)
		return 1
	}
	if tcPool, err = repository.NewPool(ctx, tcDSN); err != nil {
		log.Printf("connect: %v", err)
		return 1
	}
	defer tcPool.Close()

	if err := repository.Migrate(ctx, tcPool); err != nil {
		log.Printf("migrate: %v", err)
		return 1
	}
	return m.Run()
}

func truncateAll(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		TRUNCATE users, subscriptions, notifications, courier_announcements, courier_deliveries,
		         escrows, cart_drops, schedules, service_evaluations, airport_transfers,
		         international_purchases
		RESTART IDENTITY CASCADE
	`)
	if err != nil {
		return fmt.Errorf("truncate: %w", err)
	}
	return nil
}
