//go:build integration

package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	pgdb "github.com/alanyang/shift-router/internal/adapter/postgres"
)

// SetupTestDB connects to the test database, applies the embedded migrations and
// empties every table. It skips the test if TEST_DATABASE_URL is not set.
// Tests sharing the database must not run in parallel.
func SetupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	pool, err := pgdb.Connect(ctx, url)
	if err != nil {
		t.Fatalf("connect to test DB: %v", err)
	}
	if err := pgdb.Migrate(ctx, pool); err != nil {
		pool.Close()
		t.Fatalf("migrate test DB: %v", err)
	}

	const reset = `
		TRUNCATE operators, daily_availability, assignment_records, pass_outcomes;
		UPDATE run_state SET is_running = FALSE, manual_override = FALSE, updated_at = NOW();`
	if _, err := pool.Exec(ctx, reset); err != nil {
		pool.Close()
		t.Fatalf("reset test DB: %v", err)
	}

	t.Cleanup(func() { pool.Close() })
	return pool
}
