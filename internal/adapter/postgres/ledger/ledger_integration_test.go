//go:build integration

package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pgledger "github.com/alanyang/shift-router/internal/adapter/postgres/ledger"
	"github.com/alanyang/shift-router/internal/domain/assignment"
	"github.com/alanyang/shift-router/internal/testutil"
)

func TestLedger_CountInRange(t *testing.T) {
	ctx := context.Background()
	repo := pgledger.New(testutil.SetupTestDB(t))

	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	for _, rec := range []assignment.Record{
		assignment.New("1", "a@x.ru", start.Add(9*time.Hour)),
		assignment.New("2", "a@x.ru", start.Add(23*time.Hour)),
		assignment.New("3", "a@x.ru", end),                   // next day, excluded
		assignment.New("4", "a@x.ru", start.Add(-time.Hour)), // previous day, excluded
		assignment.New("5", "b@x.ru", start.Add(10*time.Hour)),
	} {
		require.NoError(t, repo.Append(ctx, rec))
	}

	n, err := repo.CountInRange(ctx, "a@x.ru", start, end)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = repo.CountInRange(ctx, "nobody@x.ru", start, end)
	require.NoError(t, err)
	assert.Zero(t, n)
}
