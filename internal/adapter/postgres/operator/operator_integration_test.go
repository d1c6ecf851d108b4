//go:build integration

package operator_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pgoperator "github.com/alanyang/shift-router/internal/adapter/postgres/operator"
	domainoperator "github.com/alanyang/shift-router/internal/domain/operator"
	portoperator "github.com/alanyang/shift-router/internal/port/operator"
	"github.com/alanyang/shift-router/internal/testutil"
)

func TestOperatorRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := pgoperator.New(testutil.SetupTestDB(t))

	op, err := domainoperator.New("Anna", "anna@x.ru")
	require.NoError(t, err)
	created, err := repo.Create(ctx, op)
	require.NoError(t, err)

	byID, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "anna@x.ru", byID.Email)
	assert.True(t, byID.Active)

	byEmail, err := repo.GetByEmail(ctx, "anna@x.ru")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)
}

func TestOperatorRepository_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := pgoperator.New(testutil.SetupTestDB(t))

	a, _ := domainoperator.New("Anna", "anna@x.ru")
	_, err := repo.Create(ctx, a)
	require.NoError(t, err)

	b, _ := domainoperator.New("Anna Two", "anna@x.ru")
	_, err = repo.Create(ctx, b)
	require.ErrorIs(t, err, domainoperator.ErrDuplicate)
}

func TestOperatorRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := pgoperator.New(testutil.SetupTestDB(t))

	_, err := repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domainoperator.ErrNotFound)
	assert.ErrorIs(t, repo.SetActive(ctx, uuid.New(), false), domainoperator.ErrNotFound)
}

func TestOperatorRepository_ListActiveOnly(t *testing.T) {
	ctx := context.Background()
	repo := pgoperator.New(testutil.SetupTestDB(t))

	var ids []uuid.UUID
	for _, email := range []string{"a@x.ru", "b@x.ru", "c@x.ru"} {
		op, _ := domainoperator.New(email, email)
		created, err := repo.Create(ctx, op)
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}
	require.NoError(t, repo.SetActive(ctx, ids[1], false))

	all, err := repo.List(ctx, portoperator.ListFilters{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	active, err := repo.List(ctx, portoperator.ListFilters{ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, ids[0], active[0].ID)
	assert.Equal(t, ids[2], active[1].ID)
}
