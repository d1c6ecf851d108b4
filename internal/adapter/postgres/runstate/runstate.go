package runstate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domainrunstate "github.com/alanyang/shift-router/internal/domain/runstate"
	portrunstate "github.com/alanyang/shift-router/internal/port/runstate"
)

var _ portrunstate.Store = (*Repository)(nil)

// Repository persists the singleton run_state row (id = 1).
type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Get(ctx context.Context) (domainrunstate.State, error) {
	var s domainrunstate.State
	err := r.pool.QueryRow(ctx,
		`SELECT is_running, manual_override, updated_at FROM run_state WHERE id = 1`,
	).Scan(&s.Running, &s.ManualOverride, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// The migration seeds the row; a missing row reads as a fresh install.
			return domainrunstate.Initial(time.Now().UTC()), nil
		}
		return domainrunstate.State{}, fmt.Errorf("querying run state: %w", err)
	}
	return s, nil
}

func (r *Repository) Save(ctx context.Context, s domainrunstate.State) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO run_state (id, is_running, manual_override, updated_at)
		VALUES (1, $1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			is_running      = EXCLUDED.is_running,
			manual_override = EXCLUDED.manual_override,
			updated_at      = EXCLUDED.updated_at`,
		s.Running, s.ManualOverride, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("saving run state: %w", err)
	}
	return nil
}
