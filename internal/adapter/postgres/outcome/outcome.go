package outcome

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alanyang/shift-router/internal/domain/pass"
	portoutcome "github.com/alanyang/shift-router/internal/port/outcome"
)

var _ portoutcome.Log = (*Repository)(nil)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Record(ctx context.Context, o pass.Outcome) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO pass_outcomes (id, trigger, reason, assigned, skipped, failed, error, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		o.ID, string(o.Trigger), string(o.Reason), o.Assigned, o.Skipped, o.Failed, o.Error, o.StartedAt, o.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting pass outcome: %w", err)
	}
	return nil
}

func (r *Repository) Recent(ctx context.Context, limit int) ([]pass.Outcome, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, trigger, reason, assigned, skipped, failed, error, started_at, finished_at
		FROM pass_outcomes
		ORDER BY started_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing pass outcomes: %w", err)
	}
	defer rows.Close()

	var out []pass.Outcome
	for rows.Next() {
		var o pass.Outcome
		if err := rows.Scan(&o.ID, &o.Trigger, &o.Reason, &o.Assigned, &o.Skipped, &o.Failed,
			&o.Error, &o.StartedAt, &o.FinishedAt); err != nil {
			return nil, fmt.Errorf("scanning pass outcome row: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *Repository) PruneBefore(ctx context.Context, t time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM pass_outcomes WHERE started_at < $1`, t)
	if err != nil {
		return 0, fmt.Errorf("pruning pass outcomes: %w", err)
	}
	return tag.RowsAffected(), nil
}
