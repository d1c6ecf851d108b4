package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alanyang/shift-router/internal/domain/assignment"
	portledger "github.com/alanyang/shift-router/internal/port/ledger"
)

var _ portledger.Ledger = (*Repository)(nil)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Append inserts the record inside its own transaction. A duplicate id is a no-op,
// so a retried append after an ambiguous commit never double-counts.
func (r *Repository) Append(ctx context.Context, rec assignment.Record) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO assignment_records (id, task_id, operator_email, assigned_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO NOTHING`,
			rec.ID, rec.TaskID, rec.OperatorEmail, rec.AssignedAt,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("appending assignment record: %w", err)
	}
	return nil
}

func (r *Repository) CountInRange(ctx context.Context, email string, from, to time.Time) (int, error) {
	query := `
		SELECT COUNT(*) FROM assignment_records
		WHERE operator_email = $1 AND assigned_at >= $2 AND assigned_at < $3`

	var n int
	if err := r.pool.QueryRow(ctx, query, email, from, to).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting assignment records: %w", err)
	}
	return n, nil
}
