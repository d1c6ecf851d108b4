package operator

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainoperator "github.com/alanyang/shift-router/internal/domain/operator"
	portoperator "github.com/alanyang/shift-router/internal/port/operator"
)

var _ portoperator.Repository = (*Repository)(nil)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const uniqueViolation = "23505"

const selectColumns = `SELECT id, email, name, active, created_at FROM operators`

func (r *Repository) Create(ctx context.Context, op domainoperator.Operator) (domainoperator.Operator, error) {
	query := `
		INSERT INTO operators (id, email, name, active, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, email, name, active, created_at`

	var created domainoperator.Operator
	err := r.pool.QueryRow(ctx, query, op.ID, op.Email, op.Name, op.Active, op.CreatedAt).Scan(
		&created.ID, &created.Email, &created.Name, &created.Active, &created.CreatedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return domainoperator.Operator{}, fmt.Errorf("%w: %s", domainoperator.ErrDuplicate, op.Email)
	}
	if err != nil {
		return domainoperator.Operator{}, fmt.Errorf("inserting operator: %w", err)
	}
	return created, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (domainoperator.Operator, error) {
	return r.scanOne(ctx, selectColumns+` WHERE id = $1`, id)
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (domainoperator.Operator, error) {
	return r.scanOne(ctx, selectColumns+` WHERE email = $1`, email)
}

func (r *Repository) List(ctx context.Context, filters portoperator.ListFilters) ([]domainoperator.Operator, error) {
	query := selectColumns
	if filters.ActiveOnly {
		query += ` WHERE active`
	}
	query += ` ORDER BY created_at ASC, id ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing operators: %w", err)
	}
	defer rows.Close()

	var ops []domainoperator.Operator
	for rows.Next() {
		var op domainoperator.Operator
		if err := rows.Scan(&op.ID, &op.Email, &op.Name, &op.Active, &op.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning operator row: %w", err)
		}
		ops = append(ops, op)
	}
	return ops, rows.Err()
}

func (r *Repository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	tag, err := r.pool.Exec(ctx, `UPDATE operators SET active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return fmt.Errorf("updating operator active flag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainoperator.ErrNotFound
	}
	return nil
}

func (r *Repository) scanOne(ctx context.Context, query string, args ...interface{}) (domainoperator.Operator, error) {
	var op domainoperator.Operator
	err := r.pool.QueryRow(ctx, query, args...).Scan(&op.ID, &op.Email, &op.Name, &op.Active, &op.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domainoperator.Operator{}, domainoperator.ErrNotFound
		}
		return domainoperator.Operator{}, fmt.Errorf("querying operator: %w", err)
	}
	return op, nil
}
