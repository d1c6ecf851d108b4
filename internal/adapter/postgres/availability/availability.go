package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domainavail "github.com/alanyang/shift-router/internal/domain/availability"
	portavail "github.com/alanyang/shift-router/internal/port/availability"
)

var _ portavail.Repository = (*Repository)(nil)

// Repository stores one row per (operator_email, day). Dates are passed as
// YYYY-MM-DD strings so the calendar date of the caller's location is what lands in the DATE column.
type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Get(ctx context.Context, email string, date time.Time) (domainavail.DailyAvailability, bool, error) {
	query := `
		SELECT operator_email, day, scheduled, start_hour, end_hour, available, updated_at
		FROM daily_availability
		WHERE operator_email = $1 AND day = $2::date`

	a, err := scan(r.pool.QueryRow(ctx, query, email, domainavail.DateKey(date)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domainavail.DailyAvailability{}, false, nil
		}
		return domainavail.DailyAvailability{}, false, fmt.Errorf("querying availability: %w", err)
	}
	a.Date = relocate(a.Date, date.Location())
	return a, true, nil
}

func (r *Repository) Upsert(ctx context.Context, a domainavail.DailyAvailability) (domainavail.DailyAvailability, error) {
	query := `
		INSERT INTO daily_availability (operator_email, day, scheduled, start_hour, end_hour, available, updated_at)
		VALUES ($1, $2::date, $3, $4, $5, $6, NOW())
		ON CONFLICT (operator_email, day) DO UPDATE SET
			scheduled  = EXCLUDED.scheduled,
			start_hour = EXCLUDED.start_hour,
			end_hour   = EXCLUDED.end_hour,
			available  = EXCLUDED.available,
			updated_at = EXCLUDED.updated_at
		RETURNING operator_email, day, scheduled, start_hour, end_hour, available, updated_at`

	saved, err := scan(r.pool.QueryRow(ctx, query,
		a.OperatorEmail, domainavail.DateKey(a.Date), a.Scheduled, a.StartHour, a.EndHour, a.Available,
	))
	if err != nil {
		return domainavail.DailyAvailability{}, fmt.Errorf("upserting availability: %w", err)
	}
	saved.Date = relocate(saved.Date, a.Date.Location())
	return saved, nil
}

func (r *Repository) ListForDate(ctx context.Context, date time.Time) ([]domainavail.DailyAvailability, error) {
	query := `
		SELECT operator_email, day, scheduled, start_hour, end_hour, available, updated_at
		FROM daily_availability
		WHERE day = $1::date
		ORDER BY operator_email`

	rows, err := r.pool.Query(ctx, query, domainavail.DateKey(date))
	if err != nil {
		return nil, fmt.Errorf("listing availability: %w", err)
	}
	defer rows.Close()

	var out []domainavail.DailyAvailability
	for rows.Next() {
		a, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning availability row: %w", err)
		}
		a.Date = relocate(a.Date, date.Location())
		out = append(out, a)
	}
	return out, rows.Err()
}

func scan(row pgx.Row) (domainavail.DailyAvailability, error) {
	var a domainavail.DailyAvailability
	err := row.Scan(&a.OperatorEmail, &a.Date, &a.Scheduled, &a.StartHour, &a.EndHour, &a.Available, &a.UpdatedAt)
	return a, err
}

// relocate moves a DATE (scanned as UTC midnight) to midnight of the same date in loc.
func relocate(d time.Time, loc *time.Location) time.Time {
	y, m, day := d.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, loc)
}
