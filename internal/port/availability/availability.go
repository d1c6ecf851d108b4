package availability

import (
	"context"
	"time"

	domainavail "github.com/alanyang/shift-router/internal/domain/availability"
)

// Reader is the engine's read-only view. found=false means no row for that date.
type Reader interface {
	Get(ctx context.Context, email string, date time.Time) (a domainavail.DailyAvailability, found bool, err error)
}

// Repository is used by the control surface, which is the only writer.
type Repository interface {
	Reader
	// Upsert replaces the row for (OperatorEmail, Date).
	Upsert(ctx context.Context, a domainavail.DailyAvailability) (domainavail.DailyAvailability, error)
	ListForDate(ctx context.Context, date time.Time) ([]domainavail.DailyAvailability, error)
}
