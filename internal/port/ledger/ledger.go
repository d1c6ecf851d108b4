package ledger

import (
	"context"
	"time"

	"github.com/alanyang/shift-router/internal/domain/assignment"
)

// Ledger is the append-only assignment history. The distributor is its only writer.
type Ledger interface {
	Counter
	// Append commits a single record. It either fully succeeds or leaves no trace.
	Append(ctx context.Context, rec assignment.Record) error
}

// Counter is the narrow read side used for quota accounting.
type Counter interface {
	// CountInRange counts records for email with from <= assigned_at < to.
	CountInRange(ctx context.Context, email string, from, to time.Time) (int, error)
}
