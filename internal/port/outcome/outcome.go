package outcome

import (
	"context"
	"time"

	"github.com/alanyang/shift-router/internal/domain/pass"
)

// Log keeps pass outcomes for the status surface.
type Log interface {
	Record(ctx context.Context, o pass.Outcome) error
	// Recent returns up to limit outcomes, newest first.
	Recent(ctx context.Context, limit int) ([]pass.Outcome, error)
	// PruneBefore deletes outcomes that started before t and returns how many were removed.
	PruneBefore(ctx context.Context, t time.Time) (int64, error)
}
