package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	portmetrics "github.com/alanyang/shift-router/internal/port/metrics"
	porttasksource "github.com/alanyang/shift-router/internal/port/tasksource"
)

var _ porttasksource.Source = (*Resilient)(nil)

// Resilient bounds every call to the raw source with a timeout and recovers from a
// rejected credential by refreshing once and retrying once.
// [SRP] Retry and error classification only; the raw client knows the wire format.
type Resilient struct {
	raw     porttasksource.Source
	timeout time.Duration
	metrics portmetrics.Recorder

	mu         sync.Mutex
	generation uint64
}

func NewResilient(raw porttasksource.Source, timeout time.Duration, metrics portmetrics.Recorder) *Resilient {
	if metrics == nil {
		metrics = portmetrics.Nop{}
	}
	return &Resilient{raw: raw, timeout: timeout, metrics: metrics}
}

func (r *Resilient) ListOpenTasks(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.call(ctx, func(ctx context.Context) error {
		var err error
		ids, err = r.raw.ListOpenTasks(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list open tasks: %w", unavailable(err))
	}
	return ids, nil
}

func (r *Resilient) CurrentOwner(ctx context.Context, taskID string) (string, bool, error) {
	var (
		email string
		found bool
	)
	err := r.call(ctx, func(ctx context.Context) error {
		var err error
		email, found, err = r.raw.CurrentOwner(ctx, taskID)
		return err
	})
	if err != nil {
		return "", false, fmt.Errorf("get owner of task %s: %w", taskID, unavailable(err))
	}
	return email, found, nil
}

func (r *Resilient) SetOwner(ctx context.Context, taskID, email string) error {
	err := r.call(ctx, func(ctx context.Context) error {
		return r.raw.SetOwner(ctx, taskID, email)
	})
	if err != nil {
		return fmt.Errorf("assign task %s to %s: %w: %w", taskID, email, porttasksource.ErrAssignmentFailed, err)
	}
	return nil
}

func (r *Resilient) RefreshCredentials(ctx context.Context) error {
	return r.refresh(ctx, r.currentGeneration())
}

// call runs fn once, and once more after a credential refresh if the first attempt was
// rejected as unauthorized.
func (r *Resilient) call(ctx context.Context, fn func(ctx context.Context) error) error {
	gen := r.currentGeneration()

	err := r.attempt(ctx, fn)
	if !errors.Is(err, porttasksource.ErrUnauthorized) {
		return err
	}

	if err := r.refresh(ctx, gen); err != nil {
		return fmt.Errorf("%w: %w", porttasksource.ErrSourceUnavailable, err)
	}

	err = r.attempt(ctx, fn)
	if errors.Is(err, porttasksource.ErrUnauthorized) {
		return fmt.Errorf("%w: credentials rejected after refresh", porttasksource.ErrSourceUnavailable)
	}
	return err
}

func (r *Resilient) attempt(ctx context.Context, fn func(ctx context.Context) error) error {
	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return fn(callCtx)
}

// refresh skips the round trip when another caller already refreshed after seen was read.
func (r *Resilient) refresh(ctx context.Context, seen uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.generation != seen {
		return nil
	}

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.raw.RefreshCredentials(callCtx); err != nil {
		r.metrics.ObserveCredentialRefresh(false)
		slog.ErrorContext(ctx, "task source credential refresh failed", "error", err)
		return fmt.Errorf("refresh credentials: %w", err)
	}
	r.generation++
	r.metrics.ObserveCredentialRefresh(true)
	slog.InfoContext(ctx, "task source credentials refreshed")
	return nil
}

func (r *Resilient) currentGeneration() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.generation
}

func unavailable(err error) error {
	if errors.Is(err, porttasksource.ErrSourceUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", porttasksource.ErrSourceUnavailable, err)
}
