package wire

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/alanyang/shift-router/internal/domain/pass"
	controllersvc "github.com/alanyang/shift-router/internal/service/controller"
)

type passRunner interface {
	RunOnce(ctx context.Context, trigger pass.Trigger) (pass.Outcome, error)
}

// startDriver triggers a periodic pass every cadence until ctx is done. A pass already
// running when ctx is cancelled is allowed to finish; the returned channel closes after it.
func startDriver(ctx context.Context, runner passRunner, cadence time.Duration) <-chan struct{} {
	done := make(chan struct{})
	ticker := time.NewTicker(cadence)

	go func() {
		defer close(done)
		defer ticker.Stop()

		slog.Info("distribution driver started", "cadence", cadence)
		for {
			select {
			case <-ctx.Done():
				slog.Info("distribution driver stopped")
				return
			case <-ticker.C:
				// Detached so a shutdown signal does not abort a pass mid-assignment.
				_, err := runner.RunOnce(context.WithoutCancel(ctx), pass.TriggerPeriodic)
				if errors.Is(err, controllersvc.ErrConcurrencyRejected) {
					slog.Debug("periodic pass skipped, another pass in flight")
				} else if err != nil {
					slog.Error("periodic pass failed", "error", err)
				}
			}
		}
	}()

	return done
}
