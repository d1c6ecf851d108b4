package wire

import (
	"context"
	"log/slog"
	"time"
)

type outcomePruner interface {
	PruneOutcomes(ctx context.Context) (int64, error)
}

// startJanitor prunes old pass outcomes once at startup and then every interval.
func startJanitor(ctx context.Context, pruner outcomePruner, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			if _, err := pruner.PruneOutcomes(ctx); err != nil && ctx.Err() == nil {
				slog.Error("janitor: prune outcomes failed", "error", err)
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}
