package memory

import (
	"context"
	"sync"
	"time"

	"github.com/alanyang/shift-router/internal/domain/pass"
	portoutcome "github.com/alanyang/shift-router/internal/port/outcome"
)

var _ portoutcome.Log = (*OutcomeLog)(nil)

type OutcomeLog struct {
	mu       sync.RWMutex
	outcomes []pass.Outcome
}

func NewOutcomeLog() *OutcomeLog {
	return &OutcomeLog{}
}

func (l *OutcomeLog) Record(_ context.Context, o pass.Outcome) error {
	l.mu.Lock()
	l.outcomes = append(l.outcomes, o)
	l.mu.Unlock()
	return nil
}

func (l *OutcomeLog) Recent(_ context.Context, limit int) ([]pass.Outcome, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]pass.Outcome, 0, limit)
	for i := len(l.outcomes) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, l.outcomes[i])
	}
	return out, nil
}

func (l *OutcomeLog) PruneBefore(_ context.Context, t time.Time) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	kept := l.outcomes[:0]
	var deleted int64
	for _, o := range l.outcomes {
		if o.StartedAt.Before(t) {
			deleted++
			continue
		}
		kept = append(kept, o)
	}
	l.outcomes = kept
	return deleted, nil
}
