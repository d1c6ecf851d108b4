package memory

import (
	"context"
	"sync"
	"time"

	"github.com/alanyang/shift-router/internal/domain/assignment"
	portledger "github.com/alanyang/shift-router/internal/port/ledger"
)

var _ portledger.Ledger = (*Ledger)(nil)

type Ledger struct {
	mu      sync.RWMutex
	records []assignment.Record
}

func NewLedger() *Ledger {
	return &Ledger{}
}

func (l *Ledger) Append(_ context.Context, rec assignment.Record) error {
	l.mu.Lock()
	l.records = append(l.records, rec)
	l.mu.Unlock()
	return nil
}

func (l *Ledger) CountInRange(_ context.Context, email string, from, to time.Time) (int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	n := 0
	for _, r := range l.records {
		if r.OperatorEmail == email && !r.AssignedAt.Before(from) && r.AssignedAt.Before(to) {
			n++
		}
	}
	return n, nil
}

// Records returns a copy of everything appended so far, oldest first.
func (l *Ledger) Records() []assignment.Record {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]assignment.Record, len(l.records))
	copy(out, l.records)
	return out
}
