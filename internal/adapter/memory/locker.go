package memory

import (
	"context"
	"sync"

	portlocker "github.com/alanyang/shift-router/internal/port/locker"
)

var _ portlocker.AdvisoryLocker = (*Locker)(nil)

// Locker is the single-process stand-in for the Postgres advisory locker.
type Locker struct {
	mu   sync.Mutex
	held map[int64]bool
}

func NewLocker() *Locker {
	return &Locker{held: make(map[int64]bool)}
}

func (l *Locker) TryWithLock(ctx context.Context, key int64, fn func(ctx context.Context) error) (bool, error) {
	l.mu.Lock()
	if l.held[key] {
		l.mu.Unlock()
		return false, nil
	}
	l.held[key] = true
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		delete(l.held, key)
		l.mu.Unlock()
	}()
	return true, fn(ctx)
}
