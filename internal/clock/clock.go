// Package clock supplies the current instant and calendar date in the operating timezone.
package clock

import (
	"sync"
	"time"
)

type Clock interface {
	Now() time.Time
	Today() time.Time
}

type system struct {
	loc *time.Location
}

// System reads the wall clock and converts it to loc.
func System(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return system{loc: loc}
}

func (s system) Now() time.Time   { return time.Now().In(s.loc) }
func (s system) Today() time.Time { return midnight(s.Now()) }

// Fixed is a settable clock for tests.
type Fixed struct {
	mu sync.RWMutex
	t  time.Time
}

func NewFixed(t time.Time) *Fixed {
	return &Fixed{t: t}
}

func (f *Fixed) Now() time.Time {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.t
}

func (f *Fixed) Today() time.Time { return midnight(f.Now()) }

func (f *Fixed) Set(t time.Time) {
	f.mu.Lock()
	f.t = t
	f.mu.Unlock()
}

func (f *Fixed) Advance(d time.Duration) {
	f.mu.Lock()
	f.t = f.t.Add(d)
	f.mu.Unlock()
}

// DayBounds returns [local midnight, next local midnight) for the date of t.
// AddDate keeps the bounds correct across DST shifts.
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := midnight(t)
	return start, start.AddDate(0, 0, 1)
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
