package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	domainavail "github.com/alanyang/shift-router/internal/domain/availability"
	portavail "github.com/alanyang/shift-router/internal/port/availability"
)

var _ portavail.Repository = (*AvailabilityRepository)(nil)

type availabilityKey struct {
	email string
	date  string
}

// AvailabilityRepository enforces one row per (operator, date) by keying on both.
type AvailabilityRepository struct {
	mu   sync.RWMutex
	rows map[availabilityKey]domainavail.DailyAvailability
}

func NewAvailabilityRepository() *AvailabilityRepository {
	return &AvailabilityRepository{rows: make(map[availabilityKey]domainavail.DailyAvailability)}
}

func (r *AvailabilityRepository) Get(_ context.Context, email string, date time.Time) (domainavail.DailyAvailability, bool, error) {
	r.mu.RLock()
	a, ok := r.rows[availabilityKey{email, domainavail.DateKey(date)}]
	r.mu.RUnlock()
	return a, ok, nil
}

func (r *AvailabilityRepository) Upsert(_ context.Context, a domainavail.DailyAvailability) (domainavail.DailyAvailability, error) {
	a.Date = domainavail.Day(a.Date)
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = time.Now().UTC()
	}
	r.mu.Lock()
	r.rows[availabilityKey{a.OperatorEmail, domainavail.DateKey(a.Date)}] = a
	r.mu.Unlock()
	return a, nil
}

func (r *AvailabilityRepository) ListForDate(_ context.Context, date time.Time) ([]domainavail.DailyAvailability, error) {
	key := domainavail.DateKey(date)
	r.mu.RLock()
	var out []domainavail.DailyAvailability
	for k, a := range r.rows {
		if k.date == key {
			out = append(out, a)
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].OperatorEmail < out[j].OperatorEmail })
	return out, nil
}
