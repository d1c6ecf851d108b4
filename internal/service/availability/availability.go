package availability

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alanyang/shift-router/internal/clock"
	domainavail "github.com/alanyang/shift-router/internal/domain/availability"
	"github.com/alanyang/shift-router/internal/domain/event"
	domainoperator "github.com/alanyang/shift-router/internal/domain/operator"
	portavail "github.com/alanyang/shift-router/internal/port/availability"
	portbus "github.com/alanyang/shift-router/internal/port/eventbus"
	portoperator "github.com/alanyang/shift-router/internal/port/operator"
)

// Update is a schedule change from the control surface. An empty Date means today.
type Update struct {
	OperatorEmail string `json:"operator_email"`
	Date          string `json:"date,omitempty"`
	Scheduled     bool   `json:"working_today"`
	StartHour     int    `json:"start_hour"`
	EndHour       int    `json:"end_hour"`
	Available     bool   `json:"available"`
}

// Service is the only writer of availability rows. Invalid input is rejected here and
// never reaches the distributor.
type Service struct {
	repo      portavail.Repository
	operators portoperator.Repository
	bus       portbus.EventBus
	clock     clock.Clock
}

func NewService(repo portavail.Repository, operators portoperator.Repository, bus portbus.EventBus, clk clock.Clock) *Service {
	return &Service{repo: repo, operators: operators, bus: bus, clock: clk}
}

func (s *Service) Update(ctx context.Context, u Update) (domainavail.DailyAvailability, error) {
	date, err := s.parseDate(u.Date)
	if err != nil {
		return domainavail.DailyAvailability{}, err
	}

	row := domainavail.DailyAvailability{
		OperatorEmail: strings.TrimSpace(u.OperatorEmail),
		Date:          date,
		Scheduled:     u.Scheduled,
		StartHour:     u.StartHour,
		EndHour:       u.EndHour,
		Available:     u.Available,
		UpdatedAt:     s.clock.Now(),
	}
	if err := row.Validate(); err != nil {
		return domainavail.DailyAvailability{}, err
	}

	op, err := s.operators.GetByEmail(ctx, row.OperatorEmail)
	if errors.Is(err, domainoperator.ErrNotFound) {
		return domainavail.DailyAvailability{}, fmt.Errorf("%w: unknown operator %s", domainavail.ErrInvalidInput, row.OperatorEmail)
	}
	if err != nil {
		return domainavail.DailyAvailability{}, fmt.Errorf("look up operator: %w", err)
	}
	if !op.Active {
		return domainavail.DailyAvailability{}, fmt.Errorf("%w: operator %s is deactivated", domainavail.ErrInvalidInput, row.OperatorEmail)
	}

	saved, err := s.repo.Upsert(ctx, row)
	if err != nil {
		return domainavail.DailyAvailability{}, fmt.Errorf("upsert availability: %w", err)
	}

	slog.InfoContext(ctx, "availability updated",
		"operator", saved.OperatorEmail, "date", domainavail.DateKey(saved.Date),
		"working_today", saved.Scheduled, "start_hour", saved.StartHour, "end_hour", saved.EndHour,
		"available", saved.Available)
	if err := s.bus.Publish(ctx, event.New(event.TypeAvailabilityUpdated, op.ID)); err != nil {
		slog.ErrorContext(ctx, "failed to publish AvailabilityUpdated event", "operator", saved.OperatorEmail, "error", err)
	}
	return saved, nil
}

// Get returns the stored row, or the default for an absent one.
func (s *Service) Get(ctx context.Context, email, date string) (domainavail.DailyAvailability, error) {
	day, err := s.parseDate(date)
	if err != nil {
		return domainavail.DailyAvailability{}, err
	}
	row, found, err := s.repo.Get(ctx, email, day)
	if err != nil {
		return domainavail.DailyAvailability{}, fmt.Errorf("get availability: %w", err)
	}
	if !found {
		return domainavail.Default(email, day), nil
	}
	return row, nil
}

// ForDate returns one row per active operator, defaulting the missing ones.
func (s *Service) ForDate(ctx context.Context, date string) ([]domainavail.DailyAvailability, error) {
	day, err := s.parseDate(date)
	if err != nil {
		return nil, err
	}

	ops, err := s.operators.List(ctx, portoperator.ListFilters{ActiveOnly: true})
	if err != nil {
		return nil, fmt.Errorf("list active operators: %w", err)
	}
	rows, err := s.repo.ListForDate(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("list availability: %w", err)
	}

	byEmail := make(map[string]domainavail.DailyAvailability, len(rows))
	for _, r := range rows {
		byEmail[r.OperatorEmail] = r
	}

	out := make([]domainavail.DailyAvailability, 0, len(ops))
	for _, op := range ops {
		if r, ok := byEmail[op.Email]; ok {
			out = append(out, r)
			continue
		}
		out = append(out, domainavail.Default(op.Email, day))
	}
	return out, nil
}

// parseDate reads YYYY-MM-DD in the operating timezone; "" means today.
func (s *Service) parseDate(date string) (time.Time, error) {
	today := s.clock.Today()
	if date == "" {
		return today, nil
	}
	d, err := time.ParseInLocation(domainavail.DateLayout, date, today.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q is not YYYY-MM-DD", domainavail.ErrInvalidInput, date)
	}
	return d, nil
}
