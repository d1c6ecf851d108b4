package operator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/alanyang/shift-router/internal/domain/event"
	domainoperator "github.com/alanyang/shift-router/internal/domain/operator"
	portbus "github.com/alanyang/shift-router/internal/port/eventbus"
	portoperator "github.com/alanyang/shift-router/internal/port/operator"
)

// Seed is an operator listed in the config file.
type Seed struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
}

// Service administers the operator roster.
type Service struct {
	repo portoperator.Repository
	bus  portbus.EventBus
}

func NewService(repo portoperator.Repository, bus portbus.EventBus) *Service {
	return &Service{repo: repo, bus: bus}
}

func (s *Service) Create(ctx context.Context, name, email string) (domainoperator.Operator, error) {
	op, err := domainoperator.New(name, email)
	if err != nil {
		return domainoperator.Operator{}, err
	}

	created, err := s.repo.Create(ctx, op)
	if err != nil {
		return domainoperator.Operator{}, fmt.Errorf("create operator: %w", err)
	}
	s.publish(ctx, created.ID)
	return created, nil
}

func (s *Service) List(ctx context.Context, activeOnly bool) ([]domainoperator.Operator, error) {
	ops, err := s.repo.List(ctx, portoperator.ListFilters{ActiveOnly: activeOnly})
	if err != nil {
		return nil, fmt.Errorf("list operators: %w", err)
	}
	return ops, nil
}

func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.setActive(ctx, id, false)
}

func (s *Service) Activate(ctx context.Context, id uuid.UUID) error {
	return s.setActive(ctx, id, true)
}

func (s *Service) setActive(ctx context.Context, id uuid.UUID, active bool) error {
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return fmt.Errorf("set operator %s active=%t: %w", id, active, err)
	}
	s.publish(ctx, id)
	return nil
}

// Seed creates the listed operators that do not exist yet. Existing ones are left untouched,
// including their active flag.
func (s *Service) Seed(ctx context.Context, seeds []Seed) (int, error) {
	created := 0
	for _, seed := range seeds {
		_, err := s.repo.GetByEmail(ctx, seed.Email)
		if err == nil {
			continue
		}
		if !errors.Is(err, domainoperator.ErrNotFound) {
			return created, fmt.Errorf("look up seed operator %s: %w", seed.Email, err)
		}
		if _, err := s.Create(ctx, seed.Name, seed.Email); err != nil {
			return created, fmt.Errorf("seed operator %s: %w", seed.Email, err)
		}
		created++
	}
	if created > 0 {
		slog.InfoContext(ctx, "seeded operators", "created", created)
	}
	return created, nil
}

func (s *Service) publish(ctx context.Context, id uuid.UUID) {
	if err := s.bus.Publish(ctx, event.New(event.TypeOperatorChanged, id)); err != nil {
		slog.ErrorContext(ctx, "failed to publish OperatorChanged event", "operator_id", id, "error", err)
	}
}
