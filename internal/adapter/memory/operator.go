package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	domainoperator "github.com/alanyang/shift-router/internal/domain/operator"
	portoperator "github.com/alanyang/shift-router/internal/port/operator"
)

var _ portoperator.Repository = (*OperatorRepository)(nil)

// OperatorRepository keeps operators in creation order.
type OperatorRepository struct {
	mu  sync.RWMutex
	ops []domainoperator.Operator
}

func NewOperatorRepository() *OperatorRepository {
	return &OperatorRepository{}
}

func (r *OperatorRepository) Create(_ context.Context, op domainoperator.Operator) (domainoperator.Operator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.ops {
		if existing.Email == op.Email {
			return domainoperator.Operator{}, fmt.Errorf("%w: %s", domainoperator.ErrDuplicate, op.Email)
		}
	}
	r.ops = append(r.ops, op)
	return op, nil
}

func (r *OperatorRepository) GetByID(_ context.Context, id uuid.UUID) (domainoperator.Operator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, op := range r.ops {
		if op.ID == id {
			return op, nil
		}
	}
	return domainoperator.Operator{}, domainoperator.ErrNotFound
}

func (r *OperatorRepository) GetByEmail(_ context.Context, email string) (domainoperator.Operator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, op := range r.ops {
		if op.Email == email {
			return op, nil
		}
	}
	return domainoperator.Operator{}, domainoperator.ErrNotFound
}

func (r *OperatorRepository) List(_ context.Context, filters portoperator.ListFilters) ([]domainoperator.Operator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domainoperator.Operator, 0, len(r.ops))
	for _, op := range r.ops {
		if filters.ActiveOnly && !op.Active {
			continue
		}
		out = append(out, op)
	}
	return out, nil
}

func (r *OperatorRepository) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.ops {
		if r.ops[i].ID == id {
			r.ops[i].Active = active
			return nil
		}
	}
	return domainoperator.ErrNotFound
}
