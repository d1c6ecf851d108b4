package operator

import (
	"context"

	"github.com/google/uuid"

	domainoperator "github.com/alanyang/shift-router/internal/domain/operator"
)

type ListFilters struct {
	ActiveOnly bool
}

// Repository manages the operator roster.
type Repository interface {
	Lister
	Create(ctx context.Context, op domainoperator.Operator) (domainoperator.Operator, error)
	GetByID(ctx context.Context, id uuid.UUID) (domainoperator.Operator, error)
	GetByEmail(ctx context.Context, email string) (domainoperator.Operator, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

// Lister is the narrow interface the eligibility calculator needs.
// Implementations return operators in creation order.
type Lister interface {
	List(ctx context.Context, filters ListFilters) ([]domainoperator.Operator, error)
}
