package runstate

import (
	"context"

	domainrunstate "github.com/alanyang/shift-router/internal/domain/runstate"
)

type Reader interface {
	Get(ctx context.Context) (domainrunstate.State, error)
}

// Store persists the singleton run state. Only the run controller calls Save.
type Store interface {
	Reader
	Save(ctx context.Context, s domainrunstate.State) error
}
