package memory

import (
	"context"
	"sync"
	"time"

	domainrunstate "github.com/alanyang/shift-router/internal/domain/runstate"
	portrunstate "github.com/alanyang/shift-router/internal/port/runstate"
)

var _ portrunstate.Store = (*RunStateStore)(nil)

type RunStateStore struct {
	mu    sync.RWMutex
	state domainrunstate.State
}

func NewRunStateStore() *RunStateStore {
	return &RunStateStore{state: domainrunstate.Initial(time.Now().UTC())}
}

func (s *RunStateStore) Get(_ context.Context) (domainrunstate.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state, nil
}

func (s *RunStateStore) Save(_ context.Context, st domainrunstate.State) error {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
	return nil
}
