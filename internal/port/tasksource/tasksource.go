package tasksource

import (
	"context"
	"errors"
)

var (
	// ErrUnauthorized is returned by raw clients when the service rejects the credentials.
	ErrUnauthorized = errors.New("task source: unauthorized")
	// ErrSourceUnavailable covers network failures, timeouts and credentials that stay rejected
	// after one refresh.
	ErrSourceUnavailable = errors.New("task source unavailable")
	// ErrAssignmentFailed marks a single owner change that did not go through.
	ErrAssignmentFailed = errors.New("task assignment failed")
)

// Source is the external task tracker, reduced to the four calls distribution needs.
type Source interface {
	// ListOpenTasks returns task ids in the order the tracker reports them.
	ListOpenTasks(ctx context.Context) ([]string, error)
	// CurrentOwner returns the owner's email. found=false means the task is unassigned.
	CurrentOwner(ctx context.Context, taskID string) (email string, found bool, err error)
	SetOwner(ctx context.Context, taskID, email string) error
	RefreshCredentials(ctx context.Context) error
}
