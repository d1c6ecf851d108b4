package distributor

import (
	"context"

	"github.com/alanyang/shift-router/internal/domain/pass"
)

// Distributor runs one pass over the open tasks.
// [SRP] It assigns and records; it does not decide when to run or guard against overlap.
type Distributor interface {
	Run(ctx context.Context, trigger pass.Trigger) pass.Outcome
}
