package distributor

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sort"
	"time"

	"github.com/alanyang/shift-router/internal/clock"
	"github.com/alanyang/shift-router/internal/domain/assignment"
	"github.com/alanyang/shift-router/internal/domain/pass"
	"github.com/alanyang/shift-router/internal/domain/policy"
	portdist "github.com/alanyang/shift-router/internal/port/distributor"
	portledger "github.com/alanyang/shift-router/internal/port/ledger"
	portrunstate "github.com/alanyang/shift-router/internal/port/runstate"
	porttasksource "github.com/alanyang/shift-router/internal/port/tasksource"
	"github.com/alanyang/shift-router/internal/service/eligibility"
)

var _ portdist.Distributor = (*Service)(nil)

// EligibleFinder is satisfied by *eligibility.Calculator.
type EligibleFinder interface {
	Eligible(ctx context.Context, now time.Time) ([]eligibility.Candidate, error)
}

// Service runs the least-loaded round robin over the open tasks.
// [SRP] One pass per call; single-flight belongs to the run controller.
// [ISP] Reads run state through runstate.Reader; the controller is the only writer.
type Service struct {
	runState    portrunstate.Reader
	eligibility EligibleFinder
	source      porttasksource.Source
	ledger      portledger.Ledger
	clock       clock.Clock
	policy      policy.Policy
}

func NewService(
	runState portrunstate.Reader,
	eligible EligibleFinder,
	source porttasksource.Source,
	ledger portledger.Ledger,
	clk clock.Clock,
	pol policy.Policy,
) *Service {
	return &Service{
		runState:    runState,
		eligibility: eligible,
		source:      source,
		ledger:      ledger,
		clock:       clk,
		policy:      pol,
	}
}

// Run never returns an error: failures end up in the outcome's Reason and Error.
func (s *Service) Run(ctx context.Context, trigger pass.Trigger) (out pass.Outcome) {
	now := s.clock.Now()
	out = pass.New(trigger, now)

	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "distribution pass panicked", "pass_id", out.ID, "panic", r, "stack", string(debug.Stack()))
			out.Reason = pass.ReasonAborted
			out.Error = fmt.Sprintf("panic: %v", r)
		}
		out.FinishedAt = s.clock.Now()
	}()

	state, err := s.runState.Get(ctx)
	if err != nil {
		return aborted(out, fmt.Errorf("get run state: %w", err))
	}
	if !state.Running {
		out.Reason = pass.ReasonStopped
		return out
	}
	if !s.policy.InOperatingWindow(now) {
		out.Reason = pass.ReasonOutsideWindow
		return out
	}

	candidates, err := s.eligibility.Eligible(ctx, now)
	if err != nil {
		return aborted(out, fmt.Errorf("compute eligible operators: %w", err))
	}
	if len(candidates) == 0 {
		out.Reason = pass.ReasonNoOperators
		return out
	}

	tasks, err := s.source.ListOpenTasks(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "listing open tasks failed", "pass_id", out.ID, "error", err)
		out.Reason = pass.ReasonSourceUnavailable
		out.Error = err.Error()
		return out
	}
	if len(tasks) == 0 {
		out.Reason = pass.ReasonNoTasks
		return out
	}

	return s.assign(ctx, out, candidates, tasks)
}

func (s *Service) assign(ctx context.Context, out pass.Outcome, queue []eligibility.Candidate, tasks []string) pass.Outcome {
	// Owners eligible at the start of the pass keep their tasks even if they hit quota mid-pass.
	staffed := make(map[string]struct{}, len(queue))
	// queue arrives in listing order; ties on count always fall back to it.
	rank := make(map[string]int, len(queue))
	for i, c := range queue {
		staffed[c.Operator.Email] = struct{}{}
		rank[c.Operator.Email] = i
	}
	sortByLoad(queue, rank)

	for i, taskID := range tasks {
		if err := ctx.Err(); err != nil {
			return aborted(out, fmt.Errorf("pass interrupted before task %s: %w", taskID, err))
		}

		owner, found, err := s.source.CurrentOwner(ctx, taskID)
		if err != nil {
			slog.WarnContext(ctx, "skipping task, owner lookup failed", "task_id", taskID, "error", err)
			out.Failed++
			continue
		}
		if _, ok := staffed[owner]; found && ok {
			out.Skipped++
			continue
		}

		target := &queue[0]
		if err := s.source.SetOwner(ctx, taskID, target.Operator.Email); err != nil {
			slog.WarnContext(ctx, "task assignment failed", "task_id", taskID, "operator", target.Operator.Email, "error", err)
			out.Failed++
			continue
		}

		rec := assignment.New(taskID, target.Operator.Email, s.clock.Now())
		if err := s.ledger.Append(ctx, rec); err != nil {
			slog.ErrorContext(ctx, "recording assignment failed, aborting pass",
				"task_id", taskID, "operator", target.Operator.Email, "error", err)
			return aborted(out, fmt.Errorf("append assignment for task %s: %w", taskID, err))
		}
		target.Count++
		out.Assigned++
		slog.InfoContext(ctx, "task assigned", "task_id", taskID, "operator", target.Operator.Email, "count", target.Count)

		if target.Count >= s.policy.DailyQuota {
			queue = queue[1:]
			if len(queue) == 0 {
				out.Skipped += len(tasks) - i - 1
				slog.InfoContext(ctx, "every eligible operator reached the daily quota", "pass_id", out.ID)
				break
			}
		}
		sortByLoad(queue, rank)
	}

	out.Reason = pass.ReasonCompleted
	return out
}

// sortByLoad orders by count, then by listing position.
func sortByLoad(queue []eligibility.Candidate, rank map[string]int) {
	sort.Slice(queue, func(i, j int) bool {
		if queue[i].Count != queue[j].Count {
			return queue[i].Count < queue[j].Count
		}
		return rank[queue[i].Operator.Email] < rank[queue[j].Operator.Email]
	})
}

func aborted(out pass.Outcome, err error) pass.Outcome {
	out.Reason = pass.ReasonAborted
	out.Error = err.Error()
	return out
}
