package eligibility

import (
	"context"
	"fmt"
	"time"

	"github.com/alanyang/shift-router/internal/clock"
	domainavail "github.com/alanyang/shift-router/internal/domain/availability"
	domainoperator "github.com/alanyang/shift-router/internal/domain/operator"
	"github.com/alanyang/shift-router/internal/domain/policy"
	portavail "github.com/alanyang/shift-router/internal/port/availability"
	portledger "github.com/alanyang/shift-router/internal/port/ledger"
	portoperator "github.com/alanyang/shift-router/internal/port/operator"
)

// Candidate is an eligible operator with the number of tasks they received today.
type Candidate struct {
	Operator domainoperator.Operator
	Count    int
}

// Ineligibility is the first check an operator failed.
type Ineligibility string

const (
	NotScheduled  Ineligibility = "not_scheduled"
	Unavailable   Ineligibility = "unavailable"
	OutsideShift  Ineligibility = "outside_shift"
	QuotaReached  Ineligibility = "quota_reached"
	notIneligible Ineligibility = ""
)

// OperatorStatus is one row of the status snapshot.
type OperatorStatus struct {
	Operator     domainoperator.Operator       `json:"operator"`
	Availability domainavail.DailyAvailability `json:"availability"`
	Count        int                           `json:"assigned_today"`
	Eligible     bool                          `json:"eligible"`
	Reason       Ineligibility                 `json:"reason,omitempty"`
}

// Calculator decides who may receive a task right now.
// [ISP] Reads through three one-method ports; it never writes.
type Calculator struct {
	operators    portoperator.Lister
	availability portavail.Reader
	ledger       portledger.Counter
	policy       policy.Policy
}

func NewCalculator(
	operators portoperator.Lister,
	availability portavail.Reader,
	ledger portledger.Counter,
	pol policy.Policy,
) *Calculator {
	return &Calculator{operators: operators, availability: availability, ledger: ledger, policy: pol}
}

// Eligible returns the eligible operators in listing order with their live counts.
// An empty result is not an error.
func (c *Calculator) Eligible(ctx context.Context, now time.Time) ([]Candidate, error) {
	statuses, err := c.evaluate(ctx, now, false)
	if err != nil {
		return nil, err
	}

	var out []Candidate
	for _, s := range statuses {
		if s.Eligible {
			out = append(out, Candidate{Operator: s.Operator, Count: s.Count})
		}
	}
	return out, nil
}

// Snapshot evaluates every active operator and keeps the ineligible ones too.
func (c *Calculator) Snapshot(ctx context.Context, now time.Time) ([]OperatorStatus, error) {
	return c.evaluate(ctx, now, true)
}

// evaluate only queries the ledger for operators that pass the schedule checks unless
// countAll is set.
func (c *Calculator) evaluate(ctx context.Context, now time.Time, countAll bool) ([]OperatorStatus, error) {
	ops, err := c.operators.List(ctx, portoperator.ListFilters{ActiveOnly: true})
	if err != nil {
		return nil, fmt.Errorf("list active operators: %w", err)
	}

	today := domainavail.Day(now)
	from, to := clock.DayBounds(now)

	out := make([]OperatorStatus, 0, len(ops))
	for _, op := range ops {
		avail, found, err := c.availability.Get(ctx, op.Email, today)
		if err != nil {
			return nil, fmt.Errorf("get availability for %s: %w", op.Email, err)
		}
		if !found {
			avail = domainavail.Default(op.Email, today)
		}

		status := OperatorStatus{Operator: op, Availability: avail}
		status.Reason = c.scheduleCheck(avail, now)

		if status.Reason == notIneligible || countAll {
			count, err := c.ledger.CountInRange(ctx, op.Email, from, to)
			if err != nil {
				return nil, fmt.Errorf("count assignments for %s: %w", op.Email, err)
			}
			status.Count = count
		}

		if status.Reason == notIneligible && status.Count >= c.policy.DailyQuota {
			status.Reason = QuotaReached
		}
		status.Eligible = status.Reason == notIneligible
		out = append(out, status)
	}
	return out, nil
}

func (c *Calculator) scheduleCheck(a domainavail.DailyAvailability, now time.Time) Ineligibility {
	switch {
	case !a.Scheduled:
		return NotScheduled
	case !a.Available:
		return Unavailable
	case !a.InShift(now, c.policy.ShiftEndBuffer):
		return OutsideShift
	default:
		return notIneligible
	}
}
