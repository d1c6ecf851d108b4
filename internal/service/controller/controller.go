package controller

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/alanyang/shift-router/internal/clock"
	"github.com/alanyang/shift-router/internal/domain/event"
	"github.com/alanyang/shift-router/internal/domain/pass"
	"github.com/alanyang/shift-router/internal/domain/policy"
	domainrunstate "github.com/alanyang/shift-router/internal/domain/runstate"
	portdist "github.com/alanyang/shift-router/internal/port/distributor"
	portbus "github.com/alanyang/shift-router/internal/port/eventbus"
	portlocker "github.com/alanyang/shift-router/internal/port/locker"
	portmetrics "github.com/alanyang/shift-router/internal/port/metrics"
	portoutcome "github.com/alanyang/shift-router/internal/port/outcome"
	portrunstate "github.com/alanyang/shift-router/internal/port/runstate"
	"github.com/alanyang/shift-router/internal/service/eligibility"
)

// ErrConcurrencyRejected is returned by RunOnce while another pass is in flight,
// in this process or in another replica sharing the database.
var ErrConcurrencyRejected = errors.New("a distribution pass is already in progress")

// passLockKey is the advisory lock shared by every replica.
var passLockKey = advisoryKey("shift-router:distribution-pass")

// Snapshotter is satisfied by *eligibility.Calculator.
type Snapshotter interface {
	Snapshot(ctx context.Context, now time.Time) ([]eligibility.OperatorStatus, error)
}

// Status is everything the control surface shows.
type Status struct {
	RunState          domainrunstate.State         `json:"run_state"`
	Phase             domainrunstate.Phase         `json:"phase"`
	Now               time.Time                    `json:"now"`
	CurrentHour       float64                      `json:"current_hour"`
	InOperatingWindow bool                         `json:"within_work_hours"`
	PassInFlight      bool                         `json:"pass_in_flight"`
	DailyQuota        int                          `json:"daily_quota"`
	Operators         []eligibility.OperatorStatus `json:"operators"`
	RecentOutcomes    []pass.Outcome               `json:"recent_outcomes"`
}

// Service owns the run state and the single-flight gate in front of the distributor.
// [SRP] Decides whether and when a pass may run; the distributor decides what it does.
// [DIP] Depends on ports, never on adapters or transport.
type Service struct {
	store       portrunstate.Store
	dist        portdist.Distributor
	eligibility Snapshotter
	outcomes    portoutcome.Log
	locker      portlocker.AdvisoryLocker
	bus         portbus.EventBus
	metrics     portmetrics.Recorder
	clock       clock.Clock
	policy      policy.Policy

	stateMu  sync.Mutex
	passMu   sync.Mutex
	inFlight atomic.Bool
}

func NewService(
	store portrunstate.Store,
	dist portdist.Distributor,
	snapshots Snapshotter,
	outcomes portoutcome.Log,
	locker portlocker.AdvisoryLocker,
	bus portbus.EventBus,
	metrics portmetrics.Recorder,
	clk clock.Clock,
	pol policy.Policy,
) *Service {
	if metrics == nil {
		metrics = portmetrics.Nop{}
	}
	return &Service{
		store:       store,
		dist:        dist,
		eligibility: snapshots,
		outcomes:    outcomes,
		locker:      locker,
		bus:         bus,
		metrics:     metrics,
		clock:       clk,
		policy:      pol,
	}
}

// Start switches distribution on and clears the manual override.
func (s *Service) Start(ctx context.Context) (domainrunstate.State, error) {
	return s.transition(ctx, event.TypeRunStarted, domainrunstate.State.Start)
}

// Stop switches distribution off and records the manual override.
func (s *Service) Stop(ctx context.Context) (domainrunstate.State, error) {
	return s.transition(ctx, event.TypeRunStopped, domainrunstate.State.Stop)
}

// SetRunning is Start or Stop depending on running.
func (s *Service) SetRunning(ctx context.Context, running bool) (domainrunstate.State, error) {
	if running {
		return s.Start(ctx)
	}
	return s.Stop(ctx)
}

func (s *Service) transition(
	ctx context.Context,
	typ event.Type,
	next func(domainrunstate.State, time.Time) domainrunstate.State,
) (domainrunstate.State, error) {
	updated, err := s.saveState(ctx, next)
	if err != nil {
		return domainrunstate.State{}, err
	}
	// Published outside stateMu: subscribers may be slow.
	if err := s.bus.Publish(ctx, event.New(typ, uuid.Nil)); err != nil {
		slog.ErrorContext(ctx, "failed to publish run state event", "type", typ, "error", err)
	}
	return updated, nil
}

func (s *Service) saveState(
	ctx context.Context,
	next func(domainrunstate.State, time.Time) domainrunstate.State,
) (domainrunstate.State, error) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	cur, err := s.store.Get(ctx)
	if err != nil {
		return domainrunstate.State{}, fmt.Errorf("get run state: %w", err)
	}
	updated := next(cur, s.clock.Now())
	if err := s.store.Save(ctx, updated); err != nil {
		return domainrunstate.State{}, fmt.Errorf("save run state: %w", err)
	}
	slog.InfoContext(ctx, "run state changed", "from", cur.Phase(), "to", updated.Phase(), "manual_override", updated.ManualOverride)
	return updated, nil
}

// RunOnce executes one pass unless another is already running; it never waits for one.
// A pass that could not take the distribution lock is still recorded, as aborted.
func (s *Service) RunOnce(ctx context.Context, trigger pass.Trigger) (pass.Outcome, error) {
	out, ran, err := s.runExclusive(ctx, trigger)
	if ran {
		// Published after the single-flight gate is released: subscribers may be slow.
		if perr := s.bus.Publish(ctx, event.New(event.TypePassCompleted, out.ID)); perr != nil {
			slog.ErrorContext(ctx, "failed to publish PassCompleted event", "pass_id", out.ID, "error", perr)
		}
	}
	return out, err
}

func (s *Service) runExclusive(ctx context.Context, trigger pass.Trigger) (out pass.Outcome, ran bool, err error) {
	if !s.passMu.TryLock() {
		return pass.Outcome{}, false, s.reject(ctx, trigger, "in process")
	}
	defer s.passMu.Unlock()

	s.inFlight.Store(true)
	defer s.inFlight.Store(false)

	acquired, err := s.locker.TryWithLock(ctx, passLockKey, func(ctx context.Context) error {
		out = s.dist.Run(ctx, trigger)
		return nil
	})
	if err != nil {
		err = fmt.Errorf("acquire distribution lock: %w", err)
		out = pass.New(trigger, s.clock.Now())
		out.Reason = pass.ReasonAborted
		out.Error = err.Error()
		out.FinishedAt = out.StartedAt
		s.finish(ctx, out)
		return out, true, err
	}
	if !acquired {
		return pass.Outcome{}, false, s.reject(ctx, trigger, "in another replica")
	}

	s.finish(ctx, out)
	return out, true, nil
}

func (s *Service) reject(ctx context.Context, trigger pass.Trigger, where string) error {
	s.metrics.ObserveRejectedPass()
	slog.DebugContext(ctx, "pass request rejected, pass already running", "trigger", trigger, "where", where)
	return ErrConcurrencyRejected
}

// finish records the outcome and metrics. Failures here are logged, never returned.
func (s *Service) finish(ctx context.Context, out pass.Outcome) {
	if err := s.outcomes.Record(ctx, out); err != nil {
		slog.ErrorContext(ctx, "failed to record pass outcome", "pass_id", out.ID, "error", err)
	}
	s.metrics.ObservePass(out)

	attrs := []any{
		"pass_id", out.ID, "trigger", out.Trigger, "reason", out.Reason,
		"assigned", out.Assigned, "skipped", out.Skipped, "failed", out.Failed,
		"duration", out.Duration(),
	}
	switch {
	case out.IsError():
		slog.ErrorContext(ctx, "distribution pass failed", append(attrs, "error", out.Error)...)
	case out.Assigned > 0 || out.Trigger == pass.TriggerManual:
		slog.InfoContext(ctx, "distribution pass finished", attrs...)
	default:
		slog.DebugContext(ctx, "distribution pass finished", attrs...)
	}
}

func (s *Service) Status(ctx context.Context) (Status, error) {
	state, err := s.store.Get(ctx)
	if err != nil {
		return Status{}, fmt.Errorf("get run state: %w", err)
	}

	now := s.clock.Now()
	operators, err := s.eligibility.Snapshot(ctx, now)
	if err != nil {
		return Status{}, fmt.Errorf("snapshot eligibility: %w", err)
	}

	recent, err := s.outcomes.Recent(ctx, s.policy.RecentOutcomes)
	if err != nil {
		return Status{}, fmt.Errorf("list recent outcomes: %w", err)
	}

	return Status{
		RunState:          state,
		Phase:             state.Phase(),
		Now:               now,
		CurrentHour:       policy.HourFraction(now),
		InOperatingWindow: s.policy.InOperatingWindow(now),
		PassInFlight:      s.inFlight.Load(),
		DailyQuota:        s.policy.DailyQuota,
		Operators:         operators,
		RecentOutcomes:    recent,
	}, nil
}

// PruneOutcomes removes outcomes older than the retention period.
func (s *Service) PruneOutcomes(ctx context.Context) (int64, error) {
	cutoff := s.clock.Now().Add(-s.policy.OutcomeRetention)
	n, err := s.outcomes.PruneBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune outcomes: %w", err)
	}
	if n > 0 {
		slog.InfoContext(ctx, "pruned pass outcomes", "deleted", n, "before", cutoff)
	}
	return n, nil
}

func advisoryKey(name string) int64 {
	h := fnv.New64a()
	h.Write([]byte(name)) //nolint:errcheck
	return int64(h.Sum64())
}
