package controller_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/alanyang/shift-router/internal/adapter/memory"
	"github.com/alanyang/shift-router/internal/clock"
	"github.com/alanyang/shift-router/internal/domain/assignment"
	domainavail "github.com/alanyang/shift-router/internal/domain/availability"
	"github.com/alanyang/shift-router/internal/domain/event"
	domainoperator "github.com/alanyang/shift-router/internal/domain/operator"
	"github.com/alanyang/shift-router/internal/domain/pass"
	"github.com/alanyang/shift-router/internal/domain/policy"
	domainrunstate "github.com/alanyang/shift-router/internal/domain/runstate"
	"github.com/alanyang/shift-router/internal/mocks"
	"github.com/alanyang/shift-router/internal/service/controller"
	"github.com/alanyang/shift-router/internal/service/distributor"
	"github.com/alanyang/shift-router/internal/service/eligibility"
)

var nine = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

type deps struct {
	store    *memory.RunStateStore
	outcomes *memory.OutcomeLog
	bus      *memory.EventBus
	ops      *memory.OperatorRepository
	avail    *memory.AvailabilityRepository
	ledger   *memory.Ledger
	clock    *clock.Fixed
	calc     *eligibility.Calculator
}

func newDeps() *deps {
	d := &deps{
		store:    memory.NewRunStateStore(),
		outcomes: memory.NewOutcomeLog(),
		bus:      memory.NewEventBus(),
		ops:      memory.NewOperatorRepository(),
		avail:    memory.NewAvailabilityRepository(),
		ledger:   memory.NewLedger(),
		clock:    clock.NewFixed(nine),
	}
	d.calc = eligibility.NewCalculator(d.ops, d.avail, d.ledger, policy.Default())
	return d
}

func (d *deps) controller(dist *mocks.MockDistributor, metrics *mocks.MockMetricsRecorder) *controller.Service {
	return controller.NewService(d.store, dist, d.calc, d.outcomes, memory.NewLocker(), d.bus, metrics, d.clock, policy.Default())
}

func (d *deps) collect(t *testing.T, ch event.Channel) *[]event.Type {
	t.Helper()
	var mu sync.Mutex
	got := []event.Type{}
	sub, err := d.bus.Subscribe(context.Background(), ch, func(_ context.Context, e event.Event) {
		mu.Lock()
		got = append(got, e.Type)
		mu.Unlock()
	})
	require.NoError(t, err)
	t.Cleanup(sub.Unsubscribe)
	return &got
}

func TestStartStop(t *testing.T) {
	ctrl := gomock.NewController(t)
	d := newDeps()
	svc := d.controller(mocks.NewMockDistributor(ctrl), mocks.NewMockMetricsRecorder(ctrl))
	events := d.collect(t, event.ChannelDistribution)
	ctx := context.Background()

	st, err := svc.Stop(ctx)
	require.NoError(t, err)
	assert.False(t, st.Running)
	assert.True(t, st.ManualOverride)

	st, err = svc.Start(ctx)
	require.NoError(t, err)
	assert.True(t, st.Running)
	assert.False(t, st.ManualOverride)

	// start is valid from Running
	st, err = svc.SetRunning(ctx, true)
	require.NoError(t, err)
	assert.True(t, st.Running)

	persisted, err := d.store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, st, persisted)
	assert.Equal(t, []event.Type{event.TypeRunStopped, event.TypeRunStarted, event.TypeRunStarted}, *events)
}

func TestStart_SaveError(t *testing.T) {
	ctrl := gomock.NewController(t)
	d := newDeps()
	store := mocks.NewMockRunStateStore(ctrl)
	svc := controller.NewService(store, mocks.NewMockDistributor(ctrl), d.calc, d.outcomes, memory.NewLocker(), d.bus, nil, d.clock, policy.Default())

	store.EXPECT().Get(gomock.Any()).Return(domainrunstate.Initial(nine), nil)
	store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("db down"))

	_, err := svc.Start(context.Background())
	assert.Error(t, err)
}

func TestRunOnce_RecordsOutcome(t *testing.T) {
	ctrl := gomock.NewController(t)
	d := newDeps()
	dist := mocks.NewMockDistributor(ctrl)
	metrics := mocks.NewMockMetricsRecorder(ctrl)
	svc := d.controller(dist, metrics)
	events := d.collect(t, event.ChannelDistribution)

	want := pass.New(pass.TriggerManual, nine)
	want.Reason = pass.ReasonCompleted
	want.Assigned = 2

	dist.EXPECT().Run(gomock.Any(), pass.TriggerManual).Return(want)
	metrics.EXPECT().ObservePass(want)

	got, err := svc.RunOnce(context.Background(), pass.TriggerManual)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	recent, err := d.outcomes.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, want.ID, recent[0].ID)
	assert.Equal(t, []event.Type{event.TypePassCompleted}, *events)
}

func TestRunOnce_RejectsWhileInFlight(t *testing.T) {
	ctrl := gomock.NewController(t)
	d := newDeps()
	dist := mocks.NewMockDistributor(ctrl)
	metrics := mocks.NewMockMetricsRecorder(ctrl)
	svc := d.controller(dist, metrics)

	started := make(chan struct{})
	release := make(chan struct{})
	dist.EXPECT().Run(gomock.Any(), pass.TriggerPeriodic).DoAndReturn(func(context.Context, pass.Trigger) pass.Outcome {
		close(started)
		<-release
		return pass.Outcome{Trigger: pass.TriggerPeriodic, Reason: pass.ReasonNoTasks}
	}).Times(1)
	metrics.EXPECT().ObservePass(gomock.Any()).Times(1)
	metrics.EXPECT().ObserveRejectedPass().Times(1)

	done := make(chan error, 1)
	go func() {
		_, err := svc.RunOnce(context.Background(), pass.TriggerPeriodic)
		done <- err
	}()
	<-started

	status, err := svc.Status(context.Background())
	require.NoError(t, err)
	assert.True(t, status.PassInFlight)

	_, err = svc.RunOnce(context.Background(), pass.TriggerManual)
	assert.ErrorIs(t, err, controller.ErrConcurrencyRejected)

	close(release)
	require.NoError(t, <-done)

	status, err = svc.Status(context.Background())
	require.NoError(t, err)
	assert.False(t, status.PassInFlight)
}

func TestRunOnce_RejectsWhenAnotherReplicaHoldsLock(t *testing.T) {
	ctrl := gomock.NewController(t)
	d := newDeps()
	dist := mocks.NewMockDistributor(ctrl)
	metrics := mocks.NewMockMetricsRecorder(ctrl)
	locker := mocks.NewMockAdvisoryLocker(ctrl)
	svc := controller.NewService(d.store, dist, d.calc, d.outcomes, locker, d.bus, metrics, d.clock, policy.Default())

	locker.EXPECT().TryWithLock(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
	metrics.EXPECT().ObserveRejectedPass()

	_, err := svc.RunOnce(context.Background(), pass.TriggerPeriodic)
	assert.ErrorIs(t, err, controller.ErrConcurrencyRejected)
}

func TestRunOnce_LockError(t *testing.T) {
	ctrl := gomock.NewController(t)
	d := newDeps()
	locker := mocks.NewMockAdvisoryLocker(ctrl)
	svc := controller.NewService(d.store, mocks.NewMockDistributor(ctrl), d.calc, d.outcomes, locker, d.bus, nil, d.clock, policy.Default())

	locker.EXPECT().TryWithLock(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, errors.New("pool closed"))
	completed := d.collect(t, event.ChannelDistribution)

	out, err := svc.RunOnce(context.Background(), pass.TriggerPeriodic)
	require.Error(t, err)
	assert.NotErrorIs(t, err, controller.ErrConcurrencyRejected)
	assert.Equal(t, pass.ReasonAborted, out.Reason)
	assert.Contains(t, out.Error, "pool closed")

	st, err := svc.Status(context.Background())
	require.NoError(t, err)
	require.Len(t, st.RecentOutcomes, 1)
	assert.Equal(t, out.ID, st.RecentOutcomes[0].ID)
	assert.Equal(t, pass.ReasonAborted, st.RecentOutcomes[0].Reason)
	assert.Equal(t, []event.Type{event.TypePassCompleted}, *completed)
}

func TestRunOnce_SlowSubscriberDoesNotHoldPassGate(t *testing.T) {
	d := newDeps()
	dist := distFunc(func(_ context.Context, trigger pass.Trigger) pass.Outcome {
		out := pass.New(trigger, nine)
		out.Reason = pass.ReasonNoTasks
		return out
	})
	svc := controller.NewService(d.store, dist, d.calc, d.outcomes, memory.NewLocker(), d.bus, nil, d.clock, policy.Default())

	blocked := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	sub, err := d.bus.Subscribe(context.Background(), event.ChannelDistribution, func(context.Context, event.Event) {
		first := false
		once.Do(func() { first = true })
		if first {
			close(blocked)
			<-release
		}
	})
	require.NoError(t, err)
	defer sub.Unsubscribe()

	firstDone := make(chan struct{})
	go func() {
		defer close(firstDone)
		svc.RunOnce(context.Background(), pass.TriggerManual) //nolint:errcheck
	}()
	<-blocked

	// The first caller is still delivering its event; the gate must already be open.
	_, err = svc.RunOnce(context.Background(), pass.TriggerPeriodic)
	assert.NoError(t, err)
	_, err = svc.Stop(context.Background())
	assert.NoError(t, err)

	close(release)
	<-firstDone
}

func TestRunOnce_NoOverlapUnderConcurrentCallers(t *testing.T) {
	d := newDeps()
	var (
		mu      sync.Mutex
		active  int
		overlap bool
	)
	dist := distFunc(func(ctx context.Context, trigger pass.Trigger) pass.Outcome {
		mu.Lock()
		active++
		if active > 1 {
			overlap = true
		}
		mu.Unlock()
		time.Sleep(5 * time.Millisecond)
		mu.Lock()
		active--
		mu.Unlock()
		return pass.New(trigger, nine)
	})
	svc := controller.NewService(d.store, dist, d.calc, d.outcomes, memory.NewLocker(), d.bus, nil, d.clock, policy.Default())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.RunOnce(context.Background(), pass.TriggerManual)
			if err != nil {
				assert.ErrorIs(t, err, controller.ErrConcurrencyRejected)
			}
		}()
	}
	wg.Wait()
	assert.False(t, overlap)
}

type distFunc func(ctx context.Context, trigger pass.Trigger) pass.Outcome

func (f distFunc) Run(ctx context.Context, trigger pass.Trigger) pass.Outcome { return f(ctx, trigger) }

func TestRunOnce_StoppedEndToEnd(t *testing.T) {
	ctrl := gomock.NewController(t)
	d := newDeps()
	source := mocks.NewMockTaskSource(ctrl)
	dist := distributor.NewService(d.store, d.calc, source, d.ledger, d.clock, policy.Default())
	svc := controller.NewService(d.store, dist, d.calc, d.outcomes, memory.NewLocker(), d.bus, nil, d.clock, policy.Default())

	_, err := svc.Stop(context.Background())
	require.NoError(t, err)

	out, err := svc.RunOnce(context.Background(), pass.TriggerManual)
	require.NoError(t, err)
	assert.Equal(t, pass.ReasonStopped, out.Reason)
	assert.Equal(t, 0, out.Assigned)
}

func TestStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	d := newDeps()
	svc := d.controller(mocks.NewMockDistributor(ctrl), mocks.NewMockMetricsRecorder(ctrl))
	ctx := context.Background()

	op, err := domainoperator.New("Anna", "a@x.ru")
	require.NoError(t, err)
	_, err = d.ops.Create(ctx, op)
	require.NoError(t, err)
	_, err = d.avail.Upsert(ctx, domainavail.DailyAvailability{
		OperatorEmail: "a@x.ru", Date: nine, Scheduled: true, StartHour: 8, EndHour: 17, Available: true,
	})
	require.NoError(t, err)
	require.NoError(t, d.ledger.Append(ctx, assignment.New("T1", "a@x.ru", nine.Add(-time.Minute))))

	for i := 0; i < 12; i++ {
		o := pass.New(pass.TriggerPeriodic, nine.Add(time.Duration(i)*time.Minute))
		require.NoError(t, d.outcomes.Record(ctx, o))
	}

	d.clock.Set(time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC))
	status, err := svc.Status(ctx)
	require.NoError(t, err)

	assert.False(t, status.RunState.Running)
	assert.Equal(t, "stopped", string(status.Phase))
	assert.InDelta(t, 9.5, status.CurrentHour, 0.0001)
	assert.True(t, status.InOperatingWindow)
	assert.Equal(t, 20, status.DailyQuota)
	require.Len(t, status.Operators, 1)
	assert.True(t, status.Operators[0].Eligible)
	assert.Equal(t, 1, status.Operators[0].Count)
	require.Len(t, status.RecentOutcomes, 10)
	assert.True(t, status.RecentOutcomes[0].StartedAt.After(status.RecentOutcomes[9].StartedAt))
}

func TestPruneOutcomes(t *testing.T) {
	ctrl := gomock.NewController(t)
	d := newDeps()
	svc := d.controller(mocks.NewMockDistributor(ctrl), mocks.NewMockMetricsRecorder(ctrl))
	ctx := context.Background()

	require.NoError(t, d.outcomes.Record(ctx, pass.New(pass.TriggerPeriodic, nine.AddDate(0, 0, -8))))
	require.NoError(t, d.outcomes.Record(ctx, pass.New(pass.TriggerPeriodic, nine.AddDate(0, 0, -6))))
	require.NoError(t, d.outcomes.Record(ctx, pass.New(pass.TriggerPeriodic, nine)))

	n, err := svc.PruneOutcomes(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	recent, err := d.outcomes.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, recent, 2)
}
