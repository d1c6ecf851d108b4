package wire

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyang/shift-router/internal/config"
	"github.com/alanyang/shift-router/internal/domain/pass"
	controllersvc "github.com/alanyang/shift-router/internal/service/controller"
)

type runnerFunc func(ctx context.Context, trigger pass.Trigger) (pass.Outcome, error)

func (f runnerFunc) RunOnce(ctx context.Context, trigger pass.Trigger) (pass.Outcome, error) {
	return f(ctx, trigger)
}

type prunerFunc func(ctx context.Context) (int64, error)

func (f prunerFunc) PruneOutcomes(ctx context.Context) (int64, error) { return f(ctx) }

func TestDriver_TicksPeriodicPasses(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	done := startDriver(ctx, runnerFunc(func(_ context.Context, trigger pass.Trigger) (pass.Outcome, error) {
		assert.Equal(t, pass.TriggerPeriodic, trigger)
		calls.Add(1)
		return pass.Outcome{Reason: pass.ReasonNoTasks}, nil
	}), 10*time.Millisecond)

	require.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("driver did not stop")
	}
}

func TestDriver_ShutdownWaitsForInFlightPass(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	var passCtxErr error
	done := startDriver(ctx, runnerFunc(func(passCtx context.Context, _ pass.Trigger) (pass.Outcome, error) {
		once.Do(func() { close(started) })
		<-release
		passCtxErr = passCtx.Err()
		return pass.Outcome{}, nil
	}), 5*time.Millisecond)

	<-started
	cancel()

	select {
	case <-done:
		t.Fatal("driver returned while a pass was in flight")
	case <-time.After(30 * time.Millisecond):
	}

	close(release)
	<-done
	assert.NoError(t, passCtxErr, "the pass context must survive shutdown")
}

func TestDriver_RejectionIsNotFatal(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	done := startDriver(ctx, runnerFunc(func(context.Context, pass.Trigger) (pass.Outcome, error) {
		calls.Add(1)
		return pass.Outcome{}, controllersvc.ErrConcurrencyRejected
	}), 5*time.Millisecond)

	require.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
}

func TestJanitor_PrunesAtStartAndOnTick(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	startJanitor(ctx, prunerFunc(func(context.Context) (int64, error) {
		if calls.Add(1) == 1 {
			return 0, errors.New("db down")
		}
		return 1, nil
	}), 10*time.Millisecond)

	assert.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
}

func TestBuild_InMemory(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	cfg := config.Default()
	cfg.Pyrus.Login = "bot@x.ru"
	cfg.Pyrus.SecurityKey = "secret"
	cfg.Policy.Timezone = "UTC"
	cfg.Policy.Cadence = "1h"
	cfg.Operators = []config.OperatorSeed{{Name: "Anna", Email: "anna@x.ru"}}

	app, err := Build(ctx, cfg)
	require.NoError(t, err)
	assert.Nil(t, app.Pool)
	assert.Equal(t, ":8080", app.Server.Addr)

	st, err := app.ControlSvc.Status(ctx)
	require.NoError(t, err)
	require.Len(t, st.Operators, 1)
	assert.Equal(t, "anna@x.ru", st.Operators[0].Operator.Email)

	cancel()
	<-app.DriverDone
	app.Close()
}
