package availability_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/alanyang/shift-router/internal/adapter/memory"
	"github.com/alanyang/shift-router/internal/clock"
	domainavail "github.com/alanyang/shift-router/internal/domain/availability"
	"github.com/alanyang/shift-router/internal/domain/event"
	domainoperator "github.com/alanyang/shift-router/internal/domain/operator"
	"github.com/alanyang/shift-router/internal/mocks"
	"github.com/alanyang/shift-router/internal/service/availability"
)

var nine = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

type fixture struct {
	svc   *availability.Service
	repo  *memory.AvailabilityRepository
	ops   *memory.OperatorRepository
	clock *clock.Fixed
}

func newFixture(t *testing.T, emails ...string) *fixture {
	t.Helper()
	f := &fixture{
		repo:  memory.NewAvailabilityRepository(),
		ops:   memory.NewOperatorRepository(),
		clock: clock.NewFixed(nine),
	}
	for _, email := range emails {
		op, err := domainoperator.New(email, email)
		require.NoError(t, err)
		_, err = f.ops.Create(context.Background(), op)
		require.NoError(t, err)
	}
	f.svc = availability.NewService(f.repo, f.ops, memory.NewEventBus(), f.clock)
	return f
}

func TestUpdate_DefaultsToToday(t *testing.T) {
	f := newFixture(t, "a@x.ru")

	saved, err := f.svc.Update(context.Background(), availability.Update{
		OperatorEmail: "a@x.ru", Scheduled: true, StartHour: 9, EndHour: 18, Available: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "2026-03-02", domainavail.DateKey(saved.Date))

	row, found, err := f.repo.Get(context.Background(), "a@x.ru", nine)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 9, row.StartHour)
}

func TestUpdate_ReplacesSameDay(t *testing.T) {
	f := newFixture(t, "a@x.ru")
	ctx := context.Background()

	_, err := f.svc.Update(ctx, availability.Update{OperatorEmail: "a@x.ru", Date: "2026-03-03", Scheduled: true, StartHour: 8, EndHour: 17, Available: true})
	require.NoError(t, err)
	_, err = f.svc.Update(ctx, availability.Update{OperatorEmail: "a@x.ru", Date: "2026-03-03", Scheduled: true, StartHour: 10, EndHour: 12, Available: false})
	require.NoError(t, err)

	rows, err := f.repo.ListForDate(ctx, time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 10, rows[0].StartHour)
	assert.False(t, rows[0].Available)
}

func TestUpdate_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		u    availability.Update
	}{
		{"start after end", availability.Update{OperatorEmail: "a@x.ru", StartHour: 18, EndHour: 9}},
		{"start equals end", availability.Update{OperatorEmail: "a@x.ru", StartHour: 9, EndHour: 9}},
		{"negative start", availability.Update{OperatorEmail: "a@x.ru", StartHour: -1, EndHour: 9}},
		{"end past 23", availability.Update{OperatorEmail: "a@x.ru", StartHour: 9, EndHour: 24}},
		{"bad date", availability.Update{OperatorEmail: "a@x.ru", Date: "02.03.2026", StartHour: 8, EndHour: 17}},
		{"unknown operator", availability.Update{OperatorEmail: "ghost@x.ru", StartHour: 8, EndHour: 17}},
		{"missing operator", availability.Update{StartHour: 8, EndHour: 17}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "a@x.ru")

			_, err := f.svc.Update(context.Background(), tt.u)
			assert.ErrorIs(t, err, domainavail.ErrInvalidInput)

			rows, err := f.repo.ListForDate(context.Background(), nine)
			require.NoError(t, err)
			assert.Empty(t, rows)
		})
	}
}

func TestUpdate_DeactivatedOperator(t *testing.T) {
	f := newFixture(t, "a@x.ru")
	op, err := f.ops.GetByEmail(context.Background(), "a@x.ru")
	require.NoError(t, err)
	require.NoError(t, f.ops.SetActive(context.Background(), op.ID, false))

	_, err = f.svc.Update(context.Background(), availability.Update{OperatorEmail: "a@x.ru", StartHour: 8, EndHour: 17})
	assert.ErrorIs(t, err, domainavail.ErrInvalidInput)
}

func TestUpdate_PublishesEvent(t *testing.T) {
	ctrl := gomock.NewController(t)
	ops := memory.NewOperatorRepository()
	op, err := domainoperator.New("Anna", "a@x.ru")
	require.NoError(t, err)
	_, err = ops.Create(context.Background(), op)
	require.NoError(t, err)

	bus := mocks.NewMockEventBus(ctrl)
	svc := availability.NewService(memory.NewAvailabilityRepository(), ops, bus, clock.NewFixed(nine))

	bus.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e event.Event) error {
		assert.Equal(t, event.TypeAvailabilityUpdated, e.Type)
		assert.Equal(t, op.ID, e.EntityID)
		return errors.New("bus down")
	})

	_, err = svc.Update(context.Background(), availability.Update{OperatorEmail: "a@x.ru", StartHour: 8, EndHour: 17})
	assert.NoError(t, err)
}

func TestGet_DefaultsAbsentRow(t *testing.T) {
	f := newFixture(t, "a@x.ru")

	row, err := f.svc.Get(context.Background(), "a@x.ru", "")
	require.NoError(t, err)
	assert.False(t, row.Scheduled)
	assert.False(t, row.Available)
	assert.Equal(t, 8, row.StartHour)
	assert.Equal(t, 17, row.EndHour)
}

func TestForDate(t *testing.T) {
	f := newFixture(t, "a@x.ru", "b@x.ru")
	ctx := context.Background()

	_, err := f.svc.Update(ctx, availability.Update{OperatorEmail: "b@x.ru", Scheduled: true, StartHour: 10, EndHour: 19, Available: true})
	require.NoError(t, err)

	rows, err := f.svc.ForDate(ctx, "2026-03-02")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "a@x.ru", rows[0].OperatorEmail)
	assert.False(t, rows[0].Scheduled)
	assert.Equal(t, "b@x.ru", rows[1].OperatorEmail)
	assert.Equal(t, 10, rows[1].StartHour)
}
