package eligibility_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/alanyang/shift-router/internal/adapter/memory"
	"github.com/alanyang/shift-router/internal/domain/assignment"
	domainavail "github.com/alanyang/shift-router/internal/domain/availability"
	domainoperator "github.com/alanyang/shift-router/internal/domain/operator"
	"github.com/alanyang/shift-router/internal/domain/policy"
	"github.com/alanyang/shift-router/internal/mocks"
	"github.com/alanyang/shift-router/internal/service/eligibility"
)

type fixture struct {
	ops    *memory.OperatorRepository
	avail  *memory.AvailabilityRepository
	ledger *memory.Ledger
	calc   *eligibility.Calculator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		ops:    memory.NewOperatorRepository(),
		avail:  memory.NewAvailabilityRepository(),
		ledger: memory.NewLedger(),
	}
	f.calc = eligibility.NewCalculator(f.ops, f.avail, f.ledger, policy.Default())
	return f
}

func (f *fixture) operator(t *testing.T, email string) domainoperator.Operator {
	t.Helper()
	op, err := domainoperator.New(email, email)
	require.NoError(t, err)
	op, err = f.ops.Create(context.Background(), op)
	require.NoError(t, err)
	return op
}

func (f *fixture) schedule(t *testing.T, email string, day time.Time, start, end int, available bool) {
	t.Helper()
	_, err := f.avail.Upsert(context.Background(), domainavail.DailyAvailability{
		OperatorEmail: email,
		Date:          day,
		Scheduled:     true,
		StartHour:     start,
		EndHour:       end,
		Available:     available,
	})
	require.NoError(t, err)
}

func (f *fixture) assign(t *testing.T, email string, at time.Time, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, f.ledger.Append(context.Background(), assignment.New("seed", email, at)))
	}
}

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 2, hour, minute, 0, 0, time.UTC)
}

func TestEligible_Unscheduled(t *testing.T) {
	f := newFixture(t)
	f.operator(t, "norow@x.ru")
	f.operator(t, "off@x.ru")
	_, err := f.avail.Upsert(context.Background(), domainavail.DailyAvailability{
		OperatorEmail: "off@x.ru", Date: at(0, 0), Scheduled: false, StartHour: 0, EndHour: 23, Available: true,
	})
	require.NoError(t, err)

	for _, now := range []time.Time{at(0, 0), at(9, 0), at(12, 30), at(22, 59)} {
		got, err := f.calc.Eligible(context.Background(), now)
		require.NoError(t, err)
		assert.Empty(t, got, "at %s", now.Format("15:04"))
	}
}

func TestEligible_ManuallyUnavailable(t *testing.T) {
	f := newFixture(t)
	f.operator(t, "a@x.ru")
	f.schedule(t, "a@x.ru", at(0, 0), 8, 17, false)

	got, err := f.calc.Eligible(context.Background(), at(10, 0))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEligible_ShiftBoundaries(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"before start", at(7, 59), false},
		{"at start", at(8, 0), true},
		{"mid shift", at(12, 0), true},
		{"last minute before buffer", at(16, 49), true},
		{"buffer begins", at(16, 50), false},
		{"inside buffer", at(16, 55), false},
		{"last minute of shift", at(16, 59), false},
		{"at end", at(17, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.operator(t, "a@x.ru")
			f.schedule(t, "a@x.ru", at(0, 0), 8, 17, true)

			got, err := f.calc.Eligible(context.Background(), tt.now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, len(got) == 1)
		})
	}
}

func TestEligible_Quota(t *testing.T) {
	f := newFixture(t)
	f.operator(t, "full@x.ru")
	f.operator(t, "almost@x.ru")
	f.schedule(t, "full@x.ru", at(0, 0), 0, 23, true)
	f.schedule(t, "almost@x.ru", at(0, 0), 0, 23, true)
	f.assign(t, "full@x.ru", at(1, 0), 20)
	f.assign(t, "almost@x.ru", at(1, 0), 19)

	for _, now := range []time.Time{at(2, 0), at(12, 0), at(22, 0)} {
		got, err := f.calc.Eligible(context.Background(), now)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "almost@x.ru", got[0].Operator.Email)
		assert.Equal(t, 19, got[0].Count)
	}
}

func TestEligible_CountsOnlyToday(t *testing.T) {
	f := newFixture(t)
	f.operator(t, "a@x.ru")
	f.schedule(t, "a@x.ru", at(0, 0), 8, 17, true)
	f.assign(t, "a@x.ru", at(0, 0).Add(-time.Minute), 25)
	f.assign(t, "a@x.ru", at(8, 0), 3)

	got, err := f.calc.Eligible(context.Background(), at(9, 0))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 3, got[0].Count)
}

func TestEligible_ListingOrderAndInactive(t *testing.T) {
	f := newFixture(t)
	a := f.operator(t, "a@x.ru")
	b := f.operator(t, "b@x.ru")
	c := f.operator(t, "c@x.ru")
	for _, email := range []string{"a@x.ru", "b@x.ru", "c@x.ru"} {
		f.schedule(t, email, at(0, 0), 8, 17, true)
	}
	require.NoError(t, f.ops.SetActive(context.Background(), b.ID, false))

	got, err := f.calc.Eligible(context.Background(), at(9, 0))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, a.ID, got[0].Operator.ID)
	assert.Equal(t, c.ID, got[1].Operator.ID)
}

func TestSnapshot_Reasons(t *testing.T) {
	f := newFixture(t)
	f.operator(t, "norow@x.ru")
	f.operator(t, "held@x.ru")
	f.operator(t, "late@x.ru")
	f.operator(t, "full@x.ru")
	f.operator(t, "ok@x.ru")
	f.schedule(t, "held@x.ru", at(0, 0), 8, 17, false)
	f.schedule(t, "late@x.ru", at(0, 0), 14, 20, true)
	f.schedule(t, "full@x.ru", at(0, 0), 8, 17, true)
	f.schedule(t, "ok@x.ru", at(0, 0), 8, 17, true)
	f.assign(t, "full@x.ru", at(8, 30), 20)
	f.assign(t, "late@x.ru", at(8, 30), 1)

	got, err := f.calc.Snapshot(context.Background(), at(10, 0))
	require.NoError(t, err)
	require.Len(t, got, 5)

	byEmail := make(map[string]eligibility.OperatorStatus)
	for _, s := range got {
		byEmail[s.Operator.Email] = s
	}

	assert.Equal(t, eligibility.NotScheduled, byEmail["norow@x.ru"].Reason)
	assert.Equal(t, domainavail.DefaultStartHour, byEmail["norow@x.ru"].Availability.StartHour)
	assert.Equal(t, eligibility.Unavailable, byEmail["held@x.ru"].Reason)
	assert.Equal(t, eligibility.OutsideShift, byEmail["late@x.ru"].Reason)
	assert.Equal(t, 1, byEmail["late@x.ru"].Count)
	assert.Equal(t, eligibility.QuotaReached, byEmail["full@x.ru"].Reason)
	assert.True(t, byEmail["ok@x.ru"].Eligible)
	assert.Empty(t, byEmail["ok@x.ru"].Reason)
}

func TestEligible_SkipsLedgerForUnscheduled(t *testing.T) {
	ctrl := gomock.NewController(t)
	ops := memory.NewOperatorRepository()
	avail := memory.NewAvailabilityRepository()
	ledger := mocks.NewMockLedger(ctrl)

	op, err := domainoperator.New("a", "a@x.ru")
	require.NoError(t, err)
	_, err = ops.Create(context.Background(), op)
	require.NoError(t, err)

	// no availability row: the ledger must not be consulted
	calc := eligibility.NewCalculator(ops, avail, ledger, policy.Default())
	got, err := calc.Eligible(context.Background(), at(9, 0))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEligible_LedgerError(t *testing.T) {
	ctrl := gomock.NewController(t)
	ops := memory.NewOperatorRepository()
	avail := memory.NewAvailabilityRepository()
	ledger := mocks.NewMockLedger(ctrl)

	op, err := domainoperator.New("a", "a@x.ru")
	require.NoError(t, err)
	_, err = ops.Create(context.Background(), op)
	require.NoError(t, err)
	_, err = avail.Upsert(context.Background(), domainavail.DailyAvailability{
		OperatorEmail: "a@x.ru", Date: at(0, 0), Scheduled: true, StartHour: 8, EndHour: 17, Available: true,
	})
	require.NoError(t, err)

	ledger.EXPECT().CountInRange(gomock.Any(), "a@x.ru", at(0, 0), at(0, 0).AddDate(0, 0, 1)).Return(0, errors.New("db down"))

	calc := eligibility.NewCalculator(ops, avail, ledger, policy.Default())
	_, err = calc.Eligible(context.Background(), at(9, 0))
	assert.Error(t, err)
}
