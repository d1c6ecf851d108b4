package clock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyang/shift-router/internal/clock"
)

func TestFixed(t *testing.T) {
	t0 := time.Date(2026, 3, 2, 9, 15, 0, 0, time.UTC)
	c := clock.NewFixed(t0)

	assert.Equal(t, t0, c.Now())
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), c.Today())

	c.Advance(15 * time.Hour)
	assert.Equal(t, time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC), c.Today())
}

func TestSystem_UsesLocation(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Samara")
	require.NoError(t, err)

	now := clock.System(loc).Now()
	assert.Equal(t, loc, now.Location())
}

func TestDayBounds(t *testing.T) {
	loc := time.FixedZone("UTC+4", 4*3600)
	from, to := clock.DayBounds(time.Date(2026, 3, 2, 23, 59, 0, 0, loc))

	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, loc), from)
	assert.Equal(t, time.Date(2026, 3, 3, 0, 0, 0, 0, loc), to)
}
