package policy

import (
	"fmt"
	"time"
)

// Policy carries the distribution constants. The zero value is not usable; start from Default.
type Policy struct {
	Timezone *time.Location

	// WindowStart and WindowEnd are offsets from local midnight bounding the global
	// operating window: passes only run while WindowStart <= now < WindowEnd.
	WindowStart time.Duration
	WindowEnd   time.Duration

	// ShiftEndBuffer stops new tasks from landing on an operator right before their shift ends.
	ShiftEndBuffer time.Duration

	DailyQuota       int
	Cadence          time.Duration
	CallTimeout      time.Duration
	OutcomeRetention time.Duration
	RecentOutcomes   int
}

const DefaultTimezone = "Europe/Samara"

func Default() Policy {
	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		loc = time.UTC
	}
	return Policy{
		Timezone:         loc,
		WindowStart:      8*time.Hour + 30*time.Minute,
		WindowEnd:        20 * time.Hour,
		ShiftEndBuffer:   10 * time.Minute,
		DailyQuota:       20,
		Cadence:          60 * time.Second,
		CallTimeout:      30 * time.Second,
		OutcomeRetention: 7 * 24 * time.Hour,
		RecentOutcomes:   10,
	}
}

func (p Policy) Validate() error {
	if p.Timezone == nil {
		return fmt.Errorf("policy timezone is required")
	}
	if p.WindowStart < 0 || p.WindowEnd > 24*time.Hour || p.WindowStart >= p.WindowEnd {
		return fmt.Errorf("operating window %s-%s is invalid", FormatOffset(p.WindowStart), FormatOffset(p.WindowEnd))
	}
	if p.ShiftEndBuffer < 0 || p.ShiftEndBuffer >= time.Hour {
		return fmt.Errorf("shift end buffer %s must be in [0, 1h)", p.ShiftEndBuffer)
	}
	if p.DailyQuota <= 0 {
		return fmt.Errorf("daily quota must be positive, got %d", p.DailyQuota)
	}
	if p.Cadence <= 0 {
		return fmt.Errorf("pass cadence must be positive, got %s", p.Cadence)
	}
	if p.CallTimeout <= 0 {
		return fmt.Errorf("call timeout must be positive, got %s", p.CallTimeout)
	}
	return nil
}

// InOperatingWindow reports whether t falls inside the global operating window.
// Only hours and minutes count, matching HourFraction.
func (p Policy) InOperatingWindow(t time.Time) bool {
	off := SinceMidnight(t)
	return off >= p.WindowStart && off < p.WindowEnd
}

// SinceMidnight truncates t to the minute and returns its offset from local midnight.
func SinceMidnight(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute
}

// HourFraction is hour + minute/60, the figure shown on the status surface.
func HourFraction(t time.Time) float64 {
	return float64(t.Hour()) + float64(t.Minute())/60.0
}

// FormatOffset renders an offset from midnight as HH:MM.
func FormatOffset(d time.Duration) string {
	return fmt.Sprintf("%02d:%02d", int(d/time.Hour), int((d%time.Hour)/time.Minute))
}

// ParseOffset parses HH:MM into an offset from midnight.
func ParseOffset(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("parsing clock offset %q: %w", s, err)
	}
	return SinceMidnight(t), nil
}
