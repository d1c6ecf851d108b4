package availability

import (
	"errors"
	"fmt"
	"time"

	"github.com/alanyang/shift-router/internal/domain/policy"
)

var ErrInvalidInput = errors.New("invalid availability")

const (
	DefaultStartHour = 8
	DefaultEndHour   = 17

	DateLayout = "2006-01-02"
)

// DailyAvailability is one operator's schedule for one calendar date.
// There is at most one per (OperatorEmail, Date).
type DailyAvailability struct {
	OperatorEmail string    `json:"operator_email"`
	Date          time.Time `json:"date"`
	Scheduled     bool      `json:"working_today"`
	StartHour     int       `json:"start_hour"`
	EndHour       int       `json:"end_hour"`
	Available     bool      `json:"available"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Default is what an absent row means: not scheduled, not available, 8-17.
func Default(email string, date time.Time) DailyAvailability {
	return DailyAvailability{
		OperatorEmail: email,
		Date:          Day(date),
		StartHour:     DefaultStartHour,
		EndHour:       DefaultEndHour,
	}
}

// Day truncates t to local midnight in t's location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DateKey renders the calendar date of t.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

func (d DailyAvailability) Validate() error {
	if d.OperatorEmail == "" {
		return fmt.Errorf("%w: operator email is required", ErrInvalidInput)
	}
	if d.StartHour < 0 || d.StartHour > 23 {
		return fmt.Errorf("%w: start hour %d out of range 0-23", ErrInvalidInput, d.StartHour)
	}
	if d.EndHour < 0 || d.EndHour > 23 {
		return fmt.Errorf("%w: end hour %d out of range 0-23", ErrInvalidInput, d.EndHour)
	}
	if d.StartHour >= d.EndHour {
		return fmt.Errorf("%w: end hour must be after start hour", ErrInvalidInput)
	}
	return nil
}

// IsCandidate is the schedule half of eligibility: on shift today and not manually held back.
func (d DailyAvailability) IsCandidate() bool {
	return d.Scheduled && d.Available
}

// InShift reports start <= t < end - buffer, with t truncated to the minute.
func (d DailyAvailability) InShift(t time.Time, buffer time.Duration) bool {
	off := policy.SinceMidnight(t)
	start := time.Duration(d.StartHour) * time.Hour
	end := time.Duration(d.EndHour)*time.Hour - buffer
	return off >= start && off < end
}
