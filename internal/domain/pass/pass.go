package pass

import (
	"time"

	"github.com/google/uuid"
)

type Trigger string

const (
	TriggerPeriodic Trigger = "periodic"
	TriggerManual   Trigger = "manual"
)

// Reason explains how a pass ended. Everything except ReasonCompleted with
// Assigned > 0 is a no-op or a failure.
type Reason string

const (
	ReasonCompleted         Reason = "completed"
	ReasonStopped           Reason = "stopped"
	ReasonOutsideWindow     Reason = "outside_window"
	ReasonNoOperators       Reason = "no_operators"
	ReasonNoTasks           Reason = "no_tasks"
	ReasonSourceUnavailable Reason = "source_unavailable"
	ReasonAborted           Reason = "aborted"
)

// Outcome summarises one pass of the distributor.
type Outcome struct {
	ID         uuid.UUID `json:"id"`
	Trigger    Trigger   `json:"trigger"`
	Reason     Reason    `json:"reason"`
	Assigned   int       `json:"assigned"`
	Skipped    int       `json:"skipped"`
	Failed     int       `json:"failed"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

func New(trigger Trigger, startedAt time.Time) Outcome {
	return Outcome{
		ID:        uuid.New(),
		Trigger:   trigger,
		StartedAt: startedAt,
	}
}

// IsError reports whether the pass ended on a failure rather than a no-op or completion.
func (o Outcome) IsError() bool {
	return o.Reason == ReasonAborted || o.Reason == ReasonSourceUnavailable
}

func (o Outcome) Duration() time.Duration {
	if o.FinishedAt.IsZero() {
		return 0
	}
	return o.FinishedAt.Sub(o.StartedAt)
}
