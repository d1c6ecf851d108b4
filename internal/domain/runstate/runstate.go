package runstate

import "time"

type Phase string

const (
	PhaseStopped Phase = "stopped"
	PhaseRunning Phase = "running"
)

// State is the singleton enabled/disabled switch for distribution.
type State struct {
	Running        bool      `json:"is_running"`
	ManualOverride bool      `json:"manual_override"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Initial is the state of a fresh install: stopped, no override.
func Initial(now time.Time) State {
	return State{UpdatedAt: now}
}

func (s State) Phase() Phase {
	if s.Running {
		return PhaseRunning
	}
	return PhaseStopped
}

// Start is valid from any phase and clears the manual override.
func (s State) Start(now time.Time) State {
	return State{Running: true, ManualOverride: false, UpdatedAt: now}
}

// Stop is valid from any phase and records that an operator turned distribution off.
func (s State) Stop(now time.Time) State {
	return State{Running: false, ManualOverride: true, UpdatedAt: now}
}
