package metrics

import "github.com/alanyang/shift-router/internal/domain/pass"

// Recorder receives engine measurements. Implementations must be safe for concurrent use.
type Recorder interface {
	ObservePass(o pass.Outcome)
	ObserveRejectedPass()
	ObserveCredentialRefresh(ok bool)
}

// Nop discards everything.
type Nop struct{}

func (Nop) ObservePass(pass.Outcome)      {}
func (Nop) ObserveRejectedPass()          {}
func (Nop) ObserveCredentialRefresh(bool) {}
