package projectile

import (
	"fmt"

	"github.com/san-kum/physlab/internal/dynamo"
	"github.com/san-kum/physlab/internal/kinematics"
)

// Phase is the run phase of a projectile.
type Phase int

const (
	Idle Phase = iota
	InFlight
	Landed
)

var phaseNames = [...]string{"idle", "in_flight", "landed"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *Phase) UnmarshalText(b []byte) error {
	for i, name := range phaseNames {
		if name == string(b) {
			*p = Phase(i)
			return nil
		}
	}
	return fmt.Errorf("projectile: unknown phase %q", b)
}

// State is the run state. Elapsed never decreases within one flight.
type State struct {
	Phase   Phase   `json:"phase"`
	Elapsed float64 `json:"elapsed"`
}

// Event drives a State transition.
type Event interface{ event() }

// LaunchCmd starts a fresh flight from any phase.
type LaunchCmd struct{}

// Tick advances a flight by Dt seconds.
type Tick struct{ Dt float64 }

// ResetCmd returns to Idle from any phase.
type ResetCmd struct{}

func (LaunchCmd) event() {}
func (Tick) event()      {}
func (ResetCmd) event()  {}

// Transition applies ev to s for the trajectory l. Degenerate trajectories
// never leave Idle.
func Transition(s State, ev Event, l kinematics.Launch) State {
	switch ev := ev.(type) {
	case LaunchCmd:
		if l.Err() != nil {
			return State{Phase: Idle}
		}
		return State{Phase: InFlight}
	case ResetCmd:
		return State{Phase: Idle}
	case Tick:
		if s.Phase != InFlight || l.Err() != nil {
			return s
		}
		if !(ev.Dt > 0) || !dynamo.Finite(ev.Dt) {
			return s
		}
		s.Elapsed += ev.Dt
		if l.Position(s.Elapsed).Y <= 0 {
			s.Phase = Landed
		}
		return s
	}
	return s
}
