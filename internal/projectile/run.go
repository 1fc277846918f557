// Package projectile tracks a single projectile flight driven by frame ticks.
package projectile

import (
	"fmt"

	"github.com/san-kum/physlab/internal/kinematics"
)

const (
	// TimeStep is the simulated time added per frame.
	TimeStep = 0.08
	// PreviewStep is the sampling interval of the predicted path.
	PreviewStep = 0.1
	// IndicatorLength is the display length of the heading indicator.
	IndicatorLength = 40.0
)

type Point = kinematics.Point

// Snapshot is everything a renderer needs for one frame.
type Snapshot struct {
	State
	Params     kinematics.Params `json:"params"`
	Position   Point             `json:"position"`
	Velocity   Point             `json:"velocity"`
	Indicator  Point             `json:"indicator"`
	Preview    []Point           `json:"preview"`
	Impact     Point             `json:"impact"`
	FlightTime float64           `json:"flight_time"`
	Degenerate bool              `json:"degenerate"`
	Error      string            `json:"error,omitempty"`
}

// Relaunch reports whether a previous flight has left the clock running.
func (s Snapshot) Relaunch() bool {
	return s.Phase != InFlight && s.Elapsed > 0
}

// Clock formats the elapsed time as a mission clock.
func (s Snapshot) Clock() string {
	return fmt.Sprintf("T+%.2fs", s.Elapsed)
}

// Run owns one projectile's parameters and run state.
type Run struct {
	params  kinematics.Params
	launch  kinematics.Launch
	state   State
	preview []Point
}

func NewRun(p kinematics.Params) *Run {
	r := &Run{}
	r.setParams(p)
	return r
}

func (r *Run) State() State                  { return r.state }
func (r *Run) Params() kinematics.Params     { return r.params }
func (r *Run) Trajectory() kinematics.Launch { return r.launch }

// Launch starts a fresh flight. Degenerate parameters leave the run Idle and
// return the condition.
func (r *Run) Launch() error {
	r.state = Transition(r.state, LaunchCmd{}, r.launch)
	return r.launch.Err()
}

// Tick advances a flight by dt and reports whether it is still in flight.
func (r *Run) Tick(dt float64) bool {
	r.state = Transition(r.state, Tick{Dt: dt}, r.launch)
	return r.state.Phase == InFlight
}

func (r *Run) Reset() {
	r.state = Transition(r.state, ResetCmd{}, r.launch)
}

// SetParams replaces the launch parameters. Any change resets the run to Idle
// so the next preview starts from elapsed 0; it never launches. It reports
// whether anything changed.
func (r *Run) SetParams(p kinematics.Params) bool {
	if p == r.params {
		return false
	}
	r.setParams(p)
	return true
}

func (r *Run) setParams(p kinematics.Params) {
	r.params = p
	r.launch = kinematics.New(p)
	r.state = State{Phase: Idle}
	r.preview = r.launch.Samples(PreviewStep)
}

// Snapshot derives the renderable state. A landed projectile is reported at
// the analytic impact point rather than its last overshooting sample.
func (r *Run) Snapshot() Snapshot {
	s := Snapshot{
		State:   r.state,
		Params:  r.params,
		Preview: append([]Point(nil), r.preview...),
	}

	ft, err := r.launch.FlightTime()
	if err != nil {
		s.Degenerate = true
		s.Error = err.Error()
		return s
	}
	impact, _ := r.launch.Impact()
	s.FlightTime = ft
	s.Impact = impact

	if r.state.Phase == Landed {
		s.Position = impact
		s.Velocity = r.launch.Velocity(ft)
	} else {
		s.Position = r.launch.Position(r.state.Elapsed)
		s.Velocity = r.launch.Velocity(r.state.Elapsed)
	}
	s.Indicator = s.Velocity.WithLength(IndicatorLength)
	return s
}
