// Package kinematics provides closed-form projectile motion.
//
// A [Launch] is an immutable value built from [Params]; every method is a
// direct function of elapsed time, so a Launch can be shared freely between
// goroutines.
package kinematics

import (
	"iter"
	"math"

	"github.com/san-kum/physlab/internal/dynamo"
)

// Point is a position or velocity in metres (per second).
type Point = dynamo.Vec2

// Params are the launch parameters. AngleDeg is measured from the ground.
type Params struct {
	V0       float64 `json:"velocity" yaml:"velocity"`
	AngleDeg float64 `json:"angle" yaml:"angle"`
	G        float64 `json:"gravity" yaml:"gravity"`
}

// Validate reports a degenerate trajectory for non-positive gravity or speed
// and for non-finite inputs.
func (p Params) Validate() error {
	checks := []struct {
		name string
		v    float64
		ok   bool
	}{
		{"velocity", p.V0, dynamo.Finite(p.V0) && p.V0 > 0},
		{"angle", p.AngleDeg, dynamo.Finite(p.AngleDeg)},
		{"gravity", p.G, dynamo.Finite(p.G) && p.G > 0},
	}
	for _, c := range checks {
		if !c.ok {
			return &dynamo.ParamError{Param: c.name, Value: c.v, Wrapped: dynamo.ErrDegenerateTrajectory}
		}
	}
	return nil
}

// Launch evaluates the trajectory for one set of parameters.
type Launch struct {
	p      Params
	vx, vy float64
	err    error
}

// New builds a Launch. Angles outside [0°, 90°] are clamped into range.
func New(p Params) Launch {
	if dynamo.Finite(p.AngleDeg) {
		p.AngleDeg = dynamo.Clamp(p.AngleDeg, 0, 90)
	}
	theta := dynamo.Deg2Rad(p.AngleDeg)
	return Launch{
		p:   p,
		vx:  p.V0 * math.Cos(theta),
		vy:  p.V0 * math.Sin(theta),
		err: p.Validate(),
	}
}

func (l Launch) Params() Params { return l.p }

// Err returns the degenerate-trajectory condition, if any.
func (l Launch) Err() error { return l.err }

// Position returns (x, y) at elapsed time t.
func (l Launch) Position(t float64) Point {
	return Point{
		X: l.vx * t,
		Y: l.vy*t - 0.5*l.p.G*t*t,
	}
}

// Velocity returns the velocity vector at elapsed time t.
func (l Launch) Velocity(t float64) Point {
	return Point{X: l.vx, Y: l.vy - l.p.G*t}
}

// Direction returns the velocity at t rescaled to length, for drawing a
// fixed-size heading indicator.
func (l Launch) Direction(t, length float64) Point {
	return l.Velocity(t).WithLength(length)
}

// FlightTime returns the analytic time of ground impact, 2·v0·sin θ / g.
func (l Launch) FlightTime() (float64, error) {
	if l.err != nil {
		return 0, l.err
	}
	return 2 * l.vy / l.p.G, nil
}

// Range returns the horizontal distance at ground impact.
func (l Launch) Range() (float64, error) {
	t, err := l.FlightTime()
	if err != nil {
		return 0, err
	}
	return l.vx * t, nil
}

// Impact returns the exact landing point.
func (l Launch) Impact() (Point, error) {
	r, err := l.Range()
	if err != nil {
		return Point{}, err
	}
	return Point{X: r}, nil
}

// Apex returns the highest point of the flight.
func (l Launch) Apex() (Point, error) {
	t, err := l.FlightTime()
	if err != nil {
		return Point{}, err
	}
	return l.Position(t / 2), nil
}

// MaxSamples caps the length of a trajectory so a tiny dt stays bounded.
const MaxSamples = 10000

// Trajectory samples positions at t = 0, dt, 2dt, … up to one step past the
// flight time. Sampling stops at the first sample after the first step that
// is at or below the ground, or after MaxSamples points. The sequence is
// empty for degenerate parameters or dt <= 0, and may be ranged over any
// number of times.
func (l Launch) Trajectory(dt float64) iter.Seq[Point] {
	return func(yield func(Point) bool) {
		total, err := l.FlightTime()
		if err != nil || !(dt > 0) || !dynamo.Finite(dt) {
			return
		}
		limit := total + dt
		for i := 0; i < MaxSamples; i++ {
			t := float64(i) * dt
			if t > limit {
				return
			}
			p := l.Position(t)
			if i > 1 && p.Y <= 0 {
				return
			}
			if !yield(p) {
				return
			}
		}
	}
}

// Samples collects Trajectory(dt) into a slice.
func (l Launch) Samples(dt float64) []Point {
	var out []Point
	for p := range l.Trajectory(dt) {
		out = append(out, p)
	}
	return out
}
