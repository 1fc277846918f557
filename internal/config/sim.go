package config

import (
	"fmt"

	"github.com/san-kum/physlab/internal/dynamo"
	"github.com/san-kum/physlab/internal/kinematics"
)

// Ranges offered to users. Values set through a Store are clamped into them.
var (
	VelocityRange     = Range{Min: 10, Max: 150, Step: 1}
	AngleRange        = Range{Min: 0, Max: 90, Step: 1}
	GravityRange      = Range{Min: 1.6, Max: 25, Step: 0.1}
	ConductivityRange = Range{Min: 0.01, Max: 0.99, Step: 0.01}
)

type Range struct {
	Min, Max, Step float64
}

func (r Range) Clamp(v float64) float64 { return dynamo.Clamp(v, r.Min, r.Max) }

func (r Range) Contains(v float64) bool { return dynamo.Finite(v) && v >= r.Min && v <= r.Max }

// SimConfig is an immutable snapshot of the user-facing simulation settings.
type SimConfig struct {
	Velocity     float64 `yaml:"velocity" json:"velocity"`
	Angle        float64 `yaml:"angle" json:"angle"`
	Gravity      float64 `yaml:"gravity" json:"gravity"`
	Conductivity float64 `yaml:"conductivity" json:"conductivity"`
}

func DefaultSimConfig() SimConfig {
	return SimConfig{
		Velocity:     DefaultVelocity,
		Angle:        DefaultAngle,
		Gravity:      DefaultGravity,
		Conductivity: DefaultConductivity,
	}
}

// Projectile returns the launch parameters carried by c.
func (c SimConfig) Projectile() kinematics.Params {
	return kinematics.Params{V0: c.Velocity, AngleDeg: c.Angle, G: c.Gravity}
}

// Clamped returns c with every field forced into its user range.
func (c SimConfig) Clamped() SimConfig {
	return SimConfig{
		Velocity:     VelocityRange.Clamp(c.Velocity),
		Angle:        AngleRange.Clamp(c.Angle),
		Gravity:      GravityRange.Clamp(c.Gravity),
		Conductivity: ConductivityRange.Clamp(c.Conductivity),
	}
}

// Validate reports the first field outside its user range.
func (c SimConfig) Validate() error {
	fields := []struct {
		name string
		v    float64
		r    Range
	}{
		{"velocity", c.Velocity, VelocityRange},
		{"angle", c.Angle, AngleRange},
		{"gravity", c.Gravity, GravityRange},
		{"conductivity", c.Conductivity, ConductivityRange},
	}
	for _, f := range fields {
		if !f.r.Contains(f.v) {
			return &dynamo.ParamError{Param: f.name, Value: f.v, Wrapped: dynamo.ErrParameterBounds}
		}
	}
	return nil
}

// ParamNames lists the fields accepted by With.
var ParamNames = []string{"velocity", "angle", "gravity", "conductivity"}

// With returns c with the named field set to v, clamped to its range.
func (c SimConfig) With(param string, v float64) (SimConfig, error) {
	switch param {
	case "velocity":
		c.Velocity = v
	case "angle":
		c.Angle = v
	case "gravity":
		c.Gravity = v
	case "conductivity":
		c.Conductivity = v
	default:
		return c, fmt.Errorf("config: unknown parameter %q (available: %v)", param, ParamNames)
	}
	return c.Clamped(), nil
}
