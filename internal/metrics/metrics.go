// Package metrics reduces a run's frame snapshots to scalar figures.
package metrics

import (
	"math"

	"github.com/san-kum/physlab/internal/projectile"
	"github.com/san-kum/physlab/internal/session"
)

// Metric accumulates one figure over the snapshots of a run.
type Metric[S any] interface {
	Name() string
	Observe(s S)
	Value() float64
	Reset()
}

type (
	ThermalMetric    = Metric[*session.ThermalSnapshot]
	ProjectileMetric = Metric[*projectile.Snapshot]
)

// EnergyRetention is the final plate energy as a fraction of the first
// non-zero energy observed.
type EnergyRetention struct {
	initial, current float64
}

func NewEnergyRetention() *EnergyRetention { return &EnergyRetention{} }

func (e *EnergyRetention) Name() string { return "energy_retention" }

func (e *EnergyRetention) Observe(s *session.ThermalSnapshot) {
	if e.initial == 0 {
		e.initial = s.Energy
	}
	e.current = s.Energy
}

func (e *EnergyRetention) Value() float64 {
	if e.initial == 0 {
		return 0
	}
	return e.current / e.initial
}

func (e *EnergyRetention) Reset() { *e = EnergyRetention{} }

// PeakTemperature is the hottest cell seen during the run.
type PeakTemperature struct {
	peak float64
}

func NewPeakTemperature() *PeakTemperature { return &PeakTemperature{} }

func (p *PeakTemperature) Name() string { return "peak_temperature" }

func (p *PeakTemperature) Observe(s *session.ThermalSnapshot) { p.peak = math.Max(p.peak, s.Max) }

func (p *PeakTemperature) Value() float64 { return p.peak }

func (p *PeakTemperature) Reset() { p.peak = 0 }

// MaxHeight is the highest sampled altitude.
type MaxHeight struct {
	max float64
}

func NewMaxHeight() *MaxHeight { return &MaxHeight{} }

func (m *MaxHeight) Name() string { return "max_height" }

func (m *MaxHeight) Observe(s *projectile.Snapshot) { m.max = math.Max(m.max, s.Position.Y) }

func (m *MaxHeight) Value() float64 { return m.max }

func (m *MaxHeight) Reset() { m.max = 0 }

// Distance is the horizontal position at the last observed frame.
type Distance struct {
	x float64
}

func NewDistance() *Distance { return &Distance{} }

func (d *Distance) Name() string { return "distance" }

func (d *Distance) Observe(s *projectile.Snapshot) { d.x = s.Position.X }

func (d *Distance) Value() float64 { return d.x }

func (d *Distance) Reset() { d.x = 0 }

// Airtime is the simulated time spent in flight.
type Airtime struct {
	t float64
}

func NewAirtime() *Airtime { return &Airtime{} }

func (a *Airtime) Name() string { return "airtime" }

func (a *Airtime) Observe(s *projectile.Snapshot) {
	if s.Phase != projectile.Idle {
		a.t = s.Elapsed
	}
}

func (a *Airtime) Value() float64 { return a.t }

func (a *Airtime) Reset() { a.t = 0 }

// Collect evaluates every metric into a name→value map.
func Collect[S any](ms []Metric[S]) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}
