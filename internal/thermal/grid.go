package thermal

import "github.com/san-kum/physlab/internal/dynamo"

// Injection is a single heat-source event. It is not persisted.
type Injection struct {
	X      int     `json:"x"`
	Y      int     `json:"y"`
	Amount float64 `json:"amount"`
}

// Grid owns a temperature field and its back buffer.
type Grid struct {
	front Field
	back  Field
	steps uint64
}

func NewGrid() *Grid {
	return &Grid{front: NewField(), back: NewField()}
}

// Step advances the field by one diffusion step. The stencil reads only the
// previous field; the result becomes visible as a whole once the buffers swap.
func (g *Grid) Step(alpha float64) {
	diffuseInto(g.back, g.front, alpha)
	g.front, g.back = g.back, g.front
	g.steps++
}

// InjectHeat adds amount to cell (x, y) and clamps the result to
// [MinTemp, MaxTemp]. Out-of-bounds coordinates are ignored. It reports
// whether the field changed.
func (g *Grid) InjectHeat(x, y int, amount float64) bool {
	if !InBounds(x, y) || !dynamo.Finite(amount) {
		return false
	}
	idx := Index(x, y)
	g.front[idx] = dynamo.Clamp(g.front[idx]+amount, MinTemp, MaxTemp)
	return true
}

// Apply injects a queued event.
func (g *Grid) Apply(in Injection) bool {
	return g.InjectHeat(in.X, in.Y, in.Amount)
}

// Snapshot returns a copy of the current field.
func (g *Grid) Snapshot() Field { return g.front.Clone() }

func (g *Grid) At(x, y int) float64 { return g.front.At(x, y) }

func (g *Grid) Energy() float64 { return g.front.Energy() }

func (g *Grid) MaxTemperature() float64 { return g.front.Max() }

// Steps returns the number of diffusion steps taken since creation or Reset.
func (g *Grid) Steps() uint64 { return g.steps }

// Reset zeroes the field.
func (g *Grid) Reset() {
	for i := range g.front {
		g.front[i] = 0
	}
	g.steps = 0
}
