package dynamo

import "math"

// Vec2 is a planar vector in simulation units.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

func (v Vec2) Scale(f float64) Vec2 { return Vec2{v.X * f, v.Y * f} }

func (v Vec2) Norm() float64 { return math.Hypot(v.X, v.Y) }

func (v Vec2) IsValid() bool { return Finite(v.X) && Finite(v.Y) }

// WithLength rescales v to the given length. The zero vector stays zero.
func (v Vec2) WithLength(length float64) Vec2 {
	n := v.Norm()
	if n == 0 || !Finite(n) {
		return Vec2{}
	}
	return v.Scale(length / n)
}

// Finite reports whether x is neither NaN nor infinite.
func Finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// Clamp limits x to [lo, hi]. NaN maps to lo.
func Clamp(x, lo, hi float64) float64 {
	if math.IsNaN(x) || x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Deg2Rad converts degrees to radians.
func Deg2Rad(deg float64) float64 { return deg * math.Pi / 180 }
