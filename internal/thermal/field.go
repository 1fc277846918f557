package thermal

import (
	"math"

	"github.com/san-kum/physlab/internal/dynamo"
	"gonum.org/v1/gonum/floats"
)

const (
	// Size is the edge length of the square grid.
	Size = 50

	// Cooling is applied to every interior cell once per step.
	Cooling = 0.99

	MinTemp = 0.0
	MaxTemp = 100.0

	// BrushAmount is the heat added per pointer-drag event.
	BrushAmount = 100.0
)

// Field is a row-major Size×Size temperature field.
type Field []float64

// NewField allocates a zeroed field.
func NewField() Field {
	return make(Field, Size*Size)
}

// Index returns the linear slice index for (x, y).
func Index(x, y int) int { return y*Size + x }

// InBounds reports whether (x, y) addresses a cell.
func InBounds(x, y int) bool {
	return x >= 0 && x < Size && y >= 0 && y < Size
}

// IsBorder reports whether (x, y) lies on the outer ring.
func IsBorder(x, y int) bool {
	return x == 0 || y == 0 || x == Size-1 || y == Size-1
}

func (f Field) Clone() Field {
	c := make(Field, len(f))
	copy(c, f)
	return c
}

func (f Field) At(x, y int) float64 {
	if !InBounds(x, y) {
		return 0
	}
	return f[Index(x, y)]
}

// Energy is the sum of all cells.
func (f Field) Energy() float64 {
	if len(f) == 0 {
		return 0
	}
	return floats.Sum(f)
}

// Max returns the hottest cell value, 0 for an empty field.
func (f Field) Max() float64 {
	if len(f) == 0 {
		return 0
	}
	return floats.Max(f)
}

// Rows splits the field into Size rows that share the field's storage.
func (f Field) Rows() [][]float64 {
	rows := make([][]float64, 0, Size)
	for y := 0; y < Size && (y+1)*Size <= len(f); y++ {
		rows = append(rows, f[y*Size:(y+1)*Size])
	}
	return rows
}

// Diffuse computes the next field from prev without touching prev. Border
// cells are copied unchanged.
func Diffuse(prev Field, alpha float64) Field {
	next := make(Field, len(prev))
	diffuseInto(next, prev, alpha)
	return next
}

func diffuseInto(next, prev Field, alpha float64) {
	alpha = dynamo.Clamp(alpha, 0, 1)
	copy(next, prev)
	if len(prev) != Size*Size {
		return
	}
	for y := 1; y < Size-1; y++ {
		for x := 1; x < Size-1; x++ {
			idx := Index(x, y)
			avg := (prev[idx-1] + prev[idx+1] + prev[idx-Size] + prev[idx+Size]) / 4
			next[idx] = (prev[idx] + (avg-prev[idx])*alpha) * Cooling
		}
	}
}

// CellAt maps a pointer position on a surface of w×h pixels to the grid
// cell under it. The result may be out of bounds; InjectHeat ignores those.
func CellAt(px, py, w, h float64) (int, int) {
	if w <= 0 || h <= 0 {
		return -1, -1
	}
	x := math.Floor(px / (w / Size))
	y := math.Floor(py / (h / Size))
	if !dynamo.Finite(x) || !dynamo.Finite(y) {
		return -1, -1
	}
	return int(x), int(y)
}

// Color maps a temperature to the blue-to-red heat ramp (cold is blue).
func Color(temp float64) (r, g, b uint8) {
	scaled := temp * 51 / 10
	return channel(scaled), 50, channel(255 - scaled)
}

func channel(v float64) uint8 {
	return uint8(math.Round(dynamo.Clamp(v, 0, 255)))
}
