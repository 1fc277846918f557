package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/physlab/internal/thermal"
)

// The heatmap packs two grid rows into each terminal row with a half block.
const (
	HeatmapWidth  = thermal.Size
	HeatmapHeight = thermal.Size / 2
)

// HeatColor is the lipgloss colour for a temperature.
func HeatColor(temp float64) lipgloss.Color {
	r, g, b := thermal.Color(temp)
	return lipgloss.Color(hexColor(int(r), int(g), int(b)))
}

// Heatmap renders the field as HeatmapHeight lines of HeatmapWidth cells.
func Heatmap(f thermal.Field) string {
	var b strings.Builder
	for row := 0; row < HeatmapHeight; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < HeatmapWidth; x++ {
			top, bottom := f.At(x, 2*row), f.At(x, 2*row+1)
			b.WriteString(lipgloss.NewStyle().
				Foreground(HeatColor(top)).
				Background(HeatColor(bottom)).
				Render("▀"))
		}
	}
	return b.String()
}

// HeatmapCell maps a terminal cell inside the heatmap to the grid cell drawn
// in its upper half.
func HeatmapCell(col, row int) (x, y int) {
	return thermal.CellAt(float64(col), float64(2*row), HeatmapWidth, 2*HeatmapHeight)
}
