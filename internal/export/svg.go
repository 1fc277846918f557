// Package export renders simulation output as standalone SVG images.
package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/physlab/internal/kinematics"
	"github.com/san-kum/physlab/internal/thermal"
)

const background = "#0a0a0a"

func header(sb *strings.Builder, width, height float64) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)
}

// HeatmapSVG draws one cell-sized square per plate cell, coloured with the
// thermal ramp.
func HeatmapSVG(f thermal.Field, cell float64) string {
	if len(f) != thermal.Size*thermal.Size || cell <= 0 {
		return ""
	}
	side := cell * thermal.Size

	var sb strings.Builder
	header(&sb, side, side)
	for y := 0; y < thermal.Size; y++ {
		for x := 0; x < thermal.Size; x++ {
			r, g, b := thermal.Color(f.At(x, y))
			fmt.Fprintf(&sb, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="#%02x%02x%02x"/>
`, float64(x)*cell, float64(y)*cell, cell, cell, r, g, b)
		}
	}
	sb.WriteString("</svg>")
	return sb.String()
}

// TrajectorySVG draws the path through pts with a uniform scale, the ground
// along the bottom edge and 5% padding.
func TrajectorySVG(pts []kinematics.Point, width, height int, strokeColor string) string {
	if len(pts) < 2 || width <= 0 || height <= 0 {
		return ""
	}

	maxX, maxY := 1.0, 1.0
	for _, p := range pts {
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	pad := 0.05 * float64(min(width, height))
	scale := math.Min((float64(width)-2*pad)/maxX, (float64(height)-2*pad)/maxY)
	ground := float64(height) - pad

	var sb strings.Builder
	header(&sb, float64(width), float64(height))
	fmt.Fprintf(&sb, `<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="#444466" stroke-width="1"/>
`, ground, width, ground)
	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="`, strokeColor)
	for i, p := range pts {
		x := pad + p.X*scale
		y := ground - math.Max(p.Y, 0)*scale
		if i == 0 {
			fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}
	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
