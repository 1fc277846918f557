package viz

import (
	"math"

	"github.com/san-kum/physlab/internal/projectile"
)

// indicatorDots is the on-canvas length of the heading indicator.
const indicatorDots = 8

// frame maps world metres onto canvas dots with a uniform scale. The ground
// sits on the bottom dot row.
type frame struct {
	scale  float64
	w, h   int
	ground int
}

func newFrame(c *Canvas, pts []projectile.Point) frame {
	w, h := c.Dots()
	maxX, maxY := 1.0, 1.0
	for _, p := range pts {
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	scale := math.Min(float64(w-2)/maxX, float64(h-2)/maxY)
	return frame{scale: scale, w: w, h: h, ground: h - 1}
}

func (f frame) project(p projectile.Point) (int, int) {
	return 1 + int(math.Round(p.X*f.scale)), f.ground - int(math.Round(p.Y*f.scale))
}

// DrawTrajectory renders a projectile snapshot: the ground, the predicted
// path as a dotted line, the flown part solid, the body and its heading.
func DrawTrajectory(c *Canvas, s *projectile.Snapshot) {
	c.Clear()
	f := newFrame(c, s.Preview)
	c.DrawLine(0, f.ground, f.w-1, f.ground)
	if s.Degenerate || len(s.Preview) == 0 {
		return
	}

	flown := 0
	if s.Phase != projectile.Idle {
		flown = int(s.Elapsed/projectile.PreviewStep) + 1
	}
	for i, p := range s.Preview {
		x, y := f.project(p)
		if i < flown && i > 0 {
			px, py := f.project(s.Preview[i-1])
			c.DrawLine(px, py, x, y)
		} else if i%2 == 0 {
			c.Set(x, y)
		}
	}

	bx, by := f.project(s.Position)
	c.Dot(bx, by)
	if s.Phase == projectile.InFlight || s.Phase == projectile.Idle {
		dir := s.Indicator.Scale(indicatorDots / projectile.IndicatorLength)
		c.DrawLine(bx, by, bx+int(math.Round(dir.X)), by-int(math.Round(dir.Y)))
	}
}
