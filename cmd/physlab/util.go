package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/san-kum/physlab/internal/experiment"
	"github.com/san-kum/physlab/internal/export"
	"github.com/san-kum/physlab/internal/kinematics"
	"github.com/san-kum/physlab/internal/storage"
)

const svgStroke = "#00ffff"

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// recordingSVG draws a thermal run's final plate or a projectile run's
// sampled path. Thermal runs loaded from disk carry no plate.
func recordingSVG(rec *storage.Recording) string {
	switch rec.Kernel {
	case experiment.KernelThermal:
		return export.HeatmapSVG(rec.Field, 8)
	case experiment.KernelProjectile:
		xs, ys := rec.Series("x"), rec.Series("y")
		pts := make([]kinematics.Point, len(xs))
		for i := range xs {
			pts[i] = kinematics.Point{X: xs[i], Y: ys[i]}
		}
		return export.TrajectorySVG(pts, 800, 400, svgStroke)
	}
	return ""
}

func writeSVG(path, doc string) error {
	if doc == "" {
		return fmt.Errorf("nothing to draw for %s", path)
	}
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
