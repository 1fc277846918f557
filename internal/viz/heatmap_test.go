package viz

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/physlab/internal/thermal"
)

func TestHeatColor(t *testing.T) {
	tests := []struct {
		temp float64
		want lipgloss.Color
	}{
		{0, "#0032ff"},
		{50, "#ff3200"},
		{25, "#803280"},
		{100, "#ff3200"},
		{-10, "#0032ff"},
	}
	for _, tt := range tests {
		if got := HeatColor(tt.temp); got != tt.want {
			t.Errorf("HeatColor(%v) = %s, want %s", tt.temp, got, tt.want)
		}
	}
}

func TestHeatmap_Shape(t *testing.T) {
	out := Heatmap(thermal.NewField())
	lines := strings.Split(out, "\n")
	if len(lines) != HeatmapHeight {
		t.Fatalf("expected %d lines, got %d", HeatmapHeight, len(lines))
	}
	for i, l := range lines {
		if w := lipgloss.Width(l); w != HeatmapWidth {
			t.Errorf("line %d width = %d, want %d", i, w, HeatmapWidth)
		}
	}
}

func TestHeatmapCell(t *testing.T) {
	tests := []struct {
		col, row int
		x, y     int
	}{
		{0, 0, 0, 0},
		{10, 5, 10, 10},
		{49, 24, 49, 48},
		{-1, 0, -1, 0},
		{50, 25, 50, 50},
	}
	for _, tt := range tests {
		x, y := HeatmapCell(tt.col, tt.row)
		if x != tt.x || y != tt.y {
			t.Errorf("HeatmapCell(%d, %d) = (%d, %d), want (%d, %d)", tt.col, tt.row, x, y, tt.x, tt.y)
		}
	}
}

func TestParamBar(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{0, "[----]"},
		{50, "[==--]"},
		{100, "[====]"},
		{150, "[====]"},
	}
	for _, tt := range tests {
		if got := ParamBar(tt.v, 0, 100, 4); got != tt.want {
			t.Errorf("ParamBar(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestParseHex(t *testing.T) {
	r, g, b := parseHex("#0a8cff")
	if r != 10 || g != 140 || b != 255 {
		t.Errorf("parseHex = %d %d %d", r, g, b)
	}
	if hexColor(r, g, b) != "#0a8cff" {
		t.Errorf("hexColor round trip = %s", hexColor(r, g, b))
	}
	if r, _, _ := parseHex("nope"); r != 255 {
		t.Error("bad input should fall back to white")
	}
}

func TestThemes(t *testing.T) {
	names := ThemeNames()
	if len(names) != len(Themes) || names[0] != "cyberpunk" {
		t.Fatalf("unexpected theme names %v", names)
	}
	if got := GetTheme("nope"); got.Name != names[0] {
		t.Errorf("unknown theme fell back to %s", got.Name)
	}
	if got := NextTheme(GetTheme(names[len(names)-1])); got.Name != names[0] {
		t.Errorf("last theme should wrap to %s, got %s", names[0], got.Name)
	}
	for _, th := range Themes {
		if th.Flight == "" || th.Error == "" {
			t.Errorf("theme %s has unset colours", th.Name)
		}
	}
}
