package viz

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles derived from a Theme.
type Styles struct {
	Title       lipgloss.Style
	Panel       lipgloss.Style
	Label       lipgloss.Style
	Value       lipgloss.Style
	ActiveParam lipgloss.Style
	Running     lipgloss.Style
	Paused      lipgloss.Style
	Error       lipgloss.Style
	Graph       lipgloss.Style
	KeyHint     lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Title: lipgloss.NewStyle().Bold(true).Foreground(t.TitleTo),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Muted),
		Label:       lipgloss.NewStyle().Foreground(t.Muted).Width(14),
		Value:       lipgloss.NewStyle().Foreground(t.Text),
		ActiveParam: lipgloss.NewStyle().Foreground(t.Active).Bold(true),
		Running:     lipgloss.NewStyle().Bold(true).Foreground(t.Running),
		Paused:      lipgloss.NewStyle().Bold(true).Foreground(t.Paused),
		Error:       lipgloss.NewStyle().Bold(true).Foreground(t.Error),
		Graph:       lipgloss.NewStyle().Foreground(t.Flight),
		KeyHint:     lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
	}
}

// GradientText colours each rune of text along a start→end ramp.
func GradientText(text string, startColor, endColor lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}

	sr, sg, sb := parseHex(string(startColor))
	er, eg, eb := parseHex(string(endColor))

	var result strings.Builder
	n := len(runes)
	for i, c := range runes {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		r := int(float64(sr) + t*float64(er-sr))
		g := int(float64(sg) + t*float64(eg-sg))
		b := int(float64(sb) + t*float64(eb-sb))
		result.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(hexColor(r, g, b))).Render(string(c)))
	}
	return result.String()
}

// ProgressBar renders a width-cell bar filled to percent in [0,1].
func ProgressBar(percent float64, width int, style lipgloss.Style) string {
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return style.Render(strings.Repeat("█", filled)) + strings.Repeat("░", width-filled)
}

// ParamBar renders a bracketed slider for v within [lo, hi].
func ParamBar(v, lo, hi float64, width int) string {
	ratio := 0.0
	if hi > lo {
		ratio = (v - lo) / (hi - lo)
	}
	filled := int(ratio*float64(width) + 0.5)
	filled = max(0, min(width, filled))
	return "[" + strings.Repeat("=", filled) + strings.Repeat("-", width-filled) + "]"
}

func Separator(width int, style lipgloss.Style) string {
	if width < 8 {
		return style.Render(strings.Repeat("─", max(width, 0)))
	}
	mid := width / 2
	return style.Render(strings.Repeat("─", mid-3) + " ◆ " + strings.Repeat("─", width-mid-3))
}

func parseHex(hex string) (r, g, b int) {
	if len(hex) != 7 || hex[0] != '#' {
		return 255, 255, 255
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return 255, 255, 255
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}

func hexColor(r, g, b int) string {
	return "#" + hexByte(r) + hexByte(g) + hexByte(b)
}

func hexByte(v int) string {
	v = max(0, min(255, v))
	const hex = "0123456789abcdef"
	return string(hex[v/16]) + string(hex[v%16])
}
