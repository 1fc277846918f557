package viz

import "github.com/charmbracelet/lipgloss"

// Theme is a TUI colour scheme. The heatmap keeps its own fixed ramp.
type Theme struct {
	Name string
	// TitleFrom and TitleTo bound the header gradient.
	TitleFrom lipgloss.Color
	TitleTo   lipgloss.Color
	Active    lipgloss.Color // selected parameter
	Flight    lipgloss.Color // trajectory canvas and energy chart
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Running   lipgloss.Color
	Paused    lipgloss.Color
	Error     lipgloss.Color
}

func newTheme(name string, colors ...string) Theme {
	c := make([]lipgloss.Color, len(colors))
	for i, s := range colors {
		c[i] = lipgloss.Color(s)
	}
	return Theme{
		Name:      name,
		TitleFrom: c[0],
		TitleTo:   c[1],
		Active:    c[2],
		Flight:    c[3],
		Text:      c[4],
		Muted:     c[5],
		Running:   c[6],
		Paused:    c[7],
		Error:     c[8],
	}
}

// Themes in the order the t key cycles through them.
var Themes = []Theme{
	//              title from  title to    active      flight      text        muted       running     paused      error
	newTheme("cyberpunk", "#ff00ff", "#00ffff", "#ff00ff", "#ffff00", "#ffffff", "#666666", "#00ff00", "#ff8800", "#ff0000"),
	newTheme("retro", "#00ff00", "#00cc00", "#88ff88", "#00ff00", "#00ff00", "#005500", "#88ff88", "#ffff00", "#ff0000"),
	newTheme("minimal", "#ffffff", "#cccccc", "#0088ff", "#ffffff", "#ffffff", "#888888", "#00ff00", "#ffaa00", "#ff0000"),
	newTheme("ocean", "#0077be", "#00a8cc", "#ffd700", "#00a8cc", "#e0f0ff", "#4488aa", "#00ff88", "#ffcc00", "#ff4444"),
	newTheme("sunset", "#ff6b6b", "#feca57", "#ff9ff3", "#feca57", "#fff5f5", "#8b6b8c", "#5fd068", "#ffc048", "#ff4757"),
	newTheme("ember", "#ff7a18", "#ffb347", "#ff3b3b", "#ffb347", "#fff1e0", "#8a6a50", "#9be564", "#ffd166", "#ef476f"),
}

// GetTheme returns a theme by name, falling back to the first one.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

// NextTheme returns the theme after t, wrapping around.
func NextTheme(t Theme) Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
