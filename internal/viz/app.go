package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/physlab/internal/config"
	"github.com/san-kum/physlab/internal/projectile"
	"github.com/san-kum/physlab/internal/session"
	"github.com/san-kum/physlab/internal/thermal"
)

const (
	historyCapacity = 300
	canvasWidth     = 48
	canvasHeight    = 14

	// Screen position of the heatmap's top-left cell: two header lines and
	// the panel border.
	heatOriginX = 1
	heatOriginY = 3
)

type TickMsg time.Time

func tick(fps int) tea.Cmd {
	if fps <= 0 {
		fps = config.DefaultFPS
	}
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

// param is one user-adjustable setting.
type param struct {
	name string
	unit string
	r    config.Range
	get  func(config.SimConfig) float64
	set  func(*config.SimConfig, float64)
}

var params = []param{
	{"velocity", "m/s", config.VelocityRange,
		func(c config.SimConfig) float64 { return c.Velocity },
		func(c *config.SimConfig, v float64) { c.Velocity = v }},
	{"angle", "°", config.AngleRange,
		func(c config.SimConfig) float64 { return c.Angle },
		func(c *config.SimConfig, v float64) { c.Angle = v }},
	{"gravity", "m/s²", config.GravityRange,
		func(c config.SimConfig) float64 { return c.Gravity },
		func(c *config.SimConfig, v float64) { c.Gravity = v }},
	{"conductivity", "", config.ConductivityRange,
		func(c config.SimConfig) float64 { return c.Conductivity },
		func(c *config.SimConfig, v float64) { c.Conductivity = v }},
}

// App is the interactive terminal front end. It renders session snapshots
// and turns keys and mouse drags into session commands; it never steps a
// kernel itself.
type App struct {
	store      *config.Store
	thermal    *session.Thermal
	projectile *session.Projectile

	fps      int
	theme    Theme
	styles   Styles
	canvas   *Canvas
	selected int
	history  []float64
	lastErr  error
	showHelp bool
}

func NewApp(store *config.Store, th *session.Thermal, pr *session.Projectile, fps int, theme string) App {
	t := GetTheme(theme)
	return App{
		store:      store,
		thermal:    th,
		projectile: pr,
		fps:        fps,
		theme:      t,
		styles:     NewStyles(t),
		canvas:     NewCanvas(canvasWidth, canvasHeight),
		history:    make([]float64, 0, historyCapacity),
	}
}

func (a App) Init() tea.Cmd { return tick(a.fps) }

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKey(msg)
	case tea.MouseMsg:
		a.handleMouse(msg)
	case TickMsg:
		a.record(a.thermal.Snapshot().Energy)
		return a, tick(a.fps)
	}
	return a, nil
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case " ", "enter":
		a.lastErr = a.projectile.Launch()
	case "r":
		a.lastErr = a.projectile.Reset()
	case "c":
		a.lastErr = a.thermal.Clear()
	case "p":
		a.thermal.SetPaused(!a.thermal.Paused())
	case "tab":
		a.selected = (a.selected + 1) % len(params)
	case "shift+tab":
		a.selected = (a.selected + len(params) - 1) % len(params)
	case "up", "k":
		a.adjust(1)
	case "down", "j":
		a.adjust(-1)
	case "right", "l":
		a.adjust(10)
	case "left", "h":
		a.adjust(-10)
	case "t":
		a.theme = NextTheme(a.theme)
		a.styles = NewStyles(a.theme)
	case "?":
		a.showHelp = !a.showHelp
	}
	return a, nil
}

// adjust moves the selected parameter by steps of its range step.
func (a *App) adjust(steps float64) {
	p := params[a.selected]
	a.store.Update(func(c *config.SimConfig) {
		p.set(c, p.get(*c)+steps*p.r.Step)
	})
}

// handleMouse paints heat while the left button is down over the heatmap.
func (a *App) handleMouse(msg tea.MouseMsg) {
	if msg.Button != tea.MouseButtonLeft {
		return
	}
	if msg.Action != tea.MouseActionPress && msg.Action != tea.MouseActionMotion {
		return
	}
	x, y := HeatmapCell(msg.X-heatOriginX, msg.Y-heatOriginY)
	if thermal.InBounds(x, y) {
		a.lastErr = a.thermal.Inject(x, y, thermal.BrushAmount)
	}
}

func (a *App) record(energy float64) {
	if len(a.history) == historyCapacity {
		a.history = append(a.history[:0], a.history[1:]...)
	}
	a.history = append(a.history, energy)
}

func (a App) View() string {
	th := a.thermal.Snapshot()
	pr := a.projectile.Snapshot()

	header := GradientText("PHYSLAB", a.theme.TitleFrom, a.theme.TitleTo) + "  " +
		a.styles.KeyHint.Render("heat diffusion · projectile motion") + "\n"

	heat := a.styles.Panel.Render(Heatmap(th.Field))

	DrawTrajectory(a.canvas, pr)
	flight := a.styles.Panel.Render(a.styles.Graph.Render(a.canvas.String()))

	left := lipgloss.JoinVertical(lipgloss.Left, heat, a.thermalStats(th))
	right := lipgloss.JoinVertical(lipgloss.Left, flight, a.projectileStats(pr), a.paramList())
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)

	footer := a.styles.KeyHint.Render("space launch  r reset  drag heat  c clear  p pause  tab/↑↓←→ tune  t theme  ? help  q quit")
	if a.lastErr != nil {
		footer = a.styles.Error.Render(a.lastErr.Error()) + "\n" + footer
	}

	view := header + "\n" + body + "\n" + footer
	if a.showHelp {
		view += "\n\n" + a.help()
	}
	return view
}

func (a App) thermalStats(s *session.ThermalSnapshot) string {
	var b strings.Builder
	status := a.styles.Running.Render("DIFFUSING")
	if s.Paused {
		status = a.styles.Paused.Render("PAUSED")
	}
	b.WriteString(status + "\n")
	b.WriteString(a.styles.Label.Render("Energy") + a.styles.Value.Render(fmt.Sprintf("%.1f", s.Energy)) + "\n")
	b.WriteString(a.styles.Label.Render("Peak") + a.styles.Value.Render(fmt.Sprintf("%.1f°", s.Max)) + "\n")
	b.WriteString(a.styles.Label.Render("Steps") + a.styles.Value.Render(fmt.Sprintf("%d", s.Steps)) + "\n")
	if len(a.history) > 1 {
		chart := asciigraph.Plot(a.history, asciigraph.Height(4), asciigraph.Width(36), asciigraph.Caption("Energy"))
		b.WriteString(a.styles.Graph.Render(chart))
	}
	return b.String()
}

func (a App) projectileStats(s *projectile.Snapshot) string {
	var b strings.Builder
	var status string
	switch {
	case s.Degenerate:
		status = a.styles.Error.Render("NO FLIGHT")
	case s.Phase == projectile.InFlight:
		status = a.styles.Running.Render("IN FLIGHT")
	case s.Phase == projectile.Landed:
		status = a.styles.Paused.Render("LANDED")
	default:
		status = a.styles.KeyHint.Render("READY")
	}
	label := "Launch"
	if s.Relaunch() {
		label = "Re-Launch"
	}
	b.WriteString(status + "  " + a.styles.Value.Render(s.Clock()) + "  " + a.styles.KeyHint.Render("[space] "+label) + "\n")

	progress := 0.0
	if s.FlightTime > 0 {
		progress = s.Elapsed / s.FlightTime
	}
	b.WriteString(ProgressBar(progress, 30, a.styles.Running) + "\n")
	b.WriteString(a.styles.Label.Render("Position") + a.styles.Value.Render(fmt.Sprintf("(%.1f, %.1f) m", s.Position.X, s.Position.Y)) + "\n")
	b.WriteString(a.styles.Label.Render("Speed") + a.styles.Value.Render(fmt.Sprintf("%.1f m/s", s.Velocity.Norm())) + "\n")
	b.WriteString(a.styles.Label.Render("Range") + a.styles.Value.Render(fmt.Sprintf("%.1f m in %.2fs", s.Impact.X, s.FlightTime)) + "\n")
	return b.String()
}

func (a App) paramList() string {
	cfg := a.store.Snapshot()
	var b strings.Builder
	b.WriteString(Separator(40, a.styles.KeyHint) + "\n")
	for i, p := range params {
		line := fmt.Sprintf("%-12s %s %7.2f %s", p.name, ParamBar(p.get(cfg), p.r.Min, p.r.Max, 10), p.get(cfg), p.unit)
		if i == a.selected {
			b.WriteString(a.styles.ActiveParam.Render("> "+line) + "\n")
		} else {
			b.WriteString("  " + a.styles.Value.Render(line) + "\n")
		}
	}
	return b.String()
}

func (a App) help() string {
	return a.styles.Panel.Render(strings.Join([]string{
		"Space/Enter  launch or re-launch",
		"R            reset projectile",
		"Mouse drag   add heat",
		"C            clear plate",
		"P            pause diffusion",
		"Tab          next parameter",
		"Up/Down      fine adjust",
		"Left/Right   coarse adjust",
		"T            cycle themes",
		"Q            quit",
	}, "\n"))
}

// Run starts the program on the alternate screen with mouse tracking.
func Run(app App) error {
	_, err := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
