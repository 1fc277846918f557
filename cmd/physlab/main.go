package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/physlab/internal/automation"
	"github.com/san-kum/physlab/internal/config"
	"github.com/san-kum/physlab/internal/experiment"
	"github.com/san-kum/physlab/internal/export"
	"github.com/san-kum/physlab/internal/kinematics"
	"github.com/san-kum/physlab/internal/logging"
	"github.com/san-kum/physlab/internal/projectile"
	"github.com/san-kum/physlab/internal/scheduler"
	"github.com/san-kum/physlab/internal/server"
	"github.com/san-kum/physlab/internal/session"
	"github.com/san-kum/physlab/internal/storage"
	"github.com/san-kum/physlab/internal/viz"
)

var (
	configFile string
	logLevel   string
	logFormat  string
	dataDir    string

	velocity     float64
	angle        float64
	gravity      float64
	conductivity float64
	preset       string

	frames int
	every  int
	save   bool
	plot   bool

	addr    string
	format  string
	svgPath string

	sweepParam   string
	sweepMin     float64
	sweepMax     float64
	sweepSteps   int
	sweepMetric  string
	sweepWorkers int
	sweepFrames  int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "physlab",
		Short:         "heat diffusion and projectile motion lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runTUI,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (yaml or ini)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text or json")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".physlab", "run data directory")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "interactive terminal view",
		RunE:  runTUI,
	}
	addSimFlags(tuiCmd)
	addSimFlags(rootCmd)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "stream simulations over websocket",
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	addSimFlags(serveCmd)

	runCmd := &cobra.Command{
		Use:       "run [thermal|projectile]",
		Short:     "run a kernel headlessly",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: experiment.Kernels(),
		RunE:      runHeadless,
	}
	addSimFlags(runCmd)
	runCmd.Flags().IntVar(&frames, "frames", 300, "maximum frames")
	runCmd.Flags().IntVar(&every, "every", 1, "record every n frames")
	runCmd.Flags().BoolVar(&save, "save", false, "save the run to the data directory")
	runCmd.Flags().BoolVar(&plot, "plot", true, "plot the recorded series")
	runCmd.Flags().StringVar(&svgPath, "svg", "", "write the final plate or flight path as svg")

	previewCmd := &cobra.Command{
		Use:   "preview",
		Short: "print the predicted trajectory",
		RunE:  runPreview,
	}
	addSimFlags(previewCmd)
	previewCmd.Flags().StringVar(&svgPath, "svg", "", "write the path as svg")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&format, "format", "csv", "csv, json or svg")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets",
		RunE:  listPresets,
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage config files",
	}
	configCmd.AddCommand(&cobra.Command{
		Use:   "init [path]",
		Short: "write the default config",
		Args:  cobra.ExactArgs(1),
		RunE:  initConfig,
	})
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "print the effective config",
		RunE:  showConfig,
	})

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a yaml scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	addSimFlags(scenarioCmd)

	sweepCmd := &cobra.Command{
		Use:       "sweep [thermal|projectile]",
		Short:     "sweep one parameter and compare a metric",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: experiment.Kernels(),
		RunE:      runSweep,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "angle", "parameter to sweep: "+strings.Join(config.ParamNames, ", "))
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 15, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 75, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 13, "number of points")
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", "distance", "metric to plot")
	sweepCmd.Flags().IntVar(&sweepWorkers, "workers", 4, "concurrent runs")
	sweepCmd.Flags().IntVar(&sweepFrames, "frames", 1000, "maximum frames per run")
	sweepCmd.Flags().BoolVar(&plot, "plot", true, "plot the metric")

	rootCmd.AddCommand(tuiCmd, serveCmd, runCmd, previewCmd, listCmd, exportCmd, presetsCmd, configCmd, scenarioCmd, sweepCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&velocity, "velocity", config.DefaultVelocity, "launch speed (m/s)")
	cmd.Flags().Float64Var(&angle, "angle", config.DefaultAngle, "launch angle (degrees)")
	cmd.Flags().Float64Var(&gravity, "gravity", config.DefaultGravity, "gravity (m/s²)")
	cmd.Flags().Float64Var(&conductivity, "conductivity", config.DefaultConductivity, "thermal conductivity")
	cmd.Flags().StringVar(&preset, "preset", "", "start from a preset, e.g. projectile/moon")
}

// loadConfig resolves config file, preset and flags, in that order, and
// configures logging.
func loadConfig(cmd *cobra.Command, logOut io.Writer) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if preset != "" {
		kind, name, ok := splitPreset(preset)
		if !ok {
			return nil, fmt.Errorf("preset must be kind/name, got %q", preset)
		}
		p, err := config.LookupPreset(kind, name)
		if err != nil {
			return nil, err
		}
		cfg.Sim = p
	}

	flags := cmd.Flags()
	if flags.Changed("velocity") {
		cfg.Sim.Velocity = velocity
	}
	if flags.Changed("angle") {
		cfg.Sim.Angle = angle
	}
	if flags.Changed("gravity") {
		cfg.Sim.Gravity = gravity
	}
	if flags.Changed("conductivity") {
		cfg.Sim.Conductivity = conductivity
	}
	if err := cfg.Sim.Validate(); err != nil {
		log.WithError(err).Warn("parameter clamped to its range")
		cfg.Sim = cfg.Sim.Clamped()
	}

	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}
	if err := logging.Setup(cfg.Log.Level, cfg.Log.Format, logOut); err != nil {
		return nil, err
	}
	return cfg, nil
}

func splitPreset(s string) (kind, name string, ok bool) {
	kind, name, ok = strings.Cut(s, "/")
	return kind, name, ok && kind != "" && name != ""
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}

	// Log lines would tear the alternate screen.
	if cfg.Log.File != "" {
		out, closeLog, err := logging.OpenFile(cfg.Log.File)
		if err != nil {
			return err
		}
		defer closeLog()
		log.SetOutput(out)
	} else {
		logging.Discard()
	}

	if cfg.Theme != "" && !slices.Contains(viz.ThemeNames(), cfg.Theme) {
		log.WithField("theme", cfg.Theme).Warnf("unknown theme, available: %v", viz.ThemeNames())
	}

	store := config.NewStore(cfg.Sim)
	ticker := scheduler.NewTicker(cfg.Scheduler.FPS)

	th := session.NewThermal(store)
	if err := th.Start(ticker); err != nil {
		return err
	}
	defer th.Stop()
	pr := session.NewProjectile(store, ticker, cfg.Scheduler.ProjectileDt)
	defer pr.Stop()

	return viz.Run(viz.NewApp(store, th, pr, cfg.Scheduler.FPS, cfg.Theme))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, os.Stderr)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.NewServer(cfg, scheduler.NewTicker(cfg.Scheduler.FPS))
	return srv.ListenAndServe(ctx)
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, os.Stderr)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rec, err := experiment.Run(ctx, experiment.Config{
		Kernel: args[0],
		Sim:    cfg.Sim,
		Frames: frames,
		Dt:     cfg.Scheduler.ProjectileDt,
		Every:  every,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "kernel\t%s\n", rec.Kernel)
	fmt.Fprintf(w, "frames\t%d\n", rec.Frames)
	fmt.Fprintf(w, "samples\t%d\n", len(rec.Rows))
	for _, name := range sortedKeys(rec.Metrics) {
		fmt.Fprintf(w, "%s\t%.4f\n", name, rec.Metrics[name])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if plot && len(rec.Rows) > 1 {
		fmt.Println()
		for _, col := range rec.Columns[:2] {
			fmt.Println(asciigraph.Plot(rec.Series(col),
				asciigraph.Height(10),
				asciigraph.Width(80),
				asciigraph.Caption(fmt.Sprintf("%s vs %s", col, rec.TimeLabel)),
			))
			fmt.Println()
		}
	}

	if svgPath != "" {
		if err := writeSVG(svgPath, recordingSVG(rec)); err != nil {
			return err
		}
	}

	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(rec)
		if err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		fmt.Printf("saved %s\n", runID)
	}
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, os.Stderr)
	if err != nil {
		return err
	}
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	recs, err := automation.RunScenario(ctx, sc, cfg.Sim, st)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tKERNEL\tFRAMES\tMETRICS")
	for i, rec := range recs {
		parts := make([]string, 0, len(rec.Metrics))
		for _, name := range sortedKeys(rec.Metrics) {
			parts = append(parts, fmt.Sprintf("%s=%.3f", name, rec.Metrics[name]))
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", i+1, rec.Kernel, rec.Frames, strings.Join(parts, " "))
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, os.Stderr)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := automation.RunSweep(ctx, &automation.ParameterSweep{
		Kernel:  args[0],
		Base:    cfg.Sim,
		Param:   sweepParam,
		Min:     sweepMin,
		Max:     sweepMax,
		Steps:   sweepSteps,
		Frames:  sweepFrames,
		Workers: sweepWorkers,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(sweepParam), strings.ToUpper(sweepMetric))
	series := make([]float64, len(results))
	for i, r := range results {
		v, ok := r.Metrics[sweepMetric]
		if !ok {
			return fmt.Errorf("no metric %q for %s runs (available: %v)", sweepMetric, args[0], sortedKeys(r.Metrics))
		}
		series[i] = v
		fmt.Fprintf(w, "%.3f\t%.4f\n", r.Value, v)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if plot {
		fmt.Println()
		fmt.Println(asciigraph.Plot(series,
			asciigraph.Height(10),
			asciigraph.Width(60),
			asciigraph.Caption(fmt.Sprintf("%s vs %s", sweepMetric, sweepParam)),
		))
	}
	return nil
}

func runPreview(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, os.Stderr)
	if err != nil {
		return err
	}

	l := kinematics.New(cfg.Sim.Projectile())
	ft, err := l.FlightTime()
	if err != nil {
		return err
	}
	impact, _ := l.Impact()
	apex, _ := l.Apex()

	fmt.Printf("flight time  %.4fs\n", ft)
	fmt.Printf("range        %.4fm\n", impact.X)
	fmt.Printf("apex         (%.2f, %.2f)m\n\n", apex.X, apex.Y)

	pts := l.Samples(projectile.PreviewStep)
	heights := make([]float64, len(pts))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "t\tx\ty\t")
	for i, p := range pts {
		heights[i] = p.Y
		fmt.Fprintf(w, "%.1f\t%.2f\t%.2f\t\n", float64(i)*projectile.PreviewStep, p.X, p.Y)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(asciigraph.Plot(heights, asciigraph.Height(12), asciigraph.Width(80), asciigraph.Caption("height")))

	if svgPath != "" {
		return writeSVG(svgPath, export.TrajectorySVG(pts, 800, 400, svgStroke))
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKERNEL\tTIME\tFRAMES\tSAMPLES")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n",
			run.ID,
			run.Kernel,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			run.Samples,
		)
	}
	return w.Flush()
}

func exportRun(cmd *cobra.Command, args []string) error {
	rec, err := storage.New(dataDir).LoadRecording(args[0])
	if err != nil {
		return err
	}
	switch format {
	case "csv":
		return storage.WriteCSV(os.Stdout, rec)
	case "json":
		return storage.WriteJSON(os.Stdout, rec)
	case "svg":
		doc := recordingSVG(rec)
		if doc == "" {
			return fmt.Errorf("run %s has nothing to draw", args[0])
		}
		_, err := io.WriteString(os.Stdout, doc+"\n")
		return err
	}
	return fmt.Errorf("unknown format %q", format)
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tVELOCITY\tANGLE\tGRAVITY\tCONDUCTIVITY")
	for _, kind := range sortedKeys(config.Presets) {
		for _, name := range config.ListPresets(kind) {
			p := config.GetPreset(kind, name)
			fmt.Fprintf(w, "%s/%s\t%.1f\t%.1f\t%.2f\t%.2f\n", kind, name, p.Velocity, p.Angle, p.Gravity, p.Conductivity)
		}
	}
	return w.Flush()
}

func initConfig(cmd *cobra.Command, args []string) error {
	path := args[0]
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if err := config.Save(path, config.DefaultConfig()); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func showConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, os.Stderr)
	if err != nil {
		return err
	}
	return config.Encode(os.Stdout, cfg)
}
