// Package experiment runs a kernel headlessly for a fixed number of frames
// and records what its session publishes.
package experiment

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/san-kum/physlab/internal/config"
	"github.com/san-kum/physlab/internal/metrics"
	"github.com/san-kum/physlab/internal/projectile"
	"github.com/san-kum/physlab/internal/scheduler"
	"github.com/san-kum/physlab/internal/session"
	"github.com/san-kum/physlab/internal/storage"
	"github.com/san-kum/physlab/internal/thermal"
)

const (
	KernelThermal    = "thermal"
	KernelProjectile = "projectile"
)

// Kernels lists the runnable kernel names.
func Kernels() []string { return []string{KernelThermal, KernelProjectile} }

type Config struct {
	Kernel string
	Sim    config.SimConfig
	// Frames caps the run length. Projectile runs also stop on landing.
	Frames int
	// Dt is the projectile time step; non-positive uses projectile.TimeStep.
	Dt float64
	// Injections seed the plate before the first frame.
	Injections []thermal.Injection
	// Every records one sample per this many frames.
	Every int
}

// DefaultInjections heats a small cross at the plate centre.
func DefaultInjections() []thermal.Injection {
	c := thermal.Size / 2
	return []thermal.Injection{
		{X: c, Y: c, Amount: thermal.BrushAmount},
		{X: c - 1, Y: c, Amount: thermal.BrushAmount},
		{X: c + 1, Y: c, Amount: thermal.BrushAmount},
		{X: c, Y: c - 1, Amount: thermal.BrushAmount},
		{X: c, Y: c + 1, Amount: thermal.BrushAmount},
	}
}

func Run(ctx context.Context, cfg Config) (*storage.Recording, error) {
	if cfg.Frames <= 0 {
		return nil, fmt.Errorf("experiment: frames must be positive, got %d", cfg.Frames)
	}
	if cfg.Every <= 0 {
		cfg.Every = 1
	}
	logger := log.WithFields(log.Fields{"kernel": cfg.Kernel, "frames": cfg.Frames})
	logger.Debug("experiment started")

	var (
		rec *storage.Recording
		err error
	)
	switch cfg.Kernel {
	case KernelThermal:
		rec, err = runThermal(ctx, cfg)
	case KernelProjectile:
		rec, err = runProjectile(ctx, cfg)
	default:
		return nil, fmt.Errorf("experiment: unknown kernel %q (available: %v)", cfg.Kernel, Kernels())
	}
	if err != nil {
		return nil, err
	}
	logger.WithField("samples", len(rec.Rows)).Debug("experiment finished")
	return rec, nil
}

func runThermal(ctx context.Context, cfg Config) (*storage.Recording, error) {
	store := config.NewStore(cfg.Sim)
	sched := scheduler.NewManual()
	sess := session.NewThermal(store)
	defer sess.Stop()
	if err := sess.Start(sched); err != nil {
		return nil, err
	}

	injections := cfg.Injections
	if injections == nil {
		injections = DefaultInjections()
	}
	for _, in := range injections {
		if err := sess.Inject(in.X, in.Y, in.Amount); err != nil {
			return nil, err
		}
	}

	ms := []metrics.ThermalMetric{metrics.NewEnergyRetention(), metrics.NewPeakTemperature()}
	rec := &storage.Recording{
		Kernel:    KernelThermal,
		Config:    store.Snapshot(),
		TimeLabel: "step",
		Columns:   []string{"energy", "max", "center"},
	}
	for frame := 1; frame <= cfg.Frames; frame++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sched.Advance(1)
		s := sess.Snapshot()
		for _, m := range ms {
			m.Observe(s)
		}
		rec.Frames = frame
		if frame%cfg.Every == 0 || frame == cfg.Frames {
			c := thermal.Size / 2
			rec.Times = append(rec.Times, float64(s.Steps))
			rec.Rows = append(rec.Rows, []float64{s.Energy, s.Max, s.Field.At(c, c)})
		}
	}
	rec.Metrics = metrics.Collect(ms)
	rec.Field = sess.Snapshot().Field
	return rec, nil
}

func runProjectile(ctx context.Context, cfg Config) (*storage.Recording, error) {
	store := config.NewStore(cfg.Sim)
	sched := scheduler.NewManual()
	sess := session.NewProjectile(store, sched, cfg.Dt)
	defer sess.Stop()

	ms := []metrics.ProjectileMetric{metrics.NewMaxHeight(), metrics.NewDistance(), metrics.NewAirtime()}
	rec := &storage.Recording{
		Kernel:    KernelProjectile,
		Config:    store.Snapshot(),
		TimeLabel: "t",
		Columns:   []string{"x", "y", "vx", "vy"},
	}
	sample := func(s *projectile.Snapshot) {
		rec.Times = append(rec.Times, s.Elapsed)
		rec.Rows = append(rec.Rows, []float64{s.Position.X, s.Position.Y, s.Velocity.X, s.Velocity.Y})
	}

	if err := sess.Launch(); err != nil {
		return nil, err
	}
	sample(sess.Snapshot())

	for frame := 1; frame <= cfg.Frames && sess.InFlight(); frame++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sched.Advance(1)
		s := sess.Snapshot()
		for _, m := range ms {
			m.Observe(s)
		}
		rec.Frames = frame
		if frame%cfg.Every == 0 || s.Phase == projectile.Landed {
			sample(s)
		}
	}
	rec.Metrics = metrics.Collect(ms)
	return rec, nil
}
