// Package automation runs scripted scenarios and parameter sweeps on top of
// headless experiments.
package automation

import (
	"context"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/physlab/internal/config"
	"github.com/san-kum/physlab/internal/experiment"
	"github.com/san-kum/physlab/internal/storage"
	"github.com/san-kum/physlab/internal/thermal"
)

// Scenario defines a scripted sequence of runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single run. Preset names are looked up under the step's
// kernel; Params are applied on top of it.
type ScenarioStep struct {
	Kernel     string              `yaml:"kernel"`
	Preset     string              `yaml:"preset"`
	Params     config.Patch        `yaml:"params"`
	Frames     int                 `yaml:"frames"`
	Every      int                 `yaml:"every"`
	Injections []thermal.Injection `yaml:"injections"`
	Save       bool                `yaml:"save"`
}

// LoadScenario loads a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s: no steps", path)
	}
	return &scenario, nil
}

// RunScenario executes all steps in order starting from base. Steps marked
// Save are written to st, which may be nil when none are.
func RunScenario(ctx context.Context, scenario *Scenario, base config.SimConfig, st *storage.Store) ([]*storage.Recording, error) {
	results := make([]*storage.Recording, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		logger := log.WithFields(log.Fields{
			"scenario": scenario.Name,
			"step":     fmt.Sprintf("%d/%d", i+1, len(scenario.Steps)),
			"kernel":   step.Kernel,
		})
		logger.Info("running step")

		sim := base
		if step.Preset != "" {
			p, err := config.LookupPreset(step.Kernel, step.Preset)
			if err != nil {
				return results, fmt.Errorf("step %d: %w", i+1, err)
			}
			sim = p
		}
		sim = step.Params.Apply(sim)

		rec, err := experiment.Run(ctx, experiment.Config{
			Kernel:     step.Kernel,
			Sim:        sim,
			Frames:     step.Frames,
			Every:      step.Every,
			Injections: step.Injections,
		})
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		if step.Save {
			if st == nil {
				return results, fmt.Errorf("step %d: no store to save into", i+1)
			}
			runID, err := st.Save(rec)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
			logger.WithField("run", runID).Info("step saved")
		}
		results = append(results, rec)
	}
	return results, nil
}

// ParameterSweep runs one kernel across evenly spaced values of a parameter.
type ParameterSweep struct {
	Kernel   string
	Base     config.SimConfig
	Param    string
	Min, Max float64
	Steps    int
	Frames   int
	// Workers bounds concurrent runs; zero means one per step.
	Workers int
}

// SweepResult holds one sweep point. Value is the parameter after clamping.
type SweepResult struct {
	Value   float64
	Metrics map[string]float64
}

// RunSweep executes a sweep, running points concurrently. Results are in
// parameter order.
func RunSweep(ctx context.Context, sweep *ParameterSweep) ([]SweepResult, error) {
	if sweep.Steps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 steps, got %d", sweep.Steps)
	}

	results := make([]SweepResult, sweep.Steps)
	paramStep := (sweep.Max - sweep.Min) / float64(sweep.Steps-1)

	g, ctx := errgroup.WithContext(ctx)
	if sweep.Workers > 0 {
		g.SetLimit(sweep.Workers)
	}
	for i := 0; i < sweep.Steps; i++ {
		sim, err := sweep.Base.With(sweep.Param, sweep.Min+float64(i)*paramStep)
		if err != nil {
			return nil, err
		}
		g.Go(func() error {
			rec, err := experiment.Run(ctx, experiment.Config{
				Kernel: sweep.Kernel,
				Sim:    sim,
				Frames: sweep.Frames,
				Every:  sweep.Frames,
			})
			if err != nil {
				return fmt.Errorf("%s=%g: %w", sweep.Param, paramValue(sim, sweep.Param), err)
			}
			results[i] = SweepResult{Value: paramValue(sim, sweep.Param), Metrics: rec.Metrics}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"param": sweep.Param, "points": sweep.Steps}).Debug("sweep finished")
	return results, nil
}

func paramValue(c config.SimConfig, param string) float64 {
	switch param {
	case "velocity":
		return c.Velocity
	case "angle":
		return c.Angle
	case "gravity":
		return c.Gravity
	}
	return c.Conductivity
}
