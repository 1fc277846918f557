package automation

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/physlab/internal/config"
	"github.com/san-kum/physlab/internal/experiment"
	"github.com/san-kum/physlab/internal/storage"
)

const scenarioYAML = `name: demo
description: hot plate then a moon shot
steps:
  - kernel: thermal
    frames: 20
    injections:
      - {x: 25, y: 25, amount: 100}
  - kernel: projectile
    preset: moon
    params:
      angle: 30
    frames: 500
    save: true
`

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.yaml")
	if err := os.WriteFile(path, []byte(scenarioYAML), 0644); err != nil {
		t.Fatal(err)
	}

	sc, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if sc.Name != "demo" || len(sc.Steps) != 2 {
		t.Fatalf("unexpected scenario: %+v", sc)
	}
	if sc.Steps[0].Injections[0].Amount != 100 {
		t.Errorf("injections not parsed: %+v", sc.Steps[0].Injections)
	}
	if a := sc.Steps[1].Params.Angle; a == nil || *a != 30 {
		t.Errorf("params not parsed: %+v", sc.Steps[1].Params)
	}
}

func TestLoadScenario_NoSteps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	os.WriteFile(path, []byte("name: empty\n"), 0644)
	if _, err := LoadScenario(path); err == nil {
		t.Error("expected error for scenario without steps")
	}
}

func TestRunScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.yaml")
	os.WriteFile(path, []byte(scenarioYAML), 0644)
	sc, err := LoadScenario(path)
	if err != nil {
		t.Fatal(err)
	}

	st := storage.New(t.TempDir())
	st.Init()
	recs, err := RunScenario(context.Background(), sc, config.DefaultSimConfig(), st)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 recordings, got %d", len(recs))
	}
	if recs[0].Kernel != experiment.KernelThermal || recs[0].Frames != 20 {
		t.Errorf("thermal step: %+v", recs[0].Frames)
	}
	moon := recs[1].Config
	if moon.Gravity != 1.62 || moon.Angle != 30 {
		t.Errorf("preset and params not applied: %+v", moon)
	}

	runs, _ := st.List()
	if len(runs) != 1 || runs[0].Kernel != experiment.KernelProjectile {
		t.Errorf("expected the projectile step saved, got %+v", runs)
	}
}

func TestRunScenario_Errors(t *testing.T) {
	tests := []struct {
		name string
		step ScenarioStep
	}{
		{"unknown preset", ScenarioStep{Kernel: "projectile", Preset: "pluto", Frames: 1}},
		{"unknown kernel", ScenarioStep{Kernel: "fluid", Frames: 1}},
		{"save without store", ScenarioStep{Kernel: "thermal", Frames: 1, Save: true}},
	}
	for _, tt := range tests {
		sc := &Scenario{Name: tt.name, Steps: []ScenarioStep{tt.step}}
		if _, err := RunScenario(context.Background(), sc, config.DefaultSimConfig(), nil); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestRunSweep_AngleRange(t *testing.T) {
	res, err := RunSweep(context.Background(), &ParameterSweep{
		Kernel:  experiment.KernelProjectile,
		Base:    config.DefaultSimConfig(),
		Param:   "angle",
		Min:     15,
		Max:     75,
		Steps:   5,
		Frames:  1000,
		Workers: 2,
	})
	if err != nil {
		t.Fatal(err)
	}

	want := []float64{15, 30, 45, 60, 75}
	best := 0
	for i, r := range res {
		if r.Value != want[i] {
			t.Errorf("point %d value = %v, want %v", i, r.Value, want[i])
		}
		if r.Metrics["distance"] > res[best].Metrics["distance"] {
			best = i
		}
	}
	if res[best].Value != 45 {
		t.Errorf("longest range at %v°, want 45°", res[best].Value)
	}
	// complementary angles land together
	if math.Abs(res[0].Metrics["distance"]-res[4].Metrics["distance"]) > 1e-6 {
		t.Errorf("15° and 75° ranges differ: %v vs %v", res[0].Metrics["distance"], res[4].Metrics["distance"])
	}
}

func TestRunSweep_Errors(t *testing.T) {
	tests := []struct {
		name  string
		sweep ParameterSweep
	}{
		{"too few steps", ParameterSweep{Kernel: "thermal", Param: "conductivity", Steps: 1, Frames: 1}},
		{"unknown param", ParameterSweep{Kernel: "thermal", Param: "mass", Steps: 2, Frames: 1}},
		{"bad kernel", ParameterSweep{Kernel: "fluid", Param: "angle", Steps: 2, Frames: 1}},
	}
	for _, tt := range tests {
		tt.sweep.Base = config.DefaultSimConfig()
		if _, err := RunSweep(context.Background(), &tt.sweep); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}
