package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

const (
	DefaultVelocity     = 50.0
	DefaultAngle        = 45.0
	DefaultGravity      = 9.81
	DefaultConductivity = 0.5
	DefaultFPS          = 60
	DefaultProjectileDt = 0.08
	DefaultAddr         = ":9000"
	DefaultLogLevel     = "info"
)

type Config struct {
	Sim       SimConfig       `yaml:"sim"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Theme     string          `yaml:"theme"`
}

type SchedulerConfig struct {
	FPS          int     `yaml:"fps"`
	ProjectileDt float64 `yaml:"projectile_dt"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
	// SnapshotEvery sends one snapshot per this many frames.
	SnapshotEvery int `yaml:"snapshot_every"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

func DefaultConfig() *Config {
	return &Config{
		Sim: DefaultSimConfig(),
		Scheduler: SchedulerConfig{
			FPS:          DefaultFPS,
			ProjectileDt: DefaultProjectileDt,
		},
		Server: ServerConfig{
			Addr:          DefaultAddr,
			SnapshotEvery: 2,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: "text",
		},
		Theme: "cyberpunk",
	}
}

// Load reads a YAML or INI file (chosen by extension) over the defaults.
func Load(path string) (*Config, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ini", ".conf":
		return loadINI(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Encode writes cfg as YAML to w.
func Encode(w io.Writer, cfg *Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}

func loadINI(path string) (*Config, error) {
	file, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("read ini %s: %w", path, err)
	}
	def := DefaultConfig()

	sim := file.Section("sim")
	sched := file.Section("scheduler")
	srv := file.Section("server")
	lg := file.Section("log")

	return &Config{
		Sim: SimConfig{
			Velocity:     sim.Key("velocity").MustFloat64(def.Sim.Velocity),
			Angle:        sim.Key("angle").MustFloat64(def.Sim.Angle),
			Gravity:      sim.Key("gravity").MustFloat64(def.Sim.Gravity),
			Conductivity: sim.Key("conductivity").MustFloat64(def.Sim.Conductivity),
		},
		Scheduler: SchedulerConfig{
			FPS:          sched.Key("fps").MustInt(def.Scheduler.FPS),
			ProjectileDt: sched.Key("projectile_dt").MustFloat64(def.Scheduler.ProjectileDt),
		},
		Server: ServerConfig{
			Addr:          srv.Key("addr").MustString(def.Server.Addr),
			SnapshotEvery: srv.Key("snapshot_every").MustInt(def.Server.SnapshotEvery),
		},
		Log: LogConfig{
			Level:  lg.Key("level").MustString(def.Log.Level),
			Format: lg.Key("format").MustString(def.Log.Format),
			File:   lg.Key("file").MustString(def.Log.File),
		},
		Theme: file.Section("").Key("theme").MustString(def.Theme),
	}, nil
}
