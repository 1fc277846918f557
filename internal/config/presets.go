package config

import (
	"fmt"
	"sort"

	"github.com/san-kum/physlab/internal/dynamo"
)

var Presets = map[string]map[string]SimConfig{
	"projectile": {
		"earth":   {Velocity: 50, Angle: 45, Gravity: 9.81, Conductivity: DefaultConductivity},
		"moon":    {Velocity: 50, Angle: 45, Gravity: 1.62, Conductivity: DefaultConductivity},
		"mars":    {Velocity: 50, Angle: 45, Gravity: 3.71, Conductivity: DefaultConductivity},
		"jupiter": {Velocity: 120, Angle: 45, Gravity: 24.79, Conductivity: DefaultConductivity},
		"lob":     {Velocity: 40, Angle: 75, Gravity: 9.81, Conductivity: DefaultConductivity},
		"flat":    {Velocity: 80, Angle: 10, Gravity: 9.81, Conductivity: DefaultConductivity},
	},
	"thermal": {
		"copper": {Velocity: DefaultVelocity, Angle: DefaultAngle, Gravity: DefaultGravity, Conductivity: 0.95},
		"steel":  {Velocity: DefaultVelocity, Angle: DefaultAngle, Gravity: DefaultGravity, Conductivity: 0.45},
		"glass":  {Velocity: DefaultVelocity, Angle: DefaultAngle, Gravity: DefaultGravity, Conductivity: 0.08},
	},
}

func GetPreset(kind, preset string) *SimConfig {
	kindPresets, ok := Presets[kind]
	if !ok {
		return nil
	}
	cfg, ok := kindPresets[preset]
	if !ok {
		return nil
	}
	return &cfg
}

// LookupPreset is GetPreset with an error naming what is available.
func LookupPreset(kind, preset string) (SimConfig, error) {
	cfg := GetPreset(kind, preset)
	if cfg == nil {
		return SimConfig{}, fmt.Errorf("%w: %s/%s (available: %v)", dynamo.ErrUnknownPreset, kind, preset, ListPresets(kind))
	}
	return *cfg, nil
}

func ListPresets(kind string) []string {
	kindPresets, ok := Presets[kind]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(kindPresets))
	for name := range kindPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
