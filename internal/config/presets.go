package config

import (
	"sort"

	"github.com/san-kum/msdsim/internal/integrators"
)

// Presets are named starting systems covering each damping regime.
var Presets = map[string]SystemConfig{
	"underdamped":    {Mass: 1, Damping: 0.4, Stiffness: 4, X0: 1, V0: 0},
	"lightly-damped": {Mass: 1, Damping: 0.1, Stiffness: 10, X0: 0.5, V0: 0},
	"critical":       {Mass: 1, Damping: 4, Stiffness: 4, X0: 1, V0: 0},
	"overdamped":     {Mass: 1, Damping: 10, Stiffness: 4, X0: 1, V0: 0},
	"stiff":          {Mass: 0.01, Damping: 0.5, Stiffness: 1e4, X0: 0.01, V0: 0},
}

// GetPreset returns a fresh config for the named preset, or nil.
func GetPreset(name string) *Config {
	sys, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.System = sys
	cfg.Integrator = integrators.NameRK4
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
