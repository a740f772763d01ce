package config

import (
	"fmt"
	"os"

	"github.com/san-kum/msdsim/internal/integrators"
	"github.com/san-kum/msdsim/internal/physics"
	"gopkg.in/yaml.v3"
)

const (
	DefaultMass      = 1.0
	DefaultDamping   = 0.4
	DefaultStiffness = 4.0
	DefaultX0        = 1.0
	DefaultV0        = 0.0
	DefaultLogLevel  = "info"
)

type Config struct {
	System     SystemConfig `yaml:"system"`
	Integrator string       `yaml:"integrator"`
	Output     OutputConfig `yaml:"output"`
	LogLevel   string       `yaml:"log_level"`
}

// SystemConfig holds the five raw model inputs.
type SystemConfig struct {
	Mass      float64 `yaml:"mass"`
	Damping   float64 `yaml:"damping"`
	Stiffness float64 `yaml:"stiffness"`
	X0        float64 `yaml:"x0"`
	V0        float64 `yaml:"v0"`
}

type OutputConfig struct {
	Trajectory string `yaml:"trajectory"`
	Parameters string `yaml:"parameters"`
	Store      bool   `yaml:"store"`
}

func DefaultConfig() *Config {
	return &Config{
		System: SystemConfig{
			Mass:      DefaultMass,
			Damping:   DefaultDamping,
			Stiffness: DefaultStiffness,
			X0:        DefaultX0,
			V0:        DefaultV0,
		},
		Integrator: integrators.NameRK4,
		Output: OutputConfig{
			Trajectory: "results.csv",
			Parameters: "system_parameters.csv",
			Store:      true,
		},
		LogLevel: DefaultLogLevel,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
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

// Validate range checks the system inputs field by field.
func (c *Config) Validate() physics.Validation {
	s := c.System
	return physics.Validate(s.Mass, s.Damping, s.Stiffness, s.X0, s.V0)
}

// Model builds the validated mass-spring-damper described by c.
func (c *Config) Model() (physics.MassSpringDamper, error) {
	s := c.System
	return physics.NewValidated(s.Mass, s.Damping, s.Stiffness, s.X0, s.V0)
}
