package sim

import (
	"fmt"
	"math"

	"github.com/san-kum/msdsim/internal/dynamo"
)

// Config holds the step-size and termination policy. The zero value is not
// usable; start from DefaultConfig.
type Config struct {
	// StepFraction scales the step to the oscillation speed: dt = StepFraction/wn.
	StepFraction float64
	// MaxDt caps the step size in seconds.
	MaxDt float64
	// MaxPeriods bounds a run to this many natural periods.
	MaxPeriods float64
	// HorizonPeriods is the fixed run length, in natural periods, for
	// overdamped systems.
	HorizonPeriods float64
	// SettleRatio is the fraction of the reference peak below which the
	// last two peaks must fall.
	SettleRatio float64
	// ValidateState aborts a run on NaN/Inf.
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		StepFraction:   0.1,
		MaxDt:          0.01,
		MaxPeriods:     100,
		HorizonPeriods: 2,
		SettleRatio:    0.02,
		ValidateState:  true,
	}
}

func (c Config) validate() error {
	if c.StepFraction <= 0 {
		return fmt.Errorf("step fraction must be positive, got %f", c.StepFraction)
	}
	if c.MaxDt <= 0 {
		return fmt.Errorf("max dt must be positive, got %f", c.MaxDt)
	}
	if c.MaxPeriods <= 0 || c.HorizonPeriods <= 0 {
		return fmt.Errorf("period limits must be positive, got %f and %f", c.MaxPeriods, c.HorizonPeriods)
	}
	if c.SettleRatio <= 0 || c.SettleRatio >= 1 {
		return fmt.Errorf("settle ratio must be in (0, 1), got %f", c.SettleRatio)
	}
	return nil
}

// StepSize is min(StepFraction/wn, MaxDt).
func (c Config) StepSize(wn float64) float64 {
	return math.Min(c.StepFraction/wn, c.MaxDt)
}

// MaxSteps is floor(MaxPeriods*T/dt), the exclusive upper bound of the
// step index.
func (c Config) MaxSteps(period, dt float64) int {
	return int(c.MaxPeriods * period / dt)
}

// HorizonStep is floor(HorizonPeriods*T/dt), the step at which overdamped
// runs end.
func (c Config) HorizonStep(period, dt float64) int {
	return int(c.HorizonPeriods * period / dt)
}

// StepSize applies the default policy, min(0.1/wn, 0.01).
func StepSize(wn float64) float64 {
	return DefaultConfig().StepSize(wn)
}

type Result struct {
	Trajectory *dynamo.Trajectory
	Metrics    map[string]float64
	StepsTaken int
}

// Reason is shorthand for Trajectory.Reason.
func (r *Result) Reason() dynamo.StopReason {
	return r.Trajectory.Reason
}
