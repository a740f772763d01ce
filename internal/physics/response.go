package physics

import "math"

// Regime classifies the free response by damping ratio.
type Regime int

const (
	Underdamped Regime = iota
	CriticallyDamped
	Overdamped
)

func (r Regime) String() string {
	switch r {
	case Underdamped:
		return "underdamped"
	case CriticallyDamped:
		return "critically damped"
	default:
		return "overdamped"
	}
}

// Regime treats zeta within 1e-9 of 1 as critically damped, so the damped
// response quantities below are never evaluated at the sqrt(1-zeta²)
// singularity.
func (s MassSpringDamper) Regime() Regime {
	switch {
	case math.Abs(s.zeta-1) <= criticalTolerance:
		return CriticallyDamped
	case s.zeta < 1:
		return Underdamped
	default:
		return Overdamped
	}
}

func (s MassSpringDamper) dampingFactor() (float64, bool) {
	if s.Regime() != Underdamped {
		return 0, false
	}
	return math.Sqrt(1 - s.zeta*s.zeta), true
}

// DampedFrequency is wd = wn*sqrt(1-zeta²); ok is false unless underdamped.
func (s MassSpringDamper) DampedFrequency() (float64, bool) {
	f, ok := s.dampingFactor()
	if !ok {
		return 0, false
	}
	return s.wn * f, true
}

// DampedPeriod is 2π/wd.
func (s MassSpringDamper) DampedPeriod() (float64, bool) {
	wd, ok := s.DampedFrequency()
	if !ok {
		return 0, false
	}
	return 2 * math.Pi / wd, true
}

// Overshoot is the percent overshoot of the step response.
func (s MassSpringDamper) Overshoot() (float64, bool) {
	f, ok := s.dampingFactor()
	if !ok {
		return 0, false
	}
	return 100 * math.Exp(-s.zeta*math.Pi/f), true
}

// LogDecrement is the logarithmic decrement between successive peaks.
func (s MassSpringDamper) LogDecrement() (float64, bool) {
	f, ok := s.dampingFactor()
	if !ok {
		return 0, false
	}
	return 2 * math.Pi * s.zeta / f, true
}
