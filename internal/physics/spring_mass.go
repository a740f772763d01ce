package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/msdsim/internal/dynamo"
)

// Input limits accepted by Validate.
const (
	MinMass      = 1e-6
	MaxMass      = 1e3
	MaxDamping   = 1e5
	MaxStiffness = 1e7
	MaxPosition  = 5.0
	MaxVelocity  = 20.0
)

// criticalTolerance is how close zeta must be to 1 to count as critically
// damped when classifying the regime.
const criticalTolerance = 1e-9

// MassSpringDamper is a single-degree-of-freedom linear oscillator,
// m*a = -c*v - k*x. The derived quantities are computed once in New and
// always match the five inputs.
type MassSpringDamper struct {
	m, c, k, x0, v0 float64

	wn, period, cCrit, zeta, settling float64
}

// New builds the model and its derived quantities. Inputs that cannot
// describe a physical oscillator are rejected with dynamo.ErrInvalidModel.
func New(m, c, k, x0, v0 float64) (MassSpringDamper, error) {
	for _, v := range [...]float64{m, c, k, x0, v0} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return MassSpringDamper{}, fmt.Errorf("%w: non-finite input", dynamo.ErrInvalidModel)
		}
	}
	switch {
	case m <= 0:
		return MassSpringDamper{}, fmt.Errorf("%w: mass must be positive, got %g", dynamo.ErrInvalidModel, m)
	case k <= 0:
		return MassSpringDamper{}, fmt.Errorf("%w: stiffness must be positive, got %g", dynamo.ErrInvalidModel, k)
	case c < 0:
		return MassSpringDamper{}, fmt.Errorf("%w: damping must not be negative, got %g", dynamo.ErrInvalidModel, c)
	}

	s := MassSpringDamper{m: m, c: c, k: k, x0: x0, v0: v0}
	s.wn = math.Sqrt(k / m)
	s.period = 2 * math.Pi / s.wn
	s.cCrit = 2 * math.Sqrt(k*m)
	s.zeta = c / s.cCrit
	s.settling = 4 / (s.zeta * s.wn)

	if math.IsNaN(s.wn) || math.IsNaN(s.zeta) || s.wn == 0 || math.IsInf(s.wn, 0) {
		return MassSpringDamper{}, fmt.Errorf("%w: degenerate natural frequency", dynamo.ErrInvalidModel)
	}
	return s, nil
}

// MustNew is New for known-good constants such as presets.
func MustNew(m, c, k, x0, v0 float64) MassSpringDamper {
	s, err := New(m, c, k, x0, v0)
	if err != nil {
		panic(err)
	}
	return s
}

// Set replaces all five inputs at once. On error s is left untouched.
func (s *MassSpringDamper) Set(m, c, k, x0, v0 float64) error {
	next, err := New(m, c, k, x0, v0)
	if err != nil {
		return err
	}
	*s = next
	return nil
}

func (s MassSpringDamper) Mass() float64             { return s.m }
func (s MassSpringDamper) Damping() float64          { return s.c }
func (s MassSpringDamper) Stiffness() float64        { return s.k }
func (s MassSpringDamper) InitialPosition() float64  { return s.x0 }
func (s MassSpringDamper) InitialVelocity() float64  { return s.v0 }
func (s MassSpringDamper) NaturalFrequency() float64 { return s.wn }
func (s MassSpringDamper) Period() float64           { return s.period }
func (s MassSpringDamper) CriticalDamping() float64  { return s.cCrit }
func (s MassSpringDamper) DampingRatio() float64     { return s.zeta }

// SettlingTime is the 2% settling time 4/(zeta*wn).
func (s MassSpringDamper) SettlingTime() float64 { return s.settling }

func (s MassSpringDamper) StateDim() int { return 2 }

func (s MassSpringDamper) Initial() dynamo.State {
	return dynamo.State{s.x0, s.v0}
}

// Acceleration evaluates the equation of motion at (x, v).
func (s MassSpringDamper) Acceleration(x, v float64) float64 {
	return -(s.c/s.m)*v - (s.k/s.m)*x
}

func (s MassSpringDamper) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{x[1], s.Acceleration(x[0], x[1])}
}

// Energy is the mechanical energy ½mv² + ½kx².
func (s MassSpringDamper) Energy(x dynamo.State) float64 {
	return 0.5*s.m*x[1]*x[1] + 0.5*s.k*x[0]*x[0]
}

func (s MassSpringDamper) String() string {
	return fmt.Sprintf("m=%g c=%g k=%g x0=%g v0=%g (zeta=%.4g, %s)",
		s.m, s.c, s.k, s.x0, s.v0, s.zeta, s.Regime())
}
