package integrators

import (
	"github.com/charmbracelet/harmonica"
	"github.com/san-kum/msdsim/internal/dynamo"
)

// Analytic propagates a damped oscillator with its closed-form solution, so
// each step is exact up to rounding. Systems that are not a
// dynamo.Oscillator fall back to RK4.
type Analytic struct {
	spring       harmonica.Spring
	dt, wn, zeta float64
	ready        bool
	fallback     *RK4
}

func NewAnalytic() *Analytic {
	return &Analytic{fallback: NewRK4()}
}

func (a *Analytic) Step(sys dynamo.System, x dynamo.State, t, dt float64) (dynamo.State, dynamo.State) {
	osc, ok := sys.(dynamo.Oscillator)
	if !ok || len(x) != 2 {
		return a.fallback.Step(sys, x, t, dt)
	}

	wn, zeta := osc.NaturalFrequency(), osc.DampingRatio()
	if !a.ready || a.dt != dt || a.wn != wn || a.zeta != zeta {
		a.spring = harmonica.NewSpring(dt, wn, zeta)
		a.dt, a.wn, a.zeta = dt, wn, zeta
		a.ready = true
	}

	pos, vel := a.spring.Update(x[0], x[1], 0)
	result := dynamo.State{pos, vel}
	return result, sys.Derive(result, t+dt)
}
