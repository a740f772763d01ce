package integrators

import "github.com/san-kum/msdsim/internal/dynamo"

// SemiImplicitEuler is the symplectic Euler scheme: the acceleration comes
// from the previous state, velocity is advanced with it, and position is
// advanced with the new velocity. The state is split in half, positions
// first and velocities second.
type SemiImplicitEuler struct{}

func NewSemiImplicitEuler() *SemiImplicitEuler {
	return &SemiImplicitEuler{}
}

func (e *SemiImplicitEuler) Step(sys dynamo.System, x dynamo.State, t, dt float64) (dynamo.State, dynamo.State) {
	n := len(x)
	half := n / 2

	rate := sys.Derive(x, t)
	result := make(dynamo.State, n)
	for i := 0; i < half; i++ {
		result[half+i] = x[half+i] + rate[half+i]*dt
		result[i] = x[i] + result[half+i]*dt
	}

	return result, rate
}
