package integrators

import "github.com/san-kum/msdsim/internal/dynamo"

// RK4 is the classical fourth-order Runge-Kutta scheme. The recorded rate is
// re-evaluated at the new state.
type RK4 struct {
	k1, k2, k3, k4 dynamo.State
	scratch        dynamo.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) ensureScratch(n int) {
	if len(r.k1) != n {
		r.k1 = make(dynamo.State, n)
		r.k2 = make(dynamo.State, n)
		r.k3 = make(dynamo.State, n)
		r.k4 = make(dynamo.State, n)
		r.scratch = make(dynamo.State, n)
	}
}

func (r *RK4) Step(sys dynamo.System, x dynamo.State, t, dt float64) (dynamo.State, dynamo.State) {
	n := len(x)
	r.ensureScratch(n)

	copy(r.k1, sys.Derive(x, t))

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + r.k1[i]*dt/2
	}
	copy(r.k2, sys.Derive(r.scratch, t+dt/2))

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + r.k2[i]*dt/2
	}
	copy(r.k3, sys.Derive(r.scratch, t+dt/2))

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + r.k3[i]*dt
	}
	copy(r.k4, sys.Derive(r.scratch, t+dt))

	result := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		slope := (r.k1[i] + 2*r.k2[i] + 2*r.k3[i] + r.k4[i]) / 6
		result[i] = x[i] + slope*dt
	}

	return result, sys.Derive(result, t+dt)
}
