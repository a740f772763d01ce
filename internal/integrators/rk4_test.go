package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/msdsim/internal/dynamo"
)

type simpleDynamics struct{}

func (s *simpleDynamics) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{x[1], -x[0]}
}

func (s *simpleDynamics) StateDim() int { return 2 }

func TestRK4Accuracy(t *testing.T) {
	dyn := &simpleDynamics{}
	integ := NewRK4()

	x := dynamo.State{1.0, 0.0}
	dt := 0.01
	steps := 100

	for i := 0; i < steps; i++ {
		x, _ = integ.Step(dyn, x, float64(i)*dt, dt)
	}

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-7 {
		t.Errorf("position error too large: got %.10f, expected %.10f", x[0], expectedX)
	}

	if math.Abs(x[1]-expectedV) > 1e-7 {
		t.Errorf("velocity error too large: got %.10f, expected %.10f", x[1], expectedV)
	}
}

func TestRK4RateAtNewState(t *testing.T) {
	dyn := &simpleDynamics{}
	next, rate := NewRK4().Step(dyn, dynamo.State{1, 0}, 0, 0.01)

	want := dyn.Derive(next, 0.01)
	if rate[0] != want[0] || rate[1] != want[1] {
		t.Errorf("rate %v should be the derivative at the new state %v", rate, want)
	}
}

func TestRK4SingleStep(t *testing.T) {
	// x'' = -4x - 0.4x' from (1, 0), one step of dt = 0.01 worked by hand.
	sys := &dampedDynamics{c: 0.4, k: 4}
	dt := 0.01
	acc := func(x, v float64) float64 { return -0.4*v - 4*x }

	x0, v0 := 1.0, 0.0
	kx1, kv1 := v0, acc(x0, v0)
	kx2, kv2 := v0+kv1*dt/2, acc(x0+kx1*dt/2, v0+kv1*dt/2)
	kx3, kv3 := v0+kv2*dt/2, acc(x0+kx2*dt/2, v0+kv2*dt/2)
	kx4, kv4 := v0+kv3*dt, acc(x0+kx3*dt, v0+kv3*dt)
	wantX := x0 + (kx1+2*kx2+2*kx3+kx4)/6*dt
	wantV := v0 + (kv1+2*kv2+2*kv3+kv4)/6*dt

	next, rate := NewRK4().Step(sys, dynamo.State{x0, v0}, 0, dt)
	if math.Abs(next[0]-wantX) > 1e-15 || math.Abs(next[1]-wantV) > 1e-15 {
		t.Errorf("got %v, expected [%v %v]", next, wantX, wantV)
	}
	if math.Abs(rate[1]-acc(next[0], next[1])) > 1e-15 {
		t.Errorf("recorded acceleration %v, expected %v", rate[1], acc(next[0], next[1]))
	}
}
