// Package dynamo provides the core primitives shared by the oscillator
// model, the integrators and the simulator.
//
// The package defines:
//
//   - [State]: vector representing system state ([position, velocity])
//   - [System]: interface for ODE systems (dX/dt = f(X, t))
//   - [Oscillator]: a second-order system with a natural time scale
//   - [Trajectory]: the four parallel sample sequences produced by one run
//
// # Example
//
//	osc, _ := physics.New(1, 0.4, 4, 1, 0)
//	s := sim.New(integrators.NewRK4())
//	result, _ := s.Run(ctx, osc, sim.DefaultConfig())
//	tr := result.Trajectory
//
// # Thread Safety
//
// A Trajectory is never mutated after the run that produced it returns, so
// it can be shared freely between goroutines.
package dynamo
