package dynamo

import "math"

// State is [position, velocity] for a single degree of freedom.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

// System is a first-order ODE dX/dt = f(X, t). For second-order systems the
// state is split in half: positions first, velocities second.
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

// Integrator advances a state by one fixed step. It returns the new state and
// the derivative recorded alongside it; for [position, velocity] states the
// second half of rate is the acceleration stored in the trajectory.
type Integrator interface {
	Step(sys System, x State, t, dt float64) (next, rate State)
}

type Hamiltonian interface {
	Energy(x State) float64
}

// Oscillator is a second-order system with the characteristic quantities the
// simulator needs to pick its step size and stopping rule.
type Oscillator interface {
	System
	NaturalFrequency() float64
	Period() float64
	DampingRatio() float64
	Initial() State
}

type Metric interface {
	Name() string
	Observe(x State, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(step int, x State, t float64)
}

// StopReason records why a run ended.
type StopReason int

const (
	StopIterationCap StopReason = iota
	StopPeakDecay
	StopHorizon
	StopInvalidState
)

func (r StopReason) String() string {
	switch r {
	case StopPeakDecay:
		return "peak-decay"
	case StopHorizon:
		return "horizon"
	case StopInvalidState:
		return "invalid-state"
	default:
		return "iteration-cap"
	}
}

// Trajectory holds the samples of one run as four parallel sequences.
// Time[i] == i*Dt for every index.
type Trajectory struct {
	Dt           float64
	Time         []float64
	Position     []float64
	Velocity     []float64
	Acceleration []float64
	Reason       StopReason
}

func NewTrajectory(dt float64, capacity int) *Trajectory {
	return &Trajectory{
		Dt:           dt,
		Time:         make([]float64, 0, capacity),
		Position:     make([]float64, 0, capacity),
		Velocity:     make([]float64, 0, capacity),
		Acceleration: make([]float64, 0, capacity),
	}
}

// Append records one sample. Callers append in step order.
func (tr *Trajectory) Append(t, x, v, a float64) {
	tr.Time = append(tr.Time, t)
	tr.Position = append(tr.Position, x)
	tr.Velocity = append(tr.Velocity, v)
	tr.Acceleration = append(tr.Acceleration, a)
}

func (tr *Trajectory) Len() int { return len(tr.Time) }

// Duration is the time of the last sample.
func (tr *Trajectory) Duration() float64 {
	if len(tr.Time) == 0 {
		return 0
	}
	return tr.Time[len(tr.Time)-1]
}

// At returns sample i as a State.
func (tr *Trajectory) At(i int) State {
	return State{tr.Position[i], tr.Velocity[i]}
}
