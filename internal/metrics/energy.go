package metrics

import (
	"math"

	"github.com/san-kum/msdsim/internal/dynamo"
)

// EnergyRatio reports final mechanical energy over initial mechanical
// energy. A damped system ends below 1; values above 1 mean the integrator
// pumped energy in.
type EnergyRatio struct {
	name    string
	sys     dynamo.Hamiltonian
	initial float64
	current float64
	samples int
}

func NewEnergyRatio(sys dynamo.Hamiltonian) *EnergyRatio {
	return &EnergyRatio{
		name: "energy_ratio",
		sys:  sys,
	}
}

func (e *EnergyRatio) Name() string { return e.name }

func (e *EnergyRatio) Observe(x dynamo.State, t float64) {
	energy := e.sys.Energy(x)
	if e.samples == 0 {
		e.initial = energy
	}
	e.current = energy
	e.samples++
}

func (e *EnergyRatio) Value() float64 {
	if e.samples == 0 || e.initial == 0 {
		return 0
	}
	return e.current / e.initial
}

func (e *EnergyRatio) Reset() {
	e.initial = 0
	e.current = 0
	e.samples = 0
}

// EnergyGrowth is the largest relative increase of mechanical energy over
// its initial value. For a passive system it should stay near zero.
type EnergyGrowth struct {
	name     string
	sys      dynamo.Hamiltonian
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyGrowth(sys dynamo.Hamiltonian) *EnergyGrowth {
	return &EnergyGrowth{
		name: "energy_growth",
		sys:  sys,
	}
}

func (e *EnergyGrowth) Name() string { return e.name }

func (e *EnergyGrowth) Observe(x dynamo.State, t float64) {
	energy := e.sys.Energy(x)

	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++

	if e.initial != 0 {
		drift := (energy - e.initial) / math.Abs(e.initial)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyGrowth) Value() float64 {
	return e.maxDrift
}

func (e *EnergyGrowth) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}
