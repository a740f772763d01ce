package metrics

import (
	"math"

	"github.com/san-kum/msdsim/internal/dynamo"
)

// Deviation is the RMS position error against a reference trajectory
// sampled on the same time grid. Samples past the end of the reference are
// ignored.
type Deviation struct {
	name    string
	ref     *dynamo.Trajectory
	sumSq   float64
	samples int
}

func NewDeviation(ref *dynamo.Trajectory) *Deviation {
	return &Deviation{
		name: "rms_deviation",
		ref:  ref,
	}
}

func (d *Deviation) Name() string { return d.name }

func (d *Deviation) Observe(x dynamo.State, t float64) {
	i := int(math.Round(t / d.ref.Dt))
	if i < 0 || i >= d.ref.Len() {
		return
	}
	diff := x[0] - d.ref.Position[i]
	d.sumSq += diff * diff
	d.samples++
}

func (d *Deviation) Value() float64 {
	if d.samples == 0 {
		return 0
	}
	return math.Sqrt(d.sumSq / float64(d.samples))
}

func (d *Deviation) Reset() {
	d.sumSq = 0
	d.samples = 0
}

// Defaults returns the metrics collected for every run.
func Defaults(sys dynamo.Hamiltonian) []dynamo.Metric {
	return []dynamo.Metric{
		NewEnergyRatio(sys),
		NewEnergyGrowth(sys),
		NewAmplitude(),
	}
}
