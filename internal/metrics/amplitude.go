package metrics

import (
	"math"

	"github.com/san-kum/msdsim/internal/dynamo"
)

// Amplitude is the largest |x| seen during a run.
type Amplitude struct {
	name string
	max  float64
}

func NewAmplitude() *Amplitude {
	return &Amplitude{name: "max_amplitude"}
}

func (a *Amplitude) Name() string { return a.name }

func (a *Amplitude) Observe(x dynamo.State, t float64) {
	a.max = math.Max(a.max, math.Abs(x[0]))
}

func (a *Amplitude) Value() float64 { return a.max }

func (a *Amplitude) Reset() { a.max = 0 }
