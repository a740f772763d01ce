package sim

import (
	"math"

	"github.com/san-kum/msdsim/internal/dynamo"
)

// StopCondition decides when a run has settled. Done is called once per
// completed step i >= 1, after sample i has been appended to x.
type StopCondition interface {
	Done(i int, x []float64) bool
	Reason() dynamo.StopReason
}

// NewStopCondition picks peak-decay detection for zeta <= 1 and a fixed
// horizon for overdamped systems, which have no peaks to track.
func NewStopCondition(osc dynamo.Oscillator, dt float64, cfg Config) StopCondition {
	if osc.DampingRatio() <= 1 {
		return NewPeakDecay(cfg.SettleRatio)
	}
	return &Horizon{Step: cfg.HorizonStep(osc.Period(), dt)}
}

// PeakDecay tracks strict local maxima of |x|. The first peak is the fixed
// reference; the last two peaks form a sliding window, and the run is done
// once both of them are below Ratio times the reference.
type PeakDecay struct {
	Ratio float64

	count              int
	ref, first, second int
}

func NewPeakDecay(ratio float64) *PeakDecay {
	return &PeakDecay{Ratio: ratio}
}

func (p *PeakDecay) Done(i int, x []float64) bool {
	if i <= 2 || !isPeak(x, i-1) {
		return false
	}

	peak := i - 1
	switch p.count {
	case 0:
		p.ref, p.first = peak, peak
	case 1:
		p.second = peak
	default:
		p.first, p.second = p.second, peak
	}
	p.count++

	if p.count < 2 {
		return false
	}
	limit := p.Ratio * math.Abs(x[p.ref])
	return math.Abs(x[p.first]) < limit && math.Abs(x[p.second]) < limit
}

func (p *PeakDecay) Reason() dynamo.StopReason { return dynamo.StopPeakDecay }

// Peaks is the number of peaks seen so far.
func (p *PeakDecay) Peaks() int { return p.count }

// Reference is the index of the first peak, or -1 before one is found.
func (p *PeakDecay) Reference() int {
	if p.count == 0 {
		return -1
	}
	return p.ref
}

// Horizon ends the run at a fixed step index.
type Horizon struct {
	Step int
}

func (h *Horizon) Done(i int, x []float64) bool { return i == h.Step }

func (h *Horizon) Reason() dynamo.StopReason { return dynamo.StopHorizon }

// isPeak reports whether |x[j]| is a strict local maximum.
func isPeak(x []float64, j int) bool {
	return math.Abs(x[j-1]) < math.Abs(x[j]) && math.Abs(x[j]) > math.Abs(x[j+1])
}
