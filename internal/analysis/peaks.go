package analysis

import (
	"math"

	"github.com/san-kum/msdsim/internal/dynamo"
)

// Response holds damped-response characteristics measured from samples.
type Response struct {
	Crests       int
	Period       float64
	LogDecrement float64
}

// Crests returns the indices of strict positive local maxima of x.
func Crests(x []float64) []int {
	var out []int
	for i := 1; i+1 < len(x); i++ {
		if x[i] > 0 && x[i-1] < x[i] && x[i] > x[i+1] {
			out = append(out, i)
		}
	}
	return out
}

// MeasureResponse estimates the damped period and logarithmic decrement
// from successive positive crests. ok is false with fewer than two crests,
// which is always the case for critically damped and overdamped runs.
func MeasureResponse(tr *dynamo.Trajectory) (Response, bool) {
	crests := Crests(tr.Position)
	if len(crests) < 2 {
		return Response{Crests: len(crests)}, false
	}

	var period, decrement float64
	n := len(crests) - 1
	for i := 0; i < n; i++ {
		a, b := crests[i], crests[i+1]
		period += tr.Time[b] - tr.Time[a]
		decrement += math.Log(tr.Position[a] / tr.Position[b])
	}

	return Response{
		Crests:       len(crests),
		Period:       period / float64(n),
		LogDecrement: decrement / float64(n),
	}, true
}
