// Package analysis extracts response characteristics from a simulated
// trajectory so they can be checked against the closed-form values of the
// model:
//
//   - [DominantFrequency]: spectral peak of the position signal
//   - [MeasureResponse]: damped period and logarithmic decrement from crests
//   - [NewPhasePortrait]: position/velocity phase plot
//
// # Example
//
//	resp, ok := analysis.MeasureResponse(result.Trajectory)
//	if ok {
//	    fmt.Printf("measured Td=%.3f, delta=%.3f\n", resp.Period, resp.LogDecrement)
//	}
package analysis
