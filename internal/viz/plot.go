package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/msdsim/internal/dynamo"
)

// Plot draws one series with asciigraph.
func Plot(values []float64, width, height int, caption string) string {
	if len(values) == 0 {
		return ""
	}
	return asciigraph.Plot(values,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// TrajectoryPlots draws position, velocity and acceleration one above the
// other.
func TrajectoryPlots(tr *dynamo.Trajectory, width, height int) string {
	if tr == nil || tr.Len() == 0 {
		return ""
	}
	span := fmt.Sprintf("0-%.2fs", tr.Duration())
	return Plot(tr.Position, width, height, "position (m) "+span) + "\n\n" +
		Plot(tr.Velocity, width, height, "velocity (m/s) "+span) + "\n\n" +
		Plot(tr.Acceleration, width, height, "acceleration (m/s^2) "+span)
}

// ComparePlot overlays the position traces of several runs.
func ComparePlot(names []string, trajectories []*dynamo.Trajectory, width, height int) string {
	series := make([][]float64, 0, len(trajectories))
	for _, tr := range trajectories {
		if tr != nil && tr.Len() > 0 {
			series = append(series, tr.Position)
		}
	}
	if len(series) == 0 {
		return ""
	}

	colors := []asciigraph.AnsiColor{asciigraph.Red, asciigraph.Green, asciigraph.Blue, asciigraph.Yellow}
	return asciigraph.PlotMany(series,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.SeriesColors(colors[:min(len(series), len(colors))]...),
		asciigraph.SeriesLegends(names[:len(series)]...),
		asciigraph.Caption("position (m)"),
	)
}
