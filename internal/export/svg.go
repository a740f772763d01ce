package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/msdsim/internal/dynamo"
	"gonum.org/v1/gonum/floats"
)

// TrajectoryToSVG renders position against time as a single SVG path.
func TrajectoryToSVG(tr *dynamo.Trajectory, width, height int, strokeColor string) string {
	if tr == nil || tr.Len() < 2 {
		return ""
	}

	minX, maxX := tr.Time[0], tr.Duration()
	minY, maxY := floats.Min(tr.Position), floats.Max(tr.Position)

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	// zero line
	if minY <= 0 && maxY >= 0 {
		y0 := float64(height) - (0-minY)/rangeY*float64(height)
		sb.WriteString(fmt.Sprintf(`<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="#444444" stroke-width="1"/>
`, y0, width, y0))
	}

	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor))

	for i := 0; i < tr.Len(); i++ {
		x := (tr.Time[i] - minX) / rangeX * float64(width)
		y := float64(height) - (tr.Position[i]-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
