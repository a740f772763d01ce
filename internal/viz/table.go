package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/msdsim/internal/export"
	"github.com/san-kum/msdsim/internal/physics"
)

// ParameterTable renders rows as aligned columns. The row at index
// selected is highlighted; pass -1 for none.
func ParameterTable(rows []export.ParameterRow, selected int) string {
	nameW, valueW, unitW := len("Parameter"), len("Value"), len("Unit")
	for _, r := range rows {
		nameW = max(nameW, lipgloss.Width(r.Name))
		valueW = max(valueW, lipgloss.Width(r.Value))
		unitW = max(unitW, lipgloss.Width(r.Unit))
	}

	line := func(name, value, unit, note string) string {
		return fmt.Sprintf("%s  %s  %s  %s",
			pad(name, nameW), pad(value, valueW), pad(unit, unitW), note)
	}

	var b strings.Builder
	b.WriteString(HeaderStyle.Render(line("Parameter", "Value", "Unit", "Observation")))
	b.WriteString("\n")
	for i, r := range rows {
		text := line(r.Name, r.Value, r.Unit, r.Observation)
		switch {
		case i == selected:
			b.WriteString(Selected.Render("▸ " + text))
		case selected >= 0:
			b.WriteString("  " + text)
		default:
			b.WriteString(text)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// ParameterDetail is the single-parameter view.
func ParameterDetail(r export.ParameterRow) string {
	value := MetricValue.Render(r.Value)
	if r.Unit != "" && r.Unit != "-" {
		value += " " + MetricLabel.Render(r.Unit)
	}
	out := MetricLabel.Render(r.Name+":") + " " + value
	if r.Observation != "" {
		out += "  " + Subtle.Render("("+r.Observation+")")
	}
	return out
}

// ValidationReport lists the rejected inputs together with the range each
// one must fall in. It is empty when v is OK.
func ValidationReport(v physics.Validation) string {
	if v.OK() {
		return ""
	}
	var b strings.Builder
	for _, f := range v.Invalid() {
		fmt.Fprintf(&b, "%s %s out of range, expected %s\n",
			StatusError.Render("✗"), f, f.Range())
	}
	return b.String()
}

func pad(s string, w int) string {
	if n := lipgloss.Width(s); n < w {
		return s + strings.Repeat(" ", w-n)
	}
	return s
}
