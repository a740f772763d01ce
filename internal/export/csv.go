package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/san-kum/msdsim/internal/dynamo"
	"github.com/san-kum/msdsim/internal/physics"
)

// Default file names used by the shell and the run command.
const (
	TrajectoryFile = "results.csv"
	ParametersFile = "system_parameters.csv"
)

// ErrCreate is returned when the destination file cannot be opened.
var ErrCreate = errors.New("export: could not create file")

var trajectoryHeader = []string{"time(s)", "position(m)", "velocity(m/s)", "acceleration(m/s^2)"}

var parametersHeader = []string{"Parameter", "Value", "Unit", "Observation"}

const notApplicable = "N/A"

// ParameterRow is one line of the parameter table.
type ParameterRow struct {
	Name        string
	Value       string
	Unit        string
	Observation string
}

func (r ParameterRow) record() []string {
	return []string{r.Name, r.Value, r.Unit, r.Observation}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteTrajectory writes a header and one row per sample.
func WriteTrajectory(w io.Writer, tr *dynamo.Trajectory) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(trajectoryHeader); err != nil {
		return err
	}

	row := make([]string, 4)
	for i := 0; i < tr.Len(); i++ {
		row[0] = formatFloat(tr.Time[i])
		row[1] = formatFloat(tr.Position[i])
		row[2] = formatFloat(tr.Velocity[i])
		row[3] = formatFloat(tr.Acceleration[i])
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportTrajectory writes tr to path, replacing any existing file.
func ExportTrajectory(path string, tr *dynamo.Trajectory) error {
	return writeFile(path, func(w io.Writer) error { return WriteTrajectory(w, tr) })
}

// ParameterRows lists every model parameter in export order. Damped
// response rows carry values only for underdamped systems.
func ParameterRows(sys physics.MassSpringDamper) []ParameterRow {
	rows := []ParameterRow{
		{"Mass (m)", formatFloat(sys.Mass()), "kg", ""},
		{"Damping coefficient (c)", formatFloat(sys.Damping()), "N·s/m", ""},
		{"Spring constant (k)", formatFloat(sys.Stiffness()), "N/m", ""},
		{"Initial position (x0)", formatFloat(sys.InitialPosition()), "m", ""},
		{"Initial velocity (v0)", formatFloat(sys.InitialVelocity()), "m/s", ""},
		{"Natural frequency (wn)", formatFloat(sys.NaturalFrequency()), "rad/s", ""},
		{"Natural period (T)", formatFloat(sys.Period()), "s", ""},
		{"Critical damping (c_crit)", formatFloat(sys.CriticalDamping()), "N·s/m", ""},
		{"Damping ratio (zeta)", formatFloat(sys.DampingRatio()), "-", regimeNote(sys.Regime())},
	}

	if ts := sys.SettlingTime(); math.IsInf(ts, 0) {
		rows = append(rows, ParameterRow{"Settling time (2%)", notApplicable, "", "No decay"})
	} else {
		rows = append(rows, ParameterRow{"Settling time (2%)", formatFloat(ts), "s", ""})
	}

	wd, ok := sys.DampedFrequency()
	if !ok {
		return append(rows,
			ParameterRow{"Damped frequency (wd)", notApplicable, "", "Not applicable"},
			ParameterRow{"Damped period (Td)", notApplicable, "", "Not applicable"},
			ParameterRow{"Overshoot (Mp)", "0", "%", "No oscillation"},
			ParameterRow{"Logarithmic decrement (delta)", notApplicable, "", "Not applicable"},
		)
	}

	td, _ := sys.DampedPeriod()
	mp, _ := sys.Overshoot()
	delta, _ := sys.LogDecrement()
	return append(rows,
		ParameterRow{"Damped frequency (wd)", formatFloat(wd), "rad/s", ""},
		ParameterRow{"Damped period (Td)", formatFloat(td), "s", ""},
		ParameterRow{"Overshoot (Mp)", formatFloat(mp), "%", ""},
		ParameterRow{"Logarithmic decrement (delta)", formatFloat(delta), "-", ""},
	)
}

func regimeNote(r physics.Regime) string {
	switch r {
	case physics.Underdamped:
		return "Underdamped system"
	case physics.CriticallyDamped:
		return "Critically damped system"
	default:
		return "Overdamped system"
	}
}

// WriteParameters writes the parameter table as CSV.
func WriteParameters(w io.Writer, sys physics.MassSpringDamper) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(parametersHeader); err != nil {
		return err
	}
	for _, r := range ParameterRows(sys) {
		if err := cw.Write(r.record()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportParameters writes the parameter table to path.
func ExportParameters(path string, sys physics.MassSpringDamper) error {
	return writeFile(path, func(w io.Writer) error { return WriteParameters(w, sys) })
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w %q: %v", ErrCreate, path, err)
	}
	defer f.Close()

	if err := write(f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
