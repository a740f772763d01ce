package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/san-kum/msdsim/internal/experiment"
	"github.com/san-kum/msdsim/internal/export"
	"github.com/san-kum/msdsim/internal/integrators"
	"github.com/san-kum/msdsim/internal/physics"
	"github.com/san-kum/msdsim/internal/sim"
	"github.com/san-kum/msdsim/internal/storage"
	"github.com/san-kum/msdsim/internal/viz"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	red     = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
)

type state int

const (
	stateMenu state = iota
	stateCreate
	stateParams
	stateSimulate
	stateResult
)

type menuItem struct {
	name string
	desc string
}

var menuItems = []menuItem{
	{"create system", "enter mass, damping, stiffness and initial state"},
	{"parameters", "inspect and export derived parameters"},
	{"simulate", "integrate and export the time response"},
	{"quit", ""},
}

var simChoices = []string{integrators.NameEuler, integrators.NameRK4}

var simInfo = map[string]string{
	integrators.NameEuler: "semi-implicit Euler",
	integrators.NameRK4:   "4th order Runge-Kutta",
}

// Options configures the shell. Zero values write to the working directory
// and skip the run store.
type Options struct {
	OutputDir string
	Store     *storage.Store
	Config    sim.Config
	Logger    log.Logger
}

type model struct {
	opts  Options
	state state

	cursor int
	status string
	failed bool

	// system is nil until a valid one has been created.
	system *physics.MassSpringDamper

	inputs  [len(physics.Fields)]string
	pending []physics.Field
	field   int
	editBuf string
	report  string

	paramCursor int

	simCursor  int
	result     *sim.Result
	integrator string

	width  int
	height int
}

func newModel(opts Options) model {
	if opts.Logger == nil {
		opts.Logger = log.NewNopLogger()
	}
	if opts.Config == (sim.Config{}) {
		opts.Config = sim.DefaultConfig()
	}
	return model{opts: opts, width: 80, height: 24}
}

// New returns the interactive shell program.
func New(opts Options) *tea.Program {
	return tea.NewProgram(newModel(opts), tea.WithAltScreen())
}

func (m model) Init() tea.Cmd { return nil }

type simDoneMsg struct {
	integrator string
	result     *sim.Result
	runID      string
	err        error
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case simDoneMsg:
		return m.finishSim(msg), nil
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateCreate:
		return m.createKey(msg), nil
	case stateParams:
		return m.paramsKey(msg), nil
	case stateSimulate:
		return m.simulateKey(msg)
	case stateResult:
		m.state = stateMenu
	}
	return m, nil
}

func (m model) menuKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(menuItems)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.status = ""
		m.failed = false
		switch m.cursor {
		case 0:
			m.beginCreate()
		case 1, 2:
			if m.system == nil {
				m.setError("you must create your system first")
				return m, nil
			}
			if m.cursor == 1 {
				m.state = stateParams
				m.paramCursor = 0
			} else {
				m.state = stateSimulate
			}
		case 3:
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *model) beginCreate() {
	m.state = stateCreate
	m.pending = append([]physics.Field(nil), physics.Fields[:]...)
	m.field = 0
	m.editBuf = m.inputs[m.pending[0]]
	m.report = ""
}

func (m model) createKey(msg tea.KeyMsg) model {
	switch msg.String() {
	case "esc":
		m.state = stateMenu
	case "enter", "tab":
		m.inputs[m.pending[m.field]] = m.editBuf
		m.field++
		if m.field < len(m.pending) {
			m.editBuf = m.inputs[m.pending[m.field]]
			return m
		}
		return m.submitCreate()
	case "shift+tab", "up":
		if m.field > 0 {
			m.inputs[m.pending[m.field]] = m.editBuf
			m.field--
			m.editBuf = m.inputs[m.pending[m.field]]
		}
	case "backspace":
		if len(m.editBuf) > 0 {
			m.editBuf = m.editBuf[:len(m.editBuf)-1]
		}
	default:
		if s := msg.String(); len(s) == 1 && strings.ContainsAny(s, "0123456789.-+eE") {
			m.editBuf += s
		}
	}
	return m
}

// submitCreate validates every field and sends the user back through only
// the rejected ones.
func (m model) submitCreate() model {
	var vals [len(physics.Fields)]float64
	parsed := [len(physics.Fields)]bool{}
	for i, raw := range m.inputs {
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		vals[i], parsed[i] = v, err == nil
	}

	v := physics.Validate(vals[0], vals[1], vals[2], vals[3], vals[4])
	for i, ok := range parsed {
		if !ok {
			v = v.With(physics.Fields[i], false)
		}
	}

	if !v.OK() {
		m.pending = v.Invalid()
		for _, f := range m.pending {
			m.inputs[f] = ""
		}
		m.field = 0
		m.editBuf = ""
		m.report = viz.ValidationReport(v)
		return m
	}

	sys, err := physics.NewValidated(vals[0], vals[1], vals[2], vals[3], vals[4])
	if err != nil {
		m.report = err.Error()
		return m
	}
	m.system = &sys
	m.result = nil
	m.state = stateMenu
	m.setOK(fmt.Sprintf("system created (%s, zeta=%.4g)", sys.Regime(), sys.DampingRatio()))
	level.Info(m.opts.Logger).Log("msg", "system created", "system", sys.String())
	return m
}

func (m model) paramsKey(msg tea.KeyMsg) model {
	rows := export.ParameterRows(*m.system)
	switch msg.String() {
	case "q", "esc":
		m.state = stateMenu
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(rows)-1 {
			m.paramCursor++
		}
	case "e":
		path := filepath.Join(m.opts.OutputDir, export.ParametersFile)
		if err := export.ExportParameters(path, *m.system); err != nil {
			m.setError(err.Error())
		} else {
			m.setOK(fmt.Sprintf("'%s' successfully exported", path))
		}
	}
	return m
}

func (m model) simulateKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.state = stateMenu
	case "up", "k":
		if m.simCursor > 0 {
			m.simCursor--
		}
	case "down", "j":
		if m.simCursor < len(simChoices)-1 {
			m.simCursor++
		}
	case "enter", " ":
		return m, m.runSim(simChoices[m.simCursor])
	}
	return m, nil
}

func (m model) runSim(name string) tea.Cmd {
	sys := *m.system
	opts := m.opts
	return func() tea.Msg {
		exp, err := experiment.New(experiment.Config{
			Integrator:     name,
			Sim:            opts.Config,
			TrajectoryPath: filepath.Join(opts.OutputDir, export.TrajectoryFile),
			Store:          opts.Store,
			Logger:         opts.Logger,
		})
		if err != nil {
			return simDoneMsg{integrator: name, err: err}
		}

		out, err := exp.Run(context.Background(), sys)
		msg := simDoneMsg{integrator: name, err: err}
		if out != nil {
			msg.result = out.Result
			msg.runID = out.RunID
		}
		return msg
	}
}

func (m model) finishSim(msg simDoneMsg) model {
	m.integrator = msg.integrator
	m.result = msg.result
	if msg.err != nil {
		m.setError(msg.err.Error())
		if msg.result == nil {
			m.state = stateMenu
			return m
		}
	} else {
		path := filepath.Join(m.opts.OutputDir, export.TrajectoryFile)
		m.setOK(fmt.Sprintf("'%s' successfully exported", path))
		if msg.runID != "" {
			m.status += dim.Render("  stored as " + msg.runID)
		}
	}
	m.state = stateResult
	return m
}

func (m *model) setOK(s string) {
	m.status = s
	m.failed = false
}

func (m *model) setError(s string) {
	m.status = s
	m.failed = true
}

func (m model) View() string {
	var body string
	switch m.state {
	case stateMenu:
		body = m.viewMenu()
	case stateCreate:
		body = m.viewCreate()
	case stateParams:
		body = m.viewParams()
	case stateSimulate:
		body = m.viewSimulate()
	case stateResult:
		body = m.viewResult()
	}
	if m.status != "" {
		style := green
		if m.failed {
			style = red
		}
		body += "\n      " + style.Render(m.status) + "\n"
	}
	return body
}

func (m model) header(title string) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("           " + cyan.Render(title) + "\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n\n")
	return b.String()
}

func (m model) viewMenu() string {
	var b strings.Builder
	b.WriteString(m.header("m s d s i m"))
	for i, item := range menuItems {
		if i == m.cursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-16s", item.name)) + dim.Render(item.desc) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-16s", item.name)) + dimmer.Render(item.desc) + "\n")
		}
	}
	b.WriteString("\n")
	if m.system != nil {
		b.WriteString("      " + dim.Render(m.system.String()) + "\n\n")
	}
	b.WriteString(dim.Render("      ↑↓ select   enter open   q quit") + "\n")
	return b.String()
}

func (m model) viewCreate() string {
	var b strings.Builder
	b.WriteString(m.header("create system"))
	if m.report != "" {
		for _, line := range strings.Split(strings.TrimRight(m.report, "\n"), "\n") {
			b.WriteString("      " + line + "\n")
		}
		b.WriteString("\n")
	}
	for i, f := range m.pending {
		label := fmt.Sprintf("%-10s", f)
		hint := dimmer.Render(fmt.Sprintf("%s  [%s]", f.Unit(), f.Range()))
		val := m.inputs[f]
		if i == m.field {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(label) + magenta.Render(fmt.Sprintf("%-12s", m.editBuf+"▋")) + hint + "\n")
		} else {
			b.WriteString("        " + dim.Render(label) + dim.Render(fmt.Sprintf("%-12s", val)) + hint + "\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(dim.Render("      enter next   ↑ previous   esc back") + "\n")
	return b.String()
}

func (m model) viewParams() string {
	rows := export.ParameterRows(*m.system)
	var b strings.Builder
	b.WriteString(m.header("parameters"))
	b.WriteString(indent(viz.ParameterTable(rows, m.paramCursor), "    "))
	b.WriteString("\n    " + viz.ParameterDetail(rows[m.paramCursor]) + "\n\n")
	b.WriteString(dim.Render("      ↑↓ select   e export csv   esc back") + "\n")
	return b.String()
}

func (m model) viewSimulate() string {
	var b strings.Builder
	b.WriteString(m.header("simulate"))
	b.WriteString("      " + dim.Render("your simulation will be exported as a .csv file") + "\n\n")
	for i, name := range simChoices {
		if i == m.simCursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-8s", name)) + dim.Render(simInfo[name]) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-8s", name)) + dimmer.Render(simInfo[name]) + "\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(dim.Render("      ↑↓ select   enter run   esc back") + "\n")
	return b.String()
}

func (m model) viewResult() string {
	var b strings.Builder
	b.WriteString(m.header(m.integrator))
	if m.result != nil {
		tr := m.result.Trajectory
		fmt.Fprintf(&b, "      %s %d  %s %.4gs  %s %.4gs  %s %s\n\n",
			viz.MetricLabel.Render("samples"), tr.Len(),
			viz.MetricLabel.Render("dt"), tr.Dt,
			viz.MetricLabel.Render("duration"), tr.Duration(),
			viz.MetricLabel.Render("stop"), viz.MetricValue.Render(tr.Reason.String()))

		width := m.width - 16
		if width < 40 {
			width = 40
		}
		height := (m.height - 16) / 3
		if height < 4 {
			height = 4
		}
		b.WriteString(indent(viz.TrajectoryPlots(tr, width, height), "    "))
		b.WriteString("\n")
	}
	b.WriteString("\n" + dim.Render("      press any key to continue") + "\n")
	return b.String()
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i := range lines {
		lines[i] = prefix + lines[i]
	}
	return strings.Join(lines, "\n") + "\n"
}
