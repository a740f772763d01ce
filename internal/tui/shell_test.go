package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/msdsim/internal/export"
	"github.com/san-kum/msdsim/internal/physics"
	"github.com/san-kum/msdsim/internal/storage"
)

func keys(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var enter = tea.KeyMsg{Type: tea.KeyEnter}

func press(t *testing.T, m model, msgs ...tea.KeyMsg) model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(model)
	}
	return m
}

func typeValue(t *testing.T, m model, v string) model {
	t.Helper()
	for _, r := range v {
		m = press(t, m, keys(string(r)))
	}
	return press(t, m, enter)
}

func createSystem(t *testing.T, m model, vals ...string) model {
	t.Helper()
	m.cursor = 0
	m = press(t, m, enter)
	for _, v := range vals {
		m = typeValue(t, m, v)
	}
	return m
}

func TestMenuRequiresSystem(t *testing.T) {
	m := newModel(Options{OutputDir: t.TempDir()})
	m.cursor = 2
	m = press(t, m, enter)

	if m.state != stateMenu || !m.failed {
		t.Errorf("simulate without a system should stay on the menu with an error, state=%v", m.state)
	}
}

func TestCreateReprompt(t *testing.T) {
	m := newModel(Options{OutputDir: t.TempDir()})
	m = createSystem(t, m, "0", "0.4", "4", "1", "99")

	if m.state != stateCreate {
		t.Fatalf("expected to stay in create, got %v", m.state)
	}
	if len(m.pending) != 2 || m.pending[0] != physics.FieldMass || m.pending[1] != physics.FieldVelocity {
		t.Fatalf("expected mass and v0 pending, got %v", m.pending)
	}
	if !strings.Contains(m.View(), physics.FieldMass.Range()) {
		t.Error("view should show the allowed mass range")
	}

	m = typeValue(t, m, "1")
	m = typeValue(t, m, "0")

	if m.state != stateMenu || m.system == nil {
		t.Fatalf("expected system created, state=%v", m.state)
	}
	if m.system.Mass() != 1 || m.system.Damping() != 0.4 || m.system.InitialVelocity() != 0 {
		t.Errorf("unexpected system %s", m.system)
	}
}

func TestCreateRepromptClearsRejectedValues(t *testing.T) {
	m := newModel(Options{})
	m = createSystem(t, m, "0", "0.4", "4", "1", "99")

	if m.inputs[physics.FieldMass] != "" || m.inputs[physics.FieldVelocity] != "" {
		t.Fatalf("rejected values kept: mass=%q v0=%q", m.inputs[physics.FieldMass], m.inputs[physics.FieldVelocity])
	}

	m = typeValue(t, m, "1")
	if m.editBuf != "" {
		t.Fatalf("v0 prompt should start empty, got %q", m.editBuf)
	}
	m = typeValue(t, m, "0")
	if m.system == nil || m.system.InitialVelocity() != 0 {
		t.Errorf("expected v0 of 0, got %v", m.system)
	}
}

func TestCreateUnparseable(t *testing.T) {
	m := newModel(Options{})
	m = createSystem(t, m, "1", "1", "1", "-", "0")

	if len(m.pending) != 1 || m.pending[0] != physics.FieldPosition {
		t.Errorf("expected only x0 pending, got %v", m.pending)
	}
}

func TestParamsExport(t *testing.T) {
	dir := t.TempDir()
	m := newModel(Options{OutputDir: dir})
	m = createSystem(t, m, "1", "4", "4", "1", "0")

	m.cursor = 1
	m = press(t, m, enter)
	if m.state != stateParams {
		t.Fatalf("expected parameters view, got %v", m.state)
	}
	if !strings.Contains(m.View(), "Critically damped system") {
		t.Error("expected regime label in parameter view")
	}

	m = press(t, m, keys("e"))
	if m.failed {
		t.Fatalf("export failed: %s", m.status)
	}
	if _, err := os.Stat(filepath.Join(dir, export.ParametersFile)); err != nil {
		t.Errorf("parameters not exported: %v", err)
	}
}

func TestSimulate(t *testing.T) {
	dir := t.TempDir()
	st := storage.New(filepath.Join(dir, "runs"))
	m := newModel(Options{OutputDir: dir, Store: st})
	m = createSystem(t, m, "1", "0.4", "4", "1", "0")

	m.cursor = 2
	m = press(t, m, enter)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})

	next, cmd := m.Update(enter)
	m = next.(model)
	if cmd == nil {
		t.Fatal("expected a run command")
	}
	next, _ = m.Update(cmd())
	m = next.(model)

	if m.state != stateResult || m.failed {
		t.Fatalf("run failed: %s", m.status)
	}
	if m.integrator != "rk4" {
		t.Errorf("expected rk4, got %s", m.integrator)
	}
	if _, err := os.Stat(filepath.Join(dir, export.TrajectoryFile)); err != nil {
		t.Errorf("trajectory not exported: %v", err)
	}
	if !strings.Contains(m.View(), "peak-decay") {
		t.Error("expected stop reason in result view")
	}

	runs, err := st.List()
	if err != nil || len(runs) != 1 {
		t.Errorf("expected one stored run, got %d (%v)", len(runs), err)
	}
}
