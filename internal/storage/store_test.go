package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/msdsim/internal/dynamo"
	"github.com/san-kum/msdsim/internal/integrators"
	"github.com/san-kum/msdsim/internal/physics"
	"github.com/san-kum/msdsim/internal/sim"
)

func runOnce(t *testing.T, sys physics.MassSpringDamper) *sim.Result {
	t.Helper()
	result, err := sim.New(integrators.NewRK4()).Run(context.Background(), sys, sim.DefaultConfig())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	return result
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	sys := physics.MustNew(1, 0.4, 4, 1, 0)
	result := runOnce(t, sys)
	result.Metrics["energy_ratio"] = 0.5

	runID, err := st.Save(sys, "rk4", result)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Integrator != "rk4" {
		t.Errorf("expected integrator 'rk4', got '%s'", meta.Integrator)
	}
	if meta.Samples != result.Trajectory.Len() {
		t.Errorf("expected %d samples, got %d", result.Trajectory.Len(), meta.Samples)
	}
	if meta.Reason != dynamo.StopPeakDecay.String() {
		t.Errorf("expected reason peak-decay, got %s", meta.Reason)
	}
	if meta.Metrics["energy_ratio"] != 0.5 {
		t.Errorf("expected energy_ratio 0.5, got %f", meta.Metrics["energy_ratio"])
	}

	model, err := meta.Model()
	if err != nil {
		t.Fatalf("rebuild model: %v", err)
	}
	if model.DampingRatio() != sys.DampingRatio() {
		t.Errorf("rebuilt zeta %f, expected %f", model.DampingRatio(), sys.DampingRatio())
	}

	tr, err := st.LoadTrajectory(runID)
	if err != nil {
		t.Fatalf("load trajectory failed: %v", err)
	}
	want := result.Trajectory
	if tr.Len() != want.Len() {
		t.Fatalf("expected %d samples, got %d", want.Len(), tr.Len())
	}
	for i := 0; i < tr.Len(); i++ {
		if tr.Position[i] != want.Position[i] || tr.Acceleration[i] != want.Acceleration[i] {
			t.Fatalf("sample %d differs after round trip", i)
		}
	}
	if tr.Reason != dynamo.StopPeakDecay {
		t.Errorf("expected reason to round trip, got %v", tr.Reason)
	}

	if _, err := os.Stat(filepath.Join(st.Dir(runID), "parameters.csv")); err != nil {
		t.Errorf("parameters.csv missing: %v", err)
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	sys := physics.MustNew(1, 5, 4, 1, 0)
	result := runOnce(t, sys)
	for _, name := range []string{"euler", "rk4"} {
		if _, err := st.Save(sys, name, result); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Integrator != "euler" {
		t.Errorf("expected oldest run first, got %s", runs[0].Integrator)
	}
	if runs[0].Regime != "overdamped" {
		t.Errorf("expected overdamped regime, got %s", runs[0].Regime)
	}
}

func TestStoreListMissingDir(t *testing.T) {
	runs, err := New(filepath.Join(t.TempDir(), "nope")).List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestStoreLoadMissing(t *testing.T) {
	_, err := New(t.TempDir()).Load("ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
