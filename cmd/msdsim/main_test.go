package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-kit/log/level"
	"github.com/san-kum/msdsim/internal/config"
	"github.com/san-kum/msdsim/internal/storage"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	l, err := newLogger(&buf, "warn")
	if err != nil {
		t.Fatal(err)
	}

	level.Info(l).Log("msg", "hidden")
	level.Warn(l).Log("msg", "shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info should be filtered at warn: %s", out)
	}
	if !strings.Contains(out, "level=warn") || !strings.Contains(out, "msg=shown") || !strings.Contains(out, "ts=") {
		t.Errorf("unexpected logfmt output: %s", out)
	}

	if _, err := newLogger(&buf, "loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestRootFlagsBound(t *testing.T) {
	cmd := newRootCmd()
	for _, name := range []string{"data", "log-level"} {
		if cmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("missing persistent flag --%s", name)
		}
	}
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	return cmd.Execute()
}

func TestRunCommandStoresRun(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "runs")
	out := filepath.Join(dir, "results.csv")
	params := filepath.Join(dir, "params.csv")

	err := execute(t, "run", "--data", data, "--log-level", "error",
		"--preset", "overdamped", "--integrator", "euler",
		"--out", out, "--params-out", params)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	for _, p := range []string{out, params} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("%s missing: %v", p, err)
		}
	}

	runs, err := storage.New(data).List()
	if err != nil || len(runs) != 1 {
		t.Fatalf("expected one stored run, got %d (%v)", len(runs), err)
	}
	if runs[0].Regime != "overdamped" || runs[0].Integrator != "euler" {
		t.Errorf("unexpected run %+v", runs[0])
	}
	if runs[0].System.Damping != config.Presets["overdamped"].Damping {
		t.Errorf("preset damping not applied: %+v", runs[0].System)
	}
}

func TestRunCommandRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	err := execute(t, "run", "--data", dir, "--log-level", "none", "--no-store",
		"--mass", "0", "--out", filepath.Join(dir, "r.csv"))
	if err == nil {
		t.Fatal("expected validation error")
	}
	if _, statErr := os.Stat(filepath.Join(dir, "r.csv")); !os.IsNotExist(statErr) {
		t.Error("nothing should be exported for an invalid system")
	}
}

func TestConfigFileOverriddenByFlag(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "msdsim.yaml")
	if err := execute(t, "config", "init", path); err != nil {
		t.Fatalf("config init: %v", err)
	}

	data := filepath.Join(dir, "runs")
	err := execute(t, "run", "--data", data, "--log-level", "none",
		"--config", path, "--damping", "10", "--out", "", "--params-out", "")
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	runs, err := storage.New(data).List()
	if err != nil || len(runs) != 1 {
		t.Fatalf("expected one stored run, got %d (%v)", len(runs), err)
	}
	if runs[0].System.Damping != 10 || runs[0].System.Mass != config.DefaultMass {
		t.Errorf("flag should override config file only where given: %+v", runs[0].System)
	}
}

func TestDataDirFromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MSDSIM_DATA", dir)
	t.Setenv("MSDSIM_LOG_LEVEL", "none")

	if err := execute(t, "run", "--out", ""); err != nil {
		t.Fatalf("run: %v", err)
	}
	runs, err := storage.New(dir).List()
	if err != nil || len(runs) != 1 {
		t.Errorf("expected the run under MSDSIM_DATA, got %d (%v)", len(runs), err)
	}
}
