// Package experiment ties one simulation run together: integrator lookup,
// default metrics, export of the trajectory and parameter tables, and
// optional persistence in the run store.
package experiment

import (
	"context"
	"fmt"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/san-kum/msdsim/internal/export"
	"github.com/san-kum/msdsim/internal/integrators"
	"github.com/san-kum/msdsim/internal/metrics"
	"github.com/san-kum/msdsim/internal/physics"
	"github.com/san-kum/msdsim/internal/sim"
	"github.com/san-kum/msdsim/internal/storage"
)

type Config struct {
	Integrator string
	Sim        sim.Config

	// TrajectoryPath and ParametersPath are skipped when empty.
	TrajectoryPath string
	ParametersPath string

	// Store is optional.
	Store  *storage.Store
	Logger log.Logger
}

type Outcome struct {
	Result  *sim.Result
	RunID   string
	Elapsed time.Duration
}

// Experiment is safe for concurrent use; every Run gets its own integrator.
type Experiment struct {
	cfg Config
}

func New(cfg Config) (*Experiment, error) {
	if cfg.Logger == nil {
		cfg.Logger = log.NewNopLogger()
	}
	if cfg.Sim == (sim.Config{}) {
		cfg.Sim = sim.DefaultConfig()
	}
	if _, err := integrators.New(cfg.Integrator); err != nil {
		return nil, err
	}
	return &Experiment{cfg: cfg}, nil
}

// Run simulates sys and writes whatever outputs are configured. The
// simulation result is returned even when an export fails.
func (e *Experiment) Run(ctx context.Context, sys physics.MassSpringDamper) (*Outcome, error) {
	logger := log.With(e.cfg.Logger, "integrator", e.cfg.Integrator)

	integ, err := integrators.New(e.cfg.Integrator)
	if err != nil {
		return nil, err
	}
	s := sim.New(integ)
	s.SetLogger(logger)
	for _, m := range metrics.Defaults(sys) {
		s.AddMetric(m)
	}

	start := time.Now()
	result, err := s.Run(ctx, sys, e.cfg.Sim)
	if err != nil {
		return nil, fmt.Errorf("simulate %s: %w", e.cfg.Integrator, err)
	}
	out := &Outcome{Result: result, Elapsed: time.Since(start)}

	if p := e.cfg.TrajectoryPath; p != "" {
		if err := export.ExportTrajectory(p, result.Trajectory); err != nil {
			return out, err
		}
		level.Info(logger).Log("msg", "trajectory exported", "path", p, "samples", result.Trajectory.Len())
	}
	if p := e.cfg.ParametersPath; p != "" {
		if err := export.ExportParameters(p, sys); err != nil {
			return out, err
		}
		level.Info(logger).Log("msg", "parameters exported", "path", p)
	}

	if e.cfg.Store != nil {
		if err := e.cfg.Store.Init(); err != nil {
			return out, err
		}
		runID, err := e.cfg.Store.Save(sys, e.cfg.Integrator, result)
		if err != nil {
			return out, fmt.Errorf("store run: %w", err)
		}
		out.RunID = runID
		level.Info(logger).Log("msg", "run stored", "id", runID)
	}

	return out, nil
}

// Compare runs every named integrator on sys concurrently. Each result
// carries an rms_deviation metric against the closed-form response.
func Compare(ctx context.Context, sys physics.MassSpringDamper, cfg sim.Config, logger log.Logger, names ...string) (map[string]*sim.Result, error) {
	if cfg == (sim.Config{}) {
		cfg = sim.DefaultConfig()
	}

	ref, err := sim.New(integrators.NewAnalytic()).Run(ctx, sys, cfg)
	if err != nil {
		return nil, fmt.Errorf("reference run: %w", err)
	}

	runs := make([]sim.Run, 0, len(names))
	for _, name := range names {
		integ, err := integrators.New(name)
		if err != nil {
			return nil, err
		}
		ms := append(metrics.Defaults(sys), metrics.NewDeviation(ref.Trajectory))
		runs = append(runs, sim.Run{Name: name, Integrator: integ, Metrics: ms})
	}

	return sim.RunAll(ctx, sys, cfg, logger, runs...)
}
