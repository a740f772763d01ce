package sim

import (
	"context"
	"fmt"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/san-kum/msdsim/internal/dynamo"
)

// initialCapacity bounds the up-front allocation; long runs grow by append.
const initialCapacity = 1 << 14

type Simulator struct {
	integrator dynamo.Integrator
	metrics    []dynamo.Metric
	observers  []dynamo.Observer
	logger     log.Logger
}

func New(integrator dynamo.Integrator) *Simulator {
	return &Simulator{
		integrator: integrator,
		metrics:    make([]dynamo.Metric, 0),
		observers:  make([]dynamo.Observer, 0),
		logger:     log.NewNopLogger(),
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

// SetLogger sets the logger used for run diagnostics. nil restores the
// silent default.
func (s *Simulator) SetLogger(l log.Logger) {
	if l == nil {
		l = log.NewNopLogger()
	}
	s.logger = l
}

// Run integrates osc from its initial state until the stop condition fires
// or the iteration cap is reached. The model is only read.
func (s *Simulator) Run(ctx context.Context, osc dynamo.Oscillator, cfg Config) (*Result, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if osc.StateDim() != 2 {
		return nil, fmt.Errorf("%w: expected 2 states, got %d", dynamo.ErrDimensionMismatch, osc.StateDim())
	}

	dt := cfg.StepSize(osc.NaturalFrequency())
	maxSteps := cfg.MaxSteps(osc.Period(), dt)
	stop := NewStopCondition(osc, dt, cfg)

	capacity := maxSteps
	if capacity > initialCapacity {
		capacity = initialCapacity
	}
	tr := dynamo.NewTrajectory(dt, capacity)
	result := &Result{
		Trajectory: tr,
		Metrics:    make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := osc.Initial().Clone()
	a0 := osc.Derive(x, 0)[1]
	tr.Append(0, x[0], x[1], a0)
	s.observe(0, x, 0)

	level.Debug(s.logger).Log("msg", "run started", "dt", dt, "max_steps", maxSteps, "zeta", osc.DampingRatio())

	for i := 1; i < maxSteps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		prev := float64(i-1) * dt
		next, rate := s.integrator.Step(osc, x, prev, dt)

		if cfg.ValidateState && !next.IsValid() {
			tr.Reason = dynamo.StopInvalidState
			s.finish(result)
			return result, &dynamo.SimulationError{Step: i, Time: prev, State: next, Wrapped: dynamo.ErrInvalidState}
		}

		x = next
		t := float64(i) * dt
		tr.Append(t, x[0], x[1], rate[1])
		result.StepsTaken++
		s.observe(i, x, t)

		if stop.Done(i, tr.Position) {
			tr.Reason = stop.Reason()
			break
		}
	}

	s.finish(result)
	level.Debug(s.logger).Log("msg", "run finished", "samples", tr.Len(), "reason", tr.Reason, "duration", tr.Duration())

	return result, nil
}

func (s *Simulator) observe(step int, x dynamo.State, t float64) {
	for _, m := range s.metrics {
		m.Observe(x, t)
	}
	for _, obs := range s.observers {
		obs.OnStep(step, x, t)
	}
}

func (s *Simulator) finish(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}
