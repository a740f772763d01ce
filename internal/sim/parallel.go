package sim

import (
	"context"
	"sort"
	"sync"

	"github.com/go-kit/log"
	"github.com/san-kum/msdsim/internal/dynamo"
)

// Run pairs an integrator with the metrics to collect for it.
type Run struct {
	Name       string
	Integrator dynamo.Integrator
	Metrics    []dynamo.Metric
}

// RunAll runs each integrator against the same model concurrently. Every
// run gets its own Simulator; the model is shared read-only. Results are
// keyed by run name.
func RunAll(ctx context.Context, osc dynamo.Oscillator, cfg Config, logger log.Logger, runs ...Run) (map[string]*Result, error) {
	if logger == nil {
		logger = log.NewNopLogger()
	}

	results := make([]*Result, len(runs))
	errs := make([]error, len(runs))

	var wg sync.WaitGroup
	for i := range runs {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			r := runs[idx]
			s := New(r.Integrator)
			s.SetLogger(log.With(logger, "integrator", r.Name))
			for _, m := range r.Metrics {
				s.AddMetric(m)
			}

			results[idx], errs[idx] = s.Run(ctx, osc, cfg)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	out := make(map[string]*Result, len(runs))
	for i, r := range runs {
		out[r.Name] = results[i]
	}
	return out, nil
}

// Names returns the keys of a RunAll result in sorted order.
func Names(results map[string]*Result) []string {
	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
