package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/msdsim/internal/dynamo"
)

// Names accepted by New.
const (
	NameEuler    = "euler"
	NameRK4      = "rk4"
	NameAnalytic = "analytic"
)

var constructors = map[string]func() dynamo.Integrator{
	NameEuler:    func() dynamo.Integrator { return NewSemiImplicitEuler() },
	NameRK4:      func() dynamo.Integrator { return NewRK4() },
	NameAnalytic: func() dynamo.Integrator { return NewAnalytic() },
}

// New returns a fresh integrator. RK4 keeps scratch buffers, so instances
// must not be shared between concurrent runs.
func New(name string) (dynamo.Integrator, error) {
	fn, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s (available: %v)", name, List())
	}
	return fn(), nil
}

func List() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
