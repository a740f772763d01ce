package physics

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/msdsim/internal/dynamo"
)

// Field identifies one of the five model inputs.
type Field int

const (
	FieldMass Field = iota
	FieldDamping
	FieldStiffness
	FieldPosition
	FieldVelocity
)

// Fields lists every input in prompt order.
var Fields = [...]Field{FieldMass, FieldDamping, FieldStiffness, FieldPosition, FieldVelocity}

func (f Field) String() string {
	switch f {
	case FieldMass:
		return "mass"
	case FieldDamping:
		return "damping"
	case FieldStiffness:
		return "stiffness"
	case FieldPosition:
		return "x0"
	case FieldVelocity:
		return "v0"
	}
	return "unknown"
}

// Range describes the accepted interval in user terms.
func (f Field) Range() string {
	switch f {
	case FieldMass:
		return "1e-6 < m < 1e+3"
	case FieldDamping:
		return "0 < c <= 1e+5"
	case FieldStiffness:
		return "0 < k <= 1e+7"
	case FieldPosition:
		return "|x0| <= 5"
	case FieldVelocity:
		return "|v0| <= 20"
	}
	return ""
}

// Unit is the SI unit of the field.
func (f Field) Unit() string {
	switch f {
	case FieldMass:
		return "kg"
	case FieldDamping:
		return "N·s/m"
	case FieldStiffness:
		return "N/m"
	case FieldPosition:
		return "m"
	case FieldVelocity:
		return "m/s"
	}
	return ""
}

// Validation holds one independent outcome per input; true means valid.
type Validation struct {
	Mass      bool
	Damping   bool
	Stiffness bool
	Position  bool
	Velocity  bool
}

// Validate checks every field on its own, so callers can re-collect only
// the ones that failed.
func Validate(m, c, k, x0, v0 float64) Validation {
	return Validation{
		Mass:      m > MinMass && m < MaxMass,
		Damping:   c > 0 && c <= MaxDamping,
		Stiffness: k > 0 && k <= MaxStiffness,
		Position:  math.Abs(x0) <= MaxPosition,
		Velocity:  math.Abs(v0) <= MaxVelocity,
	}
}

// Valid reports the outcome for a single field.
func (v Validation) Valid(f Field) bool {
	switch f {
	case FieldMass:
		return v.Mass
	case FieldDamping:
		return v.Damping
	case FieldStiffness:
		return v.Stiffness
	case FieldPosition:
		return v.Position
	case FieldVelocity:
		return v.Velocity
	}
	return false
}

// With returns v with the outcome for f replaced, for inputs rejected
// before they reach Validate (unparseable text).
func (v Validation) With(f Field, ok bool) Validation {
	switch f {
	case FieldMass:
		v.Mass = ok
	case FieldDamping:
		v.Damping = ok
	case FieldStiffness:
		v.Stiffness = ok
	case FieldPosition:
		v.Position = ok
	case FieldVelocity:
		v.Velocity = ok
	}
	return v
}

func (v Validation) OK() bool {
	return v.Mass && v.Damping && v.Stiffness && v.Position && v.Velocity
}

// Invalid returns the failing fields in prompt order.
func (v Validation) Invalid() []Field {
	var out []Field
	for _, f := range Fields {
		if !v.Valid(f) {
			out = append(out, f)
		}
	}
	return out
}

// Err returns nil when every field passed.
func (v Validation) Err() error {
	bad := v.Invalid()
	if len(bad) == 0 {
		return nil
	}
	return &ValidationError{Fields: bad}
}

// ValidationError lists the out-of-range inputs.
type ValidationError struct {
	Fields []Field
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = fmt.Sprintf("%s (%s)", f, f.Range())
	}
	return fmt.Sprintf("%v: %s", dynamo.ErrParameterBounds, strings.Join(parts, ", "))
}

func (e *ValidationError) Unwrap() error {
	return dynamo.ErrParameterBounds
}

// NewValidated validates then constructs.
func NewValidated(m, c, k, x0, v0 float64) (MassSpringDamper, error) {
	if err := Validate(m, c, k, x0, v0).Err(); err != nil {
		return MassSpringDamper{}, err
	}
	return New(m, c, k, x0, v0)
}
