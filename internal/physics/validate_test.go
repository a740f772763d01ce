package physics

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/san-kum/msdsim/internal/dynamo"
)

func TestValidatePerField(t *testing.T) {
	v := Validate(-1, 50, 100, 0, 0)

	if v.Mass {
		t.Error("mass -1 should fail")
	}
	if !v.Damping || !v.Stiffness || !v.Position || !v.Velocity {
		t.Errorf("other fields should pass: %+v", v)
	}
	if bad := v.Invalid(); len(bad) != 1 || bad[0] != FieldMass {
		t.Errorf("expected only mass invalid, got %v", bad)
	}
}

func TestValidateBounds(t *testing.T) {
	tests := []struct {
		name            string
		m, c, k, x0, v0 float64
		invalid         []Field
	}{
		{"all valid", 1, 0.4, 4, 1, 0, nil},
		{"mass at lower bound", MinMass, 1, 1, 0, 0, []Field{FieldMass}},
		{"mass at upper bound", MaxMass, 1, 1, 0, 0, []Field{FieldMass}},
		{"zero damping", 1, 0, 1, 0, 0, []Field{FieldDamping}},
		{"damping at limit", 1, MaxDamping, 1, 0, 0, nil},
		{"stiffness above limit", 1, 1, 1.0001e7, 0, 0, []Field{FieldStiffness}},
		{"position at limit", 1, 1, 1, -5, 0, nil},
		{"position beyond", 1, 1, 1, 5.01, 0, []Field{FieldPosition}},
		{"velocity beyond", 1, 1, 1, 0, -20.5, []Field{FieldVelocity}},
		{"NaN everywhere", math.NaN(), math.NaN(), math.NaN(), math.NaN(), math.NaN(), Fields[:]},
		{"several", 0, -1, 4, 6, 0, []Field{FieldMass, FieldDamping, FieldPosition}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Validate(tt.m, tt.c, tt.k, tt.x0, tt.v0)
			got := v.Invalid()
			if len(got) != len(tt.invalid) {
				t.Fatalf("Invalid() = %v, want %v", got, tt.invalid)
			}
			for i := range got {
				if got[i] != tt.invalid[i] {
					t.Errorf("Invalid()[%d] = %v, want %v", i, got[i], tt.invalid[i])
				}
			}
			if v.OK() != (len(tt.invalid) == 0) {
				t.Errorf("OK() = %v with invalid %v", v.OK(), got)
			}
		})
	}
}

func TestValidationErr(t *testing.T) {
	if err := Validate(1, 0.4, 4, 1, 0).Err(); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}

	err := Validate(1, 0.4, 4, 9, 30).Err()
	if !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Fatalf("expected ErrParameterBounds, got %v", err)
	}
	var verr *ValidationError
	if !errors.As(err, &verr) || len(verr.Fields) != 2 {
		t.Fatalf("expected ValidationError with 2 fields, got %v", err)
	}
	if !strings.Contains(err.Error(), "|v0| <= 20") {
		t.Errorf("error should mention the allowed range: %v", err)
	}
}

func TestNewValidated(t *testing.T) {
	if _, err := NewValidated(1, 0.4, 4, 1, 0); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := NewValidated(1, 0.4, 4, 1, 100); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}
}

func TestValidationWith(t *testing.T) {
	v := Validate(1, 1, 1, 0, 0).With(FieldPosition, false)
	if v.OK() || v.Valid(FieldPosition) {
		t.Error("position should now be invalid")
	}
	if got := v.Invalid(); len(got) != 1 || got[0] != FieldPosition {
		t.Errorf("Invalid() = %v, expected [x0]", got)
	}
}
