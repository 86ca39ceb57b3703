package inference

import (
	"testing"

	"github.com/funvibe/callinfer/internal/typesystem"
)

func TestAddConstraintDeduplicates(t *testing.T) {
	v := NewVariableWithConstraints(NewTypeVariable("T", OriginTypeParameter))
	intType := typesystem.TCon{Name: "Int"}

	if !v.AddConstraint(Constraint{Kind: Lower, Type: intType, Position: ExpectedTypePosition()}) {
		t.Fatalf("first constraint rejected")
	}
	if v.AddConstraint(Constraint{Kind: Lower, Type: intType, Position: IncorporationPosition()}) {
		t.Errorf("duplicate constraint accepted")
	}
	if !v.AddConstraint(Constraint{Kind: Upper, Type: intType, Position: ExpectedTypePosition()}) {
		t.Errorf("same type with other kind rejected")
	}

	cs := v.Constraints()
	if len(cs) != 2 {
		t.Fatalf("got %d constraints, want 2", len(cs))
	}
	if cs[0].Position.Kind != PositionExpectedType {
		t.Errorf("first position must be kept, got %s", cs[0].Position)
	}
	cs[0].Kind = Equality
	if v.Constraints()[0].Kind != Lower {
		t.Errorf("Constraints must return a copy")
	}
}

func TestKindBounds(t *testing.T) {
	tests := []struct {
		kind         ConstraintKind
		lower, upper bool
	}{
		{Lower, true, false},
		{Upper, false, true},
		{Equality, true, true},
	}
	for _, tt := range tests {
		if tt.kind.IsLower() != tt.lower || tt.kind.IsUpper() != tt.upper {
			t.Errorf("%s: IsLower=%v IsUpper=%v", tt.kind, tt.kind.IsLower(), tt.kind.IsUpper())
		}
	}
}

func TestParseModeAndOrigin(t *testing.T) {
	if m, err := ParseCompletionMode("partial"); err != nil || m != Partial {
		t.Errorf("ParseCompletionMode(partial) = %v, %v", m, err)
	}
	if _, err := ParseCompletionMode("eager"); err == nil {
		t.Errorf("expected error for unknown mode")
	}
	for _, o := range []VariableOrigin{OriginTypeParameter, OriginLambdaReturn, OriginCallableReferenceReturn, OriginStub, OriginSynthetic} {
		got, ok := ParseOrigin(o.String())
		if !ok || got != o {
			t.Errorf("ParseOrigin(%s) = %v, %v", o, got, ok)
		}
	}
	v := NewTypeParameterVariable("T1", "T")
	if v.Parameter != "T" || v.Name() != "T1" || v.DefaultType().Name != "T1" {
		t.Errorf("unexpected variable %+v", v)
	}
}
