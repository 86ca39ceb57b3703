package resolver

import (
	"errors"
	"testing"

	"github.com/funvibe/callinfer/internal/inference"
	"github.com/funvibe/callinfer/internal/typesystem"
)

// latticeContext treats every type without free variables as proper.
type latticeContext struct {
	*typesystem.Lattice
}

func (latticeContext) IsProperType(t typesystem.Type) bool {
	return len(t.FreeTypeVariables()) == 0
}

var (
	intType    = typesystem.TCon{Name: "Int"}
	doubleType = typesystem.TCon{Name: "Double"}
	numberType = typesystem.TCon{Name: "Number"}
	stringType = typesystem.TCon{Name: "String"}
)

func variable(constraints ...inference.Constraint) *inference.VariableWithConstraints {
	v := inference.NewVariableWithConstraints(inference.NewTypeVariable("T", inference.OriginTypeParameter))
	for _, c := range constraints {
		v.AddConstraint(c)
	}
	return v
}

func lower(t typesystem.Type) inference.Constraint {
	return inference.Constraint{Kind: inference.Lower, Type: t, Position: inference.ExpectedTypePosition()}
}

func upper(t typesystem.Type) inference.Constraint {
	return inference.Constraint{Kind: inference.Upper, Type: t, Position: inference.ExpectedTypePosition()}
}

func TestFindResultType(t *testing.T) {
	c := latticeContext{typesystem.NewLattice(nil)}
	r := New()
	fn := typesystem.TFunc{Params: []typesystem.Type{intType}, ReturnType: typesystem.TVar{Name: "R"}}

	tests := []struct {
		name      string
		v         *inference.VariableWithConstraints
		direction inference.ResolveDirection
		want      typesystem.Type
	}{
		{"lower bounds join", variable(lower(intType), lower(doubleType)), inference.Unknown, numberType},
		{"upper only", variable(upper(numberType)), inference.Unknown, numberType},
		{"prefers lower", variable(lower(intType), upper(numberType)), inference.Unknown, intType},
		{"to supertype prefers upper", variable(lower(intType), upper(numberType)), inference.ToSupertype, numberType},
		{"equality wins", variable(lower(intType), inference.Constraint{Kind: inference.Equality, Type: numberType}), inference.Unknown, numberType},
		{"no constraints", variable(), inference.Unknown, typesystem.Any},
		{"no constraints to subtype", variable(), inference.ToSubtype, typesystem.Nothing},
		{"improper upper for supertype", variable(upper(fn)), inference.ToSupertype, fn},
		{"improper ignored when proper exists", variable(upper(fn), upper(numberType)), inference.ToSupertype, numberType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.FindResultType(c, tt.v, tt.direction)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !typesystem.Equal(got, tt.want) {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestFindResultTypeInfeasible(t *testing.T) {
	c := latticeContext{typesystem.NewLattice(nil)}
	_, err := New().FindResultType(c, variable(lower(stringType), upper(numberType)), inference.Unknown)
	if !errors.Is(err, ErrNoFeasibleType) {
		t.Errorf("expected ErrNoFeasibleType, got %v", err)
	}
	_, err = New().FindResultType(c, variable(lower(stringType), inference.Constraint{Kind: inference.Equality, Type: intType}), inference.Unknown)
	if !errors.Is(err, ErrNoFeasibleType) {
		t.Errorf("expected ErrNoFeasibleType for equality, got %v", err)
	}
}
