package inference

import (
	"fmt"

	"github.com/funvibe/callinfer/internal/typesystem"
)

// ConstraintKind is the direction of a constraint relative to its variable.
type ConstraintKind int

const (
	// Lower means Type <: variable.
	Lower ConstraintKind = iota
	// Upper means variable <: Type.
	Upper
	Equality
)

func (k ConstraintKind) String() string {
	switch k {
	case Lower:
		return "LOWER"
	case Upper:
		return "UPPER"
	case Equality:
		return "EQUALITY"
	}
	return "UNKNOWN"
}

// IsLower reports whether the constraint bounds the variable from below.
// Equality bounds both sides.
func (k ConstraintKind) IsLower() bool { return k == Lower || k == Equality }

// IsUpper reports whether the constraint bounds the variable from above.
func (k ConstraintKind) IsUpper() bool { return k == Upper || k == Equality }

// PositionKind tells what produced a constraint.
type PositionKind int

const (
	PositionArgument PositionKind = iota
	PositionExpectedType
	PositionDeclaredUpperBound
	PositionFixVariable
	PositionIncorporation
	PositionSynthetic
)

// ConstraintPosition records the provenance of a constraint.
type ConstraintPosition struct {
	Kind PositionKind
	// Argument is the atom the constraint came from (PositionArgument).
	Argument fmt.Stringer
	// Variable is the fixed variable (PositionFixVariable).
	Variable    typesystem.TVar
	Description string
}

func ArgumentPosition(argument fmt.Stringer) ConstraintPosition {
	return ConstraintPosition{Kind: PositionArgument, Argument: argument}
}

func ExpectedTypePosition() ConstraintPosition {
	return ConstraintPosition{Kind: PositionExpectedType}
}

func DeclaredUpperBoundPosition() ConstraintPosition {
	return ConstraintPosition{Kind: PositionDeclaredUpperBound}
}

func FixVariablePosition(v typesystem.TVar) ConstraintPosition {
	return ConstraintPosition{Kind: PositionFixVariable, Variable: v}
}

func IncorporationPosition() ConstraintPosition {
	return ConstraintPosition{Kind: PositionIncorporation}
}

// IncorporatedFrom is the position of a constraint derived from one at p.
// It keeps p's argument for attribution.
func IncorporatedFrom(p ConstraintPosition) ConstraintPosition {
	return ConstraintPosition{Kind: PositionIncorporation, Argument: p.Argument}
}

func SyntheticPosition(description string) ConstraintPosition {
	return ConstraintPosition{Kind: PositionSynthetic, Description: description}
}

func (p ConstraintPosition) String() string {
	switch p.Kind {
	case PositionArgument:
		if p.Argument != nil {
			return "argument " + p.Argument.String()
		}
		return "argument"
	case PositionExpectedType:
		return "expected type"
	case PositionDeclaredUpperBound:
		return "declared upper bound"
	case PositionFixVariable:
		return "fixation of " + p.Variable.String()
	case PositionIncorporation:
		return "incorporation"
	case PositionSynthetic:
		return p.Description
	}
	return "unknown position"
}

// Constraint is one bound on a type variable.
type Constraint struct {
	Kind     ConstraintKind
	Type     typesystem.Type
	Position ConstraintPosition
}

func (c Constraint) String() string {
	return fmt.Sprintf("%s %s (%s)", c.Kind, c.Type, c.Position)
}

// VariableWithConstraints is a type variable together with its constraints
// in the order they were added. The list only grows.
type VariableWithConstraints struct {
	Variable    *TypeVariable
	constraints []Constraint
}

func NewVariableWithConstraints(v *TypeVariable) *VariableWithConstraints {
	return &VariableWithConstraints{Variable: v}
}

// Constraints returns a copy of the constraint list.
func (v *VariableWithConstraints) Constraints() []Constraint {
	result := make([]Constraint, len(v.constraints))
	copy(result, v.constraints)
	return result
}

// AddConstraint appends c unless a constraint of the same kind and type is
// already present. It returns whether c was added.
func (v *VariableWithConstraints) AddConstraint(c Constraint) bool {
	for _, existing := range v.constraints {
		if existing.Kind == c.Kind && typesystem.Equal(existing.Type, c.Type) {
			return false
		}
	}
	v.constraints = append(v.constraints, c)
	return true
}

func (v *VariableWithConstraints) String() string {
	return fmt.Sprintf("%s %v", v.Variable, v.constraints)
}
