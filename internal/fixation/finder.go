package fixation

import (
	"github.com/funvibe/callinfer/internal/atoms"
	"github.com/funvibe/callinfer/internal/inference"
	"github.com/funvibe/callinfer/internal/typesystem"
)

// Context is the read-only view of a constraint system the finder needs.
type Context interface {
	NotFixedTypeVariables() map[typesystem.TVar]*inference.VariableWithConstraints
	PostponedTypeVariables() []*inference.TypeVariable
	IsProperType(t typesystem.Type) bool
}

// VariableForFixation is the finder's answer: the variable to act on next.
type VariableForFixation struct {
	Variable                       typesystem.TVar
	HasProperConstraint            bool
	HasOnlyTrivialProperConstraint bool
}

// Readiness orders variables by how safe it is to fix them now.
type Readiness int

const (
	Forbidden Readiness = iota
	WithoutProperArgumentConstraint
	WithComplexDependency
	RelatedToAnyOutputType
	ReadyForFixation
)

func (r Readiness) String() string {
	switch r {
	case Forbidden:
		return "FORBIDDEN"
	case WithoutProperArgumentConstraint:
		return "WITHOUT_PROPER_ARGUMENT_CONSTRAINT"
	case WithComplexDependency:
		return "WITH_COMPLEX_DEPENDENCY"
	case RelatedToAnyOutputType:
		return "RELATED_TO_ANY_OUTPUT_TYPE"
	case ReadyForFixation:
		return "READY_FOR_FIXATION"
	}
	return "UNKNOWN"
}

// Finder chooses the next variable to fix.
type Finder struct{}

func New() *Finder {
	return &Finder{}
}

// FindFirstVariableForFixation returns the most ready variable of vars, the
// first one on ties. It returns nil when every candidate is forbidden.
func (f *Finder) FindFirstVariableForFixation(
	c Context,
	vars []typesystem.TVar,
	postponed []atoms.PostponedAtom,
	mode inference.CompletionMode,
	topLevelType typesystem.Type,
) *VariableForFixation {
	if len(vars) == 0 {
		return nil
	}
	deps := newDependencies(c, postponed, mode, topLevelType)

	var candidate typesystem.TVar
	best := Forbidden
	for _, v := range vars {
		if r := deps.readiness(v); r > best {
			best = r
			candidate = v
		}
	}

	switch best {
	case Forbidden:
		return nil
	case WithoutProperArgumentConstraint:
		return &VariableForFixation{
			Variable:                       candidate,
			HasOnlyTrivialProperConstraint: deps.hasOnlyTrivialProperConstraints(candidate),
		}
	default:
		return &VariableForFixation{Variable: candidate, HasProperConstraint: true}
	}
}

// Readiness exposes the decision table for a single variable.
func (f *Finder) Readiness(c Context, v typesystem.TVar, postponed []atoms.PostponedAtom, mode inference.CompletionMode, topLevelType typesystem.Type) Readiness {
	return newDependencies(c, postponed, mode, topLevelType).readiness(v)
}
