package completer

import (
	"github.com/funvibe/callinfer/internal/atoms"
	"github.com/funvibe/callinfer/internal/diagnostics"
	"github.com/funvibe/callinfer/internal/fixation"
	"github.com/funvibe/callinfer/internal/inference"
	"github.com/funvibe/callinfer/internal/resolver"
	"github.com/funvibe/callinfer/internal/typesystem"
)

// Context is the constraint system seen by the completer: read accessors for
// the finder and the resolver plus a small mutation surface.
type Context interface {
	fixation.Context
	resolver.Context

	NotFixedVariable(v typesystem.TVar) (*inference.VariableWithConstraints, bool)
	// OrderedNotFixedTypeVariables lists not-fixed variables in insertion order.
	OrderedNotFixedTypeVariables() []typesystem.TVar
	IsFixed(v typesystem.TVar) bool
	// CanBeProper reports whether t mentions no not-fixed variable.
	CanBeProper(t typesystem.Type) bool
	ContainsOnlyFixedOrPostponedVariables(t typesystem.Type) bool
	Builder() Builder

	AddError(d *diagnostics.DiagnosticError)
	FixVariable(v *inference.TypeVariable, result typesystem.Type, atom atoms.ResolvedAtom)
}

// Builder adds variables and constraints to the system.
type Builder interface {
	AddSubtypeConstraint(sub, super typesystem.Type, position inference.ConstraintPosition)
	RegisterVariable(v *inference.TypeVariable)
	// NewTypeVariable creates an unregistered variable with a name unique in
	// the system, derived from base.
	NewTypeVariable(base string, origin inference.VariableOrigin) *inference.TypeVariable
	CurrentStorage() Storage
}

// Storage is a snapshot view of the registered variables.
type Storage interface {
	AllTypeVariables() []*inference.TypeVariable
}

// ResultTypeResolver picks the type a variable is fixed to.
type ResultTypeResolver interface {
	FindResultType(c resolver.Context, v *inference.VariableWithConstraints, direction inference.ResolveDirection) (typesystem.Type, error)
}

// VariableFixationFinder picks the next variable to act on.
type VariableFixationFinder interface {
	FindFirstVariableForFixation(
		c fixation.Context,
		vars []typesystem.TVar,
		postponed []atoms.PostponedAtom,
		mode inference.CompletionMode,
		topLevelType typesystem.Type,
	) *fixation.VariableForFixation
}
