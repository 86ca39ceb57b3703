package system

import (
	"strconv"

	"github.com/funvibe/callinfer/internal/atoms"
	"github.com/funvibe/callinfer/internal/completer"
	"github.com/funvibe/callinfer/internal/diagnostics"
	"github.com/funvibe/callinfer/internal/inference"
	"github.com/funvibe/callinfer/internal/typesystem"
)

// FixedVariable is the outcome of fixing a variable.
type FixedVariable struct {
	Variable *inference.TypeVariable
	Type     typesystem.Type
	// Atom owns the variable; nil when no atom was found.
	Atom atoms.ResolvedAtom
}

// System is a constraint system for one call tree. It stores variables and
// their constraints, incorporates new constraints and records fixations.
// It is not safe for concurrent use.
type System struct {
	lattice *typesystem.Lattice

	variables []*inference.TypeVariable
	byName    map[string]*inference.TypeVariable

	notFixed      map[typesystem.TVar]*inference.VariableWithConstraints
	notFixedOrder []typesystem.TVar

	fixed      map[typesystem.TVar]*FixedVariable
	fixedOrder []typesystem.TVar

	postponed []*inference.TypeVariable
	errors    []*diagnostics.DiagnosticError
	reported  map[string]bool

	// counter for fresh names, per base name
	counters map[string]int
}

var _ completer.Context = (*System)(nil)
var _ completer.Builder = (*System)(nil)

func New(lattice *typesystem.Lattice) *System {
	if lattice == nil {
		lattice = typesystem.NewLattice(nil)
	}
	return &System{
		lattice:  lattice,
		byName:   make(map[string]*inference.TypeVariable),
		notFixed: make(map[typesystem.TVar]*inference.VariableWithConstraints),
		fixed:    make(map[typesystem.TVar]*FixedVariable),
		counters: make(map[string]int),
		reported: make(map[string]bool),
	}
}

// Lattice returns the subtyping lattice of the system.
func (s *System) Lattice() *typesystem.Lattice { return s.lattice }

// RegisterVariable adds v to the system as a not-fixed variable. Registering
// the same variable twice is a no-op.
func (s *System) RegisterVariable(v *inference.TypeVariable) {
	if _, ok := s.byName[v.Name()]; ok {
		return
	}
	s.byName[v.Name()] = v
	s.variables = append(s.variables, v)
	key := v.DefaultType()
	s.notFixed[key] = inference.NewVariableWithConstraints(v)
	s.notFixedOrder = append(s.notFixedOrder, key)
}

// NewTypeVariable creates a variable named base, or base followed by a counter
// when base is taken. The variable is not registered.
func (s *System) NewTypeVariable(base string, origin inference.VariableOrigin) *inference.TypeVariable {
	name := base
	for {
		if _, taken := s.byName[name]; !taken {
			break
		}
		s.counters[base]++
		name = base + strconv.Itoa(s.counters[base])
	}
	return inference.NewTypeVariable(name, origin)
}

// Variable looks a registered variable up by name.
func (s *System) Variable(name string) (*inference.TypeVariable, bool) {
	v, ok := s.byName[name]
	return v, ok
}

func (s *System) AllTypeVariables() []*inference.TypeVariable {
	result := make([]*inference.TypeVariable, len(s.variables))
	copy(result, s.variables)
	return result
}

func (s *System) Builder() completer.Builder { return s }

func (s *System) CurrentStorage() completer.Storage { return s }

func (s *System) NotFixedTypeVariables() map[typesystem.TVar]*inference.VariableWithConstraints {
	result := make(map[typesystem.TVar]*inference.VariableWithConstraints, len(s.notFixed))
	for k, v := range s.notFixed {
		result[k] = v
	}
	return result
}

func (s *System) OrderedNotFixedTypeVariables() []typesystem.TVar {
	result := make([]typesystem.TVar, len(s.notFixedOrder))
	copy(result, s.notFixedOrder)
	return result
}

func (s *System) NotFixedVariable(v typesystem.TVar) (*inference.VariableWithConstraints, bool) {
	vwc, ok := s.notFixed[v]
	return vwc, ok
}

func (s *System) IsFixed(v typesystem.TVar) bool {
	_, ok := s.fixed[v]
	return ok
}

// Fixed returns the fixation of v.
func (s *System) Fixed(v typesystem.TVar) (*FixedVariable, bool) {
	f, ok := s.fixed[v]
	return f, ok
}

// FixedVariables lists fixations in the order they happened.
func (s *System) FixedVariables() []*FixedVariable {
	result := make([]*FixedVariable, 0, len(s.fixedOrder))
	for _, v := range s.fixedOrder {
		result = append(result, s.fixed[v])
	}
	return result
}

// PostponeVariable marks v as deferred: it is left to a later pass that
// infers it from a builder lambda.
func (s *System) PostponeVariable(v *inference.TypeVariable) {
	for _, p := range s.postponed {
		if p == v {
			return
		}
	}
	s.postponed = append(s.postponed, v)
}

// PostponedTypeVariables returns the deferred variables that are still not fixed.
func (s *System) PostponedTypeVariables() []*inference.TypeVariable {
	var result []*inference.TypeVariable
	for _, v := range s.postponed {
		if _, ok := s.notFixed[v.DefaultType()]; ok {
			result = append(result, v)
		}
	}
	return result
}

// IsProperType reports whether t mentions no variable of the system, fixed or not.
func (s *System) IsProperType(t typesystem.Type) bool {
	for _, v := range t.FreeTypeVariables() {
		if _, ok := s.byName[v.Name]; ok {
			return false
		}
	}
	return true
}

func (s *System) CanBeProper(t typesystem.Type) bool {
	for _, v := range t.FreeTypeVariables() {
		if _, ok := s.notFixed[v]; ok {
			return false
		}
	}
	return true
}

func (s *System) ContainsOnlyFixedOrPostponedVariables(t typesystem.Type) bool {
	postponed := map[typesystem.TVar]bool{}
	for _, v := range s.postponed {
		postponed[v.DefaultType()] = true
	}
	for _, v := range t.FreeTypeVariables() {
		if _, ok := s.notFixed[v]; ok && !postponed[v] {
			return false
		}
	}
	return true
}

func (s *System) IsSubtype(sub, super typesystem.Type) bool {
	return s.lattice.IsSubtype(sub, super)
}

func (s *System) CommonSupertype(types []typesystem.Type) typesystem.Type {
	return s.lattice.CommonSupertype(types)
}

func (s *System) Intersect(types []typesystem.Type) typesystem.Type {
	return s.lattice.Intersect(types)
}

func (s *System) AddError(d *diagnostics.DiagnosticError) {
	s.errors = append(s.errors, d)
}

// Errors returns the diagnostics recorded by the system.
func (s *System) Errors() []*diagnostics.DiagnosticError {
	result := make([]*diagnostics.DiagnosticError, len(s.errors))
	copy(result, s.errors)
	return result
}

// Substitution maps every fixed variable to its result type.
func (s *System) Substitution() typesystem.Subst {
	subst := typesystem.Subst{}
	for v, f := range s.fixed {
		subst[v.Name] = f.Type
	}
	return subst
}

// Resolve substitutes fixed variables in t.
func (s *System) Resolve(t typesystem.Type) typesystem.Type {
	if t == nil || len(s.fixed) == 0 {
		return t
	}
	return t.Apply(s.Substitution())
}
