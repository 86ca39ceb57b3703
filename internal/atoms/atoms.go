package atoms

import (
	"fmt"
	"strings"

	"github.com/funvibe/callinfer/internal/inference"
	"github.com/funvibe/callinfer/internal/typesystem"
)

// ResolvedAtom is a node of a resolved call tree. The set of implementations
// is closed; code dispatches on the concrete type with a type switch.
type ResolvedAtom interface {
	fmt.Stringer
	// Analyzed reports whether the atom's sub-atoms are known.
	Analyzed() bool
	// SubAtoms returns the children. Empty until the atom is analyzed.
	SubAtoms() []ResolvedAtom
	resolvedAtom()
}

// PostponedAtom is a lambda or callable reference whose analysis waits until
// its expected type is known well enough.
type PostponedAtom interface {
	ResolvedAtom
	ExpectedType() typesystem.Type
	// InputTypes must be free of unfixed variables before the atom is ready.
	InputTypes() []typesystem.Type
	// OutputType is nil when the atom has no known result type yet.
	OutputType() typesystem.Type
	// SetAnalyzedResults marks the atom analyzed with the given children.
	// It panics when called twice.
	SetAnalyzedResults(subAtoms []ResolvedAtom)
}

type base struct {
	analyzed bool
	subAtoms []ResolvedAtom
}

func (b *base) Analyzed() bool { return b.analyzed }

func (b *base) SubAtoms() []ResolvedAtom {
	result := make([]ResolvedAtom, len(b.subAtoms))
	copy(result, b.subAtoms)
	return result
}

func (b *base) setAnalyzed(self fmt.Stringer, subAtoms []ResolvedAtom) {
	if b.analyzed {
		panic(fmt.Sprintf("atom %s is already analyzed", self))
	}
	b.analyzed = true
	b.subAtoms = append([]ResolvedAtom(nil), subAtoms...)
}

func (*base) resolvedAtom() {}

// ResolvedCallAtom is a call whose candidate is chosen. Its arguments are its
// sub-atoms.
type ResolvedCallAtom struct {
	base
	Name           string
	FreshVariables []*inference.TypeVariable
}

func NewResolvedCallAtom(name string, fresh []*inference.TypeVariable, arguments ...ResolvedAtom) *ResolvedCallAtom {
	a := &ResolvedCallAtom{Name: name, FreshVariables: fresh}
	a.setAnalyzed(a, arguments)
	return a
}

func (a *ResolvedCallAtom) String() string { return a.Name + "()" }

// LambdaArgument is the syntactic lambda behind a lambda atom.
type LambdaArgument struct {
	Name string
	// Parameters holds declared parameter types; nil entries are undeclared.
	Parameters []typesystem.Type
	Receiver   typesystem.Type
}

// ParametersDeclared reports whether every parameter has a declared type.
func (l *LambdaArgument) ParametersDeclared() bool {
	for _, p := range l.Parameters {
		if p == nil {
			return false
		}
	}
	return true
}

func (l *LambdaArgument) String() string {
	if l.Name != "" {
		return "lambda " + l.Name
	}
	params := make([]string, len(l.Parameters))
	for i, p := range l.Parameters {
		if p == nil {
			params[i] = "_"
		} else {
			params[i] = p.String()
		}
	}
	return "{ " + strings.Join(params, ", ") + " -> }"
}

// ResolvedLambdaAtom is a lambda with a function expected type.
type ResolvedLambdaAtom struct {
	base
	Lambda         *LambdaArgument
	Expected       typesystem.Type
	Receiver       typesystem.Type
	Parameters     []typesystem.Type
	ReturnType     typesystem.Type
	ReturnVariable *inference.TypeVariable
}

// NewResolvedLambdaAtom builds a lambda atom from its expected function type.
// returnVariable may be nil.
func NewResolvedLambdaAtom(lambda *LambdaArgument, expected typesystem.TFunc, returnVariable *inference.TypeVariable) *ResolvedLambdaAtom {
	params := make([]typesystem.Type, len(expected.Params))
	copy(params, expected.Params)
	return &ResolvedLambdaAtom{
		Lambda:         lambda,
		Expected:       expected,
		Receiver:       expected.Receiver,
		Parameters:     params,
		ReturnType:     expected.ReturnType,
		ReturnVariable: returnVariable,
	}
}

func (a *ResolvedLambdaAtom) String() string { return a.Lambda.String() }

func (a *ResolvedLambdaAtom) ExpectedType() typesystem.Type { return a.Expected }

func (a *ResolvedLambdaAtom) InputTypes() []typesystem.Type {
	inputs := make([]typesystem.Type, 0, len(a.Parameters)+1)
	if a.Receiver != nil {
		inputs = append(inputs, a.Receiver)
	}
	return append(inputs, a.Parameters...)
}

func (a *ResolvedLambdaAtom) OutputType() typesystem.Type { return a.ReturnType }

func (a *ResolvedLambdaAtom) SetAnalyzedResults(subAtoms []ResolvedAtom) {
	a.setAnalyzed(a, subAtoms)
}

// LambdaWithTypeVariableAsExpectedTypeAtom is a lambda whose expected type is
// a bare type variable.
type LambdaWithTypeVariableAsExpectedTypeAtom struct {
	base
	Lambda   *LambdaArgument
	Expected typesystem.Type
}

func NewLambdaWithTypeVariableAsExpectedTypeAtom(lambda *LambdaArgument, expected typesystem.Type) *LambdaWithTypeVariableAsExpectedTypeAtom {
	return &LambdaWithTypeVariableAsExpectedTypeAtom{Lambda: lambda, Expected: expected}
}

func (a *LambdaWithTypeVariableAsExpectedTypeAtom) String() string { return a.Lambda.String() }

func (a *LambdaWithTypeVariableAsExpectedTypeAtom) ExpectedType() typesystem.Type { return a.Expected }

func (a *LambdaWithTypeVariableAsExpectedTypeAtom) InputTypes() []typesystem.Type {
	return []typesystem.Type{a.Expected}
}

func (a *LambdaWithTypeVariableAsExpectedTypeAtom) OutputType() typesystem.Type { return nil }

func (a *LambdaWithTypeVariableAsExpectedTypeAtom) SetAnalyzedResults(subAtoms []ResolvedAtom) {
	a.setAnalyzed(a, subAtoms)
}
