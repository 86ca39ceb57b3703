package atoms

import (
	"github.com/funvibe/callinfer/internal/inference"
	"github.com/funvibe/callinfer/internal/typesystem"
)

// CallableReferenceArgument is the syntactic ::name behind a reference atom.
type CallableReferenceArgument struct {
	Name string
}

func (r *CallableReferenceArgument) String() string { return "::" + r.Name }

// Candidate is the declaration a callable reference resolved to.
type Candidate struct {
	Name           string
	FreshVariables []*inference.TypeVariable
}

func candidateVariables(c *Candidate) []*inference.TypeVariable {
	if c == nil {
		return nil
	}
	return c.FreshVariables
}

// referenceTypes splits a reference's expected type into inputs and output.
// A non-function expected type is an input by itself.
func referenceTypes(expected typesystem.Type) ([]typesystem.Type, typesystem.Type) {
	if expected == nil {
		return nil, nil
	}
	if fn, ok := expected.(typesystem.TFunc); ok {
		return typesystem.ParameterTypes(fn), fn.ReturnType
	}
	return []typesystem.Type{expected}, nil
}

// EagerCallableReferenceAtom is a callable reference resolved together with
// its call.
type EagerCallableReferenceAtom struct {
	base
	Reference *CallableReferenceArgument
	Candidate *Candidate
}

func NewEagerCallableReferenceAtom(ref *CallableReferenceArgument, candidate *Candidate) *EagerCallableReferenceAtom {
	a := &EagerCallableReferenceAtom{Reference: ref, Candidate: candidate}
	a.setAnalyzed(a, nil)
	return a
}

func (a *EagerCallableReferenceAtom) String() string { return a.Reference.String() }

// CandidateVariables returns the fresh variables of the chosen candidate.
func (a *EagerCallableReferenceAtom) CandidateVariables() []*inference.TypeVariable {
	return candidateVariables(a.Candidate)
}

// PostponedCallableReferenceAtom is a callable reference resolved after the
// call, once its expected type is known.
type PostponedCallableReferenceAtom struct {
	base
	Reference *CallableReferenceArgument
	Expected  typesystem.Type
	Candidate *Candidate
}

func NewPostponedCallableReferenceAtom(ref *CallableReferenceArgument, expected typesystem.Type) *PostponedCallableReferenceAtom {
	return &PostponedCallableReferenceAtom{Reference: ref, Expected: expected}
}

func (a *PostponedCallableReferenceAtom) String() string { return a.Reference.String() }

func (a *PostponedCallableReferenceAtom) ExpectedType() typesystem.Type { return a.Expected }

func (a *PostponedCallableReferenceAtom) InputTypes() []typesystem.Type {
	inputs, _ := referenceTypes(a.Expected)
	return inputs
}

func (a *PostponedCallableReferenceAtom) OutputType() typesystem.Type {
	_, output := referenceTypes(a.Expected)
	return output
}

func (a *PostponedCallableReferenceAtom) SetAnalyzedResults(subAtoms []ResolvedAtom) {
	a.setAnalyzed(a, subAtoms)
}

// SetCandidate records the candidate chosen while analyzing the reference.
func (a *PostponedCallableReferenceAtom) SetCandidate(c *Candidate) { a.Candidate = c }

func (a *PostponedCallableReferenceAtom) CandidateVariables() []*inference.TypeVariable {
	return candidateVariables(a.Candidate)
}

// CallableReferenceWithTypeVariableAsExpectedTypeAtom replaces a postponed
// reference whose expected type was a type variable. Expected is the function
// type with the synthetic return variable.
type CallableReferenceWithTypeVariableAsExpectedTypeAtom struct {
	base
	Reference      *CallableReferenceArgument
	Expected       typesystem.Type
	ReturnVariable *inference.TypeVariable
	Candidate      *Candidate
}

func NewCallableReferenceWithTypeVariableAsExpectedTypeAtom(ref *CallableReferenceArgument, expected typesystem.Type, returnVariable *inference.TypeVariable) *CallableReferenceWithTypeVariableAsExpectedTypeAtom {
	return &CallableReferenceWithTypeVariableAsExpectedTypeAtom{Reference: ref, Expected: expected, ReturnVariable: returnVariable}
}

func (a *CallableReferenceWithTypeVariableAsExpectedTypeAtom) String() string {
	return a.Reference.String()
}

func (a *CallableReferenceWithTypeVariableAsExpectedTypeAtom) ExpectedType() typesystem.Type {
	return a.Expected
}

func (a *CallableReferenceWithTypeVariableAsExpectedTypeAtom) InputTypes() []typesystem.Type {
	inputs, _ := referenceTypes(a.Expected)
	return inputs
}

func (a *CallableReferenceWithTypeVariableAsExpectedTypeAtom) OutputType() typesystem.Type {
	_, output := referenceTypes(a.Expected)
	return output
}

func (a *CallableReferenceWithTypeVariableAsExpectedTypeAtom) SetAnalyzedResults(subAtoms []ResolvedAtom) {
	a.setAnalyzed(a, subAtoms)
}

func (a *CallableReferenceWithTypeVariableAsExpectedTypeAtom) SetCandidate(c *Candidate) {
	a.Candidate = c
}

func (a *CallableReferenceWithTypeVariableAsExpectedTypeAtom) CandidateVariables() []*inference.TypeVariable {
	return candidateVariables(a.Candidate)
}

// StubResolvedAtom stands in for a call that failed to resolve. It owns a
// single placeholder variable.
type StubResolvedAtom struct {
	base
	Variable *inference.TypeVariable
}

func NewStubResolvedAtom(v *inference.TypeVariable) *StubResolvedAtom {
	a := &StubResolvedAtom{Variable: v}
	a.setAnalyzed(a, nil)
	return a
}

func (a *StubResolvedAtom) String() string { return "stub " + a.Variable.String() }
