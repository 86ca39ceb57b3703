package completer

import (
	"github.com/funvibe/callinfer/internal/atoms"
	"github.com/funvibe/callinfer/internal/config"
	"github.com/funvibe/callinfer/internal/diagnostics"
	"github.com/funvibe/callinfer/internal/inference"
	"github.com/funvibe/callinfer/internal/trace"
	"github.com/funvibe/callinfer/internal/typesystem"
)

// prepareForAnalysis rewrites an argument whose expected type is a not-fixed
// variable into one with a function expected type, when the variable's
// bound allows it. Other arguments are returned as they are.
func (c *Completer) prepareForAnalysis(sys Context, argument atoms.PostponedAtom, holder diagnostics.Holder) atoms.PostponedAtom {
	tv, ok := argument.ExpectedType().(typesystem.TVar)
	if !ok || sys.IsFixed(tv) {
		return argument
	}
	vwc, ok := sys.NotFixedVariable(tv)
	if !ok || !registered(sys, tv) {
		return argument
	}

	switch atom := argument.(type) {
	case *atoms.LambdaWithTypeVariableAsExpectedTypeAtom:
		return c.prepareLambda(sys, atom, vwc, holder)
	case *atoms.PostponedCallableReferenceAtom:
		return c.prepareCallableReference(sys, atom, vwc, holder)
	}
	return argument
}

func registered(sys Context, v typesystem.TVar) bool {
	for _, tv := range sys.Builder().CurrentStorage().AllTypeVariables() {
		if tv.DefaultType() == v {
			return true
		}
	}
	return false
}

// functionBound returns the best supertype bound of the variable when it is
// a function type. Otherwise it returns the C003 warning describing why the
// argument cannot be prepared.
func (c *Completer) functionBound(sys Context, argument atoms.PostponedAtom, vwc *inference.VariableWithConstraints, allowReflect bool) (typesystem.TFunc, *diagnostics.DiagnosticError) {
	bound, err := c.resolver.FindResultType(sys, vwc, inference.ToSupertype)
	if err != nil {
		return typesystem.TFunc{}, diagnostics.NewWarning(diagnostics.ErrC003, argument, "no bound for %s: %v", vwc.Variable.Name(), err)
	}
	fn, ok := bound.(typesystem.TFunc)
	if !ok || (fn.Reflect && !allowReflect) {
		return typesystem.TFunc{}, diagnostics.NewWarning(diagnostics.ErrC003, argument, "expected type %s of %s is not a function type", bound, argument)
	}
	return fn, nil
}

func (c *Completer) prepareLambda(sys Context, atom *atoms.LambdaWithTypeVariableAsExpectedTypeAtom, vwc *inference.VariableWithConstraints, holder diagnostics.Holder) atoms.PostponedAtom {
	fn, warning := c.functionBound(sys, atom, vwc, false)

	// a lambda with declared parameters keeps its expected type unless it is
	// the parameterless extension case
	lambda := atom.Lambda
	extensionWithoutParameters := warning == nil && fn.IsExtension() && len(fn.Params) == 0 && len(lambda.Parameters) == 0
	if lambda.ParametersDeclared() && !extensionWithoutParameters {
		return atom
	}
	if warning != nil {
		holder.Add(warning)
		return atom
	}

	ret, expected := c.newReturnVariable(sys, atom, vwc, fn, config.LambdaReturnVariableName, inference.OriginLambdaReturn)
	prepared := atoms.NewResolvedLambdaAtom(lambda, expected, ret)
	atom.SetAnalyzedResults([]atoms.ResolvedAtom{prepared})
	return prepared
}

func (c *Completer) prepareCallableReference(sys Context, atom *atoms.PostponedCallableReferenceAtom, vwc *inference.VariableWithConstraints, holder diagnostics.Holder) atoms.PostponedAtom {
	fn, warning := c.functionBound(sys, atom, vwc, true)
	if warning != nil {
		holder.Add(warning)
		return atom
	}

	ret, expected := c.newReturnVariable(sys, atom, vwc, fn, config.CallableReferenceReturnVariableName, inference.OriginCallableReferenceReturn)
	prepared := atoms.NewCallableReferenceWithTypeVariableAsExpectedTypeAtom(atom.Reference, expected, ret)
	prepared.SetCandidate(atom.Candidate)
	atom.SetAnalyzedResults([]atoms.ResolvedAtom{prepared})
	return prepared
}

// newReturnVariable registers a fresh return variable and constrains the
// argument's variable from below with fn returning it.
func (c *Completer) newReturnVariable(
	sys Context,
	argument atoms.PostponedAtom,
	vwc *inference.VariableWithConstraints,
	fn typesystem.TFunc,
	name string,
	origin inference.VariableOrigin,
) (*inference.TypeVariable, typesystem.TFunc) {
	builder := sys.Builder()
	ret := builder.NewTypeVariable(name, origin)
	builder.RegisterVariable(ret)

	expected := typesystem.ReplaceReturnType(fn, ret.DefaultType())
	builder.AddSubtypeConstraint(expected, vwc.Variable.DefaultType(), inference.ArgumentPosition(argument))
	c.record(trace.ArgumentPrepared, argument.String(), expected.String())
	return ret, expected
}
