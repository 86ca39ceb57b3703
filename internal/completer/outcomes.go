package completer

import (
	"github.com/funvibe/callinfer/internal/atoms"
	"github.com/funvibe/callinfer/internal/diagnostics"
	"github.com/funvibe/callinfer/internal/inference"
	"github.com/funvibe/callinfer/internal/trace"
	"github.com/funvibe/callinfer/internal/typesystem"
)

// FixVariable fixes v outside the main loop, resolving its result type in
// the given direction. Fixing a variable that is already fixed is an
// invariant violation.
func (c *Completer) FixVariable(sys Context, vwc *inference.VariableWithConstraints, direction inference.ResolveDirection, topLevelAtoms []atoms.ResolvedAtom) error {
	key := vwc.Variable.DefaultType()
	if _, ok := sys.NotFixedVariable(key); !ok {
		return &InvariantError{Message: "variable is already fixed", Variables: []typesystem.TVar{key}}
	}
	c.fixVariable(sys, vwc, direction, topLevelAtoms, inference.Full)
	return nil
}

// fixVariable fixes v to its resolved result type and reports whether v is
// fixed afterwards. When no result type exists, FULL mode fixes v to an error
// type while PARTIAL mode leaves it open without a diagnostic.
func (c *Completer) fixVariable(sys Context, vwc *inference.VariableWithConstraints, direction inference.ResolveDirection, topLevelAtoms []atoms.ResolvedAtom, mode inference.CompletionMode) bool {
	v := vwc.Variable
	result, err := c.resolver.FindResultType(sys, vwc, direction)
	if err != nil {
		if mode != inference.Full {
			c.record(trace.VariableFailed, v.Name(), "deferred: "+err.Error())
			return false
		}
		c.processVariableWhenNotEnoughInformation(sys, vwc, topLevelAtoms, err)
		return true
	}
	sys.FixVariable(v, result, FindResolvedAtomBy(v, topLevelAtoms))
	c.record(trace.VariableFixed, v.Name(), result.String())
	return true
}

// processVariableWhenNotEnoughInformation reports v as uninferable and fixes
// it to an error type so later phases can go on.
func (c *Completer) processVariableWhenNotEnoughInformation(sys Context, vwc *inference.VariableWithConstraints, topLevelAtoms []atoms.ResolvedAtom, cause error) {
	v := vwc.Variable
	if atom := attributionAtom(v, topLevelAtoms); atom != nil {
		sys.AddError(diagnostics.NewError(diagnostics.ErrC001, atom, "not enough information to infer type variable %s", v.Name()))
	}

	var result typesystem.TError
	if v.Origin == inference.OriginTypeParameter {
		result.Parameter = v.Parameter
		if result.Parameter == "" {
			result.Parameter = v.Name()
		}
	} else {
		result.Message = "cannot infer type variable " + v.Name()
	}
	sys.FixVariable(v, result, FindResolvedAtomBy(v, topLevelAtoms))

	detail := result.String()
	if cause != nil {
		detail = cause.Error()
	}
	c.record(trace.VariableFailed, v.Name(), detail)
}
