package completer

import (
	"github.com/funvibe/callinfer/internal/atoms"
	"github.com/funvibe/callinfer/internal/inference"
	"github.com/funvibe/callinfer/internal/typesystem"
)

// fixVariablesInsideFunctionTypeArguments fixes the variables that occur in
// the parameter types of function expected types, so lambdas see concrete
// parameters. It reports whether all of them could be fixed. An argument
// without a plain function expected type counts as not fixed.
func (c *Completer) fixVariablesInsideFunctionTypeArguments(
	sys Context,
	postponed []atoms.PostponedAtom,
	topLevelAtoms []atoms.ResolvedAtom,
	mode inference.CompletionMode,
	topLevelType typesystem.Type,
) bool {
	visited := map[typesystem.TVar]bool{}
	all := true
	for _, argument := range postponed {
		fn, ok := argument.ExpectedType().(typesystem.TFunc)
		if !ok || fn.Reflect {
			all = false
			continue
		}
		args := typesystem.Arguments(fn)
		if len(args) > 1 && !c.fixVariablesInsideTypes(sys, args[:len(args)-1], topLevelAtoms, mode, topLevelType, visited) {
			all = false
		}
	}
	return all
}

func (c *Completer) fixVariablesInsideTypes(
	sys Context,
	types []typesystem.Type,
	topLevelAtoms []atoms.ResolvedAtom,
	mode inference.CompletionMode,
	topLevelType typesystem.Type,
	visited map[typesystem.TVar]bool,
) bool {
	all := true
	for _, t := range types {
		if t == nil || sys.CanBeProper(t) {
			continue
		}
		if tv, ok := t.(typesystem.TVar); ok {
			if _, notFixed := sys.NotFixedVariable(tv); notFixed {
				insideFixed := c.fixVariablesInsideConstraints(sys, tv, topLevelAtoms, mode, topLevelType, visited)
				if !c.hasProperConstraint(sys, tv, topLevelAtoms, mode, topLevelType) {
					all = false
					continue
				}
				if vwc, stillNotFixed := sys.NotFixedVariable(tv); stillNotFixed && !c.fixVariable(sys, vwc, inference.Unknown, topLevelAtoms, mode) {
					all = false
					continue
				}
				if !insideFixed {
					all = false
				}
				continue
			}
		}
		if args := typesystem.Arguments(t); len(args) > 0 {
			if !c.fixVariablesInsideTypes(sys, args, topLevelAtoms, mode, topLevelType, visited) {
				all = false
			}
		}
	}
	return all
}

// fixVariablesInsideConstraints walks the lower and equality constraints of
// v. A constraint that is itself a not-fixed variable is handled first: its
// own constraints are walked and it is fixed when it has a proper
// constraint.
func (c *Completer) fixVariablesInsideConstraints(
	sys Context,
	v typesystem.TVar,
	topLevelAtoms []atoms.ResolvedAtom,
	mode inference.CompletionMode,
	topLevelType typesystem.Type,
	visited map[typesystem.TVar]bool,
) bool {
	vwc, ok := sys.NotFixedVariable(v)
	if !ok || visited[v] {
		return true
	}
	visited[v] = true

	all := true
	for _, constraint := range vwc.Constraints() {
		if constraint.Kind == inference.Upper {
			continue
		}
		t := constraint.Type
		if args := typesystem.Arguments(t); len(args) > 0 {
			if !c.fixVariablesInsideTypes(sys, args, topLevelAtoms, mode, topLevelType, visited) {
				all = false
			}
			continue
		}
		other, isVar := t.(typesystem.TVar)
		if !isVar {
			continue
		}
		if _, notFixed := sys.NotFixedVariable(other); !notFixed {
			continue
		}
		insideFixed := c.fixVariablesInsideConstraints(sys, other, topLevelAtoms, mode, topLevelType, visited)
		if !c.hasProperConstraint(sys, other, topLevelAtoms, mode, topLevelType) {
			all = false
			continue
		}
		if ovwc, stillNotFixed := sys.NotFixedVariable(other); stillNotFixed && !c.fixVariable(sys, ovwc, inference.Unknown, topLevelAtoms, mode) {
			all = false
			continue
		}
		if !insideFixed {
			all = false
		}
	}
	return all
}
