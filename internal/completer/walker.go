package completer

import (
	"github.com/funvibe/callinfer/internal/atoms"
	"github.com/funvibe/callinfer/internal/inference"
	"github.com/funvibe/callinfer/internal/typesystem"
)

// ownedVariables returns the type variables an atom introduces.
func ownedVariables(atom atoms.ResolvedAtom) []*inference.TypeVariable {
	switch a := atom.(type) {
	case *atoms.ResolvedCallAtom:
		return a.FreshVariables
	case *atoms.CallableReferenceWithTypeVariableAsExpectedTypeAtom:
		var vars []*inference.TypeVariable
		if a.ReturnVariable != nil {
			vars = append(vars, a.ReturnVariable)
		}
		return append(vars, a.CandidateVariables()...)
	case *atoms.PostponedCallableReferenceAtom:
		return a.CandidateVariables()
	case *atoms.EagerCallableReferenceAtom:
		return a.CandidateVariables()
	case *atoms.ResolvedLambdaAtom:
		if a.ReturnVariable != nil {
			return []*inference.TypeVariable{a.ReturnVariable}
		}
	case *atoms.StubResolvedAtom:
		return []*inference.TypeVariable{a.Variable}
	}
	return nil
}

// orderedAllTypeVariables collects the not-fixed variables of the call tree
// in pre-order. With fromContext the context's own order is used instead.
func orderedAllTypeVariables(sys Context, fromContext bool, topLevelAtoms []atoms.ResolvedAtom) ([]typesystem.TVar, error) {
	if fromContext {
		return sys.OrderedNotFixedTypeVariables(), nil
	}

	// several atoms can share a variable
	seen := map[typesystem.TVar]bool{}
	var result []typesystem.TVar
	var process func(atom atoms.ResolvedAtom)
	process = func(atom atoms.ResolvedAtom) {
		for _, v := range ownedVariables(atom) {
			key := v.DefaultType()
			if _, notFixed := sys.NotFixedVariable(key); notFixed && !seen[key] {
				seen[key] = true
				result = append(result, key)
			}
		}
		if atom.Analyzed() {
			for _, sub := range atom.SubAtoms() {
				process(sub)
			}
		}
	}
	for _, atom := range topLevelAtoms {
		process(atom)
	}

	all := sys.OrderedNotFixedTypeVariables()
	if len(result) != len(all) {
		var orphaned []typesystem.TVar
		for _, v := range all {
			if !seen[v] {
				orphaned = append(orphaned, v)
			}
		}
		return nil, &InvariantError{Message: "not all type variables found in the call tree", Variables: orphaned}
	}
	return result, nil
}

// OrderedNotAnalyzedPostponedArguments returns the postponed atoms of the
// tree that still wait for analysis, parents before children. Children of
// atoms that are not analyzed yet are not visited.
func OrderedNotAnalyzedPostponedArguments(topLevelAtoms []atoms.ResolvedAtom) []atoms.PostponedAtom {
	var result []atoms.PostponedAtom
	var process func(atom atoms.ResolvedAtom)
	process = func(atom atoms.ResolvedAtom) {
		if postponed, ok := atom.(atoms.PostponedAtom); ok && !postponed.Analyzed() {
			result = append(result, postponed)
		}
		if atom.Analyzed() {
			for _, sub := range atom.SubAtoms() {
				process(sub)
			}
		}
	}
	for _, atom := range topLevelAtoms {
		process(atom)
	}
	return result
}

// FindResolvedAtomBy returns the first atom of the tree, at any depth, that
// introduces v, or nil.
func FindResolvedAtomBy(v *inference.TypeVariable, topLevelAtoms []atoms.ResolvedAtom) atoms.ResolvedAtom {
	var check func(atom atoms.ResolvedAtom) atoms.ResolvedAtom
	check = func(atom atoms.ResolvedAtom) atoms.ResolvedAtom {
		for _, owned := range ownedVariables(atom) {
			if owned.DefaultType() == v.DefaultType() {
				return atom
			}
		}
		for _, sub := range atom.SubAtoms() {
			if found := check(sub); found != nil {
				return found
			}
		}
		return nil
	}
	for _, atom := range topLevelAtoms {
		if found := check(atom); found != nil {
			return found
		}
	}
	return nil
}

// attributionAtom is the owning atom of v, falling back to the first
// top-level atom.
func attributionAtom(v *inference.TypeVariable, topLevelAtoms []atoms.ResolvedAtom) atoms.ResolvedAtom {
	if atom := FindResolvedAtomBy(v, topLevelAtoms); atom != nil {
		return atom
	}
	if len(topLevelAtoms) > 0 {
		return topLevelAtoms[0]
	}
	return nil
}
