package fixation

import (
	"github.com/funvibe/callinfer/internal/atoms"
	"github.com/funvibe/callinfer/internal/inference"
	"github.com/funvibe/callinfer/internal/typesystem"
)

// dependencies caches the relations between not-fixed variables for one
// finder query.
type dependencies struct {
	c                Context
	notFixed         map[typesystem.TVar]*inference.VariableWithConstraints
	postponed        map[typesystem.TVar]bool
	relatedToTop     map[typesystem.TVar]bool
	relatedToOutputs map[typesystem.TVar]bool
}

func newDependencies(c Context, postponedAtoms []atoms.PostponedAtom, mode inference.CompletionMode, topLevelType typesystem.Type) *dependencies {
	d := &dependencies{
		c:         c,
		notFixed:  c.NotFixedTypeVariables(),
		postponed: map[typesystem.TVar]bool{},
	}
	for _, v := range c.PostponedTypeVariables() {
		d.postponed[v.DefaultType()] = true
	}

	if mode == inference.Partial && topLevelType != nil {
		d.relatedToTop = d.closure(topLevelType.FreeTypeVariables())
	}

	var outputs []typesystem.TVar
	for _, atom := range postponedAtoms {
		if atom.Analyzed() {
			continue
		}
		if out := atom.OutputType(); out != nil {
			outputs = append(outputs, out.FreeTypeVariables()...)
		}
	}
	d.relatedToOutputs = d.closure(outputs)
	return d
}

// closure returns every not-fixed variable reachable from roots through
// constraints, in either direction.
func (d *dependencies) closure(roots []typesystem.TVar) map[typesystem.TVar]bool {
	seen := map[typesystem.TVar]bool{}
	queue := []typesystem.TVar{}
	for _, r := range roots {
		if _, ok := d.notFixed[r]; ok && !seen[r] {
			seen[r] = true
			queue = append(queue, r)
		}
	}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, next := range d.neighbours(current) {
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
	return seen
}

func (d *dependencies) neighbours(v typesystem.TVar) []typesystem.TVar {
	var result []typesystem.TVar
	if vwc, ok := d.notFixed[v]; ok {
		for _, c := range vwc.Constraints() {
			for _, fv := range c.Type.FreeTypeVariables() {
				if _, ok := d.notFixed[fv]; ok && fv != v {
					result = append(result, fv)
				}
			}
		}
	}
	for other, vwc := range d.notFixed {
		if other == v {
			continue
		}
		for _, c := range vwc.Constraints() {
			if typesystem.ContainsVariable(c.Type, v) {
				result = append(result, other)
				break
			}
		}
	}
	return result
}

func (d *dependencies) readiness(v typesystem.TVar) Readiness {
	if _, ok := d.notFixed[v]; !ok || d.postponed[v] || d.relatedToTop[v] {
		return Forbidden
	}
	if !d.hasProperArgumentConstraint(v) {
		return WithoutProperArgumentConstraint
	}
	if d.hasComplexDependency(v) {
		return WithComplexDependency
	}
	if d.relatedToOutputs[v] {
		return RelatedToAnyOutputType
	}
	return ReadyForFixation
}

func (d *dependencies) hasProperArgumentConstraint(v typesystem.TVar) bool {
	for _, c := range d.notFixed[v].Constraints() {
		if d.isProperArgumentConstraint(c) && !isTrivial(c) {
			return true
		}
	}
	return false
}

func (d *dependencies) hasOnlyTrivialProperConstraints(v typesystem.TVar) bool {
	vwc, ok := d.notFixed[v]
	if !ok {
		return false
	}
	found := false
	for _, c := range vwc.Constraints() {
		if !d.isProperArgumentConstraint(c) {
			continue
		}
		if !isTrivial(c) {
			return false
		}
		found = true
	}
	return found
}

func (d *dependencies) isProperArgumentConstraint(c inference.Constraint) bool {
	return c.Position.Kind != inference.PositionDeclaredUpperBound && d.c.IsProperType(c.Type)
}

// isTrivial matches bounds that carry no information: Nothing from below and
// Any from above.
func isTrivial(c inference.Constraint) bool {
	switch c.Kind {
	case inference.Lower:
		return typesystem.Equal(c.Type, typesystem.Nothing)
	case inference.Upper:
		return typesystem.Equal(c.Type, typesystem.Any)
	}
	return false
}

// hasComplexDependency reports a constraint whose type has arguments that
// mention another not-fixed variable.
func (d *dependencies) hasComplexDependency(v typesystem.TVar) bool {
	for _, c := range d.notFixed[v].Constraints() {
		if len(typesystem.Arguments(c.Type)) == 0 {
			continue
		}
		for _, fv := range c.Type.FreeTypeVariables() {
			if _, ok := d.notFixed[fv]; ok && fv != v {
				return true
			}
		}
	}
	return false
}
