package resolver

import (
	"errors"
	"fmt"

	"github.com/funvibe/callinfer/internal/inference"
	"github.com/funvibe/callinfer/internal/typesystem"
)

// ErrNoFeasibleType is returned when the lower bounds of a variable do not
// fit under its upper bounds.
var ErrNoFeasibleType = errors.New("no feasible type")

// Context is the read-only view of a constraint system the resolver needs.
type Context interface {
	IsProperType(t typesystem.Type) bool
	IsSubtype(sub, super typesystem.Type) bool
	CommonSupertype(types []typesystem.Type) typesystem.Type
	Intersect(types []typesystem.Type) typesystem.Type
}

// Resolver picks the result type of a variable from its constraints.
type Resolver struct{}

func New() *Resolver {
	return &Resolver{}
}

// FindResultType returns the type a variable should be fixed to.
//
// A proper equality constraint wins. Otherwise the subtype candidate is the
// common supertype of the proper lower bounds and the supertype candidate is
// the intersection of the proper upper bounds. TO_SUPERTYPE prefers the
// supertype candidate, anything else prefers the subtype candidate. With no
// proper bounds at all the non-proper bounds of the preferred side are used,
// and with no bounds the lattice extreme is returned.
func (r *Resolver) FindResultType(c Context, v *inference.VariableWithConstraints, direction inference.ResolveDirection) (typesystem.Type, error) {
	var lower, upper, equal []typesystem.Type
	var improperLower, improperUpper []typesystem.Type
	for _, constraint := range v.Constraints() {
		if !c.IsProperType(constraint.Type) {
			switch constraint.Kind {
			case inference.Lower:
				improperLower = append(improperLower, constraint.Type)
			case inference.Upper:
				improperUpper = append(improperUpper, constraint.Type)
			}
			continue
		}
		switch constraint.Kind {
		case inference.Lower:
			lower = append(lower, constraint.Type)
		case inference.Upper:
			upper = append(upper, constraint.Type)
		case inference.Equality:
			equal = append(equal, constraint.Type)
		}
	}

	if len(equal) > 0 {
		result := equal[0]
		for _, l := range lower {
			if !c.IsSubtype(l, result) {
				return nil, fmt.Errorf("%w for %s: %s is not a subtype of %s", ErrNoFeasibleType, v.Variable, l, result)
			}
		}
		for _, u := range upper {
			if !c.IsSubtype(result, u) {
				return nil, fmt.Errorf("%w for %s: %s is not a subtype of %s", ErrNoFeasibleType, v.Variable, result, u)
			}
		}
		return result, nil
	}

	if len(lower) == 0 && len(upper) == 0 {
		return fallback(c, direction, improperLower, improperUpper), nil
	}

	var subCandidate, superCandidate typesystem.Type
	if len(lower) > 0 {
		subCandidate = c.CommonSupertype(lower)
	}
	if len(upper) > 0 {
		superCandidate = c.Intersect(upper)
	}
	if subCandidate != nil && superCandidate != nil && !c.IsSubtype(subCandidate, superCandidate) {
		return nil, fmt.Errorf("%w for %s: %s is not a subtype of %s", ErrNoFeasibleType, v.Variable, subCandidate, superCandidate)
	}

	if direction == inference.ToSupertype {
		if superCandidate != nil {
			return superCandidate, nil
		}
		return subCandidate, nil
	}
	if subCandidate != nil {
		return subCandidate, nil
	}
	return superCandidate, nil
}

func fallback(c Context, direction inference.ResolveDirection, lower, upper []typesystem.Type) typesystem.Type {
	if direction == inference.ToSupertype && len(upper) > 0 {
		return upper[0]
	}
	if direction != inference.ToSupertype && len(lower) > 0 {
		return lower[0]
	}
	if direction == inference.ToSubtype {
		return typesystem.Nothing
	}
	return typesystem.Any
}
