package system

import (
	"github.com/funvibe/callinfer/internal/atoms"
	"github.com/funvibe/callinfer/internal/config"
	"github.com/funvibe/callinfer/internal/diagnostics"
	"github.com/funvibe/callinfer/internal/inference"
	"github.com/funvibe/callinfer/internal/typesystem"
)

// AddSubtypeConstraint records sub <: super.
func (s *System) AddSubtypeConstraint(sub, super typesystem.Type, position inference.ConstraintPosition) {
	s.addSubtype(sub, super, position, 0)
}

// AddEqualityConstraint records a = b.
func (s *System) AddEqualityConstraint(a, b typesystem.Type, position inference.ConstraintPosition) {
	a = s.Resolve(a)
	b = s.Resolve(b)
	handled := false
	if vwc, ok := s.notFixedVar(a); ok {
		s.addConstraint(vwc, inference.Equality, b, position, 0)
		handled = true
	}
	if vwc, ok := s.notFixedVar(b); ok {
		s.addConstraint(vwc, inference.Equality, a, position, 0)
		handled = true
	}
	if !handled {
		s.addSubtype(a, b, position, 0)
		s.addSubtype(b, a, position, 0)
	}
}

func (s *System) notFixedVar(t typesystem.Type) (*inference.VariableWithConstraints, bool) {
	tv, ok := t.(typesystem.TVar)
	if !ok {
		return nil, false
	}
	vwc, ok := s.notFixed[tv]
	return vwc, ok
}

func (s *System) addSubtype(sub, super typesystem.Type, position inference.ConstraintPosition, depth int) {
	if depth > config.MaxIncorporationDepth {
		return
	}
	sub = s.Resolve(sub)
	super = s.Resolve(super)
	if typesystem.Equal(sub, super) {
		return
	}

	subVar, subIsVar := s.notFixedVar(sub)
	superVar, superIsVar := s.notFixedVar(super)
	if subIsVar {
		s.addConstraint(subVar, inference.Upper, super, position, depth)
	}
	if superIsVar {
		s.addConstraint(superVar, inference.Lower, sub, position, depth)
	}
	if subIsVar || superIsVar {
		return
	}

	next := inference.IncorporatedFrom(position)
	switch tsub := sub.(type) {
	case typesystem.TFunc:
		tsuper, ok := super.(typesystem.TFunc)
		if !ok || len(tsub.Params) != len(tsuper.Params) || (tsub.Receiver == nil) != (tsuper.Receiver == nil) {
			break
		}
		if tsuper.Reflect && !tsub.Reflect {
			s.mismatch(sub, super, position)
			return
		}
		if tsub.Receiver != nil {
			s.addSubtype(tsuper.Receiver, tsub.Receiver, next, depth+1)
		}
		for i := range tsub.Params {
			s.addSubtype(tsuper.Params[i], tsub.Params[i], next, depth+1)
		}
		s.addSubtype(tsub.ReturnType, tsuper.ReturnType, next, depth+1)
		return
	case typesystem.TApp:
		tsuper, ok := super.(typesystem.TApp)
		if !ok || tsub.Constructor.Name != tsuper.Constructor.Name || len(tsub.Args) != len(tsuper.Args) {
			break
		}
		// arguments are invariant
		for i := range tsub.Args {
			s.addSubtype(tsub.Args[i], tsuper.Args[i], next, depth+1)
			s.addSubtype(tsuper.Args[i], tsub.Args[i], next, depth+1)
		}
		return
	}

	if !s.lattice.IsSubtype(sub, super) {
		s.mismatch(sub, super, position)
	}
}

// addConstraint stores c on vwc and incorporates it against the bounds
// already there: a new lower bound must fit under every upper bound and the
// other way round.
func (s *System) addConstraint(vwc *inference.VariableWithConstraints, kind inference.ConstraintKind, t typesystem.Type, position inference.ConstraintPosition, depth int) {
	existing := vwc.Constraints()
	if !vwc.AddConstraint(inference.Constraint{Kind: kind, Type: t, Position: position}) {
		return
	}
	if depth >= config.MaxIncorporationDepth {
		return
	}
	next := inference.IncorporatedFrom(position)
	for _, other := range existing {
		if kind.IsLower() && other.Kind.IsUpper() {
			s.addSubtype(t, other.Type, next, depth+1)
		}
		if kind.IsUpper() && other.Kind.IsLower() {
			s.addSubtype(other.Type, t, next, depth+1)
		}
	}
}

func (s *System) mismatch(sub, super typesystem.Type, position inference.ConstraintPosition) {
	d := diagnostics.NewError(diagnostics.ErrC002, position.Argument, "%s is not a subtype of %s", sub, super)
	if s.reported[d.Error()] {
		return
	}
	s.reported[d.Error()] = true
	s.AddError(d)
}

// FixVariable fixes v to result. The result is substituted into every
// constraint that mentions v and v's own bounds are checked against it.
// Fixing a variable that is not in the not-fixed set does nothing.
func (s *System) FixVariable(v *inference.TypeVariable, result typesystem.Type, atom atoms.ResolvedAtom) {
	key := v.DefaultType()
	vwc, ok := s.notFixed[key]
	if !ok {
		return
	}
	delete(s.notFixed, key)
	for i, name := range s.notFixedOrder {
		if name == key {
			s.notFixedOrder = append(s.notFixedOrder[:i:i], s.notFixedOrder[i+1:]...)
			break
		}
	}
	s.fixed[key] = &FixedVariable{Variable: v, Type: result, Atom: atom}
	s.fixedOrder = append(s.fixedOrder, key)

	position := inference.FixVariablePosition(key)
	for _, other := range s.OrderedNotFixedTypeVariables() {
		ovwc, ok := s.notFixed[other]
		if !ok {
			continue
		}
		for _, c := range ovwc.Constraints() {
			if !typesystem.ContainsVariable(c.Type, key) {
				continue
			}
			substituted := s.Resolve(c.Type)
			if typesystem.Equal(substituted, other) {
				continue
			}
			s.addConstraint(ovwc, c.Kind, substituted, position, 0)
		}
	}

	for _, c := range vwc.Constraints() {
		if c.Kind.IsLower() {
			s.addSubtype(c.Type, result, position, 0)
		}
		if c.Kind.IsUpper() {
			s.addSubtype(result, c.Type, position, 0)
		}
	}
}
