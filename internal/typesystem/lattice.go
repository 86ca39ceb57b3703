package typesystem

// Hierarchy maps a named type to its direct supertypes.
type Hierarchy map[string][]string

// Lattice answers subtyping questions over named types, generic applications
// and function types. Nothing is the bottom, Any the top, and TError is
// compatible with everything.
type Lattice struct {
	supertypes Hierarchy
}

// DefaultHierarchy is the built-in named type hierarchy.
func DefaultHierarchy() Hierarchy {
	return Hierarchy{
		"Int":     {"Number", "Comparable"},
		"Long":    {"Number", "Comparable"},
		"Double":  {"Number", "Comparable"},
		"Number":  {"Any"},
		"String":  {"CharSequence", "Comparable"},
		"Boolean": {"Comparable"},
		"List":    {"Collection"},
		"Set":     {"Collection"},
	}
}

// NewLattice creates a lattice over the given hierarchy. A nil hierarchy
// means DefaultHierarchy.
func NewLattice(h Hierarchy) *Lattice {
	if h == nil {
		h = DefaultHierarchy()
	}
	return &Lattice{supertypes: h}
}

// Supertypes returns every named supertype of name (excluding name itself)
// in breadth-first order.
func (l *Lattice) Supertypes(name string) []string {
	result := []string{}
	seen := map[string]bool{name: true}
	queue := []string{name}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, super := range l.supertypes[current] {
			if !seen[super] {
				seen[super] = true
				result = append(result, super)
				queue = append(queue, super)
			}
		}
	}
	return result
}

func (l *Lattice) isNamedSubtype(sub, super string) bool {
	if sub == super || super == Any.Name {
		return true
	}
	for _, s := range l.Supertypes(sub) {
		if s == super {
			return true
		}
	}
	return false
}

// IsSubtype reports whether sub <: super.
func (l *Lattice) IsSubtype(sub, super Type) bool {
	if Equal(sub, super) {
		return true
	}
	if _, ok := sub.(TError); ok {
		return true
	}
	if _, ok := super.(TError); ok {
		return true
	}
	if Equal(sub, Nothing) || Equal(super, Any) {
		return true
	}

	switch s := sub.(type) {
	case TVar:
		return false
	case TCon:
		if sup, ok := super.(TCon); ok {
			return l.isNamedSubtype(s.Name, sup.Name)
		}
		return false
	case TApp:
		switch sup := super.(type) {
		case TCon:
			// raw supertype: List<Int> <: Collection
			return l.isNamedSubtype(s.Constructor.Name, sup.Name)
		case TApp:
			if s.Constructor.Name != sup.Constructor.Name || len(s.Args) != len(sup.Args) {
				return false
			}
			for i := range s.Args {
				if !Equal(s.Args[i], sup.Args[i]) {
					return false
				}
			}
			return true
		}
		return false
	case TFunc:
		sup, ok := super.(TFunc)
		if !ok || !sameShape(s, sup) {
			return false
		}
		if sup.Reflect && !s.Reflect {
			return false
		}
		if s.Receiver != nil && !l.IsSubtype(sup.Receiver, s.Receiver) {
			return false
		}
		for i := range s.Params {
			if !l.IsSubtype(sup.Params[i], s.Params[i]) {
				return false
			}
		}
		return l.IsSubtype(s.ReturnType, sup.ReturnType)
	}
	return false
}

func sameShape(a, b TFunc) bool {
	return len(a.Params) == len(b.Params) && (a.Receiver == nil) == (b.Receiver == nil)
}

// CommonSupertype returns the least upper bound of types.
// The empty set yields Nothing.
func (l *Lattice) CommonSupertype(types []Type) Type {
	var acc Type
	for _, t := range types {
		if Equal(t, Nothing) {
			continue
		}
		if acc == nil {
			acc = t
			continue
		}
		acc = l.lub(acc, t)
	}
	if acc == nil {
		return Nothing
	}
	return acc
}

// Intersect returns the greatest lower bound of types.
// The empty set yields Any.
func (l *Lattice) Intersect(types []Type) Type {
	var acc Type
	for _, t := range types {
		if Equal(t, Any) {
			continue
		}
		if acc == nil {
			acc = t
			continue
		}
		acc = l.glb(acc, t)
	}
	if acc == nil {
		return Any
	}
	return acc
}

func (l *Lattice) lub(a, b Type) Type {
	if l.IsSubtype(b, a) {
		return a
	}
	if l.IsSubtype(a, b) {
		return b
	}
	switch ta := a.(type) {
	case TCon:
		if tb, ok := b.(TCon); ok {
			return l.namedLub(ta.Name, tb.Name)
		}
		if tb, ok := b.(TApp); ok {
			return l.namedLub(ta.Name, tb.Constructor.Name)
		}
	case TApp:
		if tb, ok := b.(TApp); ok {
			return l.namedLub(ta.Constructor.Name, tb.Constructor.Name)
		}
		if tb, ok := b.(TCon); ok {
			return l.namedLub(ta.Constructor.Name, tb.Name)
		}
	case TFunc:
		if tb, ok := b.(TFunc); ok && sameShape(ta, tb) {
			f := TFunc{Reflect: ta.Reflect && tb.Reflect}
			if ta.Receiver != nil {
				f.Receiver = l.glb(ta.Receiver, tb.Receiver)
			}
			f.Params = make([]Type, len(ta.Params))
			for i := range ta.Params {
				f.Params[i] = l.glb(ta.Params[i], tb.Params[i])
			}
			f.ReturnType = l.lub(ta.ReturnType, tb.ReturnType)
			return f
		}
	}
	return Any
}

// namedLub walks a's supertypes breadth-first and returns the first one that
// is also a supertype of b. Comparing a raw generic constructor drops its
// arguments.
func (l *Lattice) namedLub(a, b string) Type {
	if a == b {
		return TCon{Name: a}
	}
	for _, super := range l.Supertypes(a) {
		if l.isNamedSubtype(b, super) {
			return TCon{Name: super}
		}
	}
	return Any
}

func (l *Lattice) glb(a, b Type) Type {
	if l.IsSubtype(a, b) {
		return a
	}
	if l.IsSubtype(b, a) {
		return b
	}
	if ta, ok := a.(TFunc); ok {
		if tb, ok := b.(TFunc); ok && sameShape(ta, tb) {
			f := TFunc{Reflect: ta.Reflect || tb.Reflect}
			if ta.Receiver != nil {
				f.Receiver = l.lub(ta.Receiver, tb.Receiver)
			}
			f.Params = make([]Type, len(ta.Params))
			for i := range ta.Params {
				f.Params[i] = l.lub(ta.Params[i], tb.Params[i])
			}
			f.ReturnType = l.glb(ta.ReturnType, tb.ReturnType)
			return f
		}
	}
	return Nothing
}
