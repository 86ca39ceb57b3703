package typesystem

// Equal reports structural equality of two types.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch ta := a.(type) {
	case TVar:
		tb, ok := b.(TVar)
		return ok && ta.Name == tb.Name
	case TCon:
		tb, ok := b.(TCon)
		return ok && ta.Name == tb.Name
	case TApp:
		tb, ok := b.(TApp)
		if !ok || ta.Constructor.Name != tb.Constructor.Name || len(ta.Args) != len(tb.Args) {
			return false
		}
		for i := range ta.Args {
			if !Equal(ta.Args[i], tb.Args[i]) {
				return false
			}
		}
		return true
	case TFunc:
		tb, ok := b.(TFunc)
		if !ok || ta.Reflect != tb.Reflect || len(ta.Params) != len(tb.Params) {
			return false
		}
		if !Equal(ta.Receiver, tb.Receiver) || !Equal(ta.ReturnType, tb.ReturnType) {
			return false
		}
		for i := range ta.Params {
			if !Equal(ta.Params[i], tb.Params[i]) {
				return false
			}
		}
		return true
	case TError:
		_, ok := b.(TError)
		return ok
	}
	return false
}

// Arguments returns the type arguments of t in declaration order. For a
// function type these are the receiver (if any), the parameters and the
// return type last.
func Arguments(t Type) []Type {
	switch typ := t.(type) {
	case TApp:
		return typ.Args
	case TFunc:
		args := make([]Type, 0, len(typ.Params)+2)
		if typ.Receiver != nil {
			args = append(args, typ.Receiver)
		}
		args = append(args, typ.Params...)
		return append(args, typ.ReturnType)
	}
	return nil
}

// ParameterTypes returns the function type's arguments without its return type.
func ParameterTypes(f TFunc) []Type {
	args := Arguments(f)
	return args[:len(args)-1]
}

// ReplaceReturnType returns a copy of f whose return type is ret.
func ReplaceReturnType(f TFunc, ret Type) TFunc {
	params := make([]Type, len(f.Params))
	copy(params, f.Params)
	return TFunc{
		Receiver:   f.Receiver,
		Params:     params,
		ReturnType: ret,
		Reflect:    f.Reflect,
	}
}

// ContainsVariable reports whether v occurs anywhere in t.
func ContainsVariable(t Type, v TVar) bool {
	if t == nil {
		return false
	}
	for _, fv := range t.FreeTypeVariables() {
		if fv.Name == v.Name {
			return true
		}
	}
	return false
}
