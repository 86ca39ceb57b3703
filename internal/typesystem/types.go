package typesystem

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/funvibe/callinfer/internal/config"
)

// Type is the interface for all types seen by call completion.
type Type interface {
	String() string
	Apply(Subst) Type
	FreeTypeVariables() []TVar
}

// TVar is the type of a type variable. Its name is the variable's identity,
// so names are unique within one constraint system.
type TVar struct {
	Name string
}

func (t TVar) String() string {
	// Synthetic variables (_R3, _Q12) print without their counter in tests
	// so expectations stay stable.
	if config.IsTestMode && strings.HasPrefix(t.Name, "_") {
		i := len(t.Name)
		for i > 1 && t.Name[i-1] >= '0' && t.Name[i-1] <= '9' {
			i--
		}
		if i < len(t.Name) {
			if _, err := strconv.Atoi(t.Name[i:]); err == nil {
				return t.Name[:i] + "?"
			}
		}
	}
	return t.Name
}

func (t TVar) Apply(s Subst) Type {
	return ApplyWithCycleCheck(t, s, make(map[string]bool))
}

func (t TVar) FreeTypeVariables() []TVar {
	return []TVar{t}
}

// ApplyWithCycleCheck applies substitution with cycle detection.
func ApplyWithCycleCheck(t Type, s Subst, visited map[string]bool) Type {
	if t == nil {
		return nil
	}

	switch typ := t.(type) {
	case TVar:
		if visited[typ.Name] {
			return typ
		}
		if replacement, ok := s[typ.Name]; ok {
			if tv, ok := replacement.(TVar); ok && tv.Name == typ.Name {
				return typ
			}
			newVisited := copyVisited(visited)
			newVisited[typ.Name] = true
			return ApplyWithCycleCheck(replacement, s, newVisited)
		}
		return typ

	case TApp:
		newArgs := make([]Type, len(typ.Args))
		for i, arg := range typ.Args {
			newArgs[i] = ApplyWithCycleCheck(arg, s, visited)
		}
		return TApp{Constructor: typ.Constructor, Args: newArgs}

	case TFunc:
		var receiver Type
		if typ.Receiver != nil {
			receiver = ApplyWithCycleCheck(typ.Receiver, s, visited)
		}
		newParams := make([]Type, len(typ.Params))
		for i, p := range typ.Params {
			newParams[i] = ApplyWithCycleCheck(p, s, visited)
		}
		return TFunc{
			Receiver:   receiver,
			Params:     newParams,
			ReturnType: ApplyWithCycleCheck(typ.ReturnType, s, visited),
			Reflect:    typ.Reflect,
		}

	default:
		// TCon and TError have no variables
		return t
	}
}

func copyVisited(m map[string]bool) map[string]bool {
	newMap := make(map[string]bool, len(m))
	for k, v := range m {
		newMap[k] = v
	}
	return newMap
}

// TCon represents a named type (e.g. Int, String, List).
type TCon struct {
	Name string
}

func (t TCon) String() string { return t.Name }

func (t TCon) Apply(s Subst) Type { return t }

func (t TCon) FreeTypeVariables() []TVar { return []TVar{} }

// Nothing is the bottom of the lattice.
var Nothing = TCon{Name: config.NothingTypeName}

// Any is the top of the lattice.
var Any = TCon{Name: config.AnyTypeName}

// TApp represents a generic type application (e.g. List<Int>).
// Arguments are invariant.
type TApp struct {
	Constructor TCon
	Args        []Type
}

func (t TApp) String() string {
	if len(t.Args) == 0 {
		return t.Constructor.String()
	}
	args := make([]string, len(t.Args))
	for i, arg := range t.Args {
		args[i] = arg.String()
	}
	return fmt.Sprintf("%s<%s>", t.Constructor.String(), strings.Join(args, ", "))
}

func (t TApp) Apply(s Subst) Type {
	return ApplyWithCycleCheck(t, s, make(map[string]bool))
}

func (t TApp) FreeTypeVariables() []TVar {
	vars := []TVar{}
	for _, arg := range t.Args {
		vars = append(vars, arg.FreeTypeVariables()...)
	}
	return uniqueTVars(vars)
}

// TFunc represents a function type (e.g. (Int, Int) -> Bool).
// A non-nil Receiver makes it an extension function type (Int.() -> Bool).
// Reflect marks the reflective function types produced by callable references;
// they are subtypes of the plain function type of the same shape.
type TFunc struct {
	Receiver   Type
	Params     []Type
	ReturnType Type
	Reflect    bool
}

func (t TFunc) String() string {
	params := make([]string, len(t.Params))
	for i, p := range t.Params {
		params[i] = p.String()
	}
	prefix := ""
	if t.Reflect {
		prefix = config.ReflectFunctionTypeName
	}
	if t.Receiver != nil {
		prefix = t.Receiver.String() + "." + prefix
	}
	return fmt.Sprintf("%s(%s) -> %s", prefix, strings.Join(params, ", "), t.ReturnType.String())
}

func (t TFunc) Apply(s Subst) Type {
	return ApplyWithCycleCheck(t, s, make(map[string]bool))
}

func (t TFunc) FreeTypeVariables() []TVar {
	vars := []TVar{}
	if t.Receiver != nil {
		vars = append(vars, t.Receiver.FreeTypeVariables()...)
	}
	for _, p := range t.Params {
		vars = append(vars, p.FreeTypeVariables()...)
	}
	vars = append(vars, t.ReturnType.FreeTypeVariables()...)
	return uniqueTVars(vars)
}

// IsExtension reports whether the function type has a receiver.
func (t TFunc) IsExtension() bool { return t.Receiver != nil }

// TError is the result of a variable that could not be inferred.
// It is compatible with every type so later phases can continue.
type TError struct {
	// Parameter is the declared type parameter the variable was created for, if any.
	Parameter string
	Message   string
}

func (t TError) String() string {
	if t.Parameter != "" {
		return fmt.Sprintf("[Error: uninferred type parameter %s]", t.Parameter)
	}
	return fmt.Sprintf("[Error: %s]", t.Message)
}

func (t TError) Apply(s Subst) Type { return t }

func (t TError) FreeTypeVariables() []TVar { return []TVar{} }

// Subst is a mapping from type variable names to types.
type Subst map[string]Type

func uniqueTVars(vars []TVar) []TVar {
	unique := []TVar{}
	seen := map[string]bool{}
	for _, v := range vars {
		if !seen[v.Name] {
			seen[v.Name] = true
			unique = append(unique, v)
		}
	}
	return unique
}
