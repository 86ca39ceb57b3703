package inference

import (
	"github.com/funvibe/callinfer/internal/typesystem"
)

// VariableOrigin tells where a type variable came from.
type VariableOrigin int

const (
	// OriginTypeParameter is a fresh variable for a declared type parameter of a callee.
	OriginTypeParameter VariableOrigin = iota
	// OriginLambdaReturn stands for the return type of a lambda whose expected
	// type was a type variable.
	OriginLambdaReturn
	// OriginCallableReferenceReturn is the callable reference counterpart of OriginLambdaReturn.
	OriginCallableReferenceReturn
	// OriginStub is the placeholder variable of an error stub atom.
	OriginStub
	OriginSynthetic
)

var originNames = map[VariableOrigin]string{
	OriginTypeParameter:           "type-parameter",
	OriginLambdaReturn:            "lambda-return",
	OriginCallableReferenceReturn: "callable-reference-return",
	OriginStub:                    "stub",
	OriginSynthetic:               "synthetic",
}

func (o VariableOrigin) String() string {
	if name, ok := originNames[o]; ok {
		return name
	}
	return "unknown"
}

// ParseOrigin maps an origin name back to its value.
func ParseOrigin(name string) (VariableOrigin, bool) {
	for o, n := range originNames {
		if n == name {
			return o, true
		}
	}
	return 0, false
}

// TypeVariable is a placeholder for a type that is not known yet. Its TVar is
// its identity.
type TypeVariable struct {
	tvar   typesystem.TVar
	Origin VariableOrigin
	// Parameter is the declared type parameter name for OriginTypeParameter.
	Parameter string
}

func NewTypeVariable(name string, origin VariableOrigin) *TypeVariable {
	return &TypeVariable{tvar: typesystem.TVar{Name: name}, Origin: origin}
}

// NewTypeParameterVariable creates a fresh variable for the type parameter param.
func NewTypeParameterVariable(name, param string) *TypeVariable {
	v := NewTypeVariable(name, OriginTypeParameter)
	v.Parameter = param
	return v
}

// DefaultType is the type that stands for the variable inside other types.
func (v *TypeVariable) DefaultType() typesystem.TVar {
	return v.tvar
}

func (v *TypeVariable) Name() string {
	return v.tvar.Name
}

func (v *TypeVariable) String() string {
	return v.tvar.String()
}
