package typesystem

import (
	"testing"

	"github.com/funvibe/callinfer/internal/config"
)

var (
	intType    = TCon{Name: "Int"}
	stringType = TCon{Name: "String"}
	numberType = TCon{Name: "Number"}
	listCon    = TCon{Name: "List"}
)

func TestTypeStrings(t *testing.T) {
	tests := []struct {
		typ  Type
		want string
	}{
		{intType, "Int"},
		{TVar{Name: "T"}, "T"},
		{TApp{Constructor: listCon, Args: []Type{intType}}, "List<Int>"},
		{TFunc{Params: []Type{intType, stringType}, ReturnType: TVar{Name: "R"}}, "(Int, String) -> R"},
		{TFunc{Receiver: intType, ReturnType: stringType}, "Int.() -> String"},
		{TFunc{Params: []Type{intType}, ReturnType: intType, Reflect: true}, "KFunction(Int) -> Int"},
		{TError{Parameter: "T"}, "[Error: uninferred type parameter T]"},
		{TError{Message: "cannot infer type variable X"}, "[Error: cannot infer type variable X]"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestSyntheticVariableNamesInTestMode(t *testing.T) {
	config.IsTestMode = true
	defer func() { config.IsTestMode = false }()

	if got := (TVar{Name: "_R12"}).String(); got != "_R?" {
		t.Errorf("got %q, want _R?", got)
	}
	if got := (TVar{Name: "_R"}).String(); got != "_R" {
		t.Errorf("got %q, want _R", got)
	}
	if got := (TVar{Name: "T1"}).String(); got != "T1" {
		t.Errorf("got %q, want T1", got)
	}
}

func TestApplySubstitution(t *testing.T) {
	x := TVar{Name: "X"}
	y := TVar{Name: "Y"}
	fn := TFunc{Receiver: x, Params: []Type{TApp{Constructor: listCon, Args: []Type{y}}}, ReturnType: y}

	got := fn.Apply(Subst{"X": intType, "Y": stringType})
	want := TFunc{Receiver: intType, Params: []Type{TApp{Constructor: listCon, Args: []Type{stringType}}}, ReturnType: stringType}
	if !Equal(got, want) {
		t.Errorf("Apply = %s, want %s", got, want)
	}

	// Chained and cyclic substitutions terminate.
	cyclic := Subst{"X": y, "Y": x}
	if res := x.Apply(cyclic); res == nil {
		t.Errorf("cyclic substitution returned nil")
	}
	chained := Subst{"X": y, "Y": intType}
	if res := x.Apply(chained); !Equal(res, intType) {
		t.Errorf("chained substitution = %s, want Int", res)
	}
}

func TestFreeTypeVariablesAreUnique(t *testing.T) {
	x := TVar{Name: "X"}
	fn := TFunc{Params: []Type{x, TApp{Constructor: listCon, Args: []Type{x}}}, ReturnType: TVar{Name: "R"}}
	vars := fn.FreeTypeVariables()
	if len(vars) != 2 || vars[0].Name != "X" || vars[1].Name != "R" {
		t.Errorf("FreeTypeVariables = %v, want [X R]", vars)
	}
	if !ContainsVariable(fn, TVar{Name: "R"}) || ContainsVariable(fn, TVar{Name: "Z"}) {
		t.Errorf("ContainsVariable mismatch")
	}
}

func TestArgumentsAndReturnReplacement(t *testing.T) {
	ext := TFunc{Receiver: stringType, Params: []Type{intType}, ReturnType: TVar{Name: "R"}}
	args := Arguments(ext)
	if len(args) != 3 || !Equal(args[0], stringType) || !Equal(args[2], TVar{Name: "R"}) {
		t.Errorf("Arguments = %v", args)
	}
	if params := ParameterTypes(ext); len(params) != 2 {
		t.Errorf("ParameterTypes = %v, want 2 entries", params)
	}

	replaced := ReplaceReturnType(ext, intType)
	if !Equal(replaced.ReturnType, intType) || !Equal(replaced.Receiver, stringType) {
		t.Errorf("ReplaceReturnType = %s", replaced)
	}
	if !Equal(ext.ReturnType, TVar{Name: "R"}) {
		t.Errorf("ReplaceReturnType mutated its input")
	}
	if Arguments(intType) != nil {
		t.Errorf("named type has no arguments")
	}
}
