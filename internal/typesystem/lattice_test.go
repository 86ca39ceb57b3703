package typesystem

import "testing"

func TestIsSubtype(t *testing.T) {
	l := NewLattice(nil)
	listInt := TApp{Constructor: listCon, Args: []Type{intType}}
	listNumber := TApp{Constructor: listCon, Args: []Type{numberType}}
	fnNumberToInt := TFunc{Params: []Type{numberType}, ReturnType: intType}
	fnIntToNumber := TFunc{Params: []Type{intType}, ReturnType: numberType}

	tests := []struct {
		name       string
		sub, super Type
		want       bool
	}{
		{"reflexive", intType, intType, true},
		{"named", intType, numberType, true},
		{"named reverse", numberType, intType, false},
		{"transitive to Any", intType, Any, true},
		{"Nothing bottom", Nothing, stringType, true},
		{"unrelated", intType, stringType, false},
		{"invariant args", listInt, listNumber, false},
		{"raw supertype", listInt, TCon{Name: "Collection"}, true},
		{"function variance", fnNumberToInt, fnIntToNumber, true},
		{"function variance reverse", fnIntToNumber, fnNumberToInt, false},
		{"reflect is subtype of plain", TFunc{Params: []Type{intType}, ReturnType: intType, Reflect: true}, TFunc{Params: []Type{intType}, ReturnType: intType}, true},
		{"plain is not reflect", TFunc{Params: []Type{intType}, ReturnType: intType}, TFunc{Params: []Type{intType}, ReturnType: intType, Reflect: true}, false},
		{"arity mismatch", TFunc{ReturnType: intType}, fnIntToNumber, false},
		{"error compatible", TError{Message: "x"}, intType, true},
		{"variables only equal", TVar{Name: "X"}, TVar{Name: "Y"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := l.IsSubtype(tt.sub, tt.super); got != tt.want {
				t.Errorf("IsSubtype(%s, %s) = %v, want %v", tt.sub, tt.super, got, tt.want)
			}
		})
	}
}

func TestCommonSupertype(t *testing.T) {
	l := NewLattice(nil)
	tests := []struct {
		name  string
		types []Type
		want  Type
	}{
		{"empty is Nothing", nil, Nothing},
		{"single", []Type{intType}, intType},
		{"ignores Nothing", []Type{Nothing, intType}, intType},
		{"shared supertype", []Type{intType, TCon{Name: "Double"}}, numberType},
		{"Int and String", []Type{intType, stringType}, TCon{Name: "Comparable"}},
		{"no common named", []Type{intType, TCon{Name: "Unit"}}, Any},
		{"function lub", []Type{
			TFunc{Params: []Type{intType}, ReturnType: intType},
			TFunc{Params: []Type{numberType}, ReturnType: TCon{Name: "Double"}},
		}, TFunc{Params: []Type{intType}, ReturnType: numberType}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := l.CommonSupertype(tt.types); !Equal(got, tt.want) {
				t.Errorf("CommonSupertype = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestIntersect(t *testing.T) {
	l := NewLattice(nil)
	if got := l.Intersect(nil); !Equal(got, Any) {
		t.Errorf("Intersect(nil) = %s, want Any", got)
	}
	if got := l.Intersect([]Type{numberType, intType}); !Equal(got, intType) {
		t.Errorf("Intersect(Number, Int) = %s, want Int", got)
	}
	if got := l.Intersect([]Type{intType, stringType}); !Equal(got, Nothing) {
		t.Errorf("Intersect(Int, String) = %s, want Nothing", got)
	}
	if got := l.Intersect([]Type{Any, stringType}); !Equal(got, stringType) {
		t.Errorf("Intersect(Any, String) = %s, want String", got)
	}
}

func TestCustomHierarchy(t *testing.T) {
	l := NewLattice(Hierarchy{"Cat": {"Animal"}, "Dog": {"Animal"}})
	if got := l.CommonSupertype([]Type{TCon{Name: "Cat"}, TCon{Name: "Dog"}}); !Equal(got, TCon{Name: "Animal"}) {
		t.Errorf("CommonSupertype(Cat, Dog) = %s, want Animal", got)
	}
	if l.IsSubtype(intType, numberType) {
		t.Errorf("custom hierarchy should not include defaults")
	}
}
