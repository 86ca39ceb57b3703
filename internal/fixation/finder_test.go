package fixation

import (
	"testing"

	"github.com/funvibe/callinfer/internal/atoms"
	"github.com/funvibe/callinfer/internal/inference"
	"github.com/funvibe/callinfer/internal/typesystem"
)

type fakeContext struct {
	order     []typesystem.TVar
	notFixed  map[typesystem.TVar]*inference.VariableWithConstraints
	postponed []*inference.TypeVariable
}

func newFakeContext() *fakeContext {
	return &fakeContext{notFixed: map[typesystem.TVar]*inference.VariableWithConstraints{}}
}

func (f *fakeContext) variable(name string, constraints ...inference.Constraint) typesystem.TVar {
	v := inference.NewTypeVariable(name, inference.OriginTypeParameter)
	vwc := inference.NewVariableWithConstraints(v)
	for _, c := range constraints {
		vwc.AddConstraint(c)
	}
	f.notFixed[v.DefaultType()] = vwc
	f.order = append(f.order, v.DefaultType())
	return v.DefaultType()
}

func (f *fakeContext) NotFixedTypeVariables() map[typesystem.TVar]*inference.VariableWithConstraints {
	return f.notFixed
}

func (f *fakeContext) PostponedTypeVariables() []*inference.TypeVariable { return f.postponed }

func (f *fakeContext) IsProperType(t typesystem.Type) bool {
	for _, v := range t.FreeTypeVariables() {
		if _, ok := f.notFixed[v]; ok {
			return false
		}
	}
	return true
}

var (
	intType    = typesystem.TCon{Name: "Int"}
	stringType = typesystem.TCon{Name: "String"}
	listCon    = typesystem.TCon{Name: "List"}
)

func lower(t typesystem.Type) inference.Constraint {
	return inference.Constraint{Kind: inference.Lower, Type: t, Position: inference.ExpectedTypePosition()}
}

func upper(t typesystem.Type) inference.Constraint {
	return inference.Constraint{Kind: inference.Upper, Type: t, Position: inference.ExpectedTypePosition()}
}

func TestPrefersVariableWithProperConstraint(t *testing.T) {
	c := newFakeContext()
	y := typesystem.TVar{Name: "Y"}
	x := c.variable("X", upper(typesystem.TApp{Constructor: listCon, Args: []typesystem.Type{y}}))
	c.variable("Y", upper(stringType))

	got := New().FindFirstVariableForFixation(c, c.order, nil, inference.Full, nil)
	if got == nil || got.Variable != y || !got.HasProperConstraint {
		t.Fatalf("got %+v, want Y with proper constraint", got)
	}
	if r := New().Readiness(c, x, nil, inference.Full, nil); r != WithoutProperArgumentConstraint {
		t.Errorf("X readiness = %s", r)
	}
}

func TestReadinessTable(t *testing.T) {
	c := newFakeContext()
	r := typesystem.TVar{Name: "R"}
	ready := c.variable("A", lower(intType))
	declared := c.variable("B", inference.Constraint{Kind: inference.Upper, Type: intType, Position: inference.DeclaredUpperBoundPosition()})
	trivial := c.variable("C", lower(typesystem.Nothing), upper(typesystem.Any))
	complexVar := c.variable("D", lower(intType), upper(typesystem.TApp{Constructor: listCon, Args: []typesystem.Type{r}}))
	c.variable("R")
	output := c.variable("E", lower(stringType))
	postponedVar := c.variable("P", lower(intType))
	c.postponed = []*inference.TypeVariable{c.notFixed[postponedVar].Variable}

	lambda := atoms.NewResolvedLambdaAtom(&atoms.LambdaArgument{}, typesystem.TFunc{ReturnType: output}, nil)
	postponed := []atoms.PostponedAtom{lambda}

	tests := []struct {
		v    typesystem.TVar
		want Readiness
	}{
		{ready, ReadyForFixation},
		{declared, WithoutProperArgumentConstraint},
		{trivial, WithoutProperArgumentConstraint},
		{complexVar, WithComplexDependency},
		{output, RelatedToAnyOutputType},
		{postponedVar, Forbidden},
		{typesystem.TVar{Name: "Unknown"}, Forbidden},
	}
	f := New()
	for _, tt := range tests {
		if got := f.Readiness(c, tt.v, postponed, inference.Full, nil); got != tt.want {
			t.Errorf("Readiness(%s) = %s, want %s", tt.v, got, tt.want)
		}
	}

	got := f.FindFirstVariableForFixation(c, []typesystem.TVar{trivial}, postponed, inference.Full, nil)
	if got == nil || got.HasProperConstraint || !got.HasOnlyTrivialProperConstraint {
		t.Errorf("trivial variable reported as %+v", got)
	}
}

func TestPartialModeForbidsTopLevelRelatedVariables(t *testing.T) {
	c := newFakeContext()
	u := typesystem.TVar{Name: "U"}
	t1 := c.variable("T", lower(intType), upper(u))
	c.variable("U")
	other := c.variable("V", lower(stringType))

	f := New()
	if got := f.Readiness(c, t1, nil, inference.Partial, u); got != Forbidden {
		t.Errorf("T related to top-level type: %s", got)
	}
	if got := f.Readiness(c, t1, nil, inference.Full, u); got == Forbidden {
		t.Errorf("FULL mode must not forbid T")
	}
	got := f.FindFirstVariableForFixation(c, []typesystem.TVar{t1, u}, nil, inference.Partial, u)
	if got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
	got = f.FindFirstVariableForFixation(c, c.order, nil, inference.Partial, u)
	if got == nil || got.Variable != other {
		t.Errorf("expected V, got %+v", got)
	}
}

func TestTiesKeepCollectionOrder(t *testing.T) {
	c := newFakeContext()
	c.variable("B", lower(intType))
	a := c.variable("A", lower(intType))
	got := New().FindFirstVariableForFixation(c, []typesystem.TVar{a, {Name: "B"}}, nil, inference.Full, nil)
	if got == nil || got.Variable != a {
		t.Errorf("expected A first, got %+v", got)
	}
	if New().FindFirstVariableForFixation(c, nil, nil, inference.Full, nil) != nil {
		t.Errorf("empty candidate list must return nil")
	}
}
