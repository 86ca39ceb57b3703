package scenario

import (
	"fmt"

	"github.com/funvibe/callinfer/internal/atoms"
	"github.com/funvibe/callinfer/internal/diagnostics"
	"github.com/funvibe/callinfer/internal/inference"
	"github.com/funvibe/callinfer/internal/system"
	"github.com/funvibe/callinfer/internal/typesystem"
)

// Observation is what one analysis saw: the atom and its input and output
// types with fixed variables substituted.
type Observation struct {
	Atom   string
	Inputs []typesystem.Type
	Output typesystem.Type
}

// Instance is a scenario turned into a constraint system and a call tree,
// ready for completion.
type Instance struct {
	Scenario     *Scenario
	System       *system.System
	Atoms        []atoms.ResolvedAtom
	TopLevelType typesystem.Type
	Mode         inference.CompletionMode

	// scripts by syntactic argument, so a prepared atom finds the script of
	// the atom it replaced
	scripts      map[interface{}]*Analysis
	observations []Observation
}

// Build creates the constraint system and the atoms of the scenario.
// defaultMode applies when the scenario does not set a mode.
func (s *Scenario) Build(defaultMode inference.CompletionMode) (*Instance, error) {
	// declared types extend the default hierarchy
	hierarchy := typesystem.DefaultHierarchy()
	for name, supers := range s.Hierarchy {
		hierarchy[name] = supers
	}
	in := &Instance{
		Scenario: s,
		System:   system.New(typesystem.NewLattice(hierarchy)),
		Mode:     defaultMode,
		scripts:  map[interface{}]*Analysis{},
	}
	if s.Mode != "" {
		mode, err := inference.ParseCompletionMode(s.Mode)
		if err != nil {
			return nil, in.errorf(diagnostics.ErrS001, "%v", err)
		}
		in.Mode = mode
	}

	if err := in.declare(s.Variables); err != nil {
		return nil, err
	}
	for _, name := range s.Postponed {
		v, ok := in.System.Variable(name)
		if !ok {
			return nil, in.errorf(diagnostics.ErrS003, "postponed variable %s is not declared", name)
		}
		in.System.PostponeVariable(v)
	}
	if err := in.addConstraints(s.Constraints, nil); err != nil {
		return nil, err
	}
	if s.TopLevelType != "" {
		t, err := in.parseType(s.TopLevelType, nil)
		if err != nil {
			return nil, err
		}
		in.TopLevelType = t
	}
	built, err := in.buildAtoms(s.Atoms)
	if err != nil {
		return nil, err
	}
	in.Atoms = built
	return in, nil
}

// Observations lists the analyses in the order they happened.
func (in *Instance) Observations() []Observation {
	result := make([]Observation, len(in.observations))
	copy(result, in.observations)
	return result
}

// Analyze plays the on_analyze script of the argument behind atom.
func (in *Instance) Analyze(atom atoms.PostponedAtom) error {
	obs := Observation{Atom: atom.String()}
	for _, t := range atom.InputTypes() {
		obs.Inputs = append(obs.Inputs, in.System.Resolve(t))
	}
	if out := atom.OutputType(); out != nil {
		obs.Output = in.System.Resolve(out)
	}
	in.observations = append(in.observations, obs)

	script := in.scripts[argumentOf(atom)]
	if script == nil {
		return nil
	}
	if err := in.declare(script.Variables); err != nil {
		return err
	}
	if script.Candidate != nil {
		candidate, err := in.candidate(script.Candidate)
		if err != nil {
			return err
		}
		switch ref := atom.(type) {
		case *atoms.PostponedCallableReferenceAtom:
			ref.SetCandidate(candidate)
		case *atoms.CallableReferenceWithTypeVariableAsExpectedTypeAtom:
			ref.SetCandidate(candidate)
		default:
			return in.errorf(diagnostics.ErrS004, "%s is not a callable reference and cannot take a candidate", atom)
		}
	}
	if err := in.addConstraints(script.Constraints, atom); err != nil {
		return err
	}
	children, err := in.buildAtoms(script.Atoms)
	if err != nil {
		return err
	}
	atom.SetAnalyzedResults(children)
	return nil
}

func argumentOf(atom atoms.PostponedAtom) interface{} {
	switch a := atom.(type) {
	case *atoms.ResolvedLambdaAtom:
		return a.Lambda
	case *atoms.LambdaWithTypeVariableAsExpectedTypeAtom:
		return a.Lambda
	case *atoms.PostponedCallableReferenceAtom:
		return a.Reference
	case *atoms.CallableReferenceWithTypeVariableAsExpectedTypeAtom:
		return a.Reference
	}
	return nil
}

func (in *Instance) errorf(code diagnostics.ErrorCode, format string, args ...interface{}) *diagnostics.DiagnosticError {
	return scenarioError(code, in.Scenario.File, format, args...)
}

func (in *Instance) declare(vars []Variable) error {
	for _, decl := range vars {
		if decl.Name == "" {
			return in.errorf(diagnostics.ErrS001, "variable without a name")
		}
		if _, taken := in.System.Variable(decl.Name); taken {
			return in.errorf(diagnostics.ErrS001, "variable %s is declared twice", decl.Name)
		}
		origin := inference.OriginTypeParameter
		if decl.Origin != "" {
			o, ok := inference.ParseOrigin(decl.Origin)
			if !ok {
				return in.errorf(diagnostics.ErrS001, "variable %s has unknown origin %q", decl.Name, decl.Origin)
			}
			origin = o
		}
		v := inference.NewTypeVariable(decl.Name, origin)
		if origin == inference.OriginTypeParameter {
			v.Parameter = decl.Parameter
			if v.Parameter == "" {
				v.Parameter = decl.Name
			}
		}
		in.System.RegisterVariable(v)
	}
	return nil
}

func (in *Instance) lookup(name string) (*inference.TypeVariable, error) {
	v, ok := in.System.Variable(name)
	if !ok {
		return nil, in.errorf(diagnostics.ErrS003, "type variable %s is not declared", name)
	}
	return v, nil
}

func (in *Instance) lookupAll(names []string) ([]*inference.TypeVariable, error) {
	var result []*inference.TypeVariable
	for _, name := range names {
		v, err := in.lookup(name)
		if err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	return result, nil
}

// parseType reads a type expression. Inside an analysis, $return is the
// output type of the analyzed atom.
func (in *Instance) parseType(expr string, analyzed atoms.PostponedAtom) (typesystem.Type, error) {
	isVariable := func(name string) bool {
		if name == ReturnPlaceholder {
			return true
		}
		_, ok := in.System.Variable(name)
		return ok
	}
	t, err := ParseType(expr, isVariable)
	if err != nil {
		return nil, in.errorf(diagnostics.ErrS001, "%v", err)
	}
	if !typesystem.ContainsVariable(t, typesystem.TVar{Name: ReturnPlaceholder}) {
		return t, nil
	}
	if analyzed == nil || analyzed.OutputType() == nil {
		return nil, in.errorf(diagnostics.ErrS001, "%s used where there is no return type: %s", ReturnPlaceholder, expr)
	}
	return t.Apply(typesystem.Subst{ReturnPlaceholder: analyzed.OutputType()}), nil
}

func (in *Instance) addConstraints(constraints []Constraint, analyzed atoms.PostponedAtom) error {
	for _, c := range constraints {
		position := inference.SyntheticPosition("scenario")
		if analyzed != nil {
			position = inference.ArgumentPosition(analyzed)
		}
		if c.Declared {
			position = inference.DeclaredUpperBoundPosition()
		}

		switch {
		case len(c.Equal) == 2 && c.Sub == "" && c.Super == "":
			a, err := in.parseType(c.Equal[0], analyzed)
			if err != nil {
				return err
			}
			b, err := in.parseType(c.Equal[1], analyzed)
			if err != nil {
				return err
			}
			in.System.AddEqualityConstraint(a, b, position)
		case c.Sub != "" && c.Super != "" && len(c.Equal) == 0:
			sub, err := in.parseType(c.Sub, analyzed)
			if err != nil {
				return err
			}
			super, err := in.parseType(c.Super, analyzed)
			if err != nil {
				return err
			}
			in.System.AddSubtypeConstraint(sub, super, position)
		default:
			return in.errorf(diagnostics.ErrS001, "constraint needs either sub and super or two equal types")
		}
	}
	return nil
}

func (in *Instance) candidate(c *Candidate) (*atoms.Candidate, error) {
	vars, err := in.lookupAll(c.Variables)
	if err != nil {
		return nil, err
	}
	return &atoms.Candidate{Name: c.Name, FreshVariables: vars}, nil
}

func (in *Instance) buildAtoms(specs []Atom) ([]atoms.ResolvedAtom, error) {
	var result []atoms.ResolvedAtom
	for i := range specs {
		atom, err := in.buildAtom(&specs[i])
		if err != nil {
			return nil, err
		}
		result = append(result, atom)
	}
	return result, nil
}

func (in *Instance) buildAtom(spec *Atom) (atoms.ResolvedAtom, error) {
	switch spec.Kind {
	case KindCall:
		vars, err := in.lookupAll(spec.Variables)
		if err != nil {
			return nil, err
		}
		children, err := in.buildAtoms(spec.Children)
		if err != nil {
			return nil, err
		}
		return atoms.NewResolvedCallAtom(spec.Name, vars, children...), nil
	case KindLambda:
		return in.buildLambda(spec)
	case KindReference:
		if err := in.noChildren(spec); err != nil {
			return nil, err
		}
		expected, err := in.expectedType(spec)
		if err != nil {
			return nil, err
		}
		ref := &atoms.CallableReferenceArgument{Name: spec.Name}
		atom := atoms.NewPostponedCallableReferenceAtom(ref, expected)
		if spec.Candidate != nil {
			candidate, err := in.candidate(spec.Candidate)
			if err != nil {
				return nil, err
			}
			atom.SetCandidate(candidate)
		}
		if spec.OnAnalyze != nil {
			in.scripts[ref] = spec.OnAnalyze
		}
		return atom, nil
	case KindEagerReference:
		if err := in.noChildren(spec); err != nil {
			return nil, err
		}
		var candidate *atoms.Candidate
		if spec.Candidate != nil {
			c, err := in.candidate(spec.Candidate)
			if err != nil {
				return nil, err
			}
			candidate = c
		}
		return atoms.NewEagerCallableReferenceAtom(&atoms.CallableReferenceArgument{Name: spec.Name}, candidate), nil
	case KindStub:
		if len(spec.Variables) != 1 {
			return nil, in.errorf(diagnostics.ErrS004, "stub atom needs exactly one variable, got %d", len(spec.Variables))
		}
		v, err := in.lookup(spec.Variables[0])
		if err != nil {
			return nil, err
		}
		return atoms.NewStubResolvedAtom(v), nil
	}
	return nil, in.errorf(diagnostics.ErrS004, "unknown atom kind %q", spec.Kind)
}

func (in *Instance) noChildren(spec *Atom) error {
	if len(spec.Children) > 0 {
		return in.errorf(diagnostics.ErrS004, "%s %s cannot have children before it is analyzed; use on_analyze", spec.Kind, spec.Name)
	}
	return nil
}

func (in *Instance) expectedType(spec *Atom) (typesystem.Type, error) {
	if spec.Expected == "" {
		return nil, in.errorf(diagnostics.ErrS004, "%s %s needs an expected type", spec.Kind, spec.Name)
	}
	return in.parseType(spec.Expected, nil)
}

func (in *Instance) buildLambda(spec *Atom) (atoms.ResolvedAtom, error) {
	if err := in.noChildren(spec); err != nil {
		return nil, err
	}
	lambda := &atoms.LambdaArgument{Name: spec.Name}
	for _, p := range spec.Parameters {
		if p == UndeclaredParameter {
			lambda.Parameters = append(lambda.Parameters, nil)
			continue
		}
		t, err := in.parseType(p, nil)
		if err != nil {
			return nil, err
		}
		lambda.Parameters = append(lambda.Parameters, t)
	}
	if spec.Receiver != "" {
		t, err := in.parseType(spec.Receiver, nil)
		if err != nil {
			return nil, err
		}
		lambda.Receiver = t
	}
	if spec.OnAnalyze != nil {
		in.scripts[lambda] = spec.OnAnalyze
	}

	expected, err := in.expectedType(spec)
	if err != nil {
		return nil, err
	}
	switch t := expected.(type) {
	case typesystem.TFunc:
		var ret *inference.TypeVariable
		if spec.Return != "" {
			if ret, err = in.lookup(spec.Return); err != nil {
				return nil, err
			}
		}
		return atoms.NewResolvedLambdaAtom(lambda, t, ret), nil
	case typesystem.TVar:
		if spec.Return != "" {
			return nil, in.errorf(diagnostics.ErrS004, "lambda %s: return variable needs a function expected type", spec.Name)
		}
		return atoms.NewLambdaWithTypeVariableAsExpectedTypeAtom(lambda, t), nil
	}
	return nil, in.errorf(diagnostics.ErrS004, "lambda %s: expected type %s is neither a function type nor a type variable", spec.Name, expected)
}

// String renders an observation as "atom (inputs) -> output".
func (o Observation) String() string {
	s := o.Atom + " ("
	for i, t := range o.Inputs {
		if i > 0 {
			s += ", "
		}
		s += t.String()
	}
	s += ")"
	if o.Output != nil {
		s += fmt.Sprintf(" -> %s", o.Output)
	}
	return s
}
