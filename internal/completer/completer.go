package completer

import (
	"context"
	"fmt"

	"github.com/funvibe/callinfer/internal/atoms"
	"github.com/funvibe/callinfer/internal/diagnostics"
	"github.com/funvibe/callinfer/internal/inference"
	"github.com/funvibe/callinfer/internal/trace"
	"github.com/funvibe/callinfer/internal/typesystem"
)

// AnalyzeFunc type-checks a postponed argument. It may add variables,
// constraints and sub-atoms; it should mark the atom analyzed through
// SetAnalyzedResults.
type AnalyzeFunc func(atom atoms.PostponedAtom) error

// Option configures a Completer.
type Option func(*Completer)

// WithTracer sends completion events to t.
func WithTracer(t trace.Tracer) Option {
	return func(c *Completer) {
		c.tracer = t
	}
}

// Completer decides the order in which the type variables of a call are fixed
// and its postponed arguments analyzed.
type Completer struct {
	resolver ResultTypeResolver
	finder   VariableFixationFinder
	tracer   trace.Tracer
}

func New(resolver ResultTypeResolver, finder VariableFixationFinder, opts ...Option) *Completer {
	c := &Completer{
		resolver: resolver,
		finder:   finder,
		tracer:   trace.Nop{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RunCompletion runs a completion pass over the atoms of a call.
//
// In FULL mode every variable ends up fixed, to an error type when nothing
// is known about it, and every postponed argument is analyzed. In PARTIAL
// mode only what is ready is done. The returned error is ctx.Err() on
// cancellation, an *InvariantError on a broken contract, or an error from
// analyze.
func (c *Completer) RunCompletion(
	ctx context.Context,
	sys Context,
	mode inference.CompletionMode,
	topLevelAtoms []atoms.ResolvedAtom,
	topLevelType typesystem.Type,
	holder diagnostics.Holder,
	analyze AnalyzeFunc,
) error {
	c.record(trace.RunStarted, mode.String(), describeType(topLevelType))
	err := c.runCompletion(ctx, sys, mode, topLevelAtoms, topLevelType, holder, false, analyze)
	c.finish(sys, err)
	return err
}

// CompleteConstraintSystem completes a self-contained call in FULL mode,
// taking the variables from the context. Such a call must not have postponed
// arguments; analyzing one is an invariant violation.
func (c *Completer) CompleteConstraintSystem(
	ctx context.Context,
	sys Context,
	topLevelType typesystem.Type,
	topLevelAtoms []atoms.ResolvedAtom,
	holder diagnostics.Holder,
) error {
	analyze := func(atom atoms.PostponedAtom) error {
		return &InvariantError{Message: fmt.Sprintf("argument %s must not be analyzed while completing a whole constraint system", atom)}
	}
	c.record(trace.RunStarted, inference.Full.String(), describeType(topLevelType))
	err := c.runCompletion(ctx, sys, inference.Full, topLevelAtoms, topLevelType, holder, true, analyze)
	c.finish(sys, err)
	return err
}

func (c *Completer) runCompletion(
	ctx context.Context,
	sys Context,
	mode inference.CompletionMode,
	topLevelAtoms []atoms.ResolvedAtom,
	topLevelType typesystem.Type,
	holder diagnostics.Holder,
	fromContext bool,
	analyze AnalyzeFunc,
) error {
	if holder == nil {
		holder = diagnostics.NewList()
	}
	postponed := OrderedNotAnalyzedPostponedArguments(topLevelAtoms)
	isFixed := c.fixVariablesInsideFunctionTypeArguments(sys, postponed, topLevelAtoms, mode, topLevelType)

	for _, argument := range postponed {
		if argument.Analyzed() {
			continue
		}
		if !isFixed && mode == inference.Partial && !c.expectedTypeHasProperConstraint(sys, argument, topLevelAtoms, topLevelType) {
			continue
		}
		atom := c.prepareForAnalysis(sys, argument, holder)
		if err := c.analyze(ctx, sys, atom, analyze); err != nil {
			return err
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		vars, err := orderedAllTypeVariables(sys, fromContext, topLevelAtoms)
		if err != nil {
			return err
		}
		candidate := c.finder.FindFirstVariableForFixation(sys, vars, OrderedNotAnalyzedPostponedArguments(topLevelAtoms), mode, topLevelType)
		if candidate == nil {
			break
		}
		if !candidate.HasProperConstraint && mode != inference.Full {
			break
		}
		vwc, ok := sys.NotFixedVariable(candidate.Variable)
		if !ok {
			return &InvariantError{Message: "fixation finder chose a variable that is not in the not-fixed set", Variables: []typesystem.TVar{candidate.Variable}}
		}
		if candidate.HasProperConstraint {
			if !c.fixVariable(sys, vwc, inference.Unknown, topLevelAtoms, mode) {
				break
			}
		} else {
			c.processVariableWhenNotEnoughInformation(sys, vwc, topLevelAtoms, nil)
		}
	}

	if mode != inference.Full {
		return nil
	}

	// force analysis of whatever is left
	analyzed := 0
	for _, argument := range OrderedNotAnalyzedPostponedArguments(topLevelAtoms) {
		if argument.Analyzed() {
			continue
		}
		if err := c.analyze(ctx, sys, argument, analyze); err != nil {
			return err
		}
		analyzed++
	}

	// Analysis may have added variables and constraints. Without any
	// analysis nothing changed and another pass would find nothing new.
	if analyzed > 0 && len(sys.OrderedNotFixedTypeVariables()) > 0 && len(sys.PostponedTypeVariables()) == 0 {
		return c.runCompletion(ctx, sys, mode, topLevelAtoms, topLevelType, holder, fromContext, analyze)
	}
	return nil
}

// expectedTypeHasProperConstraint reports whether the argument's expected
// type is a not-fixed variable that already has a proper constraint.
func (c *Completer) expectedTypeHasProperConstraint(sys Context, argument atoms.PostponedAtom, topLevelAtoms []atoms.ResolvedAtom, topLevelType typesystem.Type) bool {
	tv, ok := argument.ExpectedType().(typesystem.TVar)
	if !ok {
		return false
	}
	if _, notFixed := sys.NotFixedVariable(tv); !notFixed {
		return false
	}
	return c.hasProperConstraint(sys, tv, topLevelAtoms, inference.Full, topLevelType)
}

func (c *Completer) hasProperConstraint(sys Context, v typesystem.TVar, topLevelAtoms []atoms.ResolvedAtom, mode inference.CompletionMode, topLevelType typesystem.Type) bool {
	candidate := c.finder.FindFirstVariableForFixation(sys, []typesystem.TVar{v}, OrderedNotAnalyzedPostponedArguments(topLevelAtoms), mode, topLevelType)
	return candidate != nil && candidate.HasProperConstraint
}

func (c *Completer) analyze(ctx context.Context, sys Context, atom atoms.PostponedAtom, analyze AnalyzeFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	detail := "forced"
	if inputsReady(sys, atom) {
		detail = "ready"
	}
	if err := analyze(atom); err != nil {
		return fmt.Errorf("analyzing %s: %w", atom, err)
	}
	if !atom.Analyzed() {
		atom.SetAnalyzedResults(nil)
	}
	c.record(trace.ArgumentAnalyzed, atom.String(), detail)
	return nil
}

// inputsReady reports whether every input type of atom is free of variables
// that are neither fixed nor postponed.
func inputsReady(sys Context, atom atoms.PostponedAtom) bool {
	for _, t := range atom.InputTypes() {
		if t != nil && !sys.ContainsOnlyFixedOrPostponedVariables(t) {
			return false
		}
	}
	return true
}

func (c *Completer) record(kind trace.Kind, subject, detail string) {
	c.tracer.Record(trace.Event{Kind: kind, Subject: subject, Detail: detail})
}

func (c *Completer) finish(sys Context, err error) {
	detail := fmt.Sprintf("%d not fixed", len(sys.OrderedNotFixedTypeVariables()))
	if err != nil {
		detail = err.Error()
	}
	c.record(trace.RunFinished, "", detail)
}

func describeType(t typesystem.Type) string {
	if t == nil {
		return ""
	}
	return t.String()
}
