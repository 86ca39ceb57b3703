package pipeline

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/funvibe/callinfer/internal/completer"
	"github.com/funvibe/callinfer/internal/diagnostics"
	"github.com/funvibe/callinfer/internal/fixation"
	"github.com/funvibe/callinfer/internal/logging"
	"github.com/funvibe/callinfer/internal/resolver"
	"github.com/funvibe/callinfer/internal/scenario"
	"github.com/funvibe/callinfer/internal/trace"
)

// LoadProcessor parses the scenario content and builds its constraint system.
type LoadProcessor struct{}

func (lp *LoadProcessor) Process(ctx *PipelineContext) *PipelineContext {
	s, err := scenario.Parse(ctx.Content, ctx.FilePath)
	if err != nil {
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}
	ctx.Scenario = s

	in, err := s.Build(ctx.DefaultMode)
	if err != nil {
		var d *diagnostics.DiagnosticError
		if errors.As(err, &d) && d.File == "" {
			d.File = ctx.FilePath
		}
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}
	ctx.Instance = in
	return ctx
}

// CompleteProcessor runs the completer over a built scenario.
type CompleteProcessor struct{}

func (cp *CompleteProcessor) Process(ctx *PipelineContext) *PipelineContext {
	in := ctx.Instance
	if in == nil || len(ctx.Errors) > 0 {
		return ctx
	}

	tracer := ctx.Tracer
	if tracer == nil {
		tracer = trace.Nop{}
	}
	c := completer.New(resolver.New(), fixation.New(), completer.WithTracer(tracer))
	holder := diagnostics.NewList()

	var err error
	if in.Scenario.Entry == scenario.EntrySystem {
		err = c.CompleteConstraintSystem(ctx.Context, in.System, in.TopLevelType, in.Atoms, holder)
	} else {
		err = c.RunCompletion(ctx.Context, in.System, in.Mode, in.Atoms, in.TopLevelType, holder, in.Analyze)
	}

	for _, d := range append(in.System.Errors(), holder.Diagnostics()...) {
		if d.File == "" {
			d.File = ctx.FilePath
		}
		ctx.Diagnostics = append(ctx.Diagnostics, d)
	}
	if err != nil {
		ctx.Errors = append(ctx.Errors, fmt.Errorf("completing %s: %w", ctx.FilePath, err))
		return ctx
	}
	ctx.Completed = true
	ctx.Problems = in.Verify(ctx.Diagnostics)
	return ctx
}

// ReportProcessor logs the outcome of a scenario.
type ReportProcessor struct{}

func (rp *ReportProcessor) Process(ctx *PipelineContext) *PipelineContext {
	for _, err := range ctx.Errors {
		var d *diagnostics.DiagnosticError
		if errors.As(err, &d) {
			logging.LogDiagnostic(d)
			continue
		}
		logging.LogError("scenario", err)
	}
	for _, d := range ctx.Diagnostics {
		logging.LogDiagnostic(d)
	}
	if in := ctx.Instance; in != nil && ctx.Completed {
		for _, f := range in.System.FixedVariables() {
			logging.LogInfo("fixed", fmt.Sprintf("%s = %s", f.Variable.Name(), f.Type))
		}
		for _, v := range in.System.OrderedNotFixedTypeVariables() {
			logging.LogInfo("open", v.String())
		}
	}
	for _, problem := range ctx.Problems {
		logging.LogWarning("expect", problem)
	}

	errorCount := len(ctx.Errors) + diagnostics.CountErrors(ctx.Diagnostics) + len(ctx.Problems)
	logging.LogSummary(filepath.Base(ctx.FilePath), errorCount, len(ctx.Diagnostics)-diagnostics.CountErrors(ctx.Diagnostics))
	return ctx
}
