package pipeline

import (
	"context"

	"github.com/funvibe/callinfer/internal/diagnostics"
	"github.com/funvibe/callinfer/internal/inference"
	"github.com/funvibe/callinfer/internal/scenario"
	"github.com/funvibe/callinfer/internal/trace"
)

// PipelineContext carries one scenario through the processing stages.
type PipelineContext struct {
	Context  context.Context
	FilePath string
	Content  []byte

	// DefaultMode applies to scenarios that do not set a mode.
	DefaultMode inference.CompletionMode
	Tracer      trace.Tracer

	Scenario *scenario.Scenario
	Instance *scenario.Instance

	// Completed is set once completion ran to the end.
	Completed bool
	// Diagnostics are the diagnostics of the completion run, in report order.
	Diagnostics []*diagnostics.DiagnosticError
	// Problems are mismatches with the scenario's expect block.
	Problems []string
	// Errors are failures of the stages themselves: unreadable scenarios,
	// invariant violations, cancellation.
	Errors []error
}

// NewPipelineContext creates a context for scenario content read from path.
func NewPipelineContext(content []byte, path string) *PipelineContext {
	return &PipelineContext{
		Context:     context.Background(),
		FilePath:    path,
		Content:     content,
		DefaultMode: inference.Full,
		Tracer:      trace.Nop{},
	}
}

// Failed reports whether the scenario did not complete cleanly: a stage
// failed, an error diagnostic was reported or an expectation did not hold.
func (ctx *PipelineContext) Failed() bool {
	return len(ctx.Errors) > 0 || len(ctx.Problems) > 0 || diagnostics.CountErrors(ctx.Diagnostics) > 0
}

// Processor is one stage of the pipeline.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
		// Stages check what earlier stages produced, so a failed load
		// still reaches the reporter.
	}
	return ctx
}
