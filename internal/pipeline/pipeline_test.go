package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kr/pretty"

	"github.com/funvibe/callinfer/internal/diagnostics"
	"github.com/funvibe/callinfer/internal/inference"
	"github.com/funvibe/callinfer/internal/logging"
	"github.com/funvibe/callinfer/internal/trace"
)

func TestMain(m *testing.M) {
	logging.Initialize("silent")
	os.Exit(m.Run())
}

func newPipeline() *Pipeline {
	return New(&LoadProcessor{}, &CompleteProcessor{}, &ReportProcessor{})
}

const simpleScenario = `
format: "1.0"
variables: [{name: T}]
constraints: [{sub: Int, super: T}]
atoms:
  - kind: call
    name: listOf
    variables: [T]
expect:
  fixed: {T: Int}
  diagnostics: []
`

func TestPipelineCompletesScenario(t *testing.T) {
	rec := &trace.Recorder{}
	ctx := NewPipelineContext([]byte(simpleScenario), "simple.yaml")
	ctx.Tracer = rec

	result := newPipeline().Run(ctx)
	if result.Failed() {
		t.Fatalf("scenario failed: errors %v, problems %v", result.Errors, result.Problems)
	}
	if !result.Completed {
		t.Error("completion did not finish")
	}

	var kinds []trace.Kind
	for _, e := range rec.Events() {
		kinds = append(kinds, e.Kind)
	}
	want := []trace.Kind{trace.RunStarted, trace.VariableFixed, trace.RunFinished}
	if diff := pretty.Diff(kinds, want); len(diff) > 0 {
		t.Errorf("events: %v", diff)
	}
}

func TestPipelineReportsLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    diagnostics.ErrorCode
	}{
		{"unsupported format", "format: \"3.0\"\natoms: [{kind: call}]", diagnostics.ErrS002},
		{"undeclared variable", "format: \"1.0\"\natoms: [{kind: call, variables: [T]}]", diagnostics.ErrS003},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := newPipeline().Run(NewPipelineContext([]byte(tt.content), "broken.yaml"))
			if len(result.Errors) != 1 {
				t.Fatalf("errors = %v, want one", result.Errors)
			}
			var d *diagnostics.DiagnosticError
			if !errors.As(result.Errors[0], &d) {
				t.Fatalf("error %v is not a diagnostic", result.Errors[0])
			}
			if d.Code != tt.code || d.File != "broken.yaml" {
				t.Errorf("got %s in %q, want %s in broken.yaml", d.Code, d.File, tt.code)
			}
			if result.Completed || !result.Failed() {
				t.Error("a scenario that did not load must fail without completing")
			}
		})
	}
}

func TestPipelineReportsUnmetExpectations(t *testing.T) {
	content := `
format: "1.0"
variables: [{name: T}]
constraints: [{sub: Int, super: T}]
atoms: [{kind: call, variables: [T]}]
expect:
  fixed: {T: String}
`
	result := newPipeline().Run(NewPipelineContext([]byte(content), "unmet.yaml"))
	want := []string{"T = Int, want String"}
	if diff := pretty.Diff(result.Problems, want); len(diff) > 0 {
		t.Errorf("problems: %v", diff)
	}
	if !result.Failed() {
		t.Error("unmet expectations must fail the scenario")
	}
}

func TestPipelineAttributesDiagnosticsToFile(t *testing.T) {
	content := `
format: "1.0"
variables: [{name: T}]
atoms: [{kind: call, name: emptyList, variables: [T]}]
`
	result := newPipeline().Run(NewPipelineContext([]byte(content), "open.yaml"))
	if len(result.Diagnostics) != 1 {
		t.Fatalf("diagnostics = %v, want one", result.Diagnostics)
	}
	if d := result.Diagnostics[0]; d.Code != diagnostics.ErrC001 || d.File != "open.yaml" {
		t.Errorf("got %s in %q", d.Code, d.File)
	}
	if !result.Failed() {
		t.Error("an error diagnostic must fail the scenario")
	}
}

func TestPipelineDefaultMode(t *testing.T) {
	content := `
format: "1.0"
variables: [{name: T}]
atoms: [{kind: call, variables: [T]}]
`
	ctx := NewPipelineContext([]byte(content), "partial.yaml")
	ctx.DefaultMode = inference.Partial
	result := newPipeline().Run(ctx)
	if result.Instance == nil || result.Instance.Mode != inference.Partial {
		t.Fatalf("instance mode is not partial")
	}
	if len(result.Diagnostics) != 0 {
		t.Errorf("partial completion reported %v", result.Diagnostics)
	}
}

func TestPipelineCancelled(t *testing.T) {
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	ctx := NewPipelineContext([]byte(simpleScenario), "cancelled.yaml")
	ctx.Context = cancelled
	result := newPipeline().Run(ctx)
	if len(result.Errors) != 1 || !errors.Is(result.Errors[0], context.Canceled) {
		t.Fatalf("errors = %v, want context.Canceled", result.Errors)
	}
	if result.Completed {
		t.Error("a cancelled run must not be marked completed")
	}
}

func TestPipelineRunsTestdata(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("..", "scenario", "testdata", "*.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	for _, file := range files {
		t.Run(filepath.Base(file), func(t *testing.T) {
			content, err := os.ReadFile(file)
			if err != nil {
				t.Fatal(err)
			}
			result := newPipeline().Run(NewPipelineContext(content, file))
			if len(result.Errors) > 0 || len(result.Problems) > 0 {
				t.Errorf("errors %v, problems %v", result.Errors, result.Problems)
			}
		})
	}
}
