package scenario

import (
	"fmt"
	"strings"

	"github.com/funvibe/callinfer/internal/diagnostics"
	"github.com/funvibe/callinfer/internal/typesystem"
)

// ErrorTypeExpectation matches any error type in expect.fixed.
const ErrorTypeExpectation = "error"

// Verify compares the completed instance with the scenario's expect block
// and describes every mismatch. diags are all diagnostics of the run, in
// report order.
func (in *Instance) Verify(diags []*diagnostics.DiagnosticError) []string {
	expect := in.Scenario.Expect
	if expect == nil {
		return nil
	}
	var problems []string

	for name, want := range expect.Fixed {
		v, ok := in.System.Variable(name)
		if !ok {
			problems = append(problems, fmt.Sprintf("expected variable %s does not exist", name))
			continue
		}
		f, ok := in.System.Fixed(v.DefaultType())
		if !ok {
			problems = append(problems, fmt.Sprintf("%s is not fixed, want %s", name, want))
			continue
		}
		if want == ErrorTypeExpectation {
			if _, isError := f.Type.(typesystem.TError); !isError {
				problems = append(problems, fmt.Sprintf("%s = %s, want an error type", name, f.Type))
			}
			continue
		}
		wantType, err := ParseType(want, nil)
		if err != nil {
			problems = append(problems, fmt.Sprintf("expectation for %s: %v", name, err))
			continue
		}
		if !typesystem.Equal(f.Type, wantType) {
			problems = append(problems, fmt.Sprintf("%s = %s, want %s", name, f.Type, wantType))
		}
	}

	for _, name := range expect.NotFixed {
		v, ok := in.System.Variable(name)
		if ok && in.System.IsFixed(v.DefaultType()) {
			problems = append(problems, fmt.Sprintf("%s is fixed, want it left open", name))
		}
	}

	if expect.Diagnostics != nil {
		var codes []string
		for _, d := range diags {
			codes = append(codes, string(d.Code))
		}
		if strings.Join(codes, ",") != strings.Join(expect.Diagnostics, ",") {
			problems = append(problems, fmt.Sprintf("diagnostics [%s], want [%s]", strings.Join(codes, ", "), strings.Join(expect.Diagnostics, ", ")))
		}
	}

	if expect.Analyzed != nil {
		var seen []string
		for _, o := range in.observations {
			seen = append(seen, o.String())
		}
		if strings.Join(seen, "; ") != strings.Join(expect.Analyzed, "; ") {
			problems = append(problems, fmt.Sprintf("analyzed [%s], want [%s]", strings.Join(seen, "; "), strings.Join(expect.Analyzed, "; ")))
		}
	}
	return problems
}
