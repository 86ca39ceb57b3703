package logging

import (
	"errors"
	"testing"

	"github.com/funvibe/callinfer/internal/diagnostics"
	"github.com/pterm/pterm"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]int{
		"silent":  LogLevelSilent,
		"error":   LogLevelError,
		"warning": LogLevelWarning,
		"warn":    LogLevelWarning,
		"verbose": LogLevelVerbose,
		"bogus":   LogLevelVerbose,
	}
	for name, want := range tests {
		if got := ParseLevel(name); got != want {
			t.Errorf("ParseLevel(%q) = %d, want %d", name, got, want)
		}
	}
}

func TestSilentLoggerStillCounts(t *testing.T) {
	pterm.DisableColor()
	Initialize("silent")
	defer Initialize("warning")

	if Enabled(LogLevelError) {
		t.Errorf("silent logger must not display errors")
	}
	LogError("Load Error", errors.New("boom"))
	LogWarning("Scenario", "odd")
	LogDiagnostic(diagnostics.NewWarning(diagnostics.ErrC003, nil, "shape"))
	LogInfo("Run", "ignored")

	errs, warns := Counts()
	if errs != 1 || warns != 2 {
		t.Errorf("Counts() = %d, %d; want 1, 2", errs, warns)
	}
	if ShouldProceed() {
		t.Errorf("ShouldProceed must be false after an error")
	}
}

func TestVerboseEnablesTrace(t *testing.T) {
	Initialize("verbose")
	defer Initialize("warning")
	if !Enabled(LogLevelVerbose) || !Enabled(LogLevelWarning) {
		t.Errorf("verbose logger must enable every level")
	}
}
