package logging

import (
	"fmt"

	"github.com/funvibe/callinfer/internal/diagnostics"
)

// logger is a global reference to a shared Logger
var logger = newLogger(LogLevelWarning)

// Initialize replaces the global logger with one at the given level.
func Initialize(loglevelname string) {
	logger = newLogger(ParseLevel(loglevelname))
}

// Enabled reports whether messages of level are displayed.
func Enabled(level int) bool {
	return logger.enabled(level)
}

// Counts returns the number of errors and warnings logged so far.
func Counts() (errors, warnings int) {
	return logger.counts()
}

// ShouldProceed indicates whether no errors were logged.
func ShouldProceed() bool {
	errs, _ := logger.counts()
	return errs == 0
}

// LogError logs a Go error (bad input, I/O).
func LogError(tag string, err error) {
	logger.handle(LogLevelError, func() { PrintErrorMessage(tag, err) })
}

// LogWarning logs a warning.
func LogWarning(tag, msg string) {
	logger.handle(LogLevelWarning, func() { PrintWarningMessage(tag, msg) })
}

// LogInfo logs a progress message, shown at verbose level.
func LogInfo(tag, msg string) {
	logger.handle(LogLevelVerbose, func() { PrintInfoMessage(tag, msg) })
}

// LogTrace logs a formatted completion trace line, shown at verbose level.
func LogTrace(tag, format string, args ...interface{}) {
	logger.handle(LogLevelVerbose, func() { printTraceMessage(tag, fmt.Sprintf(format, args...)) })
}

// LogDiagnostic logs a completion diagnostic as an error or a warning.
func LogDiagnostic(d *diagnostics.DiagnosticError) {
	if d.IsWarning() {
		logger.handle(LogLevelWarning, func() { displayDiagnostic(d) })
		return
	}
	logger.handle(LogLevelError, func() { displayDiagnostic(d) })
}

// LogSummary prints the closing line of a run.
func LogSummary(label string, errorCount, warningCount int) {
	if logger.enabled(LogLevelError) {
		displayFinished(label, errorCount == 0, errorCount, warningCount)
	}
}
