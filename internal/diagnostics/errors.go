package diagnostics

import (
	"fmt"
)

// ErrorCode identifies a class of diagnostic.
type ErrorCode string

const (
	// Completion
	ErrC001 ErrorCode = "C001" // not enough information to infer a type variable
	ErrC002 ErrorCode = "C002" // type mismatch between constraint bounds
	ErrC003 ErrorCode = "C003" // unsupported postponed argument shape

	// Scenario files
	ErrS001 ErrorCode = "S001" // malformed scenario document
	ErrS002 ErrorCode = "S002" // unsupported scenario format version
	ErrS003 ErrorCode = "S003" // reference to an undeclared type variable
	ErrS004 ErrorCode = "S004" // unknown atom kind or malformed atom
)

var descriptions = map[ErrorCode]string{
	ErrC001: "not enough information to infer type variable",
	ErrC002: "type mismatch",
	ErrC003: "unsupported postponed argument",
	ErrS001: "malformed scenario",
	ErrS002: "unsupported scenario format",
	ErrS003: "unknown type variable",
	ErrS004: "invalid atom",
}

// Severity of a diagnostic. Warnings do not fail a run.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// Description returns the generic text for a code.
func (c ErrorCode) Description() string {
	if d, ok := descriptions[c]; ok {
		return d
	}
	return "unknown error"
}

// DiagnosticError is a user facing problem found while completing a call.
type DiagnosticError struct {
	Code     ErrorCode
	Severity Severity
	Message  string
	// Subject is the atom or type variable the problem is attributed to.
	Subject fmt.Stringer
	File    string
}

func (e *DiagnosticError) Error() string {
	prefix := string(e.Code)
	if e.File != "" {
		prefix = e.File + ": " + prefix
	}
	if e.Subject != nil {
		return fmt.Sprintf("%s at %s: %s", prefix, e.Subject, e.Message)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

// IsWarning reports whether the diagnostic is only a warning.
func (e *DiagnosticError) IsWarning() bool {
	return e.Severity == SeverityWarning
}

// NewError creates an error diagnostic. Extra args format the message.
func NewError(code ErrorCode, subject fmt.Stringer, format string, args ...interface{}) *DiagnosticError {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	if msg == "" {
		msg = code.Description()
	}
	return &DiagnosticError{Code: code, Message: msg, Subject: subject}
}

// NewWarning creates a warning diagnostic.
func NewWarning(code ErrorCode, subject fmt.Stringer, format string, args ...interface{}) *DiagnosticError {
	d := NewError(code, subject, format, args...)
	d.Severity = SeverityWarning
	return d
}
