package inference

import "fmt"

// CompletionMode selects how much of the system a completion pass resolves.
type CompletionMode int

const (
	// Full resolves everything and reports what cannot be inferred.
	Full CompletionMode = iota
	// Partial resolves only what is ready and leaves the rest for a later pass.
	Partial
)

func (m CompletionMode) String() string {
	if m == Partial {
		return "partial"
	}
	return "full"
}

// ParseCompletionMode accepts "full" and "partial".
func ParseCompletionMode(s string) (CompletionMode, error) {
	switch s {
	case "full", "FULL":
		return Full, nil
	case "partial", "PARTIAL":
		return Partial, nil
	}
	return Full, fmt.Errorf("unknown completion mode %q", s)
}

// ResolveDirection hints which bound the result type resolver should prefer.
type ResolveDirection int

const (
	Unknown ResolveDirection = iota
	ToSubtype
	ToSupertype
)

func (d ResolveDirection) String() string {
	switch d {
	case ToSubtype:
		return "TO_SUBTYPE"
	case ToSupertype:
		return "TO_SUPERTYPE"
	}
	return "UNKNOWN"
}
