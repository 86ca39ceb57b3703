package completer

import (
	"fmt"
	"strings"

	"github.com/funvibe/callinfer/internal/typesystem"
)

// InvariantError reports a broken internal contract: a bug in the caller or
// in a collaborator, never a problem in the user's code.
type InvariantError struct {
	Message string
	// Variables involved in the violation, if any.
	Variables []typesystem.TVar
}

func (e *InvariantError) Error() string {
	if len(e.Variables) == 0 {
		return "completion invariant violated: " + e.Message
	}
	names := make([]string, len(e.Variables))
	for i, v := range e.Variables {
		names[i] = v.String()
	}
	return fmt.Sprintf("completion invariant violated: %s: %s", e.Message, strings.Join(names, ", "))
}
