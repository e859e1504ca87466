package validation

import (
	"fmt"
	"strings"
)

// Issue is one violated field constraint
type Issue struct {
	Path       string `json:"path"`
	Constraint string `json:"constraint"`
	Message    string `json:"message"`
}

func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return fmt.Sprintf("%s: %s", i.Path, i.Message)
}

// ValidationError carries every violated constraint of one value, not just the first
type ValidationError struct {
	Record string  `json:"record"`
	Issues []Issue `json:"issues"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.String()
	}
	return fmt.Sprintf("invalid %s: %s", e.Record, strings.Join(parts, "; "))
}

// Has reports whether a constraint failed on the given path
func (e *ValidationError) Has(path, constraint string) bool {
	for _, issue := range e.Issues {
		if issue.Path == path && issue.Constraint == constraint {
			return true
		}
	}
	return false
}
