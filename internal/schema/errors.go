package schema

import (
	"errors"
	"fmt"
)

var (
	// Declaration errors
	ErrDuplicateDecl    = errors.New("duplicate declaration")
	ErrDuplicateEnumKey = errors.New("duplicate enum key")
	ErrDuplicateField   = errors.New("duplicate field")
	ErrMalformedField   = errors.New("malformed field")

	// Resolution errors
	ErrUnresolvedType = errors.New("unresolved type reference")
	ErrInvalidDefault = errors.New("invalid default value")

	// Source errors
	ErrInvalidSource = errors.New("invalid source")
)

// ExtractionError reports a malformed or unresolvable declaration.
// It aborts the whole generation run.
type ExtractionError struct {
	Kind error  `json:"-"`
	Decl string `json:"decl"`
	Line int    `json:"line"`
	Msg  string `json:"message"`
}

func newExtractionError(kind error, decl string, line int, format string, args ...any) *ExtractionError {
	return &ExtractionError{
		Kind: kind,
		Decl: decl,
		Line: line,
		Msg:  fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface
func (e *ExtractionError) Error() string {
	loc := e.Decl
	if e.Line > 0 {
		loc = fmt.Sprintf("%s (line %d)", e.Decl, e.Line)
	}
	if loc == "" {
		return fmt.Sprintf("extraction: %v: %s", e.Kind, e.Msg)
	}
	return fmt.Sprintf("extraction: %s: %v: %s", loc, e.Kind, e.Msg)
}

// Unwrap exposes the error kind to errors.Is
func (e *ExtractionError) Unwrap() error {
	return e.Kind
}
