package helper

import (
	"errors"
	"strings"
)

// Error wraps an original error with the trace of operations it passed through.
// The outermost operation comes first.
type Error struct {
	Original error
	Trace    []string
}

// NewError wraps original with the given operation name.
// Wrapping an *Error again extends its trace instead of nesting it.
func NewError(trace string, original error) error {
	if original == nil {
		return nil
	}

	var existing *Error
	if errors.As(original, &existing) {
		return &Error{
			Original: existing.Original,
			Trace:    append([]string{trace}, existing.Trace...),
		}
	}

	return &Error{
		Original: original,
		Trace:    []string{trace},
	}
}

func (e *Error) Error() string {
	return strings.Join(e.Trace, ": ") + ": " + e.Original.Error()
}

// Unwrap returns the original error so errors.Is and errors.As see through the trace.
func (e *Error) Unwrap() error {
	return e.Original
}
