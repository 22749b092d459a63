package schema

import (
	"errors"
	"fmt"
)

// Sentinel errors for schema translation and parsing.
var (
	ErrEncoding = errors.New("schema encoding failed")
	ErrMismatch = errors.New("schema mismatch")
)

// MismatchError reports where structured output diverged from its schema.
// Field is a dotted path with [i] array indexes; empty means the root.
type MismatchError struct {
	Field    string
	Expected string
	Actual   string
}

func (e *MismatchError) Error() string {
	field := e.Field
	if field == "" {
		field = "<root>"
	}
	return fmt.Sprintf("schema mismatch at %s: expected %s, got %s", field, e.Expected, e.Actual)
}

// Is matches ErrMismatch so callers can test with errors.Is.
func (e *MismatchError) Is(target error) bool {
	return target == ErrMismatch
}
