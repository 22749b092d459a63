package tools

import "errors"

// Sentinel errors for the tools registry.
var (
	ErrNotFound          = errors.New("tool not found")
	ErrNotCallable       = errors.New("tool has no handler")
	ErrEmptyName         = errors.New("tool name is empty")
	ErrInvalidParameters = errors.New("tool parameters schema is invalid")
	ErrPanic             = errors.New("tool handler panicked")
)
