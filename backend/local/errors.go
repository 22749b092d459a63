package local

import "errors"

var (
	ErrEmptyResponse   = errors.New("model returned no content")
	ErrTooManyRounds   = errors.New("exceeded maximum tool call rounds")
	ErrUnknownProvider = errors.New("unknown local model provider")
	ErrMissingModel    = errors.New("local model name is required")
)

// ErrMissingHost is returned when a provider that needs an address has none.
var ErrMissingHost = errors.New("local model host is required")
