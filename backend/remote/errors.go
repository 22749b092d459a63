package remote

import "errors"

var (
	// ErrTooManyRounds is returned when the model keeps requesting tools
	// past the configured round cap.
	ErrTooManyRounds = errors.New("exceeded maximum tool call rounds")

	// ErrEmptyResponse is returned when the model finishes without
	// producing any text.
	ErrEmptyResponse = errors.New("model returned no content")

	ErrMissingModel = errors.New("remote model name is required")
)

// ErrRefused is returned when the model declines to answer.
var ErrRefused = errors.New("model refused the request")
