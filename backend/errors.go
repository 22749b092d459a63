package backend

import (
	"errors"
	"fmt"
)

// ErrRequest matches every *Error with errors.Is.
var ErrRequest = errors.New("backend request failed")

// Error describes a failed exchange with a model backend: a non-success
// HTTP status, an error reported inside a response body, or a transport
// failure (Err set, StatusCode zero).
type Error struct {
	StatusCode int
	Code       string
	Type       string
	Param      string
	Message    string
	Err        error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("backend error (status %d): %s", e.StatusCode, msg)
	}
	return "backend error: " + msg
}

// Unwrap returns the underlying transport error, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches ErrRequest.
func (e *Error) Is(target error) bool {
	return target == ErrRequest
}
