package session

import "errors"

var (
	ErrUnknownBackend = errors.New("unknown backend")
	ErrNoStore        = errors.New("no store configured")
)
