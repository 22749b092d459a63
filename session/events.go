package session

import "github.com/tailored-agentic-units/intelligence/observability"

// Session event types.
const (
	EventCreate  observability.EventType = "session.create"
	EventRespond observability.EventType = "session.respond"
)
