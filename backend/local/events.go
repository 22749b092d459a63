package local

import "github.com/tailored-agentic-units/intelligence/observability"

// Local backend event types.
const (
	EventRespondStart observability.EventType = "local.respond.start"
	EventResponse     observability.EventType = "local.response"
	EventError        observability.EventType = "local.error"
)
