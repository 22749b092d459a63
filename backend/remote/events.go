package remote

import "github.com/tailored-agentic-units/intelligence/observability"

// Remote backend event types emitted during the orchestration loop.
const (
	EventRespondStart observability.EventType = "remote.respond.start"
	EventRoundStart   observability.EventType = "remote.round.start"
	EventToolCall     observability.EventType = "remote.tool.call"
	EventToolComplete observability.EventType = "remote.tool.complete"
	EventResponse     observability.EventType = "remote.response"
	EventError        observability.EventType = "remote.error"
)
