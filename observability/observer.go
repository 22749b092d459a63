// Package observability carries structured events out of sessions and
// backends. Level values follow OpenTelemetry SeverityNumbers so events can
// be forwarded to an OTel collector without translation.
//
// Subsystems define their own EventType constants ("remote.round.start",
// "session.respond") and emit Events to an Observer supplied at
// construction. SlogObserver is the default.
package observability

import (
	"context"
	"log/slog"
	"time"
)

// Level represents event severity aligned with OTel SeverityNumber ranges.
type Level int

const (
	LevelVerbose Level = 5  // OTel DEBUG (5-8)
	LevelInfo    Level = 9  // OTel INFO (9-12)
	LevelWarning Level = 13 // OTel WARN (13-16)
	LevelError   Level = 17 // OTel ERROR (17-20)
)

// String returns the OTel severity text for the level.
func (l Level) String() string {
	switch {
	case l <= 4:
		return "TRACE"
	case l <= 8:
		return "DEBUG"
	case l <= 12:
		return "INFO"
	case l <= 16:
		return "WARN"
	case l <= 20:
		return "ERROR"
	default:
		return "FATAL"
	}
}

// SlogLevel maps l to the slog level used when logging the event.
func (l Level) SlogLevel() slog.Level {
	switch {
	case l <= 8:
		return slog.LevelDebug
	case l <= 12:
		return slog.LevelInfo
	case l <= 16:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// EventType names an event. Types are dotted: subsystem, subject, action.
type EventType string

// Event is a single observation. Source identifies the emitting operation
// (for example "remote.Respond") and Data carries its attributes.
type Event struct {
	Type      EventType
	Level     Level
	Timestamp time.Time
	Source    string
	Data      map[string]any
}

// Observer receives events. Implementations must be safe for concurrent
// use: tool calls within a round report from separate goroutines.
type Observer interface {
	OnEvent(ctx context.Context, event Event)
}
