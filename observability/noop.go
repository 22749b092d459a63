package observability

import "context"

// NoOpObserver discards every event. It is the "noop" registry entry and is
// skipped when combined into a MultiObserver.
type NoOpObserver struct{}

func (NoOpObserver) OnEvent(context.Context, Event) {}
