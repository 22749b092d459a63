package observability

import (
	"context"
	"fmt"
	"log/slog"
)

// MultiObserver fans each event out to several observers in order. Backends
// emit from tool goroutines, so a panicking observer is isolated: the panic
// is logged and the remaining observers still receive the event.
type MultiObserver struct {
	observers []Observer
}

// NewMultiObserver creates a MultiObserver. Nil and no-op observers are
// dropped and nested MultiObservers are flattened.
func NewMultiObserver(observers ...Observer) *MultiObserver {
	m := &MultiObserver{}
	for _, obs := range observers {
		switch o := obs.(type) {
		case nil, NoOpObserver, *NoOpObserver:
		case *MultiObserver:
			m.observers = append(m.observers, o.observers...)
		default:
			m.observers = append(m.observers, o)
		}
	}
	return m
}

// Len returns the number of observers events are forwarded to.
func (m *MultiObserver) Len() int {
	return len(m.observers)
}

func (m *MultiObserver) OnEvent(ctx context.Context, event Event) {
	for _, obs := range m.observers {
		deliver(ctx, obs, event)
	}
}

func deliver(ctx context.Context, obs Observer, event Event) {
	defer func() {
		if r := recover(); r != nil {
			slog.Default().ErrorContext(ctx, "observer panicked",
				"event", string(event.Type),
				"observer", fmt.Sprintf("%T", obs),
				"panic", fmt.Sprint(r),
			)
		}
	}()
	obs.OnEvent(ctx, event)
}
