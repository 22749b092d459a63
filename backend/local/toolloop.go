package local

import (
	"context"
	"errors"
	"fmt"

	"github.com/tailored-agentic-units/intelligence/core/transcript"
	"github.com/tailored-agentic-units/intelligence/tools"
)

// toolCall is a tool invocation requested by a local model.
type toolCall struct {
	ID        string
	Name      string
	Arguments string
}

// invokeAll runs calls in order against r. Unknown and declaration-only
// tools yield error payloads. Calls without an ID are assigned one in place.
// It returns one output per call and the transcript entries recording them.
func invokeAll(ctx context.Context, r *tools.Registry, round int, calls []toolCall) ([]string, []transcript.Entry, error) {
	outputs := make([]string, len(calls))
	entries := make([]transcript.Entry, 0, 2*len(calls))

	for i := range calls {
		if calls[i].ID == "" {
			calls[i].ID = fmt.Sprintf("call_%d_%d", round, i+1)
		}
		call := calls[i]

		out, err := r.Invoke(ctx, call.Name, call.Arguments)
		if errors.Is(err, tools.ErrNotFound) || errors.Is(err, tools.ErrNotCallable) {
			out, err = tools.ErrorPayload(err), nil
		}
		if err != nil {
			return nil, nil, err
		}

		outputs[i] = out
		entries = append(entries,
			transcript.NewToolCall(call.ID, call.Name, call.Arguments),
			transcript.NewToolOutput(call.ID, call.Name, out),
		)
	}

	return outputs, entries, nil
}
