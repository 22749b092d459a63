package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/tailored-agentic-units/intelligence/core/schema"
	"github.com/tailored-agentic-units/intelligence/core/transcript"
)

type entry struct {
	tool       Tool
	definition transcript.ToolDefinition
}

// Registry maps tool names to declarations and handlers. Registration order
// is preserved so definitions are always listed deterministically.
// Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	order   []string
	entries map[string]entry
}

// NewRegistry creates a registry holding the given tools.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{entries: make(map[string]entry)}
	for _, t := range tools {
		if err := r.Register(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a tool. Registering a name that already exists replaces the
// previous tool in place. The parameter schema is snapshotted here, so later
// changes to the Tool value never reach definitions already handed out.
func (r *Registry) Register(tool Tool) error {
	if tool.Name == "" {
		return ErrEmptyName
	}

	def, err := tool.Definition()
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.entries == nil {
		r.entries = make(map[string]entry)
	}
	if _, exists := r.entries[tool.Name]; !exists {
		r.order = append(r.order, tool.Name)
	}
	r.entries[tool.Name] = entry{tool: tool, definition: def}
	return nil
}

// Lookup retrieves a tool by name.
func (r *Registry) Lookup(name string) (Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, exists := r.entries[name]
	if !exists {
		return Tool{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return e.tool, nil
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Definitions returns the tool declarations in registration order.
func (r *Registry) Definitions() []transcript.ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]transcript.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		d := r.entries[name].definition
		d.Parameters = append(json.RawMessage(nil), d.Parameters...)
		defs = append(defs, d)
	}
	return defs
}

// Invoke dispatches a call by name and returns the JSON result text.
//
// Unknown names return ErrNotFound and declaration-only tools return
// ErrNotCallable. Every other failure (malformed arguments, schema mismatch,
// handler error, handler panic) is reported to the model as an ErrorPayload
// with a nil error. Cancellation of ctx is returned as an error.
func (r *Registry) Invoke(ctx context.Context, name, args string) (string, error) {
	tool, err := r.Lookup(name)
	if err != nil {
		return "", err
	}
	if !tool.Callable() {
		return "", fmt.Errorf("%w: %s", ErrNotCallable, name)
	}

	raw, err := normalizeArgs(args, tool.Parameters)
	if err != nil {
		return ErrorPayload(fmt.Errorf("invalid arguments for %s: %w", name, err)), nil
	}

	result, err := call(ctx, tool.Handler, raw)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}
	if err != nil {
		return ErrorPayload(err), nil
	}

	output, err := encodeResult(result, tool.Output)
	if err != nil {
		return ErrorPayload(fmt.Errorf("invalid result from %s: %w", name, err)), nil
	}
	return output, nil
}

func normalizeArgs(args string, params *schema.Type) (json.RawMessage, error) {
	if args == "" {
		args = "{}"
	}
	if params != nil {
		if _, err := schema.ParseType([]byte(args), params); err != nil {
			return nil, err
		}
	} else if !json.Valid([]byte(args)) {
		return nil, fmt.Errorf("malformed JSON")
	}
	return json.RawMessage(args), nil
}

func call(ctx context.Context, h Handler, args json.RawMessage) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return h(ctx, args)
}

func encodeResult(result any, output *schema.Type) (string, error) {
	var data []byte
	switch v := result.(type) {
	case json.RawMessage:
		if !json.Valid(v) {
			return "", fmt.Errorf("malformed JSON")
		}
		data = v
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		data = encoded
	}

	if output != nil {
		if _, err := schema.ParseType(data, output); err != nil {
			return "", err
		}
	}
	return string(data), nil
}
