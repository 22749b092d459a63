// Package tools declares model-callable functions and dispatches the calls a
// model requests back to their Go handlers.
package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tailored-agentic-units/intelligence/core/schema"
	"github.com/tailored-agentic-units/intelligence/core/transcript"
)

// Handler is the function signature for tool implementations. Handlers
// receive the request context and the JSON arguments produced by the model.
// The returned value is encoded to JSON; json.RawMessage passes through.
type Handler func(ctx context.Context, args json.RawMessage) (any, error)

// Tool is a named capability the model may invoke. A nil Handler declares
// the tool to the model without making it callable.
type Tool struct {
	Name        string
	Description string
	Parameters  *schema.Type
	Output      *schema.Type
	Handler     Handler
}

// ParametersJSONSchema returns the wire JSON schema of the tool's
// parameters. A tool without parameters accepts an empty object.
func (t Tool) ParametersJSONSchema() (json.RawMessage, error) {
	params := t.Parameters
	if params == nil {
		params = schema.Object()
	}
	data, err := schema.MarshalDefinition(params)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidParameters, t.Name, err)
	}
	return data, nil
}

// OutputJSONSchema returns the wire JSON schema of the tool's result, or nil
// when the output is undeclared.
func (t Tool) OutputJSONSchema() (json.RawMessage, error) {
	if t.Output == nil {
		return nil, nil
	}
	return schema.MarshalDefinition(t.Output)
}

// Definition snapshots the tool declaration for the transcript.
func (t Tool) Definition() (transcript.ToolDefinition, error) {
	params, err := t.ParametersJSONSchema()
	if err != nil {
		return transcript.ToolDefinition{}, err
	}
	return transcript.ToolDefinition{
		Name:        t.Name,
		Description: t.Description,
		Parameters:  params,
	}, nil
}

// Callable reports whether the tool has a handler.
func (t Tool) Callable() bool {
	return t.Handler != nil
}

// Func builds a tool from a typed function. The parameter schema is derived
// from T with schema.For and arguments are decoded into T before fn runs.
func Func[T any, R any](name, description string, fn func(ctx context.Context, args T) (R, error)) (Tool, error) {
	params, err := schema.For[T]()
	if err != nil {
		return Tool{}, fmt.Errorf("%w: %s: %w", ErrInvalidParameters, name, err)
	}

	return Tool{
		Name:        name,
		Description: description,
		Parameters:  params,
		Handler: func(ctx context.Context, raw json.RawMessage) (any, error) {
			var args T
			if err := json.Unmarshal(raw, &args); err != nil {
				return nil, fmt.Errorf("decode arguments: %w", err)
			}
			return fn(ctx, args)
		},
	}, nil
}

// ErrorPayload encodes err as the structured {"error": "..."} result handed
// back to the model in place of a tool's output.
func ErrorPayload(err error) string {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	data, _ := json.Marshal(struct {
		Error string `json:"error"`
	}{Error: msg})
	return string(data)
}
