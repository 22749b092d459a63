package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/tailored-agentic-units/intelligence/backend"
	"github.com/tailored-agentic-units/intelligence/core/transcript"
	"github.com/tailored-agentic-units/intelligence/tools"
)

var _ Model = (*ConnectModel)(nil)

// ConnectModel reaches a platform inference service over a Connect unary
// procedure. Requests and replies are google.protobuf.Struct messages:
//
//	request: {model, messages: [{role, content, tool_call_id?, tool_calls?}],
//	          tools?: [{name, description, parameters}],
//	          options?: {temperature, max_output_tokens},
//	          format?: {name, schema}}
//	reply:   {text, tool_calls?: [{id, name, arguments}]}
//
// The service is stateless; the session resends its history on every call.
type ConnectModel struct {
	client    *connect.Client[structpb.Struct, structpb.Struct]
	model     string
	maxRounds int
}

// NewConnectModel creates a ConnectModel for the service at cfg.Host.
func NewConnectModel(cfg *Config, httpClient *http.Client) (*ConnectModel, error) {
	if cfg.Host == "" {
		return nil, ErrMissingHost
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	procedure := cfg.Procedure
	if procedure == "" {
		procedure = DefaultProcedure
	}
	maxRounds := cfg.MaxRounds
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}

	return &ConnectModel{
		client:    connect.NewClient[structpb.Struct, structpb.Struct](httpClient, strings.TrimRight(cfg.Host, "/")+procedure),
		model:     cfg.Model,
		maxRounds: maxRounds,
	}, nil
}

// NewSession starts a conversation. Instructions become the system message.
func (m *ConnectModel) NewSession(_ context.Context, cfg SessionConfig) (ModelSession, error) {
	registry := cfg.Tools
	if registry == nil {
		registry, _ = tools.NewRegistry()
	}

	declared := make([]any, 0, registry.Len())
	for _, d := range registry.Definitions() {
		var params any
		if err := json.Unmarshal(d.Parameters, &params); err != nil {
			return nil, fmt.Errorf("convert parameters of tool %s: %w", d.Name, err)
		}
		declared = append(declared, map[string]any{
			"name":        d.Name,
			"description": d.Description,
			"parameters":  params,
		})
	}

	s := &connectSession{model: m, registry: registry, tools: declared}
	if text := transcript.JoinText(cfg.Instructions); text != "" {
		s.messages = append(s.messages, map[string]any{"role": "system", "content": text})
	}
	return s, nil
}

type connectSession struct {
	model    *ConnectModel
	registry *tools.Registry
	tools    []any
	messages []any
}

func (s *connectSession) Respond(ctx context.Context, req Request) (Reply, error) {
	messages := slices.Clone(s.messages)
	messages = append(messages, map[string]any{"role": "user", "content": transcript.JoinText(req.Prompt)})

	body := map[string]any{"model": s.model.model}
	if len(s.tools) > 0 {
		body["tools"] = s.tools
	}
	if opts := connectOptions(req.Options); opts != nil {
		body["options"] = opts
	}
	if req.Format != nil {
		data, err := req.Format.SchemaJSON()
		if err != nil {
			return Reply{}, err
		}
		var def any
		if err := json.Unmarshal(data, &def); err != nil {
			return Reply{}, fmt.Errorf("decode response format: %w", err)
		}
		body["format"] = map[string]any{"name": req.Format.Name, "schema": def}
	}

	var entries []transcript.Entry
	for round := 1; ; round++ {
		body["messages"] = messages

		msg, err := structpb.NewStruct(body)
		if err != nil {
			return Reply{}, fmt.Errorf("encode inference request: %w", err)
		}

		resp, err := s.model.client.CallUnary(ctx, connect.NewRequest(msg))
		if err != nil {
			return Reply{}, connectError(ctx, err)
		}

		text, calls := parseConnectReply(resp.Msg)
		assistant := map[string]any{"role": "assistant", "content": text}
		if len(calls) == 0 {
			s.messages = append(messages, assistant)
			return Reply{Text: text, Tools: entries}, nil
		}
		if round > s.model.maxRounds {
			return Reply{}, fmt.Errorf("%w (%d)", ErrTooManyRounds, s.model.maxRounds)
		}

		outputs, recorded, err := invokeAll(ctx, s.registry, round, calls)
		if err != nil {
			return Reply{}, err
		}
		entries = append(entries, recorded...)

		requested := make([]any, len(calls))
		for i, c := range calls {
			requested[i] = map[string]any{"id": c.ID, "name": c.Name, "arguments": c.Arguments}
		}
		assistant["tool_calls"] = requested
		messages = append(messages, assistant)

		for i, c := range calls {
			messages = append(messages, map[string]any{
				"role":         "tool",
				"tool_call_id": c.ID,
				"content":      outputs[i],
			})
		}
	}
}

func parseConnectReply(msg *structpb.Struct) (string, []toolCall) {
	fields := msg.GetFields()
	text := fields["text"].GetStringValue()

	var calls []toolCall
	for _, v := range fields["tool_calls"].GetListValue().GetValues() {
		f := v.GetStructValue().GetFields()
		calls = append(calls, toolCall{
			ID:        f["id"].GetStringValue(),
			Name:      f["name"].GetStringValue(),
			Arguments: argumentsText(f["arguments"]),
		})
	}
	return text, calls
}

// argumentsText accepts arguments sent either as JSON text or as a struct.
func argumentsText(v *structpb.Value) string {
	if v == nil {
		return "{}"
	}
	if s, ok := v.GetKind().(*structpb.Value_StringValue); ok {
		return s.StringValue
	}
	data, err := json.Marshal(v.AsInterface())
	if err != nil {
		return "{}"
	}
	return string(data)
}

func connectOptions(opts transcript.GenerationOptions) map[string]any {
	out := map[string]any{}
	if opts.Temperature != nil {
		out["temperature"] = *opts.Temperature
	}
	if opts.MaxOutputTokens != nil {
		out["max_output_tokens"] = *opts.MaxOutputTokens
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func connectError(ctx context.Context, err error) error {
	if ctx.Err() == context.Canceled {
		return ctx.Err()
	}
	var ce *connect.Error
	if errors.As(err, &ce) {
		return &backend.Error{Code: ce.Code().String(), Message: ce.Message(), Err: err}
	}
	return &backend.Error{Err: err}
}
