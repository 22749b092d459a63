package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/ollama/ollama/api"

	"github.com/tailored-agentic-units/intelligence/backend"
	"github.com/tailored-agentic-units/intelligence/core/transcript"
	"github.com/tailored-agentic-units/intelligence/tools"
)

var _ Model = (*OllamaModel)(nil)

// OllamaModel runs sessions against an Ollama daemon on the local machine.
// Tool calls requested by the model are executed in-process between chat
// requests.
type OllamaModel struct {
	client    *api.Client
	model     string
	maxRounds int
}

// NewOllamaModel creates an OllamaModel. An empty cfg.Host reads the daemon
// address from the environment (OLLAMA_HOST).
func NewOllamaModel(cfg *Config, httpClient *http.Client) (*OllamaModel, error) {
	if cfg.Model == "" {
		return nil, ErrMissingModel
	}

	var client *api.Client
	if cfg.Host != "" {
		u, err := url.Parse(cfg.Host)
		if err != nil {
			return nil, fmt.Errorf("invalid ollama host %q: %w", cfg.Host, err)
		}
		if httpClient == nil {
			httpClient = http.DefaultClient
		}
		client = api.NewClient(u, httpClient)
	} else {
		c, err := api.ClientFromEnvironment()
		if err != nil {
			return nil, fmt.Errorf("create ollama client: %w", err)
		}
		client = c
	}

	maxRounds := cfg.MaxRounds
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}

	return &OllamaModel{client: client, model: cfg.Model, maxRounds: maxRounds}, nil
}

// NewSession starts a conversation. Instructions become the system message.
func (m *OllamaModel) NewSession(_ context.Context, cfg SessionConfig) (ModelSession, error) {
	registry := cfg.Tools
	if registry == nil {
		registry, _ = tools.NewRegistry()
	}

	declared, err := ollamaTools(registry.Definitions())
	if err != nil {
		return nil, err
	}

	s := &ollamaSession{model: m, registry: registry, tools: declared}
	if text := transcript.JoinText(cfg.Instructions); text != "" {
		s.messages = append(s.messages, api.Message{Role: "system", Content: text})
	}
	return s, nil
}

// ollamaTools converts tool definitions to Ollama declarations. The wire
// parameter schema decodes directly into api.ToolFunctionParameters.
func ollamaTools(defs []transcript.ToolDefinition) (api.Tools, error) {
	if len(defs) == 0 {
		return nil, nil
	}

	out := make(api.Tools, 0, len(defs))
	for _, d := range defs {
		t := api.Tool{
			Type: "function",
			Function: api.ToolFunction{
				Name:        d.Name,
				Description: d.Description,
			},
		}
		if len(d.Parameters) > 0 {
			if err := json.Unmarshal(d.Parameters, &t.Function.Parameters); err != nil {
				return nil, fmt.Errorf("convert parameters of tool %s: %w", d.Name, err)
			}
		}
		out = append(out, t)
	}
	return out, nil
}

type ollamaSession struct {
	model    *OllamaModel
	registry *tools.Registry
	tools    api.Tools
	messages []api.Message
}

// Respond runs chat rounds until the model answers without tool calls. The
// session history only advances when the exchange succeeds.
func (s *ollamaSession) Respond(ctx context.Context, req Request) (Reply, error) {
	messages := slices.Clone(s.messages)
	messages = append(messages, api.Message{Role: "user", Content: transcript.JoinText(req.Prompt)})

	stream := false
	chat := &api.ChatRequest{
		Model:   s.model.model,
		Tools:   s.tools,
		Stream:  &stream,
		Options: ollamaOptions(req.Options),
	}
	if req.Format != nil {
		format, err := req.Format.SchemaJSON()
		if err != nil {
			return Reply{}, err
		}
		chat.Format = format
	}

	var entries []transcript.Entry
	for round := 1; ; round++ {
		chat.Messages = messages

		msg, err := s.chat(ctx, chat)
		if err != nil {
			return Reply{}, err
		}
		messages = append(messages, msg)

		if len(msg.ToolCalls) == 0 {
			s.messages = messages
			return Reply{Text: msg.Content, Tools: entries}, nil
		}
		if round > s.model.maxRounds {
			return Reply{}, fmt.Errorf("%w (%d)", ErrTooManyRounds, s.model.maxRounds)
		}

		calls := make([]toolCall, len(msg.ToolCalls))
		for i, tc := range msg.ToolCalls {
			args, err := json.Marshal(tc.Function.Arguments.ToMap())
			if err != nil {
				return Reply{}, fmt.Errorf("encode arguments of %s: %w", tc.Function.Name, err)
			}
			calls[i] = toolCall{ID: tc.ID, Name: tc.Function.Name, Arguments: string(args)}
		}

		outputs, recorded, err := invokeAll(ctx, s.registry, round, calls)
		if err != nil {
			return Reply{}, err
		}
		entries = append(entries, recorded...)

		for i, c := range calls {
			messages = append(messages, api.Message{
				Role:       "tool",
				Content:    outputs[i],
				ToolCallID: c.ID,
			})
		}
	}
}

func (s *ollamaSession) chat(ctx context.Context, req *api.ChatRequest) (api.Message, error) {
	var (
		content strings.Builder
		calls   []api.ToolCall
	)

	err := s.model.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		content.WriteString(resp.Message.Content)
		calls = append(calls, resp.Message.ToolCalls...)
		return nil
	})
	if err != nil {
		return api.Message{}, ollamaError(ctx, err)
	}

	return api.Message{Role: "assistant", Content: content.String(), ToolCalls: calls}, nil
}

func ollamaOptions(opts transcript.GenerationOptions) map[string]any {
	out := map[string]any{}
	if opts.Temperature != nil {
		out["temperature"] = *opts.Temperature
	}
	if opts.MaxOutputTokens != nil {
		out["num_predict"] = *opts.MaxOutputTokens
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func ollamaError(ctx context.Context, err error) error {
	if ctx.Err() == context.Canceled {
		return ctx.Err()
	}
	var status api.StatusError
	if errors.As(err, &status) {
		return &backend.Error{StatusCode: status.StatusCode, Message: status.ErrorMessage, Err: err}
	}
	return &backend.Error{Err: err}
}
