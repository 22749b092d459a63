// Package remote implements the backend that drives a hosted model through
// the Responses API and runs the tool-calling loop locally.
//
// Each respond call appends a prompt entry, projects the whole transcript
// into request input, and repeats request/tool rounds until the model
// answers without calling a tool:
//
//	b, err := remote.New(&cfg, remote.WithTools(registry))
//	text, err := b.Respond(ctx, transcript.Texts("What is 2+2?"), transcript.GenerationOptions{})
//
// Tool calls within a round run concurrently. A round's tool_call and
// tool_output entries are committed to the transcript together once every
// call in the round has finished, so an aborted round leaves no trace.
package remote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/tailored-agentic-units/intelligence/backend"
	"github.com/tailored-agentic-units/intelligence/core/schema"
	"github.com/tailored-agentic-units/intelligence/core/transcript"
	"github.com/tailored-agentic-units/intelligence/observability"
	"github.com/tailored-agentic-units/intelligence/tools"
)

var _ backend.Backend = (*Backend)(nil)

// Option configures a Backend.
type Option func(*Backend)

// WithTools sets the registry used to declare and invoke tools.
func WithTools(r *tools.Registry) Option {
	return func(b *Backend) { b.tools = r }
}

// WithInstructions sets the instruction segments sent as the developer
// message.
func WithInstructions(segments ...transcript.Segment) Option {
	return func(b *Backend) { b.instructions = segments }
}

// WithHTTPClient overrides the HTTP client built from the config timeout.
func WithHTTPClient(c *http.Client) Option {
	return func(b *Backend) { b.httpClient = c }
}

// WithObserver overrides the default SlogObserver.
func WithObserver(o observability.Observer) Option {
	return func(b *Backend) { b.observer = o }
}

// Backend is a remote model session.
type Backend struct {
	cfg          Config
	client       *client
	httpClient   *http.Client
	tools        *tools.Registry
	instructions []transcript.Segment
	defs         []transcript.ToolDefinition
	transcript   *transcript.Transcript
	observer     observability.Observer
}

// New creates a remote backend. The transcript is seeded with an
// instructions entry when instructions or tools are present.
func New(cfg *Config, opts ...Option) (*Backend, error) {
	c := DefaultConfig()
	c.Merge(cfg)
	if c.Model == "" {
		return nil, ErrMissingModel
	}

	b := &Backend{
		cfg:      c,
		observer: observability.NewSlogObserver(slog.Default()),
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.tools == nil {
		b.tools, _ = tools.NewRegistry()
	}
	b.client = newClient(b.httpClient, &b.cfg)
	b.defs = b.tools.Definitions()

	b.transcript = transcript.New()
	if len(b.instructions) > 0 || len(b.defs) > 0 {
		b.transcript.Append(transcript.NewInstructions(b.instructions, b.defs))
	}

	return b, nil
}

// Transcript returns the backend's transcript.
func (b *Backend) Transcript() *transcript.Transcript {
	return b.transcript
}

// Respond sends prompt and returns the model's final text.
func (b *Backend) Respond(ctx context.Context, prompt []transcript.Segment, opts transcript.GenerationOptions) (string, error) {
	return b.respond(ctx, prompt, opts, nil)
}

// RespondStructured sends prompt with s as the strict response format and
// parses the final text against s.
func (b *Backend) RespondStructured(ctx context.Context, prompt []transcript.Segment, s *schema.Schema, opts transcript.GenerationOptions) (*schema.Content, error) {
	format, err := schema.ToWire(s)
	if err != nil {
		return nil, err
	}

	text, err := b.respond(ctx, prompt, opts, &format)
	if err != nil {
		return nil, err
	}

	content, err := schema.Parse([]byte(text), s)
	if err != nil {
		b.emitError(ctx, err)
		return nil, err
	}
	return content, nil
}

func (b *Backend) respond(ctx context.Context, prompt []transcript.Segment, opts transcript.GenerationOptions, format *schema.ResponseFormat) (string, error) {
	req := &request{
		Model:           b.cfg.Model,
		Tools:           toolParams(b.defs),
		Temperature:     opts.Temperature,
		MaxOutputTokens: opts.MaxOutputTokens,
	}

	var recorded *transcript.ResponseFormat
	if format != nil {
		def, err := format.SchemaJSON()
		if err != nil {
			return "", err
		}
		recorded = &transcript.ResponseFormat{Name: format.Name, Schema: def}
		req.Text = &textParam{Format: *format}
	}

	b.transcript.Append(transcript.NewPrompt(prompt, opts, recorded))
	base := project(b.transcript.Entries())

	b.observer.OnEvent(ctx, observability.Event{
		Type:      EventRespondStart,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "remote.Respond",
		Data: map[string]any{
			"model":      b.cfg.Model,
			"tools":      len(b.defs),
			"structured": format != nil,
			"entries":    len(base),
		},
	})

	var (
		pending    []item
		text       string
		toolRounds int
	)

	for round := 1; ; round++ {
		if err := contextError(ctx); err != nil {
			b.emitError(ctx, err)
			return "", err
		}

		b.observer.OnEvent(ctx, observability.Event{
			Type:      EventRoundStart,
			Level:     observability.LevelVerbose,
			Timestamp: time.Now(),
			Source:    "remote.Respond",
			Data:      map[string]any{"round": round},
		})

		req.Input = make([]item, 0, len(base)+len(pending))
		req.Input = append(req.Input, base...)
		req.Input = append(req.Input, pending...)

		resp, err := b.client.create(ctx, req)
		if err != nil {
			b.emitError(ctx, err)
			return "", err
		}

		pending = append(pending, resp.Output...)
		roundText := resp.text()

		calls := resp.functionCalls()
		if len(calls) == 0 {
			switch {
			case roundText != "":
				text = roundText
				b.transcript.Append(transcript.NewResponse(transcript.Texts(text)))
			case text == "":
				err := ErrEmptyResponse
				if r := resp.refusal(); r != "" {
					err = fmt.Errorf("%w: %s", ErrRefused, r)
				}
				b.emitError(ctx, err)
				return "", err
			}
			// An empty final round falls back to text already recorded
			// with an earlier tool round.
			b.emitResponse(ctx, round, text, resp.Usage)
			return text, nil
		}

		if toolRounds == b.cfg.MaxRounds {
			err := fmt.Errorf("%w (%d)", ErrTooManyRounds, b.cfg.MaxRounds)
			b.emitError(ctx, err)
			return "", err
		}
		toolRounds++

		outputs, err := b.runTools(ctx, round, calls)
		if err != nil {
			return "", err
		}

		entries := make([]transcript.Entry, 0, 2*len(calls)+1)
		if roundText != "" {
			text = roundText
			entries = append(entries, transcript.NewResponse(transcript.Texts(roundText)))
		}
		for i, call := range calls {
			entries = append(entries,
				transcript.NewToolCall(call.CallID, call.Name, call.Arguments),
				transcript.NewToolOutput(call.CallID, call.Name, outputs[i]),
			)
			pending = append(pending, functionCallOutputItem(call.CallID, outputs[i]))
		}
		b.transcript.Append(entries...)
	}
}

// runTools invokes every call of a round and waits for all of them.
// Unknown and declaration-only tools are reported to the model as error
// payloads. Outputs are returned in call order.
func (b *Backend) runTools(ctx context.Context, round int, calls []item) ([]string, error) {
	outputs := make([]string, len(calls))
	errs := make([]error, len(calls))

	run := func(i int) {
		call := calls[i]

		b.observer.OnEvent(ctx, observability.Event{
			Type:      EventToolCall,
			Level:     observability.LevelVerbose,
			Timestamp: time.Now(),
			Source:    "remote.Respond",
			Data: map[string]any{
				"round":   round,
				"name":    call.Name,
				"call_id": call.CallID,
			},
		})

		out, err := b.tools.Invoke(ctx, call.Name, call.Arguments)
		if errors.Is(err, tools.ErrNotFound) || errors.Is(err, tools.ErrNotCallable) {
			out, err = tools.ErrorPayload(err), nil
		}
		outputs[i], errs[i] = out, err

		b.observer.OnEvent(ctx, observability.Event{
			Type:      EventToolComplete,
			Level:     observability.LevelVerbose,
			Timestamp: time.Now(),
			Source:    "remote.Respond",
			Data: map[string]any{
				"round":         round,
				"name":          call.Name,
				"call_id":       call.CallID,
				"output_length": len(out),
				"error":         err != nil,
			},
		})
	}

	if b.cfg.SerialTools || len(calls) == 1 {
		for i := range calls {
			run(i)
		}
	} else {
		var wg sync.WaitGroup
		for i := range calls {
			wg.Go(func() { run(i) })
		}
		wg.Wait()
	}

	if err := contextError(ctx); err != nil {
		return nil, err
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return outputs, nil
}

// contextError reports a finished context. Cancellation is returned as is;
// an expired deadline is a timeout and surfaces as a *backend.Error.
func contextError(ctx context.Context) error {
	err := ctx.Err()
	if err == nil || errors.Is(err, context.Canceled) {
		return err
	}
	return &backend.Error{Err: err}
}

func (b *Backend) emitResponse(ctx context.Context, round int, text string, u *usage) {
	data := map[string]any{
		"rounds":          round,
		"response_length": len(text),
	}
	if u != nil {
		data["input_tokens"] = u.InputTokens
		data["output_tokens"] = u.OutputTokens
		data["total_tokens"] = u.TotalTokens
	}

	b.observer.OnEvent(ctx, observability.Event{
		Type:      EventResponse,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "remote.Respond",
		Data:      data,
	})
}

func (b *Backend) emitError(ctx context.Context, err error) {
	b.observer.OnEvent(ctx, observability.Event{
		Type:      EventError,
		Level:     observability.LevelError,
		Timestamp: time.Now(),
		Source:    "remote.Respond",
		Data:      map[string]any{"error": err.Error()},
	})
}
