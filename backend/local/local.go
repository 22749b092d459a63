// Package local implements the backend for models that run outside the
// remote Responses API: an on-device runtime or an inference service on the
// local platform. The model itself is an external collaborator behind the
// Model interface; this package records the exchange in the transcript.
package local

import (
	"context"
	"log/slog"
	"time"

	"github.com/tailored-agentic-units/intelligence/backend"
	"github.com/tailored-agentic-units/intelligence/core/schema"
	"github.com/tailored-agentic-units/intelligence/core/transcript"
	"github.com/tailored-agentic-units/intelligence/observability"
	"github.com/tailored-agentic-units/intelligence/tools"
)

var _ backend.Backend = (*Backend)(nil)

// Model creates conversational sessions on a local model runtime.
type Model interface {
	NewSession(ctx context.Context, cfg SessionConfig) (ModelSession, error)
}

// SessionConfig is the fixed context of a model session.
type SessionConfig struct {
	Instructions []transcript.Segment
	Tools        *tools.Registry
}

// ModelSession holds the model-side conversation state. Respond is called
// sequentially.
type ModelSession interface {
	Respond(ctx context.Context, req Request) (Reply, error)
}

// Request is one prompt sent to a model session. Format is set for
// structured requests.
type Request struct {
	Prompt  []transcript.Segment
	Options transcript.GenerationOptions
	Format  *schema.ResponseFormat
}

// Reply is the model's answer. Tools holds the tool_call and tool_output
// entries of any tools the model ran while answering, in order.
type Reply struct {
	Text  string
	Tools []transcript.Entry
}

// Option configures a Backend.
type Option func(*Backend)

// WithTools sets the registry offered to the model.
func WithTools(r *tools.Registry) Option {
	return func(b *Backend) { b.tools = r }
}

// WithInstructions sets the session instructions.
func WithInstructions(segments ...transcript.Segment) Option {
	return func(b *Backend) { b.instructions = segments }
}

// WithObserver overrides the default SlogObserver.
func WithObserver(o observability.Observer) Option {
	return func(b *Backend) { b.observer = o }
}

// Backend records a model session's exchanges in a transcript.
type Backend struct {
	session      ModelSession
	tools        *tools.Registry
	instructions []transcript.Segment
	transcript   *transcript.Transcript
	observer     observability.Observer
}

// New opens a session on model. The transcript is seeded with an
// instructions entry when instructions or tools are present.
func New(ctx context.Context, model Model, opts ...Option) (*Backend, error) {
	b := &Backend{
		observer: observability.NewSlogObserver(slog.Default()),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.tools == nil {
		b.tools, _ = tools.NewRegistry()
	}

	session, err := model.NewSession(ctx, SessionConfig{
		Instructions: b.instructions,
		Tools:        b.tools,
	})
	if err != nil {
		return nil, err
	}
	b.session = session

	b.transcript = transcript.New()
	defs := b.tools.Definitions()
	if len(b.instructions) > 0 || len(defs) > 0 {
		b.transcript.Append(transcript.NewInstructions(b.instructions, defs))
	}

	return b, nil
}

// Transcript returns the backend's transcript.
func (b *Backend) Transcript() *transcript.Transcript {
	return b.transcript
}

// Respond sends prompt to the model session and returns its text.
func (b *Backend) Respond(ctx context.Context, prompt []transcript.Segment, opts transcript.GenerationOptions) (string, error) {
	return b.respond(ctx, Request{Prompt: prompt, Options: opts}, nil)
}

// RespondStructured sends prompt with s as the response format and parses
// the model's text against s.
func (b *Backend) RespondStructured(ctx context.Context, prompt []transcript.Segment, s *schema.Schema, opts transcript.GenerationOptions) (*schema.Content, error) {
	format, err := schema.ToWire(s)
	if err != nil {
		return nil, err
	}
	def, err := format.SchemaJSON()
	if err != nil {
		return nil, err
	}

	text, err := b.respond(ctx, Request{Prompt: prompt, Options: opts, Format: &format}, &transcript.ResponseFormat{
		Name:   format.Name,
		Schema: def,
	})
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

func (b *Backend) respond(ctx context.Context, req Request, format *transcript.ResponseFormat) (string, error) {
	b.transcript.Append(transcript.NewPrompt(req.Prompt, req.Options, format))

	b.observer.OnEvent(ctx, observability.Event{
		Type:      EventRespondStart,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "local.Respond",
		Data:      map[string]any{"structured": format != nil},
	})

	reply, err := b.session.Respond(ctx, req)
	if err != nil {
		b.emitError(ctx, err)
		return "", err
	}
	if reply.Text == "" {
		b.emitError(ctx, ErrEmptyResponse)
		return "", ErrEmptyResponse
	}

	entries := make([]transcript.Entry, 0, len(reply.Tools)+1)
	entries = append(entries, reply.Tools...)
	entries = append(entries, transcript.NewResponse(transcript.Texts(reply.Text)))
	b.transcript.Append(entries...)

	b.observer.OnEvent(ctx, observability.Event{
		Type:      EventResponse,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "local.Respond",
		Data: map[string]any{
			"tool_entries":    len(reply.Tools),
			"response_length": len(reply.Text),
		},
	})

	return reply.Text, nil
}

func (b *Backend) emitError(ctx context.Context, err error) {
	b.observer.OnEvent(ctx, observability.Event{
		Type:      EventError,
		Level:     observability.LevelError,
		Timestamp: time.Now(),
		Source:    "local.Respond",
		Data:      map[string]any{"error": err.Error()},
	})
}
