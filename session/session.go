// Package session is the entry point for conversational model sessions.
//
// A Session hides which backend answers: the same calls drive a hosted
// model over the Responses API or a model on the local platform.
//
//	cfg := session.DefaultConfig()
//	cfg.Remote.Model = "gpt-4o-mini"
//	cfg.Remote.APIKey = os.Getenv("OPENAI_API_KEY")
//
//	s, err := session.New(ctx, &cfg, session.WithTools(registry))
//	answer, err := s.Respond(ctx, "What is the weather in Oslo?", transcript.GenerationOptions{})
//
// Every prompt, tool exchange, and answer is recorded in the session's
// transcript.
package session

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tailored-agentic-units/intelligence/backend"
	"github.com/tailored-agentic-units/intelligence/backend/local"
	"github.com/tailored-agentic-units/intelligence/backend/remote"
	"github.com/tailored-agentic-units/intelligence/core/schema"
	"github.com/tailored-agentic-units/intelligence/core/transcript"
	"github.com/tailored-agentic-units/intelligence/observability"
	"github.com/tailored-agentic-units/intelligence/store"
	"github.com/tailored-agentic-units/intelligence/tools"
)

// Option configures a Session. Options are applied before the backend is
// built.
type Option func(*Session)

// WithTools sets the tools offered to the model.
func WithTools(r *tools.Registry) Option {
	return func(s *Session) { s.tools = r }
}

// WithInstructions appends instruction segments after any configured
// instructions.
func WithInstructions(segments ...transcript.Segment) Option {
	return func(s *Session) { s.instructions = append(s.instructions, segments...) }
}

// WithObserver overrides the observer named in the config. Given more than
// once, events go to every observer through a MultiObserver.
func WithObserver(o observability.Observer) Option {
	return func(s *Session) { s.observers = append(s.observers, o) }
}

// WithHTTPClient sets the HTTP client used by the backend.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Session) { s.httpClient = c }
}

// WithLocalModel supplies the local model runtime instead of building one
// from Config.Local.
func WithLocalModel(m local.Model) Option {
	return func(s *Session) { s.model = m }
}

// WithBackend uses b directly. Tools and instructions must then be
// configured on b itself.
func WithBackend(b backend.Backend) Option {
	return func(s *Session) { s.backend = b }
}

// WithStore overrides the store built from Config.Store.
func WithStore(st store.Store) Option {
	return func(s *Session) { s.store = st }
}

// Session is a conversation with one model. Respond calls are serialized.
type Session struct {
	id       string
	kind     backend.Kind
	mu       sync.Mutex
	backend  backend.Backend
	store    store.Store
	observer observability.Observer

	observers    []observability.Observer
	tools        *tools.Registry
	instructions []transcript.Segment
	httpClient   *http.Client
	model        local.Model
}

// New creates a Session from configuration. Instructions are assembled from
// cfg.Instructions, the store's instruction documents, and WithInstructions,
// in that order.
func New(ctx context.Context, cfg *Config, opts ...Option) (*Session, error) {
	c := DefaultConfig()
	c.Merge(cfg)

	s := &Session{
		id:   uuid.Must(uuid.NewV7()).String(),
		kind: c.Backend,
	}
	for _, opt := range opts {
		opt(s)
	}

	switch len(s.observers) {
	case 0:
		o, err := observability.GetObserver(c.Observer)
		if err != nil {
			return nil, err
		}
		s.observer = o
	case 1:
		s.observer = s.observers[0]
	default:
		s.observer = observability.NewMultiObserver(s.observers...)
	}
	if s.store == nil {
		s.store = store.New(&c.Store)
	}

	if s.backend == nil {
		instructions, err := s.assembleInstructions(ctx, c.Instructions)
		if err != nil {
			return nil, err
		}

		b, err := s.newBackend(ctx, &c, instructions)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s backend: %w", c.Backend, err)
		}
		s.backend = b
	}

	s.observer.OnEvent(ctx, observability.Event{
		Type:      EventCreate,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "session.New",
		Data: map[string]any{
			"session_id": s.id,
			"backend":    string(s.kind),
			"entries":    s.backend.Transcript().Len(),
		},
	})

	return s, nil
}

func (s *Session) assembleInstructions(ctx context.Context, inline string) ([]transcript.Segment, error) {
	b := transcript.NewBuilder().Text(inline)

	if s.store != nil {
		docs, err := store.LoadInstructions(ctx, s.store)
		if err != nil {
			return nil, fmt.Errorf("failed to load instructions: %w", err)
		}
		for _, d := range docs {
			b.Segment(d)
		}
	}

	for _, seg := range s.instructions {
		b.Segment(seg)
	}
	return b.Segments(), nil
}

func (s *Session) newBackend(ctx context.Context, c *Config, instructions []transcript.Segment) (backend.Backend, error) {
	switch c.Backend {
	case backend.KindRemote:
		opts := []remote.Option{
			remote.WithTools(s.tools),
			remote.WithInstructions(instructions...),
			remote.WithObserver(s.observer),
		}
		if s.httpClient != nil {
			opts = append(opts, remote.WithHTTPClient(s.httpClient))
		}
		return remote.New(&c.Remote, opts...)

	case backend.KindLocal:
		model := s.model
		if model == nil {
			m, err := local.NewModel(&c.Local, s.httpClient)
			if err != nil {
				return nil, err
			}
			model = m
		}
		return local.New(ctx, model,
			local.WithTools(s.tools),
			local.WithInstructions(instructions...),
			local.WithObserver(s.observer),
		)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, c.Backend)
	}
}

// ID returns the unique session identifier.
func (s *Session) ID() string {
	return s.id
}

// Transcript returns a snapshot of the session transcript.
func (s *Session) Transcript() *transcript.Transcript {
	return s.backend.Transcript().Clone()
}

// Respond sends a text prompt and returns the model's answer.
func (s *Session) Respond(ctx context.Context, prompt string, opts transcript.GenerationOptions) (string, error) {
	return s.RespondSegments(ctx, transcript.Texts(prompt), opts)
}

// RespondSegments sends a prompt built from segments.
func (s *Session) RespondSegments(ctx context.Context, prompt []transcript.Segment, opts transcript.GenerationOptions) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	text, err := s.backend.Respond(ctx, prompt, opts)
	s.emitRespond(ctx, start, false, err)
	return text, err
}

// RespondStructured sends a text prompt and returns the answer parsed
// against sch.
func (s *Session) RespondStructured(ctx context.Context, prompt string, sch *schema.Schema, opts transcript.GenerationOptions) (*schema.Content, error) {
	return s.RespondStructuredSegments(ctx, transcript.Texts(prompt), sch, opts)
}

// RespondStructuredSegments is RespondStructured for a prompt built from
// segments.
func (s *Session) RespondStructuredSegments(ctx context.Context, prompt []transcript.Segment, sch *schema.Schema, opts transcript.GenerationOptions) (*schema.Content, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	content, err := s.backend.RespondStructured(ctx, prompt, sch, opts)
	s.emitRespond(ctx, start, true, err)
	return content, err
}

// Export writes the transcript to the session store under the session ID.
func (s *Session) Export(ctx context.Context) error {
	if s.store == nil {
		return ErrNoStore
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return store.SaveTranscript(ctx, s.store, s.id, s.backend.Transcript())
}

func (s *Session) emitRespond(ctx context.Context, start time.Time, structured bool, err error) {
	level := observability.LevelInfo
	data := map[string]any{
		"session_id":  s.id,
		"structured":  structured,
		"duration_ms": time.Since(start).Milliseconds(),
		"entries":     s.backend.Transcript().Len(),
	}
	if err != nil {
		level = observability.LevelWarning
		data["error"] = err.Error()
	}

	s.observer.OnEvent(ctx, observability.Event{
		Type:      EventRespond,
		Level:     level,
		Timestamp: time.Now(),
		Source:    "session.Respond",
		Data:      data,
	})
}
