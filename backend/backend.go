// Package backend defines the contract shared by every model backend a
// session can drive.
//
// A Backend owns its transcript. Each respond call appends a prompt entry,
// talks to the model, and appends whatever the exchange produced before
// returning. Callers serialize respond calls; transcripts may be read
// concurrently.
package backend

import (
	"context"

	"github.com/tailored-agentic-units/intelligence/core/schema"
	"github.com/tailored-agentic-units/intelligence/core/transcript"
)

// Kind selects a backend implementation.
type Kind string

const (
	KindLocal  Kind = "local"
	KindRemote Kind = "remote"
)

// IsValid reports whether k names a known backend.
func (k Kind) IsValid() bool {
	return k == KindLocal || k == KindRemote
}

// Backend is a conversational session bound to one model.
type Backend interface {
	// Respond sends a prompt and returns the model's free-text answer.
	Respond(ctx context.Context, prompt []transcript.Segment, opts transcript.GenerationOptions) (string, error)

	// RespondStructured sends a prompt and returns output validated against s.
	RespondStructured(ctx context.Context, prompt []transcript.Segment, s *schema.Schema, opts transcript.GenerationOptions) (*schema.Content, error)

	// Transcript returns the backend's transcript.
	Transcript() *transcript.Transcript
}
