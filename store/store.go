// Package store persists session material on pluggable storage: instruction
// documents read at session construction and exported transcripts.
//
// Keys are /-separated relative paths. Two namespaces are used by the
// session layer, NamespaceInstructions and NamespaceTranscripts.
package store

import "context"

// Namespaces of the key hierarchy.
const (
	NamespaceInstructions = "instructions"
	NamespaceTranscripts  = "transcripts"
)

// Entry is a stored document.
type Entry struct {
	Key   string
	Value []byte
}

// Store reads and writes entries. Implementations perform I/O on each call
// and hold no cache.
type Store interface {
	// List returns the keys under prefix in lexical order. An empty prefix
	// lists everything.
	List(ctx context.Context, prefix string) ([]string, error)
	// Load retrieves entries for the specified keys, in the given order.
	Load(ctx context.Context, keys ...string) ([]Entry, error)
	// Save persists entries, creating or overwriting as needed.
	Save(ctx context.Context, entries ...Entry) error
	// Delete removes entries. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error
}
