// Package transcript models the append-only record of a conversation:
// instructions, prompts, tool calls, tool outputs, and model responses.
//
// A Transcript is written by exactly one backend session and read by any
// number of callers. Entries are never mutated or removed once appended, and
// serialization is a pure function of the entries so that identical
// transcripts produce byte-identical JSON.
package transcript

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"
)

// Transcript is an ordered, append-only sequence of entries. It is safe for
// concurrent readers alongside a single writer.
type Transcript struct {
	mu      sync.RWMutex
	entries []Entry
}

// New creates a transcript holding copies of the given entries.
func New(entries ...Entry) *Transcript {
	t := &Transcript{entries: make([]Entry, 0, len(entries))}
	for _, e := range entries {
		t.entries = append(t.entries, e.clone())
	}
	return t
}

// Append records an entry at the end of the transcript.
func (t *Transcript) Append(entries ...Entry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, e := range entries {
		t.entries = append(t.entries, e.clone())
	}
}

// Entries returns a defensive copy of the ordered entries.
func (t *Transcript) Entries() []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	copied := make([]Entry, len(t.entries))
	for i, e := range t.entries {
		copied[i] = e.clone()
	}
	return copied
}

// Len returns the number of entries.
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Last returns the most recent entry.
func (t *Transcript) Last() (Entry, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if len(t.entries) == 0 {
		return Entry{}, false
	}
	return t.entries[len(t.entries)-1].clone(), true
}

// Instructions returns the leading instructions entry, if present.
func (t *Transcript) Instructions() (Entry, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if len(t.entries) == 0 || t.entries[0].Kind != KindInstructions {
		return Entry{}, false
	}
	return t.entries[0].clone(), true
}

// Clone returns an independent copy of the transcript.
func (t *Transcript) Clone() *Transcript {
	return New(t.Entries()...)
}

type document struct {
	Entries []Entry `json:"entries"`
}

// MarshalJSON encodes the transcript as {"entries":[...]}.
func (t *Transcript) MarshalJSON() ([]byte, error) {
	entries := t.Entries()
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.Marshal(document{Entries: entries})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	return data, nil
}

// JSON returns the canonical serialized form. When indent is true the
// output is pretty-printed with two-space indentation.
func (t *Transcript) JSON(indent bool) (string, error) {
	data, err := t.MarshalJSON()
	if err != nil {
		return "", err
	}
	if !indent {
		return string(data), nil
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	return buf.String(), nil
}

// Parse decodes a document produced by MarshalJSON. Entry kinds are
// validated and an instructions entry is only accepted in first position.
func Parse(data []byte) (*Transcript, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
	}

	for i, e := range doc.Entries {
		if !e.Kind.IsValid() {
			return nil, fmt.Errorf("%w: %q at index %d", ErrUnknownKind, e.Kind, i)
		}
		if e.Kind == KindInstructions && i != 0 {
			return nil, fmt.Errorf("%w: found at index %d", ErrInstructionsPosition, i)
		}
	}

	return &Transcript{entries: doc.Entries}, nil
}
