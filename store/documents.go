package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/tailored-agentic-units/intelligence/core/transcript"
)

const transcriptExt = ".json"

// LoadInstructions reads every document under NamespaceInstructions in key
// order and returns one text segment per non-blank document.
func LoadInstructions(ctx context.Context, s Store) ([]transcript.Segment, error) {
	keys, err := s.List(ctx, NamespaceInstructions)
	if err != nil {
		return nil, fmt.Errorf("list instructions: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	entries, err := s.Load(ctx, keys...)
	if err != nil {
		return nil, fmt.Errorf("load instructions: %w", err)
	}

	b := transcript.NewBuilder()
	for _, e := range entries {
		if text := strings.TrimSpace(string(e.Value)); text != "" {
			b.Text(text)
		}
	}
	return b.Segments(), nil
}

// SaveTranscript exports t under NamespaceTranscripts as indented JSON.
func SaveTranscript(ctx context.Context, s Store, id string, t *transcript.Transcript) error {
	data, err := t.JSON(true)
	if err != nil {
		return err
	}
	return s.Save(ctx, Entry{Key: transcriptKey(id), Value: []byte(data)})
}

// LoadTranscript reads a transcript previously written by SaveTranscript.
func LoadTranscript(ctx context.Context, s Store, id string) (*transcript.Transcript, error) {
	key := transcriptKey(id)
	entries, err := s.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	return transcript.Parse(entries[0].Value)
}

// Transcripts returns the IDs of the stored transcripts.
func Transcripts(ctx context.Context, s Store) ([]string, error) {
	keys, err := s.List(ctx, NamespaceTranscripts)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		name := strings.TrimPrefix(k, NamespaceTranscripts+"/")
		if id, ok := strings.CutSuffix(name, transcriptExt); ok && !strings.Contains(id, "/") {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func transcriptKey(id string) string {
	return NamespaceTranscripts + "/" + id + transcriptExt
}
