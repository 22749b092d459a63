package store_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/tailored-agentic-units/intelligence/core/transcript"
	"github.com/tailored-agentic-units/intelligence/store"
)

func TestLoadInstructions(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "instructions/02-format.md", "Answer in one sentence.\n")
	writeTestFile(t, root, "instructions/01-role.md", "You are a travel assistant.")
	writeTestFile(t, root, "instructions/03-blank.md", "  \n\t")
	writeTestFile(t, root, "transcripts/x.json", "{}")

	segments, err := store.LoadInstructions(context.Background(), store.NewFileStore(root))
	if err != nil {
		t.Fatalf("LoadInstructions() error = %v", err)
	}

	want := transcript.Texts("You are a travel assistant.", "Answer in one sentence.")
	if !slices.Equal(segments, want) {
		t.Errorf("got %v, want %v", segments, want)
	}
}

func TestLoadInstructions_Empty(t *testing.T) {
	segments, err := store.LoadInstructions(context.Background(), store.NewFileStore(t.TempDir()))
	if err != nil {
		t.Fatalf("LoadInstructions() error = %v", err)
	}
	if len(segments) != 0 {
		t.Errorf("got %d segments, want 0", len(segments))
	}
}

func TestTranscriptExport(t *testing.T) {
	s := store.NewFileStore(t.TempDir())
	ctx := context.Background()

	tr := transcript.New(
		transcript.NewPrompt(transcript.Texts("hi"), transcript.GenerationOptions{}, nil),
		transcript.NewResponse(transcript.Texts("hello")),
	)

	if err := store.SaveTranscript(ctx, s, "0192-abc", tr); err != nil {
		t.Fatalf("SaveTranscript() error = %v", err)
	}
	if err := s.Save(ctx, store.Entry{Key: "transcripts/notes.txt", Value: []byte("x")}); err != nil {
		t.Fatal(err)
	}

	ids, err := store.Transcripts(ctx, s)
	if err != nil {
		t.Fatalf("Transcripts() error = %v", err)
	}
	if !slices.Equal(ids, []string{"0192-abc"}) {
		t.Errorf("Transcripts() = %v", ids)
	}

	loaded, err := store.LoadTranscript(ctx, s, "0192-abc")
	if err != nil {
		t.Fatalf("LoadTranscript() error = %v", err)
	}

	want, _ := tr.JSON(false)
	got, _ := loaded.JSON(false)
	if got != want {
		t.Errorf("round trip changed the transcript:\n got %s\nwant %s", got, want)
	}
}

func TestLoadTranscript_Missing(t *testing.T) {
	_, err := store.LoadTranscript(context.Background(), store.NewFileStore(t.TempDir()), "nope")
	if !errors.Is(err, store.ErrKeyNotFound) {
		t.Errorf("LoadTranscript() error = %v, want %v", err, store.ErrKeyNotFound)
	}
}

// emptyStore loads nothing and reports no error.
type emptyStore struct{ store.Store }

func (emptyStore) Load(context.Context, ...string) ([]store.Entry, error) {
	return nil, nil
}

func TestLoadTranscript_NoEntries(t *testing.T) {
	_, err := store.LoadTranscript(context.Background(), emptyStore{}, "abc")
	if !errors.Is(err, store.ErrKeyNotFound) {
		t.Errorf("LoadTranscript() error = %v, want %v", err, store.ErrKeyNotFound)
	}
}
