package store_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/tailored-agentic-units/intelligence/store"
)

func writeTestFile(t *testing.T, root, key, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFileStore_List_MissingRoot(t *testing.T) {
	s := store.NewFileStore(filepath.Join(t.TempDir(), "nonexistent"))

	keys, err := s.List(context.Background(), "")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("List() returned %d keys, want 0", len(keys))
	}
}

func TestFileStore_List(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "instructions/02-style.md", "style")
	writeTestFile(t, root, "instructions/01-role.md", "role")
	writeTestFile(t, root, "instructionsx/other.md", "not a child")
	writeTestFile(t, root, "transcripts/abc.json", "{}")
	writeTestFile(t, root, ".hidden", "secret")
	writeTestFile(t, root, "instructions/.draft/notes.md", "hidden dir")

	s := store.NewFileStore(root)

	tests := []struct {
		name   string
		prefix string
		want   []string
	}{
		{
			name:   "all",
			prefix: "",
			want: []string{
				"instructions/01-role.md",
				"instructions/02-style.md",
				"instructionsx/other.md",
				"transcripts/abc.json",
			},
		},
		{
			name:   "namespace",
			prefix: store.NamespaceInstructions,
			want:   []string{"instructions/01-role.md", "instructions/02-style.md"},
		},
		{
			name:   "trailing slash",
			prefix: "transcripts/",
			want:   []string{"transcripts/abc.json"},
		},
		{
			name:   "exact key",
			prefix: "transcripts/abc.json",
			want:   []string{"transcripts/abc.json"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.List(context.Background(), tt.prefix)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("List(%q) = %v, want %v", tt.prefix, got, tt.want)
			}
		})
	}
}

func TestFileStore_SaveLoad(t *testing.T) {
	root := t.TempDir()
	s := store.NewFileStore(root)
	ctx := context.Background()

	err := s.Save(ctx,
		store.Entry{Key: "a/b/c.txt", Value: []byte("first")},
		store.Entry{Key: "d.txt", Value: []byte("second")},
	)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	entries, err := s.Load(ctx, "d.txt", "a/b/c.txt")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Load() returned %d entries, want 2", len(entries))
	}
	if entries[0].Key != "d.txt" || string(entries[0].Value) != "second" {
		t.Errorf("entries[0] = %s=%q", entries[0].Key, entries[0].Value)
	}
	if string(entries[1].Value) != "first" {
		t.Errorf("entries[1] = %q, want %q", entries[1].Value, "first")
	}

	if err := s.Save(ctx, store.Entry{Key: "d.txt", Value: []byte("overwritten")}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	entries, _ = s.Load(ctx, "d.txt")
	if string(entries[0].Value) != "overwritten" {
		t.Errorf("got %q after overwrite", entries[0].Value)
	}

	leftovers, _ := filepath.Glob(filepath.Join(root, ".tmp-*"))
	if len(leftovers) != 0 {
		t.Errorf("temporary files left behind: %v", leftovers)
	}
}

func TestFileStore_Load_Missing(t *testing.T) {
	s := store.NewFileStore(t.TempDir())

	_, err := s.Load(context.Background(), "missing.md")
	if !errors.Is(err, store.ErrKeyNotFound) {
		t.Errorf("Load() error = %v, want %v", err, store.ErrKeyNotFound)
	}
}

func TestFileStore_InvalidKeys(t *testing.T) {
	s := store.NewFileStore(t.TempDir())
	ctx := context.Background()

	keys := []string{"", "/etc/passwd", "../escape", "a/../../escape", "a//b", `a\b`, "./a"}
	for _, key := range keys {
		t.Run(key, func(t *testing.T) {
			if _, err := s.Load(ctx, key); !errors.Is(err, store.ErrInvalidKey) {
				t.Errorf("Load(%q) error = %v, want %v", key, err, store.ErrInvalidKey)
			}
			if err := s.Save(ctx, store.Entry{Key: key}); !errors.Is(err, store.ErrInvalidKey) {
				t.Errorf("Save(%q) error = %v, want %v", key, err, store.ErrInvalidKey)
			}
		})
	}
}

func TestFileStore_Delete(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "transcripts/nested/one.json", "{}")
	writeTestFile(t, root, "keep.md", "keep")

	s := store.NewFileStore(root)
	ctx := context.Background()

	if err := s.Delete(ctx, "transcripts/nested/one.json", "never-existed.md"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(root, "transcripts")); !os.IsNotExist(err) {
		t.Errorf("empty parent directories should be pruned, stat error = %v", err)
	}
	if _, err := os.Stat(root); err != nil {
		t.Errorf("root should survive pruning: %v", err)
	}

	keys, _ := s.List(ctx, "")
	if !slices.Equal(keys, []string{"keep.md"}) {
		t.Errorf("List() = %v, want [keep.md]", keys)
	}
}

func TestConfig(t *testing.T) {
	cfg := store.DefaultConfig()
	if store.New(&cfg) != nil {
		t.Error("default config should disable the store")
	}

	cfg.Merge(&store.Config{Path: "/var/lib/intelligence"})
	if cfg.Path != "/var/lib/intelligence" {
		t.Errorf("got path %q", cfg.Path)
	}
	cfg.Merge(&store.Config{})
	if cfg.Path != "/var/lib/intelligence" {
		t.Errorf("empty source overwrote path: %q", cfg.Path)
	}

	fs, ok := store.New(&cfg).(*store.FileStore)
	if !ok || fs.Root() != "/var/lib/intelligence" {
		t.Errorf("New() = %v, want FileStore at the configured path", fs)
	}
}
