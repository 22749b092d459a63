package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestBuiltinTools(t *testing.T) {
	registry, err := builtinTools()
	if err != nil {
		t.Fatalf("builtinTools failed: %v", err)
	}

	want := []string{"datetime", "read_file", "list_directory"}
	names := registry.Names()
	if len(names) != len(want) {
		t.Fatalf("got tools %v, want %v", names, want)
	}
	for i, n := range want {
		if names[i] != n {
			t.Errorf("tool %d: got %q, want %q", i, names[i], n)
		}
	}
}

func TestBuiltinTools_Invoke(t *testing.T) {
	registry, err := builtinTools()
	if err != nil {
		t.Fatalf("builtinTools failed: %v", err)
	}

	dir := t.TempDir()
	file := filepath.Join(dir, "note.txt")
	if err := os.WriteFile(file, []byte("remember the milk"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()

	t.Run("datetime", func(t *testing.T) {
		out, err := registry.Invoke(ctx, "datetime", "")
		if err != nil {
			t.Fatalf("Invoke failed: %v", err)
		}
		var s string
		if err := json.Unmarshal([]byte(out), &s); err != nil {
			t.Fatalf("output %s is not a JSON string: %v", out, err)
		}
		if _, err := time.Parse(time.RFC3339, s); err != nil {
			t.Errorf("output %q is not RFC3339: %v", s, err)
		}
	})

	t.Run("read_file", func(t *testing.T) {
		args, _ := json.Marshal(map[string]string{"path": file})
		out, err := registry.Invoke(ctx, "read_file", string(args))
		if err != nil {
			t.Fatalf("Invoke failed: %v", err)
		}
		if out != `"remember the milk"` {
			t.Errorf("got %s", out)
		}
	})

	t.Run("read_file missing", func(t *testing.T) {
		args, _ := json.Marshal(map[string]string{"path": filepath.Join(dir, "missing")})
		out, err := registry.Invoke(ctx, "read_file", string(args))
		if err != nil {
			t.Fatalf("Invoke failed: %v", err)
		}
		if !strings.HasPrefix(out, `{"error":`) {
			t.Errorf("got %s, want error payload", out)
		}
	})

	t.Run("list_directory", func(t *testing.T) {
		args, _ := json.Marshal(map[string]string{"path": dir})
		out, err := registry.Invoke(ctx, "list_directory", string(args))
		if err != nil {
			t.Fatalf("Invoke failed: %v", err)
		}
		var got listing
		if err := json.Unmarshal([]byte(out), &got); err != nil {
			t.Fatalf("decode %s: %v", out, err)
		}
		if strings.Join(got.Entries, ",") != "note.txt,sub/" {
			t.Errorf("got entries %v", got.Entries)
		}
	})
}
