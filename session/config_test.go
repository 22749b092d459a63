package session_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tailored-agentic-units/intelligence/backend"
	"github.com/tailored-agentic-units/intelligence/backend/local"
	"github.com/tailored-agentic-units/intelligence/backend/remote"
	"github.com/tailored-agentic-units/intelligence/session"
)

func TestDefaultConfig(t *testing.T) {
	cfg := session.DefaultConfig()

	if cfg.Backend != backend.KindRemote {
		t.Errorf("got backend %q, want %q", cfg.Backend, backend.KindRemote)
	}
	if cfg.Remote.BaseURL != remote.DefaultBaseURL {
		t.Errorf("got base URL %q", cfg.Remote.BaseURL)
	}
	if cfg.Local.Provider != local.ProviderOllama {
		t.Errorf("got provider %q", cfg.Local.Provider)
	}
	if cfg.Observer != "slog" {
		t.Errorf("got observer %q", cfg.Observer)
	}
	if cfg.Store.Path != "" {
		t.Errorf("store should be disabled by default, got %q", cfg.Store.Path)
	}
}

func TestConfig_Merge(t *testing.T) {
	cfg := session.DefaultConfig()
	cfg.Merge(&session.Config{
		Backend:      backend.KindLocal,
		Local:        local.Config{Model: "llama3.2"},
		Remote:       remote.Config{MaxRounds: 4},
		Instructions: "Be brief.",
		Observer:     "noop",
	})

	if cfg.Backend != backend.KindLocal {
		t.Errorf("got backend %q", cfg.Backend)
	}
	if cfg.Local.Model != "llama3.2" || cfg.Local.Provider != local.ProviderOllama {
		t.Errorf("got local %+v", cfg.Local)
	}
	if cfg.Remote.MaxRounds != 4 || cfg.Remote.TimeoutSeconds != remote.DefaultTimeout {
		t.Errorf("got remote %+v", cfg.Remote)
	}
	if cfg.Instructions != "Be brief." || cfg.Observer != "noop" {
		t.Errorf("got instructions %q observer %q", cfg.Instructions, cfg.Observer)
	}

	empty := session.Config{}
	cfg.Merge(&empty)
	if cfg.Backend != backend.KindLocal || cfg.Observer != "noop" {
		t.Error("merging an empty config changed values")
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.json")
	data := `{
		"backend": "remote",
		"remote": {"model": "gpt-4o-mini", "max_rounds": 3},
		"store": {"path": "/srv/intelligence"},
		"observer": "noop"
	}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := session.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Remote.Model != "gpt-4o-mini" || cfg.Remote.MaxRounds != 3 {
		t.Errorf("got remote %+v", cfg.Remote)
	}
	if cfg.Remote.BaseURL != remote.DefaultBaseURL {
		t.Errorf("defaults lost, got base URL %q", cfg.Remote.BaseURL)
	}
	if cfg.Store.Path != "/srv/intelligence" {
		t.Errorf("got store path %q", cfg.Store.Path)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
	}{
		{name: "missing file", path: filepath.Join(dir, "missing.json")},
		{name: "malformed", path: bad},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := session.LoadConfig(tt.path); err == nil {
				t.Error("expected error")
			}
		})
	}
}
