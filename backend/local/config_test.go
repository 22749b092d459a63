package local_test

import (
	"errors"
	"testing"

	"github.com/tailored-agentic-units/intelligence/backend/local"
)

func TestConfig_Merge(t *testing.T) {
	cfg := local.DefaultConfig()
	cfg.Merge(&local.Config{Provider: local.ProviderConnect, Host: "http://localhost:9000"})

	if cfg.Provider != local.ProviderConnect {
		t.Errorf("got provider %q", cfg.Provider)
	}
	if cfg.Procedure != local.DefaultProcedure {
		t.Errorf("zero-value procedure overwrote default: %q", cfg.Procedure)
	}
	if cfg.MaxRounds != local.DefaultMaxRounds {
		t.Errorf("got max rounds %d", cfg.MaxRounds)
	}
}

func TestNewModel(t *testing.T) {
	tests := []struct {
		name    string
		cfg     local.Config
		wantErr error
	}{
		{"ollama", local.Config{Model: "llama3.2", Host: "http://127.0.0.1:11434"}, nil},
		{"ollama without model", local.Config{Host: "http://127.0.0.1:11434"}, local.ErrMissingModel},
		{"connect", local.Config{Provider: local.ProviderConnect, Host: "http://127.0.0.1:9000"}, nil},
		{"connect without host", local.Config{Provider: local.ProviderConnect}, local.ErrMissingHost},
		{"unknown provider", local.Config{Provider: "coreml"}, local.ErrUnknownProvider},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := local.NewModel(&tt.cfg, nil)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("NewModel() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewModel() unexpected error: %v", err)
			}
			if m == nil {
				t.Error("NewModel() returned nil model")
			}
		})
	}
}
