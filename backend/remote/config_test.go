package remote_test

import (
	"testing"
	"time"

	"github.com/tailored-agentic-units/intelligence/backend/remote"
)

func TestDefaultConfig(t *testing.T) {
	cfg := remote.DefaultConfig()

	if cfg.BaseURL != remote.DefaultBaseURL {
		t.Errorf("got base url %q, want %q", cfg.BaseURL, remote.DefaultBaseURL)
	}
	if cfg.MaxRounds != remote.DefaultMaxRounds {
		t.Errorf("got max rounds %d, want %d", cfg.MaxRounds, remote.DefaultMaxRounds)
	}
	if cfg.Timeout() != remote.DefaultTimeout*time.Second {
		t.Errorf("got timeout %v", cfg.Timeout())
	}
	if cfg.SerialTools {
		t.Error("tools should run concurrently by default")
	}
}

func TestConfig_Merge(t *testing.T) {
	cfg := remote.DefaultConfig()
	cfg.Merge(&remote.Config{
		Model:       "gpt-4.1",
		MaxRounds:   3,
		SerialTools: true,
	})

	if cfg.Model != "gpt-4.1" {
		t.Errorf("got model %q", cfg.Model)
	}
	if cfg.MaxRounds != 3 {
		t.Errorf("got max rounds %d, want 3", cfg.MaxRounds)
	}
	if !cfg.SerialTools {
		t.Error("serial tools not merged")
	}
	if cfg.BaseURL != remote.DefaultBaseURL {
		t.Errorf("zero-value base url overwrote default: %q", cfg.BaseURL)
	}
}
