package session

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tailored-agentic-units/intelligence/backend"
	"github.com/tailored-agentic-units/intelligence/backend/local"
	"github.com/tailored-agentic-units/intelligence/backend/remote"
	"github.com/tailored-agentic-units/intelligence/store"
)

// Config holds session initialization parameters. Backend selects which of
// the Remote or Local sections is used.
type Config struct {
	Backend backend.Kind  `json:"backend"`
	Remote  remote.Config `json:"remote"`
	Local   local.Config  `json:"local"`

	// Store locates instruction documents and transcript exports.
	Store store.Config `json:"store"`

	// Instructions is inline instruction text placed before any stored
	// instruction documents.
	Instructions string `json:"instructions,omitempty"`

	// Observer names a registered observer ("slog", "noop").
	Observer string `json:"observer,omitempty"`
}

// DefaultConfig returns a Config with defaults for every section.
func DefaultConfig() Config {
	return Config{
		Backend:  backend.KindRemote,
		Remote:   remote.DefaultConfig(),
		Local:    local.DefaultConfig(),
		Store:    store.DefaultConfig(),
		Observer: "slog",
	}
}

// Merge applies non-zero values from source into c, delegating to each
// section's Merge method.
func (c *Config) Merge(source *Config) {
	c.Remote.Merge(&source.Remote)
	c.Local.Merge(&source.Local)
	c.Store.Merge(&source.Store)

	if source.Backend != "" {
		c.Backend = source.Backend
	}
	if source.Instructions != "" {
		c.Instructions = source.Instructions
	}
	if source.Observer != "" {
		c.Observer = source.Observer
	}
}

// LoadConfig reads a JSON config file, merges it with defaults, and returns
// the resulting Config.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded Config
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Merge(&loaded)
	return &cfg, nil
}
