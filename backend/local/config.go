package local

import (
	"fmt"
	"net/http"
)

// Providers a local Model can be built for.
const (
	ProviderOllama  = "ollama"
	ProviderConnect = "connect"
)

const (
	DefaultMaxRounds = 10
	DefaultProcedure = "/intelligence.v1.InferenceService/Respond"
)

// Config selects and configures the local model runtime.
type Config struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`

	// Host is the Ollama daemon address or the inference service base URL.
	// Empty means the OLLAMA_HOST environment for Ollama.
	Host string `json:"host,omitempty"`

	// Procedure is the Connect procedure path of the inference service.
	Procedure string `json:"procedure,omitempty"`

	MaxRounds int `json:"max_rounds,omitempty"`
}

// DefaultConfig returns the default local configuration.
func DefaultConfig() Config {
	return Config{
		Provider:  ProviderOllama,
		Procedure: DefaultProcedure,
		MaxRounds: DefaultMaxRounds,
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Provider != "" {
		c.Provider = source.Provider
	}
	if source.Model != "" {
		c.Model = source.Model
	}
	if source.Host != "" {
		c.Host = source.Host
	}
	if source.Procedure != "" {
		c.Procedure = source.Procedure
	}
	if source.MaxRounds > 0 {
		c.MaxRounds = source.MaxRounds
	}
}

// NewModel builds the Model named by cfg.Provider. httpClient may be nil.
func NewModel(cfg *Config, httpClient *http.Client) (Model, error) {
	c := DefaultConfig()
	c.Merge(cfg)

	switch c.Provider {
	case ProviderOllama:
		return NewOllamaModel(&c, httpClient)
	case ProviderConnect:
		return NewConnectModel(&c, httpClient)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, c.Provider)
	}
}
