package remote

import "time"

const (
	DefaultBaseURL   = "https://api.openai.com/v1"
	DefaultMaxRounds = 10
	DefaultTimeout   = 120
)

// Config holds remote backend parameters.
type Config struct {
	Model   string `json:"model"`
	APIKey  string `json:"api_key,omitempty"`
	BaseURL string `json:"base_url,omitempty"`

	// TimeoutSeconds bounds each HTTP exchange with the model.
	TimeoutSeconds int `json:"timeout_seconds,omitempty"`

	// MaxRounds caps tool-calling rounds per respond call.
	MaxRounds int `json:"max_rounds,omitempty"`

	// SerialTools runs a round's tool calls one at a time instead of
	// concurrently.
	SerialTools bool `json:"serial_tools,omitempty"`
}

// DefaultConfig returns the default remote configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL:        DefaultBaseURL,
		TimeoutSeconds: DefaultTimeout,
		MaxRounds:      DefaultMaxRounds,
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Model != "" {
		c.Model = source.Model
	}
	if source.APIKey != "" {
		c.APIKey = source.APIKey
	}
	if source.BaseURL != "" {
		c.BaseURL = source.BaseURL
	}
	if source.TimeoutSeconds > 0 {
		c.TimeoutSeconds = source.TimeoutSeconds
	}
	if source.MaxRounds > 0 {
		c.MaxRounds = source.MaxRounds
	}
	if source.SerialTools {
		c.SerialTools = true
	}
}

// Timeout returns the per-request timeout. Zero means no timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
