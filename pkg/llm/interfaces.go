// Package llm wraps the chat models used for content generation behind one
// small interface.
package llm

import (
	"context"
	"errors"
	"time"
)

// ErrNotConfigured is returned when a provider has no API key.
var ErrNotConfigured = errors.New("llm: provider not configured")

// Prompt is one single-turn request.
type Prompt struct {
	System string
	User   string
	// Temperature and MaxTokens use the provider default when zero.
	Temperature float32
	MaxTokens   int
}

// Generator produces text for a prompt, either at once or in chunks.
type Generator interface {
	Generate(ctx context.Context, p Prompt) (string, error)
	// Stream calls fn for every chunk in order. An error from fn aborts the
	// stream and is returned.
	Stream(ctx context.Context, p Prompt, fn func(chunk string) error) error
}

// ProviderConfig configures one model endpoint.
type ProviderConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Enabled reports whether the provider has credentials.
func (p ProviderConfig) Enabled() bool {
	return p.APIKey != ""
}

// Config holds every provider plus the shared throttling settings.
type Config struct {
	OpenAI   ProviderConfig `mapstructure:"openai"`
	Gemini   ProviderConfig `mapstructure:"gemini"`
	Research ProviderConfig `mapstructure:"research"`

	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
	Burst             int           `mapstructure:"burst"`
	MaxRetries        int           `mapstructure:"max_retries"`
	RetryDelay        time.Duration `mapstructure:"retry_delay"`
}

func DefaultConfig() Config {
	return Config{
		OpenAI:   ProviderConfig{Model: "gpt-4.1-nano", Timeout: 60 * time.Second},
		Gemini:   ProviderConfig{Model: "gemini-1.5-pro", Timeout: 5 * time.Minute},
		Research: ProviderConfig{BaseURL: "https://api.perplexity.ai", Model: "sonar", Timeout: 30 * time.Second},

		RequestsPerMinute: 60,
		Burst:             5,
		MaxRetries:        3,
		RetryDelay:        2 * time.Second,
	}
}
