// Package groq streams from Groq's OpenAI compatible endpoint.
package groq

import (
	"github.com/sweetpotato0/uidraft/contrib/provider/openai"
)

const (
	BaseURL      = "https://api.groq.com/openai/v1/"
	DefaultModel = "llama-3.3-70b-versatile"
)

// Config holds Groq provider configuration
type Config struct {
	APIKey      string
	Model       string
	MaxTokens   int64
	Temperature float64
}

// DefaultConfig returns default Groq configuration
func DefaultConfig(apiKey string) *Config {
	return &Config{
		APIKey:      apiKey,
		Model:       DefaultModel,
		MaxTokens:   2048,
		Temperature: 0.7,
	}
}

// New returns an OpenAI provider pointed at Groq.
func New(config *Config) *openai.Provider {
	if config == nil {
		config = DefaultConfig("")
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}
	return openai.New(&openai.Config{
		APIKey:      config.APIKey,
		BaseURL:     BaseURL,
		Model:       config.Model,
		MaxTokens:   config.MaxTokens,
		Temperature: config.Temperature,
	})
}
