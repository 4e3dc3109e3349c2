// Package provider builds the configured streaming client.
package provider

import (
	"context"
	"fmt"

	"github.com/sweetpotato0/uidraft/config"
	"github.com/sweetpotato0/uidraft/contrib/provider/claude"
	"github.com/sweetpotato0/uidraft/contrib/provider/gemini"
	"github.com/sweetpotato0/uidraft/contrib/provider/groq"
	"github.com/sweetpotato0/uidraft/contrib/provider/openai"
	"github.com/sweetpotato0/uidraft/designer"
)

// New returns the client named by cfg.Provider.
func New(ctx context.Context, cfg *config.Config) (designer.StreamLLMClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("provider config cannot be nil")
	}
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return openai.New(&openai.Config{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			MaxTokens:   int64(cfg.MaxTokens),
			Temperature: cfg.Temperature,
		}), nil
	case config.ProviderClaude:
		return claude.New(&claude.Config{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			MaxTokens:   int64(cfg.MaxTokens),
			Temperature: cfg.Temperature,
		}), nil
	case config.ProviderGemini:
		return gemini.New(ctx, &gemini.Config{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			MaxTokens:   int32(cfg.MaxTokens),
			Temperature: float32(cfg.Temperature),
		})
	case config.ProviderGroq:
		return groq.New(&groq.Config{
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			MaxTokens:   int64(cfg.MaxTokens),
			Temperature: cfg.Temperature,
		}), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}
