// Package config loads uidraft settings from YAML and the environment.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/goccy/go-yaml"
)

// Provider names accepted by Config.Provider.
const (
	ProviderOpenAI = "openai"
	ProviderClaude = "claude"
	ProviderGemini = "gemini"
	ProviderGroq   = "groq"
)

// Providers lists every supported provider name.
var Providers = []string{ProviderOpenAI, ProviderClaude, ProviderGemini, ProviderGroq}

// apiKeyEnv maps each provider to the variable its key is read from.
var apiKeyEnv = map[string]string{
	ProviderOpenAI: "OPENAI_API_KEY",
	ProviderClaude: "ANTHROPIC_API_KEY",
	ProviderGemini: "GEMINI_API_KEY",
	ProviderGroq:   "GROQ_API_KEY",
}

// Config is the top-level uidraft configuration.
type Config struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`

	// MaxInputTokens bounds the brief; zero disables the check.
	MaxInputTokens int `yaml:"max_input_tokens"`
	// MaxConcurrent bounds in-flight requests per designer.
	MaxConcurrent int `yaml:"max_concurrent"`
	// Tokenizer is "simple" or a tiktoken encoding name.
	Tokenizer string `yaml:"tokenizer"`

	Telemetry TelemetryConfig `yaml:"telemetry"`
	Log       LogConfig       `yaml:"log"`
}

// TelemetryConfig configures tracing.
type TelemetryConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Provider:      ProviderOpenAI,
		MaxTokens:     4096,
		Temperature:   0.7,
		MaxConcurrent: 4,
		Tokenizer:     "simple",
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads path over the defaults and applies the environment. An empty
// path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overlays UIDRAFT_* variables and the provider's API key variable.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("UIDRAFT_PROVIDER"); v != "" {
		c.Provider = v
	}
	if v := os.Getenv("UIDRAFT_MODEL"); v != "" {
		c.Model = v
	}
	if v := os.Getenv("UIDRAFT_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("UIDRAFT_MAX_TOKENS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("UIDRAFT_MAX_TOKENS: %w", err)
		}
		c.MaxTokens = n
	}
	if v := os.Getenv("UIDRAFT_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("UIDRAFT_LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	if c.APIKey == "" {
		if name, ok := apiKeyEnv[c.Provider]; ok {
			c.APIKey = os.Getenv(name)
		}
	}
	return nil
}

// Validate checks the provider settings and the request bounds.
func (c *Config) Validate() error {
	if err := ValidateLLMConfig(c.Provider, c.APIKey, c.Temperature, c.MaxTokens); err != nil {
		return err
	}
	if err := ValidateRateLimiterConfig(c.MaxConcurrent); err != nil {
		return err
	}
	v := NewValidator()
	v.ValidateRange("maxInputTokens", c.MaxInputTokens, 0, 1<<20)
	if c.Log.Format != "" {
		v.ValidateOneOf("log.format", c.Log.Format, "text", "json")
	}
	return v.Error()
}

// APIKeyEnv returns the environment variable read for provider's key.
func APIKeyEnv(provider string) string {
	return apiKeyEnv[provider]
}
