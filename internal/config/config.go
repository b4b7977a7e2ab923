// Package config provides configuration loading and validation for the
// server and CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/resume-builder/internal/ats"
	"github.com/jonathan/resume-builder/internal/embedding"
	"github.com/jonathan/resume-builder/internal/llm"
)

// Defaults applied by MergeWithDefaults.
const (
	DefaultPort               = 8000
	DefaultCacheTTLHours      = 24
	DefaultAllowedOrigin      = "http://localhost:3000"
	DefaultBaseBackoffSeconds = 15
)

// Config represents application configuration. It can be loaded from a JSON
// file and from environment variables; MergeWithDefaults fills the gaps.
type Config struct {
	// Generation backend
	LLMProvider     string  `json:"llm_provider,omitempty"`
	GeminiAPIKey    string  `json:"gemini_api_key,omitempty"`
	GeminiModel     string  `json:"gemini_model,omitempty"`
	OpenAIAPIKey    string  `json:"openai_api_key,omitempty"`
	OpenAIModel     string  `json:"openai_model,omitempty"`
	Temperature     float32 `json:"temperature,omitempty"`
	MaxOutputTokens int32   `json:"max_output_tokens,omitempty"`
	MaxRetries      int     `json:"max_retries,omitempty"`          // attempts per generation call
	BaseBackoffSecs int     `json:"base_backoff_seconds,omitempty"` // linear backoff step

	// Embeddings
	EmbeddingProvider string `json:"embedding_provider,omitempty"`
	EmbeddingModel    string `json:"embedding_model,omitempty"`
	ValkeyAddr        string `json:"valkey_addr,omitempty"` // enables the embedding cache
	ValkeyPassword    string `json:"valkey_password,omitempty"`
	CacheTTLHours     int    `json:"cache_ttl_hours,omitempty"`

	// Scoring
	ATSStrategy string `json:"ats_strategy,omitempty"` // hybrid | delegated

	// Server
	DatabaseURL    string   `json:"database_url,omitempty"`
	Port           int      `json:"port,omitempty"`
	AllowedOrigins []string `json:"allowed_origins,omitempty"`

	Verbose bool `json:"verbose,omitempty"`
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv reads configuration from environment variables. Unset variables
// leave fields at their zero value; malformed numbers are reported.
func FromEnv() (*Config, error) {
	cfg := &Config{
		LLMProvider:       os.Getenv("LLM_PROVIDER"),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiModel:       os.Getenv("GEMINI_MODEL"),
		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:       os.Getenv("OPENAI_MODEL"),
		EmbeddingProvider: os.Getenv("EMBEDDING_PROVIDER"),
		EmbeddingModel:    os.Getenv("EMBEDDING_MODEL"),
		ValkeyAddr:        os.Getenv("VALKEY_ADDR"),
		ValkeyPassword:    os.Getenv("VALKEY_PASSWORD"),
		ATSStrategy:       os.Getenv("ATS_STRATEGY"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		AllowedOrigins:    splitList(os.Getenv("ALLOWED_ORIGINS")),
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"LLM_MAX_RETRIES", &cfg.MaxRetries},
		{"LLM_BASE_BACKOFF_SECONDS", &cfg.BaseBackoffSecs},
		{"EMBEDDING_CACHE_TTL_HOURS", &cfg.CacheTTLHours},
		{"PORT", &cfg.Port},
	}
	for _, v := range ints {
		raw := os.Getenv(v.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %v", v.name, err)
		}
		*v.dst = n
	}

	if raw := os.Getenv("LLM_MAX_OUTPUT_TOKENS"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid LLM_MAX_OUTPUT_TOKENS: %v", err)
		}
		cfg.MaxOutputTokens = int32(n)
	}
	if raw := os.Getenv("LLM_TEMPERATURE"); raw != "" {
		f, err := strconv.ParseFloat(raw, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid LLM_TEMPERATURE: %v", err)
		}
		cfg.Temperature = float32(f)
	}

	return cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: API keys are not required here; commands that call a backend check
// for them when they build a client.
func (c *Config) Validate() error {
	switch llm.Provider(c.LLMProvider) {
	case "", llm.ProviderGemini, llm.ProviderOpenAI:
	default:
		return fmt.Errorf("config error: unknown llm_provider %q", c.LLMProvider)
	}
	switch c.EmbeddingProvider {
	case "", embedding.ProviderGemini, embedding.ProviderOpenAI:
	default:
		return fmt.Errorf("config error: unknown embedding_provider %q", c.EmbeddingProvider)
	}
	if _, err := ats.ParseMode(c.ATSStrategy); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	// Validate numeric ranges
	if c.MaxRetries < 0 {
		return fmt.Errorf("config error: 'max_retries' must be non-negative")
	}
	if c.BaseBackoffSecs < 0 {
		return fmt.Errorf("config error: 'base_backoff_seconds' must be non-negative")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("config error: 'temperature' must be between 0 and 2")
	}
	if c.MaxOutputTokens < 0 {
		return fmt.Errorf("config error: 'max_output_tokens' must be non-negative")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' out of range: %d", c.Port)
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults,
// then from the built-in defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	mergeString(&result.LLMProvider, defaults.LLMProvider, string(llm.ProviderGemini))
	mergeString(&result.GeminiAPIKey, defaults.GeminiAPIKey, "")
	mergeString(&result.GeminiModel, defaults.GeminiModel, llm.DefaultGeminiConfig().Model)
	mergeString(&result.OpenAIAPIKey, defaults.OpenAIAPIKey, "")
	mergeString(&result.OpenAIModel, defaults.OpenAIModel, llm.DefaultOpenAIConfig().Model)
	mergeString(&result.EmbeddingProvider, defaults.EmbeddingProvider, result.LLMProvider)
	mergeString(&result.EmbeddingModel, defaults.EmbeddingModel, "")
	mergeString(&result.ValkeyAddr, defaults.ValkeyAddr, "")
	mergeString(&result.ValkeyPassword, defaults.ValkeyPassword, "")
	mergeString(&result.ATSStrategy, defaults.ATSStrategy, string(ats.ModeHybrid))
	mergeString(&result.DatabaseURL, defaults.DatabaseURL, "")

	// Numeric fields: use default if zero
	mergeInt(&result.MaxRetries, defaults.MaxRetries, llm.DefaultMaxAttempts)
	mergeInt(&result.BaseBackoffSecs, defaults.BaseBackoffSecs, DefaultBaseBackoffSeconds)
	mergeInt(&result.CacheTTLHours, defaults.CacheTTLHours, DefaultCacheTTLHours)
	mergeInt(&result.Port, defaults.Port, DefaultPort)
	if result.Temperature == 0 {
		result.Temperature = defaults.Temperature
		if result.Temperature == 0 {
			result.Temperature = llm.DefaultTemperature
		}
	}
	if result.MaxOutputTokens == 0 {
		result.MaxOutputTokens = defaults.MaxOutputTokens
		if result.MaxOutputTokens == 0 {
			result.MaxOutputTokens = llm.DefaultMaxOutputTokens
		}
	}

	if len(result.AllowedOrigins) == 0 {
		result.AllowedOrigins = defaults.AllowedOrigins
		if len(result.AllowedOrigins) == 0 {
			result.AllowedOrigins = []string{DefaultAllowedOrigin}
		}
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// LLMConfig returns the generation client configuration.
func (c *Config) LLMConfig() *llm.Config {
	cfg := llm.ConfigFor(c.LLMProvider)
	if llm.Provider(c.LLMProvider) == llm.ProviderOpenAI {
		cfg = cfg.WithModel(c.OpenAIModel)
	} else {
		cfg = cfg.WithModel(c.GeminiModel)
	}
	if c.Temperature > 0 {
		cfg.Temperature = c.Temperature
	}
	if c.MaxOutputTokens > 0 {
		cfg.MaxOutputTokens = c.MaxOutputTokens
	}
	return cfg
}

// LLMAPIKey returns the API key for the configured generation provider.
func (c *Config) LLMAPIKey() string {
	if llm.Provider(c.LLMProvider) == llm.ProviderOpenAI {
		return c.OpenAIAPIKey
	}
	return c.GeminiAPIKey
}

// RetryPolicy returns the generation retry policy.
func (c *Config) RetryPolicy() llm.RetryPolicy {
	policy := llm.DefaultRetryPolicy()
	if c.MaxRetries > 0 {
		policy.MaxAttempts = c.MaxRetries
	}
	if c.BaseBackoffSecs > 0 {
		policy.BaseBackoff = time.Duration(c.BaseBackoffSecs) * time.Second
	}
	return policy
}

// EmbeddingConfig returns the embedding provider configuration.
func (c *Config) EmbeddingConfig() embedding.Config {
	apiKey := c.GeminiAPIKey
	if c.EmbeddingProvider == embedding.ProviderOpenAI {
		apiKey = c.OpenAIAPIKey
	}
	return embedding.Config{
		Provider:      c.EmbeddingProvider,
		Model:         c.EmbeddingModel,
		APIKey:        apiKey,
		CacheAddr:     c.ValkeyAddr,
		CachePassword: c.ValkeyPassword,
		CacheTTL:      time.Duration(c.CacheTTLHours) * time.Hour,
	}
}

func mergeString(dst *string, fallbacks ...string) {
	for _, f := range fallbacks {
		if *dst != "" {
			return
		}
		*dst = f
	}
}

func mergeInt(dst *int, fallbacks ...int) {
	for _, f := range fallbacks {
		if *dst != 0 {
			return
		}
		*dst = f
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
