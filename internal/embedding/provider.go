// Package embedding turns text into dense vectors for semantic comparison.
// Providers are constructed once at startup and shared; every implementation
// is safe for concurrent use.
package embedding

import (
	"context"
	"fmt"
	"time"
)

// Provider names accepted by Config.Provider.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Default embedding models per provider.
const (
	DefaultGeminiModel = "text-embedding-004"
	DefaultOpenAIModel = "text-embedding-3-small"
	DefaultCacheTTL    = 24 * time.Hour
)

// Provider embeds a batch of texts. The result holds one vector per input,
// in input order.
type Provider interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Close() error
}

// Config selects and configures an embedding provider.
type Config struct {
	Provider string
	Model    string
	APIKey   string

	// CacheAddr enables the Valkey cache when non-empty.
	CacheAddr     string
	CachePassword string
	CacheTTL      time.Duration
}

// New builds the configured provider, wrapped in a Valkey cache when
// CacheAddr is set.
func New(ctx context.Context, cfg Config) (Provider, error) {
	var (
		base Provider
		err  error
	)

	switch cfg.Provider {
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.APIKey, cfg.Model)
	case ProviderGemini, "":
		base, err = NewGeminiProvider(ctx, cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	if cfg.CacheAddr == "" {
		return base, nil
	}

	store, err := NewValkeyStore(ctx, cfg.CacheAddr, cfg.CachePassword)
	if err != nil {
		_ = base.Close()
		return nil, err
	}

	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return NewCachedProvider(base, store, modelName(cfg), ttl), nil
}

func modelName(cfg Config) string {
	if cfg.Model != "" {
		return cfg.Model
	}
	if cfg.Provider == ProviderOpenAI {
		return DefaultOpenAIModel
	}
	return DefaultGeminiModel
}

// checkCount verifies a backend returned one vector per input.
func checkCount(got, want int) error {
	if got != want {
		return fmt.Errorf("embedding backend returned %d vectors for %d inputs", got, want)
	}
	return nil
}
