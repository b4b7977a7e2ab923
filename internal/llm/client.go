package llm

import (
	"context"
)

// Client is an abstraction over LLM providers.
// The Caller is the only component that invokes it directly.
type Client interface {
	// GenerateContent sends prompt to the backend and returns its text payload
	GenerateContent(ctx context.Context, prompt string) (string, error)
	// Model returns the model identifier used for requests
	Model() string
	// Close releases any resources held by the client
	Close() error
}

// NewClient builds the backend named by config.Provider. A nil config or an
// unknown provider selects Gemini.
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Provider == ProviderOpenAI {
		return NewOpenAIClient(config, apiKey)
	}
	return NewGeminiClient(ctx, config, apiKey)
}
