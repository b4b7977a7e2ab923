package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-builder/internal/llm"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	// Create temp config file
	content := `{
		"llm_provider": "openai",
		"openai_model": "gpt-4o",
		"ats_strategy": "delegated",
		"max_retries": 5,
		"allowed_origins": ["https://app.example.com"],
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "openai", cfg.LLMProvider)
	assert.Equal(t, "gpt-4o", cfg.OpenAIModel)
	assert.Equal(t, "delegated", cfg.ATSStrategy)
	assert.Equal(t, 5, cfg.MaxRetries)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.AllowedOrigins)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	content := `{ invalid json }`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestFromEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "gem-key")
	t.Setenv("GEMINI_MODEL", "gemini-2.0-flash")
	t.Setenv("ATS_STRATEGY", "delegated")
	t.Setenv("ALLOWED_ORIGINS", "http://a.example, ,http://b.example")
	t.Setenv("LLM_MAX_RETRIES", "4")
	t.Setenv("LLM_TEMPERATURE", "0.2")
	t.Setenv("PORT", "9090")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "gem-key", cfg.GeminiAPIKey)
	assert.Equal(t, "gemini-2.0-flash", cfg.GeminiModel)
	assert.Equal(t, "delegated", cfg.ATSStrategy)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 4, cfg.MaxRetries)
	assert.InDelta(t, 0.2, cfg.Temperature, 1e-6)
	assert.Equal(t, 9090, cfg.Port)
}

func TestFromEnv_InvalidNumber(t *testing.T) {
	t.Setenv("LLM_MAX_RETRIES", "three")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LLM_MAX_RETRIES")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		cfg    Config
		errMsg string
	}{
		{"empty config", Config{}, ""},
		{"unknown llm provider", Config{LLMProvider: "anthropic"}, "llm_provider"},
		{"unknown embedding provider", Config{EmbeddingProvider: "cohere"}, "embedding_provider"},
		{"unknown strategy", Config{ATSStrategy: "magic"}, "unknown ATS strategy"},
		{"negative retries", Config{MaxRetries: -1}, "max_retries"},
		{"temperature too high", Config{Temperature: 3}, "temperature"},
		{"port out of range", Config{Port: 70000}, "port"},
		{"valid full config", Config{LLMProvider: "openai", EmbeddingProvider: "gemini", ATSStrategy: "hybrid", MaxRetries: 3, Port: 8080}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	defaults := Config{
		GeminiAPIKey: "default-key",
		ATSStrategy:  "delegated",
		MaxRetries:   5,
	}

	partial := Config{
		GeminiModel: "gemini-2.0-flash",
		Port:        9000,
	}

	merged := partial.MergeWithDefaults(defaults)

	// Custom values should be preserved
	assert.Equal(t, "gemini-2.0-flash", merged.GeminiModel)
	assert.Equal(t, 9000, merged.Port)

	// Default values should fill in empty fields
	assert.Equal(t, "default-key", merged.GeminiAPIKey)
	assert.Equal(t, "delegated", merged.ATSStrategy)
	assert.Equal(t, 5, merged.MaxRetries)
}

func TestMergeWithDefaults_EmptyDefaults(t *testing.T) {
	cfg := Config{}

	merged := cfg.MergeWithDefaults(Config{})

	assert.Equal(t, string(llm.ProviderGemini), merged.LLMProvider)
	assert.Equal(t, "gemini", merged.EmbeddingProvider)
	assert.Equal(t, "gemini-1.5-flash", merged.GeminiModel)
	assert.Equal(t, "hybrid", merged.ATSStrategy)
	assert.Equal(t, llm.DefaultMaxAttempts, merged.MaxRetries)
	assert.Equal(t, DefaultBaseBackoffSeconds, merged.BaseBackoffSecs)
	assert.Equal(t, DefaultPort, merged.Port)
	assert.Equal(t, llm.DefaultTemperature, merged.Temperature)
	assert.Equal(t, llm.DefaultMaxOutputTokens, merged.MaxOutputTokens)
	assert.Equal(t, []string{DefaultAllowedOrigin}, merged.AllowedOrigins)
}

func TestMergeWithDefaults_EmbeddingFollowsLLMProvider(t *testing.T) {
	cfg := Config{LLMProvider: string(llm.ProviderOpenAI)}

	merged := cfg.MergeWithDefaults(Config{})

	assert.Equal(t, "openai", merged.EmbeddingProvider)
}

func TestConfig_Derived(t *testing.T) {
	cfg := Config{
		LLMProvider:     string(llm.ProviderOpenAI),
		OpenAIAPIKey:    "oa-key",
		OpenAIModel:     "gpt-4o",
		GeminiAPIKey:    "gem-key",
		MaxRetries:      2,
		BaseBackoffSecs: 1,
		CacheTTLHours:   2,
		ValkeyAddr:      "localhost:6379",
	}

	llmCfg := cfg.LLMConfig()
	assert.Equal(t, llm.ProviderOpenAI, llmCfg.Provider)
	assert.Equal(t, "gpt-4o", llmCfg.Model)
	assert.Equal(t, "oa-key", cfg.LLMAPIKey())

	assert.Equal(t, llm.RetryPolicy{MaxAttempts: 2, BaseBackoff: time.Second}, cfg.RetryPolicy())

	emb := cfg.EmbeddingConfig()
	assert.Equal(t, "gem-key", emb.APIKey, "empty embedding provider uses Gemini credentials")
	assert.Equal(t, "localhost:6379", emb.CacheAddr)
	assert.Equal(t, 2*time.Hour, emb.CacheTTL)
}

func TestConfig_RetryPolicyDefaults(t *testing.T) {
	assert.Equal(t, llm.DefaultRetryPolicy(), (&Config{}).RetryPolicy())
}
