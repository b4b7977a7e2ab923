package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/jonathan/resume-builder/internal/ats"
	"github.com/jonathan/resume-builder/internal/careerdocs"
	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/embedding"
	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/types"
)

// loadConfig reads the environment, overlays the --config file when given,
// fills defaults and validates the result.
func loadConfig() (config.Config, error) {
	env, err := config.FromEnv()
	if err != nil {
		return config.Config{}, err
	}

	cfg := env
	if configPath != "" {
		fileCfg, err := config.LoadConfig(configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = fileCfg
	}

	merged := cfg.MergeWithDefaults(*env)
	merged.Verbose = merged.Verbose || verbose
	if err := merged.Validate(); err != nil {
		return config.Config{}, err
	}
	return merged, nil
}

// services holds the backends shared by the commands.
type services struct {
	caller   *llm.Caller
	hybrid   *ats.HybridScorer
	docs     *careerdocs.Service
	closers  []func() error
	embedder embedding.Provider
}

// newServices builds the generation client, the embedding provider and the
// document service. Without an embedding key the hybrid scorer runs on
// keywords alone.
func newServices(ctx context.Context, cfg config.Config) (*services, error) {
	apiKey := cfg.LLMAPIKey()
	if apiKey == "" {
		return nil, fmt.Errorf("an API key for llm provider %q is required", cfg.LLMProvider)
	}

	client, err := llm.NewClient(ctx, cfg.LLMConfig(), apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	s := &services{closers: []func() error{client.Close}}
	s.caller = llm.NewCaller(client, llm.WithRetryPolicy(cfg.RetryPolicy()))

	embCfg := cfg.EmbeddingConfig()
	if embCfg.APIKey == "" {
		log.Printf("[ats] no embedding API key for %q; semantic scoring disabled", embCfg.Provider)
	} else {
		provider, err := embedding.New(ctx, embCfg)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to create embedding provider: %w", err)
		}
		s.embedder = provider
		s.closers = append(s.closers, provider.Close)
	}

	mode, err := ats.ParseMode(cfg.ATSStrategy)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.hybrid = ats.NewHybridScorer(s.embedder)
	s.docs = careerdocs.NewService(s.caller, ats.NewStrategies(mode, s.hybrid, ats.NewDelegatedScorer(s.caller)))
	return s, nil
}

// Close releases clients in reverse creation order.
func (s *services) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			log.Printf("[cli] close failed: %v", err)
		}
	}
}

// readProfile loads a profile JSON file, checking it against the profile schema.
func readProfile(path string) (*types.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file %s: %w", path, err)
	}
	if err := schemas.ValidateProfile(data); err != nil {
		return nil, fmt.Errorf("profile %s is invalid: %w", path, err)
	}

	var p types.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile JSON: %w", err)
	}
	p.Normalize()
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("profile %s is invalid: %w", path, err)
	}
	return &p, nil
}

// readText reads a whole file, or stdin for "-". An empty path yields "".
func readText(path string) (string, error) {
	switch path {
	case "":
		return "", nil
	case "-":
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// writeOutput writes data to path, or to stdout when path is empty.
func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(append(data, '\n'))
		return err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", path, err)
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	return writeOutput(path, data)
}
