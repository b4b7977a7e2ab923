package ats

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-builder/internal/llm"
)

type stubGenerator struct {
	response string
	err      error
	prompt   string
}

func (s *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	s.prompt = prompt
	return s.response, s.err
}

func TestParseScoreResponse(t *testing.T) {
	raw := `Here is my analysis.

[SCORE]
78

[MATCHING]
- Python
* Docker
• REST APIs

[MISSING]
1. AWS
2) Terraform
- docker

[SUGGESTIONS]
- Mention AWS projects explicitly.
- Add metrics to bullet points.
`

	result := ParseScoreResponse(raw)

	assert.Equal(t, 78, result.Score)
	assert.Equal(t, []string{"Python", "Docker", "REST APIs"}, result.Matching)
	assert.Equal(t, []string{"AWS", "Terraform"}, result.Missing)
	assert.Equal(t, []string{"Mention AWS projects explicitly.", "Add metrics to bullet points."}, result.Suggestions)
}

func TestParseScoreResponse_ScoreForms(t *testing.T) {
	tests := []struct {
		block string
		want  int
	}{
		{"85", 85},
		{"Score: 85/100", 85},
		{"92%", 92},
		{"150", 100},
		{"-5", 0},
		{"none", 0},
	}

	for _, tt := range tests {
		result := ParseScoreResponse("[SCORE]\n" + tt.block + "\n[MATCHING]\n- go")
		assert.Equal(t, tt.want, result.Score, tt.block)
	}
}

func TestParseScoreResponse_Degenerate(t *testing.T) {
	for _, raw := range []string{"", "no blocks at all", "[UNKNOWN]\n- x"} {
		result := ParseScoreResponse(raw)
		assert.Zero(t, result.Score)
		assert.Empty(t, result.Matching)
		assert.NotNil(t, result.Matching)
		assert.NotNil(t, result.Missing)
		assert.NotNil(t, result.Suggestions)
	}
}

func TestDelegatedScorer_Score(t *testing.T) {
	gen := &stubGenerator{response: "[SCORE]\n64\n[MATCHING]\n- Go\n[MISSING]\n- Rust\n[SUGGESTIONS]\n- Learn Rust"}
	scorer := NewDelegatedScorer(gen)

	result, err := scorer.Score(context.Background(), "my resume text", "the job text")

	require.NoError(t, err)
	assert.Equal(t, 64, result.Score)
	assert.Contains(t, gen.prompt, "my resume text")
	assert.Contains(t, gen.prompt, "the job text")
	assert.Contains(t, gen.prompt, "[SUGGESTIONS]")
}

func TestDelegatedScorer_PropagatesGenerationError(t *testing.T) {
	genErr := &llm.GenerationError{Kind: llm.AuthFailure, Message: "bad key"}
	scorer := NewDelegatedScorer(&stubGenerator{err: genErr})

	_, err := scorer.Score(context.Background(), "a", "b")

	require.Error(t, err)
	assert.Same(t, genErr, err)

	var target *llm.GenerationError
	assert.True(t, errors.As(err, &target))
}

func TestStrategies_Select(t *testing.T) {
	hybrid := NewHybridScorer(nil)
	delegated := NewDelegatedScorer(&stubGenerator{response: "[SCORE]\n10"})
	strategies := NewStrategies(ModeHybrid, hybrid, delegated)

	s, err := strategies.Select("")
	require.NoError(t, err)
	assert.Equal(t, ModeHybrid, s.Mode())

	s, err = strategies.Select("Delegated")
	require.NoError(t, err)
	assert.Equal(t, ModeDelegated, s.Mode())

	result, err := s.Score(context.Background(), "a", "b")
	require.NoError(t, err)
	assert.Equal(t, 10, result.Score)

	_, err = strategies.Select("magic")
	assert.ErrorContains(t, err, "unknown ATS strategy")
}

func TestStrategies_Unconfigured(t *testing.T) {
	strategies := NewStrategies(ModeDelegated, NewHybridScorer(nil), nil)

	_, err := strategies.Select("")
	assert.ErrorContains(t, err, "not configured")
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeHybrid, m)

	m, err = ParseMode(" HYBRID ")
	require.NoError(t, err)
	assert.Equal(t, ModeHybrid, m)

	_, err = ParseMode("llm")
	assert.Error(t, err)
}
