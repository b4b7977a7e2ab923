package ats

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedProvider returns the configured vectors for every Embed call.
type fixedProvider struct {
	vectors [][]float32
	err     error
	calls   int
}

func (f *fixedProvider) Embed(_ context.Context, texts []string) ([][]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.vectors, nil
}

func (f *fixedProvider) Close() error { return nil }

// similarVectors returns two unit vectors whose cosine similarity is cos.
func similarVectors(cos float32, sin float32) [][]float32 {
	return [][]float32{{1, 0}, {cos, sin}}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"zero norm", []float32{0, 0}, []float32{1, 1}, 0},
		{"both zero", []float32{0, 0}, []float32{0, 0}, 0},
		{"length mismatch", []float32{1, 2}, []float32{1, 2, 3}, 0},
		{"empty", nil, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CosineSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestHybridScorer_Scenario(t *testing.T) {
	// cos = 0.8, so semantic = 80 and lexical = 2/3
	provider := &fixedProvider{vectors: similarVectors(0.8, 0.6)}
	scorer := NewHybridScorer(provider)

	analysis := scorer.Analyze(context.Background(), "I have used Python and Docker extensively", "Python AWS Docker")
	result := analysis.Result

	assert.Equal(t, []string{"docker", "python"}, result.Matching)
	assert.Equal(t, []string{"aws"}, result.Missing)
	assert.InDelta(t, 66.67, analysis.Lexical, 0.01)
	assert.InDelta(t, 80.0, analysis.Semantic, 0.01)
	assert.Equal(t, 75, result.Score)
	assert.Greater(t, float64(result.Score), analysis.Lexical)
	assert.Less(t, float64(result.Score), analysis.Semantic)
	assert.Equal(t, 1, provider.calls)
}

func TestHybridScorer_EmbeddingFailureDegrades(t *testing.T) {
	scorer := NewHybridScorer(&fixedProvider{err: errors.New("quota exceeded")})

	analysis := scorer.Analyze(context.Background(), "I have used Python and Docker extensively", "Python AWS Docker")

	assert.Zero(t, analysis.Semantic)
	// round(0.4 * 66.67)
	assert.Equal(t, 27, analysis.Result.Score)
}

func TestHybridScorer_MismatchedVectorCount(t *testing.T) {
	scorer := NewHybridScorer(&fixedProvider{vectors: [][]float32{{1, 0}}})

	analysis := scorer.Analyze(context.Background(), "python", "python")

	assert.Zero(t, analysis.Similarity)
	assert.Equal(t, 40, analysis.Result.Score)
}

func TestHybridScorer_EmptyInputs(t *testing.T) {
	provider := &fixedProvider{vectors: similarVectors(1, 0)}
	scorer := NewHybridScorer(provider)

	for _, tc := range [][2]string{{"", ""}, {"python", ""}, {"", "python"}, {"   ", "\n"}} {
		result := scorer.Score(context.Background(), tc[0], tc[1])
		assert.GreaterOrEqual(t, result.Score, 0)
		assert.LessOrEqual(t, result.Score, 100)
		assert.NotNil(t, result.Matching)
		assert.NotNil(t, result.Missing)
		assert.NotEmpty(t, result.Suggestions)
	}
	assert.Zero(t, provider.calls, "blank text is never embedded")
}

func TestHybridScorer_ClampsScore(t *testing.T) {
	// Perfect similarity and overlap reach the upper bound exactly.
	provider := &fixedProvider{vectors: [][]float32{{1, 0}, {1, 0}}}
	scorer := NewHybridScorer(provider)

	result := scorer.Score(context.Background(), "golang kubernetes", "golang kubernetes")
	assert.Equal(t, 100, result.Score)

	// Negative similarity with no keyword overlap clamps to 0.
	provider.vectors = [][]float32{{1, 0}, {-1, 0}}
	result = scorer.Score(context.Background(), "golang", "rust")
	assert.Equal(t, 0, result.Score)
}

func TestHybridScorer_NilProvider(t *testing.T) {
	scorer := NewHybridScorer(nil)

	result := scorer.Score(context.Background(), "golang", "golang")
	assert.Equal(t, 40, result.Score)
}

func TestHybridScorer_DisjointAndCovering(t *testing.T) {
	scorer := NewHybridScorer(nil)
	reference := "Golang Kubernetes Terraform PostgreSQL Redis gRPC Kafka"
	candidate := "Built services in Golang on Kubernetes with Redis"

	result := scorer.Score(context.Background(), candidate, reference)

	matching := map[string]bool{}
	for _, m := range result.Matching {
		matching[m] = true
	}
	for _, m := range result.Missing {
		assert.False(t, matching[m], "%q is both matching and missing", m)
	}
	assert.ElementsMatch(t,
		[]string{"golang", "kubernetes", "terraform", "postgresql", "redis", "grpc", "kafka"},
		append(append([]string{}, result.Matching...), result.Missing...))
}

func TestHybridScorer_CapsLists(t *testing.T) {
	var words []string
	for c := 'a'; c <= 'z'; c++ {
		words = append(words, "tool"+string(c)+string(c))
	}
	reference := strings.Join(words, " ")

	result := NewHybridScorer(nil).Score(context.Background(), "", reference)

	assert.Len(t, result.Missing, MaxListedKeywords)
	assert.Equal(t, "toolaa", result.Missing[0])
	assert.Empty(t, result.Matching)
}

func TestSuggestions_Order(t *testing.T) {
	missing := []string{"a1x", "b2x", "c3x", "d4x", "e5x", "f6x", "g7x", "h8x", "i9x"}

	got := Suggestions(35, missing, 2)

	require.Len(t, got, 5)
	assert.Contains(t, got[0], "significant rework")
	assert.Contains(t, got[1], "a1x, b2x, c3x, d4x, e5x, f6x, g7x, h8x.")
	assert.NotContains(t, got[1], "i9x")
	assert.Contains(t, got[2], "action verbs")
	assert.Equal(t, closingSuggestions, got[3:])
}

func TestSuggestions_Bands(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{0, "significant rework"},
		{39, "significant rework"},
		{40, "Partial match"},
		{59, "Partial match"},
		{60, "Good match"},
		{79, "Good match"},
		{80, "Excellent match"},
		{100, "Excellent match"},
	}

	for _, tt := range tests {
		got := Suggestions(tt.score, nil, lowMatchThreshold)
		require.Len(t, got, 3, "no missing and enough matches leaves band plus closers")
		assert.Contains(t, got[0], tt.want, "score %d", tt.score)
	}
}
