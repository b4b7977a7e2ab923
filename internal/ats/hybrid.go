package ats

import (
	"context"
	"log"
	"math"
	"strings"

	"github.com/jonathan/resume-builder/internal/embedding"
	"github.com/jonathan/resume-builder/internal/keywords"
)

// Weights of the hybrid score.
const (
	SemanticWeight = 0.6
	LexicalWeight  = 0.4
)

// Analysis exposes the sub-scores behind a hybrid MatchResult.
type Analysis struct {
	Similarity float64 // cosine similarity of the two embeddings
	Semantic   float64 // Similarity * 100
	Lexical    float64 // share of reference keywords present in the candidate, 0-100
	Result     MatchResult
}

// HybridScorer blends semantic similarity (60%) with keyword overlap (40%).
// It is safe for concurrent use when its Provider is.
type HybridScorer struct {
	provider embedding.Provider
}

// NewHybridScorer creates a scorer using provider for embeddings.
// A nil provider scores on keywords alone (semantic sub-score 0).
func NewHybridScorer(provider embedding.Provider) *HybridScorer {
	return &HybridScorer{provider: provider}
}

// Score rates candidate against reference. It never fails: embedding errors
// and empty input degrade the semantic sub-score to 0.
func (s *HybridScorer) Score(ctx context.Context, candidate, reference string) MatchResult {
	return s.Analyze(ctx, candidate, reference).Result
}

// Analyze is Score with the intermediate sub-scores.
func (s *HybridScorer) Analyze(ctx context.Context, candidate, reference string) Analysis {
	similarity := s.similarity(ctx, candidate, reference)
	semantic := similarity * 100

	jdKeywords := keywords.Extract(reference)
	candidateKeywords := keywords.Extract(candidate)
	matching := jdKeywords.Intersect(candidateKeywords)
	missing := jdKeywords.Subtract(candidateKeywords)

	var lexical float64
	if jdKeywords.Len() > 0 {
		lexical = float64(matching.Len()) / float64(jdKeywords.Len()) * 100
	}

	score := clampScore(int(math.Round(SemanticWeight*semantic + LexicalWeight*lexical)))

	missingSorted := missing.Sorted()
	return Analysis{
		Similarity: similarity,
		Semantic:   semantic,
		Lexical:    lexical,
		Result: MatchResult{
			Score:       score,
			Matching:    capList(matching.Sorted(), MaxListedKeywords),
			Missing:     capList(missingSorted, MaxListedKeywords),
			Suggestions: Suggestions(score, missingSorted, matching.Len()),
		},
	}
}

func (s *HybridScorer) similarity(ctx context.Context, candidate, reference string) float64 {
	if s.provider == nil || strings.TrimSpace(candidate) == "" || strings.TrimSpace(reference) == "" {
		return 0
	}

	vectors, err := s.provider.Embed(ctx, []string{candidate, reference})
	if err != nil {
		log.Printf("[ats] embedding failed, semantic score set to 0: %v", err)
		return 0
	}
	if len(vectors) != 2 {
		log.Printf("[ats] embedding returned %d vectors, semantic score set to 0", len(vectors))
		return 0
	}
	return CosineSimilarity(vectors[0], vectors[1])
}
