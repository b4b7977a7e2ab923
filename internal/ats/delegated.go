package ats

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/resume-builder/internal/prompts"
)

// Generator produces text for a prompt. *llm.Caller implements it.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// DelegatedScorer asks the generation backend for the full judgment.
type DelegatedScorer struct {
	generator Generator
}

// NewDelegatedScorer creates a scorer that delegates to generator.
func NewDelegatedScorer(generator Generator) *DelegatedScorer {
	return &DelegatedScorer{generator: generator}
}

// Score prompts the backend with both texts and parses its block response.
// Generation errors are returned unchanged.
func (s *DelegatedScorer) Score(ctx context.Context, candidate, reference string) (MatchResult, error) {
	prompt := BuildScorePrompt(candidate, reference)

	raw, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return MatchResult{}, err
	}

	return ParseScoreResponse(raw), nil
}

// BuildScorePrompt renders the delegated scoring prompt.
func BuildScorePrompt(candidate, reference string) string {
	return prompts.Render(prompts.ScoreMatch, map[string]string{
		"Resume":         candidate,
		"JobDescription": reference,
	})
}

type responseBlock int

const (
	blockNone responseBlock = iota
	blockScore
	blockMatching
	blockMissing
	blockSuggestions
)

var blockLabels = map[string]responseBlock{
	"[SCORE]":       blockScore,
	"[MATCHING]":    blockMatching,
	"[MISSING]":     blockMissing,
	"[SUGGESTIONS]": blockSuggestions,
}

// maxSuggestions bounds the suggestions kept from a delegated response.
const maxSuggestions = 10

var (
	integerPattern = regexp.MustCompile(`-?\d+`)
	numberedItem   = regexp.MustCompile(`^\d+[.)]\s*`)
)

// ParseScoreResponse reads the [SCORE], [MATCHING], [MISSING] and
// [SUGGESTIONS] blocks of a backend response. It never fails: absent blocks
// yield zero values. Keywords listed as both matching and missing are kept
// only as matching.
func ParseScoreResponse(raw string) MatchResult {
	var (
		current     = blockNone
		scoreText   strings.Builder
		matching    []string
		missing     []string
		suggestions []string
	)

	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if block, ok := blockLabels[strings.ToUpper(trimmed)]; ok {
			current = block
			continue
		}

		switch current {
		case blockScore:
			scoreText.WriteString(trimmed)
			scoreText.WriteByte(' ')
		case blockMatching:
			matching = appendItem(matching, trimmed)
		case blockMissing:
			missing = appendItem(missing, trimmed)
		case blockSuggestions:
			suggestions = appendItem(suggestions, trimmed)
		}
	}

	score := 0
	if m := integerPattern.FindString(scoreText.String()); m != "" {
		if n, err := strconv.Atoi(m); err == nil {
			score = n
		}
	}

	missing = withoutMatching(missing, matching)

	return MatchResult{
		Score:       clampScore(score),
		Matching:    capList(matching, MaxListedKeywords),
		Missing:     capList(missing, MaxListedKeywords),
		Suggestions: capList(suggestions, maxSuggestions),
	}
}

// appendItem strips a bullet or number prefix and appends the remainder.
func appendItem(items []string, line string) []string {
	item := stripListMarker(line)
	if item == "" {
		return items
	}
	return append(items, item)
}

func stripListMarker(line string) string {
	for _, bullet := range []string{"-", "*", "•"} {
		if strings.HasPrefix(line, bullet) {
			return strings.TrimSpace(strings.TrimPrefix(line, bullet))
		}
	}
	if loc := numberedItem.FindStringIndex(line); loc != nil {
		return strings.TrimSpace(line[loc[1]:])
	}
	return line
}

func withoutMatching(missing, matching []string) []string {
	seen := make(map[string]struct{}, len(matching))
	for _, m := range matching {
		seen[strings.ToLower(m)] = struct{}{}
	}

	out := missing[:0]
	for _, m := range missing {
		if _, dup := seen[strings.ToLower(m)]; !dup {
			out = append(out, m)
		}
	}
	return out
}
