// Package ats scores how well a resume matches a job description.
//
// Two strategies share the MatchResult contract. The hybrid scorer is
// deterministic: it blends embedding similarity with keyword overlap and
// never fails. The delegated scorer asks the generation backend for the
// whole judgment and surfaces its errors unchanged.
package ats

// MaxListedKeywords caps the matching and missing lists of a MatchResult.
const MaxListedKeywords = 20

// MatchResult is the outcome of scoring a candidate text against a reference.
type MatchResult struct {
	Score       int      `json:"score"`
	Matching    []string `json:"matching_keywords"`
	Missing     []string `json:"missing_keywords"`
	Suggestions []string `json:"improvement_suggestions"`
}

// clampScore bounds a score to [0, 100].
func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// capList truncates list to at most n entries and never returns nil.
func capList(list []string, n int) []string {
	if len(list) > n {
		list = list[:n]
	}
	if list == nil {
		return []string{}
	}
	return list
}
