package ats

import (
	"fmt"
	"strings"
)

// Suggestion thresholds.
const (
	maxMissingInSuggestion = 8
	lowMatchThreshold      = 10
)

// Fixed closing recommendations appended to every suggestion list.
var closingSuggestions = []string{
	"Quantify your achievements with numbers (e.g. 'Reduced load time by 40%').",
	"Make sure your skills section explicitly lists the technologies the job requires.",
}

// Suggestions builds the deterministic advice list for a hybrid score.
// missing must already be sorted. Order: score band, missing keywords,
// low-match advice, closers.
func Suggestions(score int, missing []string, matchingCount int) []string {
	suggestions := []string{bandSuggestion(score)}

	if len(missing) > 0 {
		shown := missing
		if len(shown) > maxMissingInSuggestion {
			shown = shown[:maxMissingInSuggestion]
		}
		suggestions = append(suggestions,
			fmt.Sprintf("Add these missing keywords where they truthfully apply: %s.", strings.Join(shown, ", ")))
	}

	if matchingCount < lowMatchThreshold {
		suggestions = append(suggestions,
			"Use more of the role's technical terms and start bullet points with strong action verbs.")
	}

	return append(suggestions, closingSuggestions...)
}

func bandSuggestion(score int) string {
	switch {
	case score < 40:
		return "Your resume needs significant rework to target this role. Rewrite your summary and experience around the job's core requirements."
	case score < 60:
		return "Partial match. Add more role-specific keywords and tailor your experience bullets to the job description."
	case score < 80:
		return "Good match. Fine-tune wording and highlight the most relevant projects to push the score higher."
	default:
		return "Excellent match. Your resume is well optimized for this role."
	}
}
