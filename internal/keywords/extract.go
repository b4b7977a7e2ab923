// Package keywords extracts normalized keyword sets from free text.
// It is used by the ATS scorer to compute lexical overlap between a resume
// and a job description.
package keywords

import (
	"regexp"
	"sort"
	"strings"
)

// MinTokenLength is the shortest token kept by Extract.
const MinTokenLength = 3

// tokenPattern matches runs of lowercase alphanumerics plus the symbols that
// appear inside technology names (c++, c#, node.js).
var tokenPattern = regexp.MustCompile(`[a-z0-9+#.]+`)

const alphanumerics = "abcdefghijklmnopqrstuvwxyz0123456789"

// Set is a collection of normalized keywords. Membership is case-insensitive
// because every member is stored lowercased.
type Set map[string]struct{}

// Extract tokenizes text and returns the set of keywords it contains.
// Tokens are lowercased and stripped of leading and trailing dots. They are
// dropped when shorter than MinTokenLength, made only of symbols, or present
// in the stop-word list.
func Extract(text string) Set {
	set := make(Set)
	if text == "" {
		return set
	}

	for _, raw := range tokenPattern.FindAllString(strings.ToLower(text), -1) {
		token := normalizeToken(raw)
		if len(token) < MinTokenLength || !strings.ContainsAny(token, alphanumerics) {
			continue
		}
		if IsStopWord(token) {
			continue
		}
		set[token] = struct{}{}
	}

	return set
}

// normalizeToken removes sentence punctuation glued to a token ("docker." or
// "...python") while keeping inner dots such as "node.js".
func normalizeToken(token string) string {
	return strings.Trim(token, ".")
}

// Contains reports whether word (in any case) is a member of s.
func (s Set) Contains(word string) bool {
	_, ok := s[strings.ToLower(word)]
	return ok
}

// Len returns the number of keywords in the set.
func (s Set) Len() int {
	return len(s)
}

// Intersect returns the keywords present in both s and other.
func (s Set) Intersect(other Set) Set {
	result := make(Set)
	for word := range s {
		if _, ok := other[word]; ok {
			result[word] = struct{}{}
		}
	}
	return result
}

// Subtract returns the keywords of s that are absent from other.
func (s Set) Subtract(other Set) Set {
	result := make(Set)
	for word := range s {
		if _, ok := other[word]; !ok {
			result[word] = struct{}{}
		}
	}
	return result
}

// Sorted returns the members in lexicographic order.
func (s Set) Sorted() []string {
	words := make([]string, 0, len(s))
	for word := range s {
		words = append(words, word)
	}
	sort.Strings(words)
	return words
}

// SortedLimit returns at most limit members in lexicographic order.
// A non-positive limit returns every member.
func (s Set) SortedLimit(limit int) []string {
	words := s.Sorted()
	if limit > 0 && len(words) > limit {
		words = words[:limit]
	}
	return words
}
