package keywords

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "empty text",
			input:    "",
			expected: []string{},
		},
		{
			name:     "mixed case is lowercased",
			input:    "Python AWS Docker",
			expected: []string{"aws", "docker", "python"},
		},
		{
			name:     "stop words and short tokens dropped",
			input:    "I have used Python and Docker extensively",
			expected: []string{"docker", "python"},
		},
		{
			name:     "technology symbols preserved",
			input:    "C++, C#, Node.js and .NET",
			expected: []string{"c++", "net", "node.js"},
		},
		{
			name:     "sentence punctuation stripped",
			input:    "We deploy with Kubernetes. Terraform...",
			expected: []string{"deploy", "kubernetes", "terraform"},
		},
		{
			name:     "duplicates collapse",
			input:    "golang Golang GOLANG",
			expected: []string{"golang"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Extract(tt.input).Sorted())
		})
	}
}

func TestExtract_Idempotent(t *testing.T) {
	inputs := []string{
		"Senior Backend Engineer: Go, PostgreSQL, gRPC, Kubernetes, CI/CD.",
		"Built node.js services... shipped C++ tooling; mentored 5 engineers",
		"",
	}

	for _, input := range inputs {
		first := Extract(input)
		second := Extract(strings.Join(first.Sorted(), " "))
		assert.Equal(t, first.Sorted(), second.Sorted(), "input %q", input)
	}
}

func TestExtract_SymbolOnlyTokensDropped(t *testing.T) {
	set := Extract("### Kubernetes\n+++ c++ ### +#+ 2024 ...")

	assert.Equal(t, []string{"2024", "c++", "kubernetes"}, set.Sorted())
}

func TestExtract_CaseInsensitive(t *testing.T) {
	lower := Extract(strings.ToLower("Terraform AWS Lambda"))
	upper := Extract(strings.ToUpper("Terraform AWS Lambda"))
	assert.Equal(t, lower, upper)
	assert.True(t, lower.Contains("LAMBDA"))
}

func TestSetOperations(t *testing.T) {
	jd := Extract("python aws docker")
	candidate := Extract("python docker kubernetes")

	matching := jd.Intersect(candidate)
	missing := jd.Subtract(candidate)

	assert.Equal(t, []string{"docker", "python"}, matching.Sorted())
	assert.Equal(t, []string{"aws"}, missing.Sorted())
	assert.Empty(t, matching.Intersect(missing))
	assert.Equal(t, jd.Len(), matching.Len()+missing.Len())
}

func TestSortedLimit(t *testing.T) {
	s := Extract("zeta alpha gamma beta delta")

	assert.Equal(t, []string{"alpha", "beta"}, s.SortedLimit(2))
	assert.Len(t, s.SortedLimit(0), 5)
	assert.Len(t, s.SortedLimit(10), 5)
}

func TestIsStopWord(t *testing.T) {
	assert.True(t, IsStopWord("the"))
	assert.True(t, IsStopWord("experience"))
	assert.False(t, IsStopWord("kubernetes"))
}
