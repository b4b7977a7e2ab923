// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-builder/internal/ats"
	"github.com/jonathan/resume-builder/internal/portfolio"
	"github.com/jonathan/resume-builder/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, clip(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// clip shortens s to at most n runes, marking the cut with "...".
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// writeList writes up to limit items under heading, then a count of the rest.
func writeList(sb *strings.Builder, heading string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(heading + ":\n")
	for _, item := range items[:min(len(items), limit)] {
		fmt.Fprintf(sb, "  • %s\n", item)
	}
	if len(items) > limit {
		fmt.Fprintf(sb, "  ... and %d more\n", len(items)-limit)
	}
	sb.WriteString("\n")
}

// PrintProfile outputs a short summary of the profile used for generation.
func (p *Printer) PrintProfile(profile *types.Profile) {
	if profile == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Name:     %s\n", profile.PersonalInfo.Name)
	fmt.Fprintf(&sb, "Email:    %s\n", profile.PersonalInfo.Email)
	fmt.Fprintf(&sb, "Sections: %d experience, %d projects, %d education\n\n",
		len(profile.Experience), len(profile.Projects), len(profile.Education))
	writeList(&sb, "Skills", profile.Skills, maxItemsToShow)

	p.printBox("PROFILE", strings.TrimRight(sb.String(), "\n"))
}

// PrintMatchResult outputs an ATS score with its keyword lists and suggestions.
func (p *Printer) PrintMatchResult(result ats.MatchResult) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Score:    %d/100\n\n", result.Score)
	writeList(&sb, "Matching", result.Matching, maxItemsToShow)
	writeList(&sb, "Missing", result.Missing, maxItemsToShow)
	writeList(&sb, "Suggestions", result.Suggestions, 3)

	p.printBox("ATS MATCH", strings.TrimRight(sb.String(), "\n"))
}

// PrintAnalysis outputs the sub-scores behind a hybrid score.
func (p *Printer) PrintAnalysis(a ats.Analysis) {
	content := fmt.Sprintf("Similarity: %.3f\nSemantic:   %.1f (x%.1f)\nLexical:    %.1f (x%.1f)\nCombined:   %d",
		a.Similarity, a.Semantic, ats.SemanticWeight, a.Lexical, ats.LexicalWeight, a.Result.Score)
	p.printBox("HYBRID BREAKDOWN", content)
}

// PrintSections outputs which portfolio sections were found.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintSections(s portfolio.Sections) {
	if s.IsEmpty() {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "⚠ NO LABELED SECTIONS FOUND")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	for _, field := range []struct{ name, text string }{
		{"About me", s.AboutMe},
		{"Bio", s.ProfessionalBio},
		{"LinkedIn", s.LinkedInSummary},
		{"GitHub", s.GitHubHighlights},
	} {
		if field.text == "" {
			continue
		}
		first, _, _ := strings.Cut(field.text, "\n")
		fmt.Fprintf(&sb, "%-9s %s\n", field.name+":", first)
	}

	names := make([]string, 0, len(s.ProjectDescriptions))
	for _, pd := range s.ProjectDescriptions {
		names = append(names, pd.Name)
	}
	if len(names) > 0 {
		sb.WriteString("\n")
	}
	writeList(&sb, "Projects", names, maxItemsToShow)

	p.printBox("PORTFOLIO SECTIONS", strings.TrimRight(sb.String(), "\n"))
}
