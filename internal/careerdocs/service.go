// Package careerdocs generates resumes, cover letters and portfolio content
// from a stored profile, and scores resumes against job descriptions.
package careerdocs

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/resume-builder/internal/ats"
	"github.com/jonathan/resume-builder/internal/portfolio"
	"github.com/jonathan/resume-builder/internal/profile"
	"github.com/jonathan/resume-builder/internal/types"
)

// Service wires prompt construction, generation and scoring together.
type Service struct {
	generator  ats.Generator
	strategies *ats.Strategies
}

// NewService creates a Service. generator is normally an *llm.Caller.
func NewService(generator ats.Generator, strategies *ats.Strategies) *Service {
	return &Service{generator: generator, strategies: strategies}
}

// GenerateResume returns a Markdown resume targeted at jobRole.
func (s *Service) GenerateResume(ctx context.Context, p types.Profile, jobRole, jobDescription, extraInstructions string) (string, error) {
	return s.generator.Generate(ctx, BuildResumePrompt(p, jobRole, jobDescription, extraInstructions))
}

// GenerateCoverLetter returns a plain-text cover letter. An empty
// hiringManager addresses the letter to DefaultHiringManager.
func (s *Service) GenerateCoverLetter(ctx context.Context, p types.Profile, companyName, jobRole, jobDescription, hiringManager string) (string, error) {
	return s.generator.Generate(ctx, BuildCoverLetterPrompt(p, companyName, jobRole, jobDescription, hiringManager))
}

// GeneratePortfolio generates labeled portfolio content and parses it into sections.
// The raw response is returned alongside for storage.
func (s *Service) GeneratePortfolio(ctx context.Context, p types.Profile) (portfolio.Sections, string, error) {
	raw, err := s.generator.Generate(ctx, BuildPortfolioPrompt(p))
	if err != nil {
		return portfolio.Sections{}, "", err
	}
	return portfolio.Parse(raw), raw, nil
}

// ScoreMatch scores resumeText against jobDescription with the named strategy
// (empty selects the configured default).
func (s *Service) ScoreMatch(ctx context.Context, strategy, resumeText, jobDescription string) (ats.MatchResult, error) {
	if s.strategies == nil {
		return ats.MatchResult{}, fmt.Errorf("no ATS strategies configured")
	}
	st, err := s.strategies.Select(strategy)
	if err != nil {
		return ats.MatchResult{}, err
	}
	return st.Score(ctx, resumeText, jobDescription)
}

// ResumeSource says where the scored resume text came from.
type ResumeSource string

const (
	SourceNone    ResumeSource = ""
	SourceRequest ResumeSource = "request"
	SourceHistory ResumeSource = "history"
	SourceProfile ResumeSource = "profile"
)

// ResolveResumeText picks the candidate text for scoring: explicit text first,
// then the latest generated resume, then the profile projection. The source is
// SourceNone when none is available.
func ResolveResumeText(explicit, latestResume string, p *types.Profile) (string, ResumeSource) {
	if strings.TrimSpace(explicit) != "" {
		return explicit, SourceRequest
	}
	if strings.TrimSpace(latestResume) != "" {
		return latestResume, SourceHistory
	}
	if p != nil {
		return profile.ToText(*p), SourceProfile
	}
	return "", SourceNone
}
