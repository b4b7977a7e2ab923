package ats

import (
	"context"
	"fmt"
	"strings"
)

// Mode names a scoring strategy.
type Mode string

const (
	ModeHybrid    Mode = "hybrid"
	ModeDelegated Mode = "delegated"
)

// ParseMode validates a mode name. Empty selects ModeHybrid.
func ParseMode(name string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(name))) {
	case "", ModeHybrid:
		return ModeHybrid, nil
	case ModeDelegated:
		return ModeDelegated, nil
	default:
		return "", fmt.Errorf("unknown ATS strategy %q (expected %q or %q)", name, ModeHybrid, ModeDelegated)
	}
}

// Strategy is the shared scoring contract.
type Strategy interface {
	Score(ctx context.Context, candidate, reference string) (MatchResult, error)
	Mode() Mode
}

type hybridStrategy struct {
	scorer *HybridScorer
}

func (h hybridStrategy) Score(ctx context.Context, candidate, reference string) (MatchResult, error) {
	return h.scorer.Score(ctx, candidate, reference), nil
}

func (h hybridStrategy) Mode() Mode { return ModeHybrid }

type delegatedStrategy struct {
	scorer *DelegatedScorer
}

func (d delegatedStrategy) Score(ctx context.Context, candidate, reference string) (MatchResult, error) {
	return d.scorer.Score(ctx, candidate, reference)
}

func (d delegatedStrategy) Mode() Mode { return ModeDelegated }

// Strategies holds both scorers and resolves a request's mode to one of them.
type Strategies struct {
	Default   Mode
	hybrid    Strategy
	delegated Strategy
}

// NewStrategies wires both strategies. Either scorer may be nil, in which
// case selecting it fails.
func NewStrategies(defaultMode Mode, hybrid *HybridScorer, delegated *DelegatedScorer) *Strategies {
	s := &Strategies{Default: defaultMode}
	if hybrid != nil {
		s.hybrid = hybridStrategy{scorer: hybrid}
	}
	if delegated != nil {
		s.delegated = delegatedStrategy{scorer: delegated}
	}
	return s
}

// Select returns the strategy named by mode, or the default when mode is empty.
func (s *Strategies) Select(mode string) (Strategy, error) {
	if strings.TrimSpace(mode) == "" {
		mode = string(s.Default)
	}
	m, err := ParseMode(mode)
	if err != nil {
		return nil, err
	}

	var strategy Strategy
	switch m {
	case ModeHybrid:
		strategy = s.hybrid
	case ModeDelegated:
		strategy = s.delegated
	}
	if strategy == nil {
		return nil, fmt.Errorf("ATS strategy %q is not configured", m)
	}
	return strategy, nil
}
