package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/resume-builder/internal/ats"
	"github.com/jonathan/resume-builder/internal/fetch"
	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentScores bounds parallel scoring calls against the backends.
const maxConcurrentScores = 4

var (
	scoreJobFile  string
	scoreJobURL   string
	scoreStrategy string
	scoreOutput   string
)

var scoreCmd = &cobra.Command{
	Use:   "score <resume-file>...",
	Short: "Score resumes against a job description",
	Long:  "Scores one or more resume text files against a job description given as a file or fetched from a URL, and prints one result per resume in argument order.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runScore,
}

func init() {
	scoreCmd.Flags().StringVarP(&scoreJobFile, "job", "j", "", "Path to a job description text file (- for stdin)")
	scoreCmd.Flags().StringVar(&scoreJobURL, "job-url", "", "URL of a job posting to fetch")
	scoreCmd.Flags().StringVarP(&scoreStrategy, "strategy", "s", "", "Scoring strategy: hybrid or delegated (default from ATS_STRATEGY)")
	scoreCmd.Flags().StringVarP(&scoreOutput, "out", "o", "", "Path to output JSON file (default stdout)")
	scoreCmd.MarkFlagsMutuallyExclusive("job", "job-url")
	scoreCmd.MarkFlagsOneRequired("job", "job-url")
	rootCmd.AddCommand(scoreCmd)
}

// ScoredResume is one entry of the score command output.
type ScoredResume struct {
	File   string          `json:"file"`
	Result ats.MatchResult `json:"result"`
}

// Scorer scores one candidate text against a reference.
type Scorer interface {
	Score(ctx context.Context, candidate, reference string) (ats.MatchResult, error)
}

func runScore(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	jobDescription, err := readText(scoreJobFile)
	if err != nil {
		return err
	}
	if scoreJobURL != "" {
		if jobDescription, err = fetch.NewClient().JobDescription(ctx, scoreJobURL); err != nil {
			return err
		}
	}

	svc, err := newServices(ctx, cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	strategy := scoreStrategy
	if strategy == "" {
		strategy = cfg.ATSStrategy
	}
	results, err := scoreFiles(ctx, scorerFunc(func(ctx context.Context, candidate, reference string) (ats.MatchResult, error) {
		return svc.docs.ScoreMatch(ctx, strategy, candidate, reference)
	}), args, jobDescription)
	if err != nil {
		return err
	}

	if cfg.Verbose {
		printer := observability.NewPrinter(os.Stderr)
		for _, r := range results {
			fmt.Fprintln(os.Stderr, r.File)
			printer.PrintMatchResult(r.Result)
		}
	}
	return writeJSON(scoreOutput, results)
}

type scorerFunc func(ctx context.Context, candidate, reference string) (ats.MatchResult, error)

func (f scorerFunc) Score(ctx context.Context, candidate, reference string) (ats.MatchResult, error) {
	return f(ctx, candidate, reference)
}

// scoreFiles scores every file concurrently and returns results in input
// order. The first read or scoring failure cancels the remaining work.
func scoreFiles(ctx context.Context, scorer Scorer, files []string, jobDescription string) ([]ScoredResume, error) {
	results := make([]ScoredResume, len(files))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentScores)
	for i, file := range files {
		g.Go(func() error {
			text, err := readText(file)
			if err != nil {
				return err
			}
			result, err := scorer.Score(gCtx, text, jobDescription)
			if err != nil {
				return fmt.Errorf("failed to score %s: %w", file, err)
			}
			results[i] = ScoredResume{File: file, Result: result}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
