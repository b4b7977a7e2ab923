package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/spf13/cobra"
)

var (
	genProfile       string
	genRole          string
	genJobFile       string
	genInstructions  string
	genCompany       string
	genHiringManager string
	genOutput        string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate documents from a profile file",
	Long:  "Generate a resume, cover letter or portfolio copy from a profile JSON file without running the server.",
}

var generateResumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Generate a Markdown resume targeted at a role",
	RunE:  runGenerateResume,
}

var generateCoverLetterCmd = &cobra.Command{
	Use:   "cover-letter",
	Short: "Generate a cover letter for a company and role",
	RunE:  runGenerateCoverLetter,
}

var generatePortfolioCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Generate portfolio sections as JSON",
	RunE:  runGeneratePortfolio,
}

func init() {
	generateCmd.PersistentFlags().StringVarP(&genProfile, "profile", "p", "", "Path to profile JSON file (required)")
	generateCmd.PersistentFlags().StringVarP(&genOutput, "out", "o", "", "Path to output file (default stdout)")
	if err := generateCmd.MarkPersistentFlagRequired("profile"); err != nil {
		panic(fmt.Sprintf("failed to mark profile flag as required: %v", err))
	}

	generateResumeCmd.Flags().StringVarP(&genRole, "role", "r", "", "Target job role (required)")
	generateResumeCmd.Flags().StringVarP(&genJobFile, "job", "j", "", "Path to job description text file")
	generateResumeCmd.Flags().StringVar(&genInstructions, "instructions", "", "Extra instructions for the generator")
	if err := generateResumeCmd.MarkFlagRequired("role"); err != nil {
		panic(fmt.Sprintf("failed to mark role flag as required: %v", err))
	}

	generateCoverLetterCmd.Flags().StringVar(&genCompany, "company", "", "Company name (required)")
	generateCoverLetterCmd.Flags().StringVarP(&genRole, "role", "r", "", "Target job role (required)")
	generateCoverLetterCmd.Flags().StringVarP(&genJobFile, "job", "j", "", "Path to job description text file (required)")
	generateCoverLetterCmd.Flags().StringVar(&genHiringManager, "hiring-manager", "", "Name to address the letter to")
	for _, name := range []string{"company", "role", "job"} {
		if err := generateCoverLetterCmd.MarkFlagRequired(name); err != nil {
			panic(fmt.Sprintf("failed to mark %s flag as required: %v", name, err))
		}
	}

	generateCmd.AddCommand(generateResumeCmd, generateCoverLetterCmd, generatePortfolioCmd)
	rootCmd.AddCommand(generateCmd)
}

// generateSetup loads the profile and the backends shared by every generate subcommand.
func generateSetup(cmd *cobra.Command) (context.Context, *types.Profile, *services, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	p, err := readProfile(genProfile)
	if err != nil {
		return nil, nil, nil, err
	}
	if cfg.Verbose {
		observability.NewPrinter(os.Stderr).PrintProfile(p)
	}

	svc, err := newServices(ctx, cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	return ctx, p, svc, nil
}

func runGenerateResume(cmd *cobra.Command, _ []string) error {
	ctx, p, svc, err := generateSetup(cmd)
	if err != nil {
		return err
	}
	defer svc.Close()

	jobDescription, err := readText(genJobFile)
	if err != nil {
		return err
	}
	markdown, err := svc.docs.GenerateResume(ctx, *p, genRole, jobDescription, genInstructions)
	if err != nil {
		return err
	}
	return writeOutput(genOutput, []byte(markdown))
}

func runGenerateCoverLetter(cmd *cobra.Command, _ []string) error {
	ctx, p, svc, err := generateSetup(cmd)
	if err != nil {
		return err
	}
	defer svc.Close()

	jobDescription, err := readText(genJobFile)
	if err != nil {
		return err
	}
	letter, err := svc.docs.GenerateCoverLetter(ctx, *p, genCompany, genRole, jobDescription, genHiringManager)
	if err != nil {
		return err
	}
	return writeOutput(genOutput, []byte(letter))
}

func runGeneratePortfolio(cmd *cobra.Command, _ []string) error {
	ctx, p, svc, err := generateSetup(cmd)
	if err != nil {
		return err
	}
	defer svc.Close()

	sections, _, err := svc.docs.GeneratePortfolio(ctx, *p)
	if err != nil {
		return err
	}
	if verbose {
		observability.NewPrinter(os.Stderr).PrintSections(sections)
	}
	return writeJSON(genOutput, sections)
}
