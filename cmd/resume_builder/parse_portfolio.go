package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/jonathan/resume-builder/internal/portfolio"
	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/spf13/cobra"
)

var (
	parsePortfolioInput  string
	parsePortfolioOutput string
)

var parsePortfolioCmd = &cobra.Command{
	Use:   "parse-portfolio",
	Short: "Parse labeled portfolio text into sections",
	Long:  "Parses a generation response made of [ABOUT_ME], [BIO], [LINKEDIN], [PROJECT:<name>] and [GITHUB] blocks into sections JSON. No backend is called.",
	RunE:  runParsePortfolio,
}

func init() {
	parsePortfolioCmd.Flags().StringVarP(&parsePortfolioInput, "in", "i", "-", "Path to labeled text file (- for stdin)")
	parsePortfolioCmd.Flags().StringVarP(&parsePortfolioOutput, "out", "o", "", "Path to output JSON file (default stdout)")
	rootCmd.AddCommand(parsePortfolioCmd)
}

func runParsePortfolio(_ *cobra.Command, _ []string) error {
	raw, err := readText(parsePortfolioInput)
	if err != nil {
		return err
	}

	sections := portfolio.Parse(raw)
	if verbose {
		observability.NewPrinter(os.Stderr).PrintSections(sections)
	}

	data, err := json.MarshalIndent(sections, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal sections: %w", err)
	}
	if err := schemas.ValidateSections(data); err != nil {
		log.Printf("[portfolio] parsed sections do not match schema: %v", err)
	}
	return writeOutput(parsePortfolioOutput, data)
}
