package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/regkit/predgap/internal/models"
	"github.com/regkit/predgap/internal/pipeline"
)

func newAnalyzeCommand() *cobra.Command {
	var (
		subjectPath    string
		referencePaths []string
		poolPath       string
		excludeIDs     []string
		topN           int
		outputDir      string
		htmlOut        bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run the full analysis pipeline",
		Long: `Run gap analysis, candidate ranking, and the executive summary in one pass.

Compares the subject profile against each reference profile, ranks the
candidate pool, and writes all artifacts into a fresh run directory:

  gap_analysis.json, gap_report.md
  recommendations.json, recommend.md
  executive_summary.md, run_metadata.json

Exits 1 when the gap assessment finds HIGH overall risk, so CI jobs can gate
on it. Exits 2 on configuration or runtime errors.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, subjectPath, referencePaths, poolPath, excludeIDs, topN, outputDir, htmlOut)
		},
	}

	cmd.Flags().StringVarP(&subjectPath, "subject", "s", "", "Subject device profile YAML (required)")
	cmd.Flags().StringArrayVarP(&referencePaths, "reference", "r", nil, "Reference profile YAML (can be repeated)")
	cmd.Flags().StringVarP(&poolPath, "pool", "p", "", "Candidate pool file (.csv, .yaml)")
	cmd.Flags().StringArrayVar(&excludeIDs, "exclude", nil, "Candidate identity to exclude (can be repeated)")
	cmd.Flags().IntVar(&topN, "top-n", 0, "Number of ranked candidates to report (default from .predgap.yaml)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Base output directory (default from .predgap.yaml)")
	cmd.Flags().BoolVar(&htmlOut, "html", false, "Also write HTML twins of the Markdown artifacts")
	cmd.MarkFlagRequired("subject") //nolint:errcheck

	return cmd
}

func runAnalyze(cmd *cobra.Command, subjectPath string, referencePaths []string, poolPath string, excludeIDs []string, topN int, outputDir string, htmlOut bool) error {
	if err := resolveRunSettings(cmd, &outputDir, &topN, &htmlOut); err != nil {
		return err
	}

	subject, err := loadSubject(subjectPath)
	if err != nil {
		return err
	}
	references, err := loadReferences(referencePaths)
	if err != nil {
		return err
	}

	var pool []models.Record
	if poolPath != "" {
		pool, err = loadCandidatePool(cmd, poolPath)
		if err != nil {
			return err
		}
	}

	p := pipeline.New(pipeline.WithHTML(htmlOut))
	runDir := pipeline.RunDir(outputDir, time.Now())
	res, err := p.Run(models.ModeFull, runDir, pipeline.Inputs{
		Subject:    subject,
		References: references,
		Pool:       pool,
		Exclusions: exclusionSet(excludeIDs),
		TopN:       topN,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if res.Gaps != nil {
		printGapSummary(out, res.Gaps)
	}
	if res.Recommendations != nil {
		printRecommendations(out, res.Recommendations)
	}
	reportRun(cmd, res.Metadata, res.OutputDir)

	if res.Gaps != nil && res.Gaps.RiskSummary.OverallRisk == models.RiskHigh {
		return &HighRiskError{
			Message: fmt.Sprintf("overall risk is HIGH: %d critical gap(s) found", res.Gaps.RiskSummary.Critical),
		}
	}
	return nil
}
