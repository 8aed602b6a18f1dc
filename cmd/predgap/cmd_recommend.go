package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/regkit/predgap/internal/models"
	"github.com/regkit/predgap/internal/pipeline"
)

func newRecommendCommand() *cobra.Command {
	var (
		subjectPath string
		poolPath    string
		excludeIDs  []string
		topN        int
		outputDir   string
		htmlOut     bool
	)

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Rank candidate predicates only",
		Long: `Score and rank every record in the candidate pool against the subject.

The subject profile is optional: without one, subject-relative components fall
back to neutral scores so the pool can still be ranked on recency and safety.
Writes recommendations.json, recommend.md, and run_metadata.json into a fresh
run directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecommend(cmd, subjectPath, poolPath, excludeIDs, topN, outputDir, htmlOut)
		},
	}

	cmd.Flags().StringVarP(&subjectPath, "subject", "s", "", "Subject device profile YAML (optional)")
	cmd.Flags().StringVarP(&poolPath, "pool", "p", "", "Candidate pool file (.csv, .yaml) (required)")
	cmd.Flags().StringArrayVar(&excludeIDs, "exclude", nil, "Candidate identity to exclude (can be repeated)")
	cmd.Flags().IntVar(&topN, "top-n", 0, "Number of ranked candidates to report (default from .predgap.yaml)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Base output directory (default from .predgap.yaml)")
	cmd.Flags().BoolVar(&htmlOut, "html", false, "Also write HTML twins of the Markdown artifacts")
	cmd.MarkFlagRequired("pool") //nolint:errcheck

	return cmd
}

func runRecommend(cmd *cobra.Command, subjectPath, poolPath string, excludeIDs []string, topN int, outputDir string, htmlOut bool) error {
	if err := resolveRunSettings(cmd, &outputDir, &topN, &htmlOut); err != nil {
		return err
	}

	var subject *models.Record
	if subjectPath != "" {
		rec, err := loadSubject(subjectPath)
		if err != nil {
			return err
		}
		subject = rec
	}

	pool, err := loadCandidatePool(cmd, poolPath)
	if err != nil {
		return err
	}

	p := pipeline.New(pipeline.WithHTML(htmlOut))
	runDir := pipeline.RunDir(outputDir, time.Now())
	res, err := p.Run(models.ModeRecommendOnly, runDir, pipeline.Inputs{
		Subject:    subject,
		Pool:       pool,
		Exclusions: exclusionSet(excludeIDs),
		TopN:       topN,
	})
	if err != nil {
		return err
	}

	if res.Recommendations != nil {
		printRecommendations(cmd.OutOrStdout(), res.Recommendations)
	}
	reportRun(cmd, res.Metadata, res.OutputDir)
	return nil
}
