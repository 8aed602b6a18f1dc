package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/regkit/predgap/internal/models"
	"github.com/regkit/predgap/internal/pipeline"
	"github.com/regkit/predgap/internal/reporting"
)

func newGapsCommand() *cobra.Command {
	var (
		subjectPath    string
		referencePaths []string
		outputDir      string
		htmlOut        bool
		junitPath      string
	)

	cmd := &cobra.Command{
		Use:   "gaps",
		Short: "Run gap analysis only",
		Long: `Compare the subject profile against reference profiles and report gaps.

Writes gap_analysis.json, gap_report.md, and run_metadata.json into a fresh
run directory. Exits 1 when the overall risk is HIGH. With --junit, also
writes a JUnit XML report where each comparison dimension is a test case and
CRITICAL or MAJOR gaps fail it, so CI systems can gate on the result.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGaps(cmd, subjectPath, referencePaths, outputDir, htmlOut, junitPath)
		},
	}

	cmd.Flags().StringVarP(&subjectPath, "subject", "s", "", "Subject device profile YAML (required)")
	cmd.Flags().StringArrayVarP(&referencePaths, "reference", "r", nil, "Reference profile YAML (can be repeated)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Base output directory (default from .predgap.yaml)")
	cmd.Flags().BoolVar(&htmlOut, "html", false, "Also write HTML twins of the Markdown artifacts")
	cmd.Flags().StringVar(&junitPath, "junit", "", "Also write a JUnit XML report to this path")
	cmd.MarkFlagRequired("subject")   //nolint:errcheck
	cmd.MarkFlagRequired("reference") //nolint:errcheck

	return cmd
}

func runGaps(cmd *cobra.Command, subjectPath string, referencePaths []string, outputDir string, htmlOut bool, junitPath string) error {
	if err := resolveRunSettings(cmd, &outputDir, nil, &htmlOut); err != nil {
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

	p := pipeline.New(pipeline.WithHTML(htmlOut))
	runDir := pipeline.RunDir(outputDir, time.Now())
	res, err := p.Run(models.ModeGapsOnly, runDir, pipeline.Inputs{
		Subject:    subject,
		References: references,
	})
	if err != nil {
		return err
	}

	if res.Gaps != nil {
		printGapSummary(cmd.OutOrStdout(), res.Gaps)
		if junitPath != "" {
			if err := reporting.WriteJUnitFile(junitPath, res.Gaps); err != nil {
				return err
			}
		}
	}
	reportRun(cmd, res.Metadata, res.OutputDir)

	if res.Gaps != nil && res.Gaps.RiskSummary.OverallRisk == models.RiskHigh {
		return &HighRiskError{
			Message: fmt.Sprintf("overall risk is HIGH: %d critical gap(s) found", res.Gaps.RiskSummary.Critical),
		}
	}
	return nil
}
