package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/regkit/predgap/internal/models"
	"github.com/regkit/predgap/internal/pipeline"
)

func newSummaryCommand() *cobra.Command {
	var (
		subjectPath string
		htmlOut     bool
	)

	cmd := &cobra.Command{
		Use:   "summary <run-dir>",
		Short: "Regenerate the executive summary for a prior run",
		Long: `Rebuild executive_summary.md from the JSON artifacts of an earlier run.

Reads gap_analysis.json and recommendations.json from the given run directory
if they exist; missing artifacts simply drop their summary section. The new
summary is written back into the same directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummary(cmd, args[0], subjectPath, htmlOut)
		},
	}

	cmd.Flags().StringVarP(&subjectPath, "subject", "s", "", "Subject device profile YAML, used for the summary heading")
	cmd.Flags().BoolVar(&htmlOut, "html", false, "Also write an HTML twin of the summary")

	return cmd
}

func runSummary(cmd *cobra.Command, runDir, subjectPath string, htmlOut bool) error {
	info, err := os.Stat(runDir)
	if err != nil {
		return fmt.Errorf("run directory %s: %w", runDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("run directory %s: not a directory", runDir)
	}

	var subject *models.Record
	if subjectPath != "" {
		rec, err := loadSubject(subjectPath)
		if err != nil {
			return err
		}
		subject = rec
	}

	p := pipeline.New(pipeline.WithHTML(htmlOut))
	res, err := p.Run(models.ModeSummaryOnly, runDir, pipeline.Inputs{Subject: subject})
	if err != nil {
		return err
	}

	reportRun(cmd, res.Metadata, res.OutputDir)
	return nil
}
