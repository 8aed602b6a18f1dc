package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predgap",
		Short: "Predgap - rule-based predicate gap analysis for device submissions",
		Long: `Predgap is a command-line tool for comparative device analysis.

It compares a subject device against cleared reference devices, reports the
differences that matter for a submission, ranks candidate predicates from a
device pool, and writes JSON and Markdown artifacts for each run.`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	// Add subcommands
	cmd.AddCommand(newAnalyzeCommand())
	cmd.AddCommand(newGapsCommand())
	cmd.AddCommand(newRecommendCommand())
	cmd.AddCommand(newSummaryCommand())
	cmd.AddCommand(newCheckCommand())
	cmd.AddCommand(newNewCommand())

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}
