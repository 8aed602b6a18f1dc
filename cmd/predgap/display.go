package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/regkit/predgap/internal/dataset"
	"github.com/regkit/predgap/internal/models"
	"github.com/regkit/predgap/internal/reporting"
)

// truncateName shortens a name to maxLen runes, replacing the last rune with "…" if needed.
func truncateName(name string, maxLen int) string {
	runes := []rune(name)
	if len(runes) <= maxLen {
		return name
	}
	return string(runes[:maxLen-1]) + "…"
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}

// printGapSummary writes a terminal digest of a gap analysis result.
func printGapSummary(w io.Writer, gaps *models.GapResult) {
	rs := gaps.RiskSummary
	fmt.Fprintf(w, "\nGap analysis: %s vs %d reference(s)\n", gaps.Subject.Identity, len(gaps.ReferencesAnalyzed)) //nolint:errcheck
	fmt.Fprintf(w, "  %s\n", reporting.InterpretSeverityCounts(rs))                                               //nolint:errcheck
	fmt.Fprintf(w, "  Overall risk: %s (%s)\n", rs.OverallRisk, reporting.InterpretRisk(rs.OverallRisk))          //nolint:errcheck

	if len(gaps.Gaps) == 0 {
		return
	}
	fmt.Fprintf(w, "\n  %s %s %s\n", padRight("DIMENSION", 16), padRight("SEVERITY", 14), "DESCRIPTION") //nolint:errcheck
	for _, g := range gaps.Gaps {
		fmt.Fprintf(w, "  %s %s %s\n",
			padRight(string(g.Dimension), 16),
			padRight(string(g.Severity), 14),
			truncateName(g.Description, 70)) //nolint:errcheck
	}
}

// printRecommendations writes a ranked candidate table.
func printRecommendations(w io.Writer, recs *models.RecommendationResult) {
	fmt.Fprintf(w, "\nCandidate ranking: %d scored, %d excluded, %d below cutoff\n",
		len(recs.Recommendations)+recs.BelowCutoff, len(recs.Excluded), recs.BelowCutoff) //nolint:errcheck

	if len(recs.Recommendations) == 0 {
		fmt.Fprintln(w, "  No candidates to rank.") //nolint:errcheck
		return
	}

	fmt.Fprintf(w, "\n  %s %s %s %s %s\n",
		padRight("RANK", 5), padRight("IDENTITY", 12), padRight("SCORE", 7),
		padRight("NAME", 32), "ASSESSMENT") //nolint:errcheck
	for _, c := range recs.Recommendations {
		fmt.Fprintf(w, "  %s %s %s %s %s\n",
			padRight(fmt.Sprintf("%d", c.Rank), 5),
			padRight(c.Identity, 12),
			padRight(fmt.Sprintf("%.2f", c.CompositeScore), 7),
			padRight(truncateName(c.Name, 30), 32),
			reporting.InterpretComposite(c.CompositeScore)) //nolint:errcheck
	}
}

// printSkipped reports records dropped during pool loading.
func printSkipped(w io.Writer, path string, skipped []dataset.SkippedRecord) {
	for _, s := range skipped {
		fmt.Fprintf(w, "[WARN] %s: skipped record %d: %s\n", path, s.Position, s.Reason) //nolint:errcheck
	}
}
