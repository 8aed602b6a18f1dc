package reporting

import (
	"fmt"
	"strings"
	"time"

	"github.com/regkit/predgap/internal/models"
)

// RenderRecommendations formats a ranking result as a Markdown document.
func RenderRecommendations(result *models.RecommendationResult) string {
	var b strings.Builder

	b.WriteString("# Candidate Recommendations\n\n")
	b.WriteString("> " + result.Disclaimer + "\n\n")

	sc := result.SearchCriteria
	b.WriteString("## Search Criteria\n\n")
	if sc.SubjectID != "" {
		b.WriteString(fmt.Sprintf("- **Subject:** %s\n", sc.SubjectID))
	}
	b.WriteString(fmt.Sprintf("- **Candidate pool size:** %d\n", sc.CandidatePoolSize))
	b.WriteString(fmt.Sprintf("- **Top N:** %d\n", sc.TopN))
	b.WriteString(fmt.Sprintf("- **Exclusions applied:** %d\n", sc.ExclusionsApplied))
	b.WriteString(fmt.Sprintf("- **Gap informed:** %t\n\n", sc.GapInformed))

	if len(result.Recommendations) == 0 {
		b.WriteString("No candidates were available for ranking.\n")
		return b.String()
	}

	b.WriteString("## Ranked Candidates\n\n")
	b.WriteString("| Rank | Identity | Name | Score | Assessment |\n")
	b.WriteString("|------|----------|------|-------|------------|\n")
	for _, c := range result.Recommendations {
		name := c.Name
		if name == "" {
			name = "-"
		}
		b.WriteString(fmt.Sprintf("| %d | %s | %s | %.2f | %s |\n",
			c.Rank, c.Identity, name, c.CompositeScore, InterpretComposite(c.CompositeScore)))
	}
	b.WriteString("\n")

	b.WriteString("## Score Breakdowns\n\n")
	for _, c := range result.Recommendations {
		b.WriteString(fmt.Sprintf("### %d. %s\n\n", c.Rank, c.Identity))
		bd := c.Breakdown
		b.WriteString(fmt.Sprintf("- Intended use: %.2f / 25\n", bd.IntendedUse))
		b.WriteString(fmt.Sprintf("- Technology: %.2f / 25\n", bd.Technology))
		b.WriteString(fmt.Sprintf("- Recency: %.2f / 20\n", bd.Recency))
		b.WriteString(fmt.Sprintf("- Safety profile: %.2f / 20\n", bd.Safety))
		b.WriteString(fmt.Sprintf("- Prior acceptability: %.2f / 10\n", bd.PriorAcceptability))
		b.WriteString(fmt.Sprintf("- **Composite:** %.2f\n\n", c.CompositeScore))
		b.WriteString(fmt.Sprintf("Rationale: %s\n\n", c.Rationale))
		if len(c.RiskFlags) > 0 {
			b.WriteString(fmt.Sprintf("Risk flags: %s\n\n", strings.Join(c.RiskFlags, ", ")))
		}
		if len(c.GapCoverage) > 0 {
			b.WriteString(fmt.Sprintf("Covers gap dimensions: %s\n\n", strings.Join(c.GapCoverage, ", ")))
		}
	}

	if len(result.Excluded) > 0 {
		b.WriteString("## Excluded Candidates\n\n")
		for _, e := range result.Excluded {
			b.WriteString(fmt.Sprintf("- %s (%s)\n", e.Identity, e.Reason))
		}
		b.WriteString("\n")
	}
	if result.BelowCutoff > 0 {
		b.WriteString(fmt.Sprintf("%d additional candidate(s) scored below the top-%d cutoff.\n\n",
			result.BelowCutoff, sc.TopN))
	}

	b.WriteString(fmt.Sprintf("_Generated %s_\n", result.GeneratedAt.Format(time.RFC3339)))
	return b.String()
}
