// Package reporting renders analysis results as human-readable Markdown.
// Every artifact is emitted in both JSON and Markdown; the renderers here
// produce the Markdown half and must stay deterministic so repeat runs are
// byte-identical.
package reporting

import (
	"fmt"
	"strings"
	"time"

	"github.com/regkit/predgap/internal/models"
)

// RenderGapReport formats a gap analysis result as a Markdown document.
func RenderGapReport(result *models.GapResult) string {
	var b strings.Builder

	b.WriteString("# Gap Analysis Report\n\n")
	b.WriteString("> " + result.Disclaimer + "\n\n")

	b.WriteString("## Subject\n\n")
	writeRecordSummary(&b, result.Subject)
	b.WriteString(fmt.Sprintf("**References analyzed:** %s\n\n", strings.Join(result.ReferencesAnalyzed, ", ")))

	rs := result.RiskSummary
	b.WriteString("## Risk Summary\n\n")
	b.WriteString(fmt.Sprintf("**Overall risk:** %s. %s\n\n", rs.OverallRisk, InterpretRisk(rs.OverallRisk)))
	b.WriteString(fmt.Sprintf("**Gaps:** %s\n\n", InterpretSeverityCounts(rs)))
	b.WriteString(rs.Recommendation + "\n\n")

	if len(result.Gaps) == 0 {
		b.WriteString("No unresolved differences were detected.\n")
		return b.String()
	}

	b.WriteString("## Detected Gaps\n\n")
	b.WriteString("| # | Dimension | Severity | Description |\n")
	b.WriteString("|---|-----------|----------|-------------|\n")
	for i, g := range result.Gaps {
		b.WriteString(fmt.Sprintf("| %d | %s | %s | %s |\n", i+1, g.Dimension, g.Severity, g.Description))
	}
	b.WriteString("\n")

	b.WriteString("## Gap Details\n\n")
	for i, g := range result.Gaps {
		b.WriteString(fmt.Sprintf("### %d. %s (%s)\n\n", i+1, g.Dimension, g.Severity))
		b.WriteString(fmt.Sprintf("- **Subject:** %s\n", g.SubjectValue))
		b.WriteString(fmt.Sprintf("- **Reference:** %s\n", g.ReferenceValue))
		b.WriteString(fmt.Sprintf("- **Raised against:** %s\n", strings.Join(g.References, ", ")))
		b.WriteString(fmt.Sprintf("- **Mitigation:** %s\n", g.Mitigation))
		if g.ExternalReference != "" {
			b.WriteString(fmt.Sprintf("- **See:** %s\n", g.ExternalReference))
		}
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("_Generated %s_\n", result.GeneratedAt.Format(time.RFC3339)))
	return b.String()
}

func writeRecordSummary(b *strings.Builder, s models.RecordSummary) {
	b.WriteString(fmt.Sprintf("- **Identity:** %s\n", s.Identity))
	b.WriteString(fmt.Sprintf("- **Classification:** %s\n", s.ClassificationKey))
	if s.Name != "" {
		b.WriteString(fmt.Sprintf("- **Name:** %s\n", s.Name))
	}
	if s.Applicant != "" {
		b.WriteString(fmt.Sprintf("- **Applicant:** %s\n", s.Applicant))
	}
	if s.Date != "" {
		b.WriteString(fmt.Sprintf("- **Date:** %s\n", s.Date))
	}
	b.WriteString("\n")
}
