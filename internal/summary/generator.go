// Package summary assembles the executive summary narrative from whichever
// analysis outputs are available, degrading section by section.
package summary

import (
	"fmt"
	"strings"
	"time"

	"github.com/regkit/predgap/internal/models"
)

// Metadata carries optional run context rendered into the summary header.
type Metadata struct {
	SubjectName string
	Mode        models.Mode
	GeneratedAt time.Time
}

// Generate renders the executive summary. It is a pure function: sections for
// gap analysis and recommendations appear only when their inputs are non-nil,
// but the header, disclaimer, resource estimate, and next steps are always
// emitted, so the result is never empty.
func Generate(gaps *models.GapResult, recs *models.RecommendationResult, meta *Metadata) string {
	var b strings.Builder

	b.WriteString("# Executive Summary\n\n")
	b.WriteString("> " + models.Disclaimer + "\n\n")

	if meta != nil {
		if meta.SubjectName != "" {
			b.WriteString(fmt.Sprintf("**Subject:** %s\n", meta.SubjectName))
		}
		if meta.Mode != "" {
			b.WriteString(fmt.Sprintf("**Run mode:** %s\n", meta.Mode))
		}
		if !meta.GeneratedAt.IsZero() {
			b.WriteString(fmt.Sprintf("**Generated:** %s\n", meta.GeneratedAt.Format(time.RFC3339)))
		}
		b.WriteString("\n")
	}

	if gaps != nil {
		writeGapSection(&b, gaps)
	}
	if recs != nil {
		writeRecommendationSection(&b, recs)
	}

	writeResourceEstimate(&b, gaps, recs)
	writeNextSteps(&b, gaps, recs)

	return b.String()
}

func writeGapSection(b *strings.Builder, gaps *models.GapResult) {
	rs := gaps.RiskSummary
	b.WriteString("## Gap Analysis\n\n")
	b.WriteString(fmt.Sprintf("Compared against %d reference record(s), the subject shows **%d** unresolved difference(s): %d critical, %d major, %d minor, %d informational.\n\n",
		len(gaps.ReferencesAnalyzed), rs.TotalGaps(), rs.Critical, rs.Major, rs.Minor, rs.Informational))
	b.WriteString(fmt.Sprintf("Overall risk: **%s**. %s\n\n", rs.OverallRisk, rs.Recommendation))

	if crit := gaps.GapsBySeverity(models.SeverityCritical); len(crit) > 0 {
		b.WriteString("Critical items:\n\n")
		for _, g := range crit {
			b.WriteString(fmt.Sprintf("- **%s**: %s\n", g.Dimension, g.Description))
		}
		b.WriteString("\n")
	}
}

func writeRecommendationSection(b *strings.Builder, recs *models.RecommendationResult) {
	b.WriteString("## Candidate Recommendations\n\n")
	b.WriteString(fmt.Sprintf("From a pool of %d candidate(s), %d were ranked (%d excluded, %d below cutoff).\n\n",
		recs.SearchCriteria.CandidatePoolSize, len(recs.Recommendations),
		len(recs.Excluded), recs.BelowCutoff))

	if len(recs.Recommendations) > 0 {
		top := recs.Recommendations[0]
		name := top.Name
		if name == "" {
			name = top.Identity
		}
		b.WriteString(fmt.Sprintf("Top candidate: **%s** (%s) with a composite score of %.2f. %s\n\n",
			name, top.Identity, top.CompositeScore, top.Rationale))
	}
}

// writeResourceEstimate derives a rough effort figure from gap severities and
// pool size. It is always emitted and always framed as an estimate.
func writeResourceEstimate(b *strings.Builder, gaps *models.GapResult, recs *models.RecommendationResult) {
	hours := 40 // baseline submission assembly effort
	if gaps != nil {
		rs := gaps.RiskSummary
		hours += rs.Critical*25 + rs.Major*10 + rs.Minor*4
	}
	if recs != nil && recs.SearchCriteria.CandidatePoolSize > 0 {
		hours += recs.SearchCriteria.CandidatePoolSize / 10
	}
	weeks := (hours + 39) / 40

	b.WriteString("## Resource Estimate\n\n")
	b.WriteString(fmt.Sprintf("Estimated remediation and documentation effort: roughly %d hours (about %d working week(s)). This is a heuristic estimate derived from the gap profile, not a guarantee.\n\n",
		hours, weeks))
}

func writeNextSteps(b *strings.Builder, gaps *models.GapResult, recs *models.RecommendationResult) {
	b.WriteString("## Next Steps\n\n")
	switch {
	case gaps == nil && recs == nil:
		b.WriteString("1. Provide a subject profile and reference records, then rerun the analysis.\n")
		b.WriteString("2. Assemble a candidate pool for ranking.\n")
	case gaps != nil && gaps.RiskSummary.OverallRisk == models.RiskHigh:
		b.WriteString("1. Resolve every critical gap or select a closer reference record.\n")
		b.WriteString("2. Re-run the gap analysis to confirm the risk level drops below HIGH.\n")
		b.WriteString("3. Review the ranked candidates for alternatives that avoid the critical dimensions.\n")
	default:
		b.WriteString("1. Address the remaining gaps in severity order and collect the listed mitigations.\n")
		b.WriteString("2. Confirm the leading candidate with regulatory counsel before drafting the comparison table.\n")
	}
	b.WriteString("\nAll findings above are advisory and require review by qualified personnel.\n")
}
