package reporting

import (
	"fmt"

	"github.com/regkit/predgap/internal/models"
)

// InterpretComposite returns a plain-language label for a 0–100 composite score.
func InterpretComposite(score float64) string {
	switch {
	case score > 85:
		return "Excellent match (>85)"
	case score >= 70:
		return "Strong match (70-85)"
	case score >= 50:
		return "Possible match (50-70)"
	default:
		return "Weak match (<50)"
	}
}

// InterpretRisk returns a human-readable explanation of an overall risk level.
func InterpretRisk(level models.RiskLevel) string {
	switch level {
	case models.RiskHigh:
		return "At least one critical difference blocks a straightforward equivalence argument."
	case models.RiskModerate:
		return "Multiple major differences require additional validation work."
	default:
		return "No blocking differences were found."
	}
}

// InterpretSeverityCounts produces the one-line tally used in report headers.
func InterpretSeverityCounts(rs models.RiskSummary) string {
	return fmt.Sprintf("%d critical, %d major, %d minor, %d informational",
		rs.Critical, rs.Major, rs.Minor, rs.Informational)
}
