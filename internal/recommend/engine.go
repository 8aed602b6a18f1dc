// Package recommend ranks a candidate pool against a subject record using a
// fixed weighted rubric. Scoring is deterministic and every composite is the
// exact sum of its published breakdown; gap coverage is annotated but never
// changes a score.
package recommend

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/regkit/predgap/internal/gapanalysis"
	"github.com/regkit/predgap/internal/models"
	"github.com/regkit/predgap/internal/textmatch"
)

// Component maxima for the scoring rubric. The composite is the sum of all
// five components, so a perfect candidate scores 100.
const (
	MaxIntendedUse        = 25.0
	MaxTechnology         = 25.0
	MaxRecency            = 20.0
	MaxSafety             = 20.0
	MaxPriorAcceptability = 10.0

	// NeutralSubjectScore is assigned to the intended-use and technology
	// components when no subject is available: unscored, not penalized.
	NeutralSubjectScore = 10.0

	// ClassFallbackScore is the intended-use award for a bare classification
	// key match when intended-use text is unavailable on either side.
	ClassFallbackScore = 15.0

	// recencyHorizonYears is the age at which the recency component reaches
	// zero; decay is linear from the full 20 points at age zero.
	recencyHorizonYears = 15.0

	// DefaultTopN bounds the reported recommendation list when the caller
	// does not specify a cutoff.
	DefaultTopN = 10
)

// ReasonUserExcluded is recorded for candidates removed via the exclusion set.
const ReasonUserExcluded = "user-excluded"

// Engine computes rubric scores for candidate records.
type Engine struct {
	now func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the run-date source used by the recency component, so
// tests can pin candidate ages.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates a recommendation engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{now: time.Now}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Recommend scores every pool candidate not present in exclusions, ranks the
// remainder, and returns the top-N with full breakdowns. A nil subject
// degrades the intended-use and technology components to the neutral default;
// a nil gap result simply skips coverage annotation. An empty pool yields an
// empty result, never an error.
func (e *Engine) Recommend(
	pool []models.Record,
	subject *models.Record,
	gaps *models.GapResult,
	exclusions map[string]struct{},
	topN int,
) *models.RecommendationResult {
	if topN <= 0 {
		topN = DefaultTopN
	}

	result := &models.RecommendationResult{
		SearchCriteria: models.SearchCriteria{
			CandidatePoolSize: len(pool),
			TopN:              topN,
			ExclusionsApplied: len(exclusions),
			GapInformed:       gaps != nil,
		},
		Recommendations: []models.ScoredCandidate{},
		Excluded:        []models.ExcludedCandidate{},
		GeneratedAt:     e.now(),
		Disclaimer:      models.Disclaimer,
	}
	if subject != nil {
		result.SearchCriteria.SubjectID = subject.Identity
	}

	scored := make([]models.ScoredCandidate, 0, len(pool))
	for _, cand := range pool {
		if _, excluded := exclusions[cand.Identity]; excluded {
			result.Excluded = append(result.Excluded, models.ExcludedCandidate{
				Identity: cand.Identity,
				Reason:   ReasonUserExcluded,
			})
			continue
		}
		scored = append(scored, e.scoreCandidate(cand, subject))
	}

	// Sort descending by composite; stable sort preserves pool order for ties
	// so repeat runs are byte-identical.
	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].CompositeScore > scored[b].CompositeScore
	})
	for i := range scored {
		scored[i].Rank = i + 1
	}

	if len(scored) > topN {
		result.BelowCutoff = len(scored) - topN
		scored = scored[:topN]
	}

	if gaps != nil {
		for i := range scored {
			scored[i].GapCoverage = coverage(scored[i].Record, *gaps)
		}
	}

	result.Recommendations = scored
	return result
}

// scoreCandidate computes all five rubric components for one candidate. Each
// component is rounded to two decimals before the composite is summed, so the
// composite always equals the sum of the published breakdown.
func (e *Engine) scoreCandidate(cand models.Record, subject *models.Record) models.ScoredCandidate {
	b := models.ScoreBreakdown{
		IntendedUse:        round2(e.scoreIntendedUse(cand, subject)),
		Technology:         round2(e.scoreTechnology(cand, subject)),
		Recency:            round2(e.scoreRecency(cand)),
		Safety:             round2(e.scoreSafety(cand)),
		PriorAcceptability: round2(e.scoreAcceptability(cand)),
	}

	return models.ScoredCandidate{
		Identity:       cand.Identity,
		Name:           cand.Name,
		Applicant:      cand.Applicant,
		Date:           cand.Date,
		CompositeScore: round2(b.Total()),
		Breakdown:      b,
		Rationale:      buildRationale(cand, subject, b),
		RiskFlags:      riskFlags(cand, subject),
		Record:         cand,
	}
}

// scoreIntendedUse awards up to 25 points for token-overlap similarity of the
// intended-use statements, falling back to classification-key equality worth
// 15 when text is unavailable on either side.
func (e *Engine) scoreIntendedUse(cand models.Record, subject *models.Record) float64 {
	if subject == nil {
		return NeutralSubjectScore
	}
	if subject.IntendedUse != "" && cand.IntendedUse != "" {
		return math.Min(MaxIntendedUse, textmatch.Jaccard(subject.IntendedUse, cand.IntendedUse)*MaxIntendedUse)
	}
	if subject.ClassificationKey == cand.ClassificationKey {
		return ClassFallbackScore
	}
	return 0
}

// scoreTechnology awards 15 points for an exact classification-key match,
// plus 5 for device-name token overlap and 5 for a matching secondary
// category attribute.
func (e *Engine) scoreTechnology(cand models.Record, subject *models.Record) float64 {
	if subject == nil {
		return NeutralSubjectScore
	}

	score := 0.0
	if subject.ClassificationKey == cand.ClassificationKey {
		score += 15
	}
	if subject.Name != "" && cand.Name != "" && textmatch.Overlaps(subject.Name, cand.Name) {
		score += 5
	}
	if subject.Ext.SecondaryCategory != "" &&
		textmatch.Equal(subject.Ext.SecondaryCategory, cand.Ext.SecondaryCategory) {
		score += 5
	}
	return math.Min(MaxTechnology, score)
}

// scoreRecency decays linearly from 20 points at age zero to 0 at fifteen or
// more years since clearance. An unparseable or absent date scores zero.
func (e *Engine) scoreRecency(cand models.Record) float64 {
	cleared, ok := cand.ClearanceDate()
	if !ok {
		return 0
	}
	ageYears := e.now().Sub(cleared).Hours() / (24 * 365.25)
	if ageYears < 0 {
		ageYears = 0
	}
	return math.Max(0, MaxRecency-ageYears*(MaxRecency/recencyHorizonYears))
}

// scoreSafety awards 10 points for a clean adverse-event and recall history,
// plus 5 for a favorable safety rating and 5 for zero Class I recalls.
func (e *Engine) scoreSafety(cand models.Record) float64 {
	score := 0.0
	if !cand.Ext.HasSafetySignals() {
		score += 10
	}
	if cand.Ext.SafetyRating == "favorable" {
		score += 5
	}
	if cand.Ext.SevereRecallCount == 0 {
		score += 5
	}
	return math.Min(MaxSafety, score)
}

// scoreAcceptability maps the prior_acceptability extension tag directly to
// points: 10 for acceptable, 5 for review-required, 0 otherwise.
func (e *Engine) scoreAcceptability(cand models.Record) float64 {
	switch cand.Ext.PriorAcceptability {
	case models.AcceptabilityAcceptable:
		return MaxPriorAcceptability
	case models.AcceptabilityReviewRequired:
		return 5
	default:
		return 0
	}
}

// coverage lists the gapped dimensions this candidate would help resolve: the
// candidate carries the subject's own value for a dimension that raised a
// gap. Informational only; it never feeds back into the score.
func coverage(cand models.Record, gaps models.GapResult) []string {
	seen := make(map[models.Dimension]struct{})
	for _, g := range gaps.Gaps {
		seen[g.Dimension] = struct{}{}
	}

	var covered []string
	for _, dim := range models.Dimensions {
		if _, gapped := seen[dim]; !gapped {
			continue
		}
		var subjVal string
		for _, g := range gaps.Gaps {
			if g.Dimension == dim {
				subjVal = g.SubjectValue
				break
			}
		}
		candVal := gapanalysis.DimensionValue(cand, dim)
		if subjVal != "" && candVal != "" && textmatch.Equal(subjVal, candVal) {
			covered = append(covered, string(dim))
		}
	}
	return covered
}

// riskFlags derives short advisory tags from the candidate's extension bag.
func riskFlags(cand models.Record, subject *models.Record) []string {
	var flags []string
	if cand.Ext.RecallCount > 0 {
		flags = append(flags, "recall-history")
	}
	if cand.Ext.SevereRecallCount > 0 {
		flags = append(flags, "class-i-recall")
	}
	if cand.Ext.AdverseEventCount > 0 {
		flags = append(flags, "adverse-events")
	}
	if cand.Ext.PriorAcceptability == models.AcceptabilityNotRecommended {
		flags = append(flags, "not-recommended")
	}
	if subject != nil && subject.ClassificationKey != cand.ClassificationKey {
		flags = append(flags, "different-classification")
	}
	return flags
}

// buildRationale produces a one-line explanation naming the candidate's
// strongest components.
func buildRationale(cand models.Record, subject *models.Record, b models.ScoreBreakdown) string {
	var parts []string

	if subject == nil {
		parts = append(parts, "scored without a subject profile (match components neutral)")
	} else if subject.ClassificationKey == cand.ClassificationKey {
		parts = append(parts, fmt.Sprintf("same classification (%s)", cand.ClassificationKey))
	}
	if b.IntendedUse >= MaxIntendedUse*0.8 {
		parts = append(parts, "strong intended-use overlap")
	}
	if b.Recency >= MaxRecency*0.75 {
		parts = append(parts, "recent clearance")
	}
	if b.Safety >= MaxSafety {
		parts = append(parts, "clean safety profile")
	}
	if b.PriorAcceptability >= MaxPriorAcceptability {
		parts = append(parts, "previously accepted as a predicate")
	}
	if len(parts) == 0 {
		parts = append(parts, "ranked on composite rubric score")
	}

	return fmt.Sprintf("%s (composite %.2f)", strings.Join(parts, "; "), b.Total())
}

// round2 rounds to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
