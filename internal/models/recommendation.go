package models

import "time"

// ScoreBreakdown holds the five independently computed rubric components.
// Each component is pre-rounded to two decimals so the composite is the exact
// sum of what the reader sees.
type ScoreBreakdown struct {
	IntendedUse        float64 `json:"intended_use"`
	Technology         float64 `json:"technology"`
	Recency            float64 `json:"recency"`
	Safety             float64 `json:"safety"`
	PriorAcceptability float64 `json:"prior_acceptability"`
}

// Total returns the sum of all components.
func (b ScoreBreakdown) Total() float64 {
	return b.IntendedUse + b.Technology + b.Recency + b.Safety + b.PriorAcceptability
}

// ScoredCandidate is one ranked entry of a recommendation result.
type ScoredCandidate struct {
	Rank           int            `json:"rank"`
	Identity       string         `json:"identity"`
	Name           string         `json:"name,omitempty"`
	Applicant      string         `json:"applicant,omitempty"`
	Date           string         `json:"date,omitempty"`
	CompositeScore float64        `json:"composite_score"`
	Breakdown      ScoreBreakdown `json:"score_breakdown"`
	Rationale      string         `json:"rationale"`
	RiskFlags      []string       `json:"risk_flags,omitempty"`
	GapCoverage    []string       `json:"gap_coverage,omitempty"`

	// Record is the full candidate record backing this entry; kept out of the
	// JSON artifact, which carries only the identification fields above.
	Record Record `json:"-"`
}

// ExcludedCandidate records one candidate removed from ranking and why.
type ExcludedCandidate struct {
	Identity string `json:"identity"`
	Reason   string `json:"reason"`
}

// SearchCriteria echoes the inputs a recommendation run was computed from.
type SearchCriteria struct {
	SubjectID         string `json:"subject_id,omitempty"`
	CandidatePoolSize int    `json:"candidate_pool_size"`
	TopN              int    `json:"top_n"`
	ExclusionsApplied int    `json:"exclusions_applied"`
	GapInformed       bool   `json:"gap_informed"`
}

// RecommendationResult is the full output of one candidate ranking run.
type RecommendationResult struct {
	SearchCriteria  SearchCriteria      `json:"search_criteria"`
	Recommendations []ScoredCandidate   `json:"recommendations"`
	Excluded        []ExcludedCandidate `json:"excluded"`

	// BelowCutoff counts scored candidates that fell outside the top-N; they
	// are not reported individually.
	BelowCutoff int       `json:"below_cutoff"`
	GeneratedAt time.Time `json:"timestamp"`
	Disclaimer  string    `json:"disclaimer"`
}
