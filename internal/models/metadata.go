package models

import "time"

// Mode selects which pipeline stages a run executes.
type Mode string

const (
	ModeFull          Mode = "full"
	ModeGapsOnly      Mode = "gaps-only"
	ModeRecommendOnly Mode = "recommend-only"
	ModeSummaryOnly   Mode = "summary-only"
)

// Stage names the pipeline stages recorded in run metadata.
type Stage string

const (
	StageLoad      Stage = "load"
	StageGaps      Stage = "gap_analysis"
	StageRecommend Stage = "recommendation"
	StageSummary   Stage = "summary"
	StageWrite     Stage = "write"
)

// RunMetadata records which stages of a pipeline run completed and any
// errors encountered. It is written as run_metadata.json even when stages
// fail, so a partial run remains diagnosable.
type RunMetadata struct {
	Mode            Mode      `json:"mode"`
	StagesCompleted []Stage   `json:"stages_completed"`
	StartedAt       time.Time `json:"started_at"`
	FinishedAt      time.Time `json:"finished_at"`
	Errors          []string  `json:"errors"`
}
