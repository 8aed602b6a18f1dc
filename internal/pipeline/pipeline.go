// Package pipeline coordinates the analysis stages behind a single facade.
// A run walks an explicit state machine (LOADED → GAP_DONE → RECOMMEND_DONE →
// SUMMARY_DONE → WRITTEN); the selected mode determines which transitions are
// taken, so partial runs are first-class states rather than accidental code
// paths.
package pipeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/regkit/predgap/internal/gapanalysis"
	"github.com/regkit/predgap/internal/models"
	"github.com/regkit/predgap/internal/recommend"
	"github.com/regkit/predgap/internal/summary"
)

// State is the pipeline's progress marker.
type State string

const (
	StateLoaded        State = "LOADED"
	StateGapDone       State = "GAP_DONE"
	StateRecommendDone State = "RECOMMEND_DONE"
	StateSummaryDone   State = "SUMMARY_DONE"
	StateWritten       State = "WRITTEN"
)

// Inputs carries the already-hydrated records a run operates on. Record
// loading is the caller's concern; the pipeline itself performs no input I/O
// apart from the summary-only mode rereading prior artifacts.
type Inputs struct {
	Subject    *models.Record
	References []models.Record
	Pool       []models.Record
	Exclusions map[string]struct{}
	TopN       int
}

// Result holds everything a run computed, independent of whether the disk
// writes succeeded. Callers can always reach the in-memory results even when
// artifact writing failed.
type Result struct {
	State           State
	Gaps            *models.GapResult
	Recommendations *models.RecommendationResult
	Summary         string
	Metadata        models.RunMetadata
	OutputDir       string
}

// Pipeline is the facade over the analyzer, recommender, and summary
// generator.
type Pipeline struct {
	analyzer *gapanalysis.Analyzer
	engine   *recommend.Engine
	html     bool
	now      func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithHTML enables HTML twins for every Markdown artifact.
func WithHTML(enabled bool) Option {
	return func(p *Pipeline) {
		p.html = enabled
	}
}

// WithClock overrides all stage timestamp sources, for reproducible tests.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
		p.analyzer = gapanalysis.New(gapanalysis.WithClock(now))
		p.engine = recommend.NewEngine(recommend.WithClock(now))
	}
}

// New creates a pipeline facade.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		analyzer: gapanalysis.New(),
		engine:   recommend.NewEngine(),
		now:      time.Now,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Run executes the stages selected by mode and writes artifacts into
// outputDir. Stage failures abort the remaining analysis stages but never the
// final write: partial artifacts plus run metadata always land on disk, and
// write failures themselves are recorded in the metadata rather than
// returned, so computed results survive a broken output directory.
func (p *Pipeline) Run(mode models.Mode, outputDir string, in Inputs) (*Result, error) {
	res := &Result{
		State:     StateLoaded,
		OutputDir: outputDir,
		Metadata: models.RunMetadata{
			Mode:            mode,
			StartedAt:       p.now(),
			StagesCompleted: []models.Stage{models.StageLoad},
			Errors:          []string{},
		},
	}

	switch mode {
	case models.ModeFull:
		p.runGaps(res, in)
		p.runRecommend(res, in)
		p.runSummary(res, in)
	case models.ModeGapsOnly:
		p.runGaps(res, in)
	case models.ModeRecommendOnly:
		p.runRecommend(res, in)
	case models.ModeSummaryOnly:
		p.rereadArtifacts(res, outputDir)
		p.runSummary(res, in)
	default:
		return nil, fmt.Errorf("unknown run mode %q", mode)
	}

	p.write(res)
	res.Metadata.FinishedAt = p.now()
	p.writeMetadata(res)
	return res, nil
}

// runGaps executes the gap analysis stage. An InsufficientInputError is
// recoverable: the stage is skipped, the failure recorded, and the remaining
// stages still run.
func (p *Pipeline) runGaps(res *Result, in Inputs) {
	if in.Subject == nil {
		res.Metadata.Errors = append(res.Metadata.Errors, "gap_analysis: no subject record provided")
		return
	}

	gaps, err := p.analyzer.Analyze(*in.Subject, in.References)
	if err != nil {
		var insufficient *models.InsufficientInputError
		if errors.As(err, &insufficient) {
			res.Metadata.Errors = append(res.Metadata.Errors, "gap_analysis: "+err.Error())
			return
		}
		res.Metadata.Errors = append(res.Metadata.Errors, "gap_analysis: "+err.Error())
		return
	}

	res.Gaps = gaps
	res.State = StateGapDone
	res.Metadata.StagesCompleted = append(res.Metadata.StagesCompleted, models.StageGaps)
}

// runRecommend executes the ranking stage. In full mode the gap result biases
// the annotation (never the score) and already-analyzed references are
// excluded from the pool.
func (p *Pipeline) runRecommend(res *Result, in Inputs) {
	exclusions := make(map[string]struct{}, len(in.Exclusions))
	for id := range in.Exclusions {
		exclusions[id] = struct{}{}
	}
	if res.Gaps != nil {
		// References already accepted for comparison are not candidates.
		for _, id := range res.Gaps.ReferencesAnalyzed {
			exclusions[id] = struct{}{}
		}
	}

	res.Recommendations = p.engine.Recommend(in.Pool, in.Subject, res.Gaps, exclusions, in.TopN)
	res.State = StateRecommendDone
	res.Metadata.StagesCompleted = append(res.Metadata.StagesCompleted, models.StageRecommend)
}

// runSummary executes the narrative stage from whatever outputs exist.
func (p *Pipeline) runSummary(res *Result, in Inputs) {
	meta := &summary.Metadata{
		Mode:        res.Metadata.Mode,
		GeneratedAt: p.now(),
	}
	if in.Subject != nil {
		meta.SubjectName = in.Subject.Name
		if meta.SubjectName == "" {
			meta.SubjectName = in.Subject.Identity
		}
	}

	res.Summary = summary.Generate(res.Gaps, res.Recommendations, meta)
	res.State = StateSummaryDone
	res.Metadata.StagesCompleted = append(res.Metadata.StagesCompleted, models.StageSummary)
}
