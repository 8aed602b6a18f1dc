package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/regkit/predgap/internal/models"
)

func fixedClock() time.Time {
	return time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
}

func testInputs() Inputs {
	subject := models.Record{
		Identity:          "SUBJ-1",
		ClassificationKey: "DQY",
		Name:              "Acme Infusion Pump",
		IntendedUse:       "Continuous infusion of fluids",
		Ext:               models.Extensions{SterilizationMethod: "ethylene oxide"},
	}
	reference := subject
	reference.Identity = "K230001"
	reference.Ext.SterilizationMethod = "gamma irradiation"

	return Inputs{
		Subject:    &subject,
		References: []models.Record{reference},
		Pool: []models.Record{
			{Identity: "K230101", ClassificationKey: "DQY", Date: "2023-06-01"},
			{Identity: "K100001", ClassificationKey: "LZG", Date: "2010-01-01"},
		},
		TopN: 10,
	}
}

func readJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, v))
}

func TestRunFullMode(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	p := New(WithClock(fixedClock))

	res, err := p.Run(models.ModeFull, dir, testInputs())
	require.NoError(t, err)

	require.Equal(t, StateWritten, res.State)
	require.NotNil(t, res.Gaps)
	require.NotNil(t, res.Recommendations)
	require.NotEmpty(t, res.Summary)
	require.Equal(t, []models.Stage{
		models.StageLoad, models.StageGaps, models.StageRecommend,
		models.StageSummary, models.StageWrite,
	}, res.Metadata.StagesCompleted)

	for _, name := range []string{
		FileGapJSON, FileGapReport, FileRecJSON, FileRecReport, FileSummary, FileRunMetadata,
	} {
		_, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, "expected artifact %s", name)
	}

	var meta models.RunMetadata
	readJSON(t, filepath.Join(dir, FileRunMetadata), &meta)
	require.Equal(t, models.ModeFull, meta.Mode)
	require.Empty(t, meta.Errors)
}

func TestRunFullModeExcludesAnalyzedReferencesFromPool(t *testing.T) {
	in := testInputs()
	// Put the analyzed reference into the candidate pool as well.
	in.Pool = append(in.Pool, in.References[0])

	p := New(WithClock(fixedClock))
	res, err := p.Run(models.ModeFull, filepath.Join(t.TempDir(), "run"), in)
	require.NoError(t, err)

	for _, c := range res.Recommendations.Recommendations {
		require.NotEqual(t, "K230001", c.Identity)
	}
	require.Len(t, res.Recommendations.Excluded, 1)
	require.Equal(t, "K230001", res.Recommendations.Excluded[0].Identity)
}

func TestRunGapsOnlyMode(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	p := New(WithClock(fixedClock))

	res, err := p.Run(models.ModeGapsOnly, dir, testInputs())
	require.NoError(t, err)

	require.Equal(t, StateWritten, res.State)
	require.NotNil(t, res.Gaps)
	require.Nil(t, res.Recommendations)
	require.Empty(t, res.Summary)

	_, err = os.Stat(filepath.Join(dir, FileGapJSON))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, FileRecJSON))
	require.True(t, os.IsNotExist(err))
}

func TestRunRecommendOnlyModeWithoutSubject(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	in := testInputs()
	in.Subject = nil
	in.References = nil

	p := New(WithClock(fixedClock))
	res, err := p.Run(models.ModeRecommendOnly, dir, in)
	require.NoError(t, err)

	require.Equal(t, StateWritten, res.State)
	require.Nil(t, res.Gaps)
	require.NotNil(t, res.Recommendations)
	require.Len(t, res.Recommendations.Recommendations, 2)
}

func TestRunGapStageFailureIsRecoverable(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	in := testInputs()
	in.References = nil // insufficient input for gap analysis

	p := New(WithClock(fixedClock))
	res, err := p.Run(models.ModeFull, dir, in)
	require.NoError(t, err)

	// The gap stage is skipped but ranking and summary still run and write.
	require.Nil(t, res.Gaps)
	require.NotNil(t, res.Recommendations)
	require.NotEmpty(t, res.Summary)
	require.Equal(t, StateWritten, res.State)

	require.Len(t, res.Metadata.Errors, 1)
	require.Contains(t, res.Metadata.Errors[0], "gap_analysis:")
	require.NotContains(t, res.Metadata.StagesCompleted, models.StageGaps)

	_, statErr := os.Stat(filepath.Join(dir, FileGapJSON))
	require.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(filepath.Join(dir, FileRecJSON))
	require.NoError(t, statErr)
}

func TestRunSummaryOnlyRereadsArtifacts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	p := New(WithClock(fixedClock))

	// First a full run to produce artifacts.
	_, err := p.Run(models.ModeFull, dir, testInputs())
	require.NoError(t, err)
	require.NoError(t, os.Remove(filepath.Join(dir, FileSummary)))

	res, err := p.Run(models.ModeSummaryOnly, dir, Inputs{})
	require.NoError(t, err)

	require.NotNil(t, res.Gaps)
	require.NotNil(t, res.Recommendations)
	require.Contains(t, res.Summary, "## Gap Analysis")
	require.Contains(t, res.Summary, "## Candidate Recommendations")

	_, err = os.Stat(filepath.Join(dir, FileSummary))
	require.NoError(t, err)
}

func TestRunSummaryOnlyWithEmptyDirStillWritesSummary(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	p := New(WithClock(fixedClock))

	res, err := p.Run(models.ModeSummaryOnly, dir, Inputs{})
	require.NoError(t, err)

	require.Nil(t, res.Gaps)
	require.Nil(t, res.Recommendations)
	require.Contains(t, res.Summary, "# Executive Summary")

	_, err = os.Stat(filepath.Join(dir, FileSummary))
	require.NoError(t, err)
}

func TestRunUnknownModeIsAnError(t *testing.T) {
	p := New(WithClock(fixedClock))
	_, err := p.Run(models.Mode("bogus"), t.TempDir(), Inputs{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown run mode")
}

func TestRunWriteFailureKeepsResults(t *testing.T) {
	// A file where the run directory should be makes MkdirAll fail.
	base := t.TempDir()
	blocked := filepath.Join(base, "blocked")
	require.NoError(t, os.WriteFile(blocked, []byte("in the way"), 0o644))

	p := New(WithClock(fixedClock))
	res, err := p.Run(models.ModeFull, blocked, testInputs())
	require.NoError(t, err)

	// In-memory results survive even though nothing landed on disk.
	require.NotNil(t, res.Gaps)
	require.NotNil(t, res.Recommendations)
	require.NotEmpty(t, res.Summary)
	require.Equal(t, StateSummaryDone, res.State)

	found := false
	for _, e := range res.Metadata.Errors {
		if len(e) >= 6 && e[:6] == "write:" {
			found = true
		}
	}
	require.True(t, found, "expected a write error in run metadata")
}

func TestRunHTMLTwins(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	p := New(WithClock(fixedClock), WithHTML(true))

	_, err := p.Run(models.ModeFull, dir, testInputs())
	require.NoError(t, err)

	for _, name := range []string{"gap_report.html", "recommend.html", "executive_summary.html"} {
		_, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, "expected html twin %s", name)
	}
}

func TestRunDirNaming(t *testing.T) {
	dir := RunDir("analysis", fixedClock())
	require.Equal(t, filepath.Join("analysis", "run-20250115-120000"), dir)
}
