package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/regkit/predgap/internal/models"
	"github.com/regkit/predgap/internal/reporting"
)

// Artifact file names, one set per run directory.
const (
	FileGapJSON       = "gap_analysis.json"
	FileGapReport     = "gap_report.md"
	FileRecJSON       = "recommendations.json"
	FileRecReport     = "recommend.md"
	FileSummary       = "executive_summary.md"
	FileRunMetadata   = "run_metadata.json"
)

// RunDir returns a fresh per-run output directory under base. One run owns
// one directory, so no concurrent-writer coordination is needed.
func RunDir(base string, now time.Time) string {
	return filepath.Join(base, "run-"+now.Format("20060102-150405"))
}

// write persists every artifact the run produced. Each failure is recorded in
// run metadata and the remaining artifacts are still attempted; the in-memory
// result is never discarded over a disk problem.
func (p *Pipeline) write(res *Result) {
	if err := os.MkdirAll(res.OutputDir, 0o755); err != nil {
		res.Metadata.Errors = append(res.Metadata.Errors, fmt.Sprintf("write: creating %s: %v", res.OutputDir, err))
		return
	}

	wrote := false
	if res.Gaps != nil {
		wrote = p.writeJSON(res, FileGapJSON, res.Gaps) || wrote
		wrote = p.writeDoc(res, FileGapReport, "Gap Analysis Report", reporting.RenderGapReport(res.Gaps)) || wrote
	}
	if res.Recommendations != nil {
		wrote = p.writeJSON(res, FileRecJSON, res.Recommendations) || wrote
		wrote = p.writeDoc(res, FileRecReport, "Candidate Recommendations", reporting.RenderRecommendations(res.Recommendations)) || wrote
	}
	if res.Summary != "" {
		wrote = p.writeDoc(res, FileSummary, "Executive Summary", res.Summary) || wrote
	}

	if wrote {
		res.State = StateWritten
		res.Metadata.StagesCompleted = append(res.Metadata.StagesCompleted, models.StageWrite)
	}
}

// writeMetadata persists run_metadata.json last, after FinishedAt is set.
// A failure here can only be reported to stderr.
func (p *Pipeline) writeMetadata(res *Result) {
	data, err := json.MarshalIndent(res.Metadata, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "[WARN] marshaling run metadata: %v\n", err)
		return
	}
	path := filepath.Join(res.OutputDir, FileRunMetadata)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "[WARN] writing %s: %v\n", path, err)
	}
}

func (p *Pipeline) writeJSON(res *Result, name string, v any) bool {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		res.Metadata.Errors = append(res.Metadata.Errors, fmt.Sprintf("write: marshaling %s: %v", name, err))
		return false
	}
	path := filepath.Join(res.OutputDir, name)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		res.Metadata.Errors = append(res.Metadata.Errors, fmt.Sprintf("write: %s: %v", name, err))
		return false
	}
	return true
}

// writeDoc writes a Markdown artifact and, when enabled, its HTML twin.
func (p *Pipeline) writeDoc(res *Result, name, title, md string) bool {
	path := filepath.Join(res.OutputDir, name)
	if err := os.WriteFile(path, []byte(md), 0o644); err != nil {
		res.Metadata.Errors = append(res.Metadata.Errors, fmt.Sprintf("write: %s: %v", name, err))
		return false
	}

	if p.html {
		html, err := reporting.RenderHTML(title, md)
		if err != nil {
			res.Metadata.Errors = append(res.Metadata.Errors, fmt.Sprintf("write: rendering %s: %v", name, err))
			return true // the Markdown itself landed
		}
		htmlPath := path[:len(path)-len(filepath.Ext(path))] + ".html"
		if err := os.WriteFile(htmlPath, []byte(html), 0o644); err != nil {
			res.Metadata.Errors = append(res.Metadata.Errors, fmt.Sprintf("write: %s: %v", filepath.Base(htmlPath), err))
		}
	}
	return true
}

// rereadArtifacts loads previously written gap and recommendation artifacts
// for summary-only runs. A missing artifact is not an error; the summary
// simply degrades to the sections that have input.
func (p *Pipeline) rereadArtifacts(res *Result, dir string) {
	if data, err := os.ReadFile(filepath.Join(dir, FileGapJSON)); err == nil {
		var gaps models.GapResult
		if err := json.Unmarshal(data, &gaps); err != nil {
			res.Metadata.Errors = append(res.Metadata.Errors, fmt.Sprintf("summary: parsing %s: %v", FileGapJSON, err))
		} else {
			res.Gaps = &gaps
		}
	}
	if data, err := os.ReadFile(filepath.Join(dir, FileRecJSON)); err == nil {
		var recs models.RecommendationResult
		if err := json.Unmarshal(data, &recs); err != nil {
			res.Metadata.Errors = append(res.Metadata.Errors, fmt.Sprintf("summary: parsing %s: %v", FileRecJSON, err))
		} else {
			res.Recommendations = &recs
		}
	}
}
