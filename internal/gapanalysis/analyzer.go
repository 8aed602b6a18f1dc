// Package gapanalysis compares a subject record against one or more
// reference records across a fixed, fully enumerated set of comparison
// dimensions and aggregates the detected differences into a risk summary.
package gapanalysis

import (
	"time"

	"github.com/regkit/predgap/internal/models"
	"github.com/regkit/predgap/internal/textmatch"
)

// Analyzer evaluates the static dimension rule table against record pairs.
type Analyzer struct {
	rules []rule
	now   func() time.Time
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithClock overrides the timestamp source, used for reproducible artifacts
// in tests.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) {
		a.now = now
	}
}

// New creates an analyzer with the default rule table.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		rules: defaultRules,
		now:   time.Now,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Analyze compares the subject against every reference record and returns the
// deduplicated gap set plus an aggregate risk summary. It fails only when the
// reference list is empty; a subject with mostly empty fields still produces
// a result, because dimensions that cannot be compared are skipped rather
// than reported.
func (a *Analyzer) Analyze(subject models.Record, references []models.Record) (*models.GapResult, error) {
	if len(references) == 0 {
		return nil, &models.InsufficientInputError{Subject: subject.Identity}
	}

	// Dedup key: dimension + normalized description. First occurrence fixes
	// the gap's position; later occurrences only escalate severity and append
	// their reference identity.
	type gapKey struct {
		dim  models.Dimension
		desc string
	}
	index := make(map[gapKey]int)
	var gaps []models.Gap

	refIDs := make([]string, 0, len(references))
	for _, ref := range references {
		refIDs = append(refIDs, ref.Identity)

		for _, r := range a.rules {
			subjVal := r.extract(subject)
			refVal := r.extract(ref)
			// Missing data on either side is not itself a gap.
			if subjVal == "" || refVal == "" {
				continue
			}

			f := r.classify(subjVal, refVal)
			if f == nil {
				continue
			}

			key := gapKey{dim: r.dimension, desc: textmatch.Normalize(f.description)}
			if i, ok := index[key]; ok {
				if f.severity.Outranks(gaps[i].Severity) {
					gaps[i].Severity = f.severity
				}
				if !containsString(gaps[i].References, ref.Identity) {
					gaps[i].References = append(gaps[i].References, ref.Identity)
				}
				continue
			}

			index[key] = len(gaps)
			gaps = append(gaps, models.Gap{
				Dimension:         r.dimension,
				Severity:          f.severity,
				SubjectValue:      subjVal,
				ReferenceValue:    refVal,
				Description:       f.description,
				Mitigation:        r.mitigation,
				ExternalReference: r.citation,
				References:        []string{ref.Identity},
			})
		}
	}

	return &models.GapResult{
		Subject:            subject.Summary(),
		ReferencesAnalyzed: refIDs,
		Gaps:               gaps,
		RiskSummary:        summarizeRisk(gaps),
		GeneratedAt:        a.now(),
		Disclaimer:         models.Disclaimer,
	}, nil
}

// summarizeRisk counts gaps per severity tier and derives the overall call:
// HIGH with any CRITICAL gap, MODERATE with two or more MAJOR gaps, LOW
// otherwise.
func summarizeRisk(gaps []models.Gap) models.RiskSummary {
	s := models.RiskSummary{}
	for _, g := range gaps {
		switch g.Severity {
		case models.SeverityCritical:
			s.Critical++
		case models.SeverityMajor:
			s.Major++
		case models.SeverityMinor:
			s.Minor++
		case models.SeverityInformational:
			s.Informational++
		}
	}

	switch {
	case s.Critical > 0:
		s.OverallRisk = models.RiskHigh
		s.Recommendation = "Critical differences were identified; resolve each before relying on these references for an equivalence argument."
	case s.Major >= 2:
		s.OverallRisk = models.RiskModerate
		s.Recommendation = "Multiple major differences were identified; plan additional validation work before submission."
	default:
		s.OverallRisk = models.RiskLow
		s.Recommendation = "No blocking differences were identified; address the remaining items through routine documentation."
	}
	return s
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
