package models

import (
	"fmt"
	"time"
)

// Disclaimer is reproduced verbatim at the top of every generated artifact,
// JSON and Markdown alike.
const Disclaimer = "ADVISORY OUTPUT: This analysis is generated by deterministic, rule-based heuristics. It is not a regulatory determination and does not replace review by qualified regulatory affairs personnel."

// Dimension identifies one of the fixed comparison dimensions evaluated by
// the gap analyzer, in regulatory review order.
type Dimension string

const (
	DimIntendedUse    Dimension = "intended_use"
	DimTechnology     Dimension = "technology"
	DimMaterials      Dimension = "materials"
	DimPerformance    Dimension = "performance"
	DimSterilization  Dimension = "sterilization"
	DimShelfLife      Dimension = "shelf_life"
	DimSoftware       Dimension = "software"
	DimEnergySource   Dimension = "energy_source"
	DimHumanFactors   Dimension = "human_factors"
	DimLabeling       Dimension = "labeling"
)

// Dimensions lists every comparison dimension in evaluation order.
var Dimensions = []Dimension{
	DimIntendedUse,
	DimTechnology,
	DimMaterials,
	DimPerformance,
	DimSterilization,
	DimShelfLife,
	DimSoftware,
	DimEnergySource,
	DimHumanFactors,
	DimLabeling,
}

// Severity classifies how much a detected difference threatens substantial
// equivalence.
type Severity string

const (
	SeverityCritical      Severity = "CRITICAL"
	SeverityMajor         Severity = "MAJOR"
	SeverityMinor         Severity = "MINOR"
	SeverityInformational Severity = "INFORMATIONAL"
)

// severityRank orders severities for dedup comparisons; higher is worse.
var severityRank = map[Severity]int{
	SeverityInformational: 0,
	SeverityMinor:         1,
	SeverityMajor:         2,
	SeverityCritical:      3,
}

// Outranks reports whether s is strictly more severe than other.
func (s Severity) Outranks(other Severity) bool {
	return severityRank[s] > severityRank[other]
}

// Gap is one deduplicated difference between the subject and at least one
// reference record.
type Gap struct {
	Dimension         Dimension `json:"dimension"`
	Severity          Severity  `json:"severity"`
	SubjectValue      string    `json:"subject_value"`
	ReferenceValue    string    `json:"reference_value"`
	Description       string    `json:"description"`
	Mitigation        string    `json:"mitigation"`
	ExternalReference string    `json:"external_reference,omitempty"`

	// References lists the identities of every reference record that raised
	// this gap, in comparison order.
	References []string `json:"references"`
}

// RiskLevel is the qualitative aggregate of a gap set.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskModerate RiskLevel = "MODERATE"
	RiskHigh     RiskLevel = "HIGH"
)

// RiskSummary aggregates a gap set into per-severity counts and a single
// qualitative risk call.
type RiskSummary struct {
	Critical       int       `json:"critical"`
	Major          int       `json:"major"`
	Minor          int       `json:"minor"`
	Informational  int       `json:"informational"`
	OverallRisk    RiskLevel `json:"overall_risk"`
	Recommendation string    `json:"recommendation"`
}

// TotalGaps returns the number of gaps across all severity tiers.
func (s RiskSummary) TotalGaps() int {
	return s.Critical + s.Major + s.Minor + s.Informational
}

// GapResult is the full output of one gap analysis run.
type GapResult struct {
	Subject            RecordSummary `json:"subject"`
	ReferencesAnalyzed []string      `json:"references_analyzed"`
	Gaps               []Gap         `json:"gaps"`
	RiskSummary        RiskSummary   `json:"risk_summary"`
	GeneratedAt        time.Time     `json:"timestamp"`
	Disclaimer         string        `json:"disclaimer"`
}

// GapsBySeverity returns the gaps carrying the given severity, preserving
// dimension order.
func (r *GapResult) GapsBySeverity(sev Severity) []Gap {
	var out []Gap
	for _, g := range r.Gaps {
		if g.Severity == sev {
			out = append(out, g)
		}
	}
	return out
}

// InsufficientInputError indicates the gap analyzer was invoked without any
// reference records. The pipeline treats it as recoverable: the stage is
// skipped and the failure recorded in run metadata.
type InsufficientInputError struct {
	Subject string
}

func (e *InsufficientInputError) Error() string {
	return fmt.Sprintf("gap analysis for %s requires at least one reference record", e.Subject)
}
