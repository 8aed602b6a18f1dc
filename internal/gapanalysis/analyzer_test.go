package gapanalysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/regkit/predgap/internal/models"
)

func fixedClock() time.Time {
	return time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
}

func subjectRecord() models.Record {
	return models.Record{
		Identity:          "SUBJ-1",
		ClassificationKey: "DQY",
		Name:              "Acme Infusion Pump",
		IntendedUse:       "Continuous infusion of fluids into the bloodstream",
		Technology:        "Peristaltic pump with rotary drive",
		Ext: models.Extensions{
			SterilizationMethod: "ethylene oxide",
			Materials:           "pvc; silicone",
			SoftwareLevel:       "moderate",
			ShelfLifeMonths:     24,
		},
	}
}

func TestAnalyzeRequiresReferences(t *testing.T) {
	a := New(WithClock(fixedClock))
	_, err := a.Analyze(subjectRecord(), nil)
	var insufficient *models.InsufficientInputError
	require.ErrorAs(t, err, &insufficient)
	require.Equal(t, "SUBJ-1", insufficient.Subject)
}

func TestAnalyzeIdenticalRecordsYieldNoGaps(t *testing.T) {
	subj := subjectRecord()
	ref := subj
	ref.Identity = "K230001"

	a := New(WithClock(fixedClock))
	res, err := a.Analyze(subj, []models.Record{ref})
	require.NoError(t, err)

	require.Empty(t, res.Gaps)
	require.Equal(t, models.RiskLow, res.RiskSummary.OverallRisk)
	require.Equal(t, []string{"K230001"}, res.ReferencesAnalyzed)
	require.Equal(t, models.Disclaimer, res.Disclaimer)
	require.Equal(t, fixedClock(), res.GeneratedAt)
}

func TestAnalyzeSkipsDimensionsWithMissingData(t *testing.T) {
	subj := subjectRecord()
	subj.Ext.SterilizationMethod = "" // subject side missing

	ref := subjectRecord()
	ref.Identity = "K230001"
	ref.Ext.SoftwareLevel = "" // reference side missing
	ref.Ext.SterilizationMethod = "gamma irradiation"

	a := New(WithClock(fixedClock))
	res, err := a.Analyze(subj, []models.Record{ref})
	require.NoError(t, err)

	for _, g := range res.Gaps {
		require.NotEqual(t, models.DimSterilization, g.Dimension)
		require.NotEqual(t, models.DimSoftware, g.Dimension)
	}
}

func TestAnalyzeSeverityRules(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(subj, ref *models.Record)
		dim      models.Dimension
		severity models.Severity
	}{
		{
			name: "broader intended use is critical",
			mutate: func(subj, ref *models.Record) {
				ref.IntendedUse = "continuous infusion of fluids"
				subj.IntendedUse = "continuous infusion of fluids and blood products"
			},
			dim:      models.DimIntendedUse,
			severity: models.SeverityCritical,
		},
		{
			name: "reworded intended use is informational",
			mutate: func(subj, ref *models.Record) {
				ref.IntendedUse = "delivers fluids into the bloodstream"
				subj.IntendedUse = "administers medication via the vascular system"
			},
			dim:      models.DimIntendedUse,
			severity: models.SeverityInformational,
		},
		{
			name: "different technology is critical",
			mutate: func(subj, ref *models.Record) {
				ref.Technology = "syringe pump with linear drive"
			},
			dim:      models.DimTechnology,
			severity: models.SeverityCritical,
		},
		{
			name: "new material is critical",
			mutate: func(subj, ref *models.Record) {
				ref.Ext.Materials = "pvc"
				subj.Ext.Materials = "pvc; natural rubber latex"
			},
			dim:      models.DimMaterials,
			severity: models.SeverityCritical,
		},
		{
			name: "different sterilization is major",
			mutate: func(subj, ref *models.Record) {
				ref.Ext.SterilizationMethod = "gamma irradiation"
			},
			dim:      models.DimSterilization,
			severity: models.SeverityMajor,
		},
		{
			name: "longer shelf life is major",
			mutate: func(subj, ref *models.Record) {
				ref.Ext.ShelfLifeMonths = 12
				subj.Ext.ShelfLifeMonths = 36
			},
			dim:      models.DimShelfLife,
			severity: models.SeverityMajor,
		},
		{
			name: "shorter shelf life is minor",
			mutate: func(subj, ref *models.Record) {
				ref.Ext.ShelfLifeMonths = 36
				subj.Ext.ShelfLifeMonths = 12
			},
			dim:      models.DimShelfLife,
			severity: models.SeverityMinor,
		},
		{
			name: "higher software level is major",
			mutate: func(subj, ref *models.Record) {
				ref.Ext.SoftwareLevel = "minor"
				subj.Ext.SoftwareLevel = "major"
			},
			dim:      models.DimSoftware,
			severity: models.SeverityMajor,
		},
		{
			name: "lower software level is minor",
			mutate: func(subj, ref *models.Record) {
				ref.Ext.SoftwareLevel = "major"
				subj.Ext.SoftwareLevel = "minor"
			},
			dim:      models.DimSoftware,
			severity: models.SeverityMinor,
		},
		{
			name: "different energy source is critical",
			mutate: func(subj, ref *models.Record) {
				ref.Ext.EnergySource = "battery"
				subj.Ext.EnergySource = "mains electrical"
			},
			dim:      models.DimEnergySource,
			severity: models.SeverityCritical,
		},
		{
			name: "different use environment is minor",
			mutate: func(subj, ref *models.Record) {
				ref.Ext.UseEnvironment = "hospital"
				subj.Ext.UseEnvironment = "home"
			},
			dim:      models.DimHumanFactors,
			severity: models.SeverityMinor,
		},
		{
			name: "different labeling format is minor",
			mutate: func(subj, ref *models.Record) {
				ref.Ext.LabelingFormat = "paper ifu"
				subj.Ext.LabelingFormat = "electronic ifu"
			},
			dim:      models.DimLabeling,
			severity: models.SeverityMinor,
		},
		{
			name: "different performance summary is minor",
			mutate: func(subj, ref *models.Record) {
				ref.Ext.PerformanceSummary = "flow accuracy within 5 percent"
				subj.Ext.PerformanceSummary = "flow accuracy within 10 percent"
			},
			dim:      models.DimPerformance,
			severity: models.SeverityMinor,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subj := subjectRecord()
			ref := subjectRecord()
			ref.Identity = "K230001"
			tt.mutate(&subj, &ref)

			a := New(WithClock(fixedClock))
			res, err := a.Analyze(subj, []models.Record{ref})
			require.NoError(t, err)

			found := false
			for _, g := range res.Gaps {
				if g.Dimension == tt.dim {
					found = true
					require.Equal(t, tt.severity, g.Severity)
					require.NotEmpty(t, g.Description)
					require.Contains(t, g.References, "K230001")
				}
			}
			require.True(t, found, "expected a gap on dimension %s", tt.dim)
		})
	}
}

func TestAnalyzeDeduplicatesAcrossReferences(t *testing.T) {
	subj := subjectRecord()

	ref1 := subjectRecord()
	ref1.Identity = "K230001"
	ref1.Ext.SterilizationMethod = "gamma irradiation"

	ref2 := subjectRecord()
	ref2.Identity = "K230002"
	ref2.Ext.SterilizationMethod = "gamma irradiation"

	a := New(WithClock(fixedClock))
	res, err := a.Analyze(subj, []models.Record{ref1, ref2})
	require.NoError(t, err)

	require.Len(t, res.Gaps, 1)
	g := res.Gaps[0]
	require.Equal(t, models.DimSterilization, g.Dimension)
	require.Equal(t, []string{"K230001", "K230002"}, g.References)
	require.Equal(t, 1, res.RiskSummary.Major)
}

func TestAnalyzeRiskAggregation(t *testing.T) {
	t.Run("any critical gap means HIGH", func(t *testing.T) {
		subj := subjectRecord()
		ref := subjectRecord()
		ref.Identity = "K230001"
		ref.Technology = "syringe pump with linear drive"

		res, err := New(WithClock(fixedClock)).Analyze(subj, []models.Record{ref})
		require.NoError(t, err)
		require.Equal(t, models.RiskHigh, res.RiskSummary.OverallRisk)
	})

	t.Run("two major gaps mean MODERATE", func(t *testing.T) {
		subj := subjectRecord()
		subj.Ext.ShelfLifeMonths = 48
		ref := subjectRecord()
		ref.Identity = "K230001"
		ref.Ext.SterilizationMethod = "gamma irradiation"
		ref.Ext.ShelfLifeMonths = 24

		res, err := New(WithClock(fixedClock)).Analyze(subj, []models.Record{ref})
		require.NoError(t, err)
		require.Equal(t, 2, res.RiskSummary.Major)
		require.Equal(t, models.RiskModerate, res.RiskSummary.OverallRisk)
	})

	t.Run("one major gap stays LOW", func(t *testing.T) {
		subj := subjectRecord()
		ref := subjectRecord()
		ref.Identity = "K230001"
		ref.Ext.SterilizationMethod = "gamma irradiation"

		res, err := New(WithClock(fixedClock)).Analyze(subj, []models.Record{ref})
		require.NoError(t, err)
		require.Equal(t, models.RiskLow, res.RiskSummary.OverallRisk)
	})
}

func TestDimensionValue(t *testing.T) {
	rec := subjectRecord()
	require.Equal(t, rec.IntendedUse, DimensionValue(rec, models.DimIntendedUse))
	require.Equal(t, "ethylene oxide", DimensionValue(rec, models.DimSterilization))
	require.Equal(t, "24", DimensionValue(rec, models.DimShelfLife))
	require.Equal(t, "", DimensionValue(rec, models.DimEnergySource))
}
