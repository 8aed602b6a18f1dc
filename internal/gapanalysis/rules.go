package gapanalysis

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/regkit/predgap/internal/models"
	"github.com/regkit/predgap/internal/textmatch"
)

// finding is the raw outcome of one dimension rule before deduplication.
type finding struct {
	severity    models.Severity
	description string
}

// rule is one fully enumerated comparison dimension. The table below is
// static on purpose: every severity a gap can carry must be traceable to a
// reviewable entry here, never inferred at runtime.
type rule struct {
	dimension  models.Dimension
	extract    func(models.Record) string
	classify   func(subjVal, refVal string) *finding
	mitigation string
	citation   string
}

// softwareLevelRank orders recognized software level-of-concern values.
// Unrecognized values rank as -1 and fall through to the difference rule.
var softwareLevelRank = map[string]int{
	"none":     0,
	"minor":    1,
	"moderate": 2,
	"major":    3,
}

// defaultRules enumerates the ten comparison dimensions in evaluation order.
var defaultRules = []rule{
	{
		dimension: models.DimIntendedUse,
		extract:   func(r models.Record) string { return r.IntendedUse },
		classify: func(subj, ref string) *finding {
			if textmatch.Equal(subj, ref) {
				return nil
			}
			if textmatch.Broader(subj, ref) {
				return &finding{
					severity:    models.SeverityCritical,
					description: "Subject claims a broader indication for use than the reference",
				}
			}
			return &finding{
				severity:    models.SeverityInformational,
				description: "Intended use statement wording differs from the reference",
			}
		},
		mitigation: "Narrow the indications for use to match the reference, or support the broader claim with clinical evidence.",
		citation:   "21 CFR 807.92(a)(5)",
	},
	{
		dimension: models.DimTechnology,
		extract:   func(r models.Record) string { return r.Technology },
		classify: func(subj, ref string) *finding {
			if textmatch.Equal(subj, ref) {
				return nil
			}
			return &finding{
				severity:    models.SeverityCritical,
				description: "Operating principle differs from the reference",
			}
		},
		mitigation: "Provide a technological characteristics comparison demonstrating the different principle raises no new questions of safety or effectiveness.",
		citation:   "FDA 510(k) Program Guidance, Section VI",
	},
	{
		dimension: models.DimMaterials,
		extract:   func(r models.Record) string { return r.Ext.Materials },
		classify: func(subj, ref string) *finding {
			added := addedMaterials(subj, ref)
			if len(added) > 0 {
				return &finding{
					severity: models.SeverityCritical,
					description: fmt.Sprintf("Subject introduces patient-contact material(s) not present in the reference: %s",
						strings.Join(added, ", ")),
				}
			}
			if textmatch.Equal(subj, ref) || sameMaterialSet(subj, ref) {
				return nil
			}
			return &finding{
				severity:    models.SeverityInformational,
				description: "Material composition listing differs from the reference",
			}
		},
		mitigation: "Supply biocompatibility testing per ISO 10993-1 for each new patient-contact material.",
		citation:   "ISO 10993-1",
	},
	{
		dimension: models.DimPerformance,
		extract:   func(r models.Record) string { return r.Ext.PerformanceSummary },
		classify: func(subj, ref string) *finding {
			if textmatch.Equal(subj, ref) {
				return nil
			}
			return &finding{
				severity:    models.SeverityMinor,
				description: "Performance specifications differ from the reference",
			}
		},
		mitigation: "Include bench performance data bridging the specification difference.",
		citation:   "",
	},
	{
		dimension: models.DimSterilization,
		extract:   func(r models.Record) string { return r.Ext.SterilizationMethod },
		classify: func(subj, ref string) *finding {
			if textmatch.Equal(subj, ref) {
				return nil
			}
			return &finding{
				severity: models.SeverityMajor,
				description: fmt.Sprintf("Sterilization modality differs from the reference (%s vs %s)",
					textmatch.Normalize(subj), textmatch.Normalize(ref)),
			}
		},
		mitigation: "Validate the subject sterilization cycle to the applicable ISO standard; the reference's validation basis does not transfer.",
		citation:   "ISO 11135 / ISO 11137",
	},
	{
		dimension: models.DimShelfLife,
		extract: func(r models.Record) string {
			if r.Ext.ShelfLifeMonths <= 0 {
				return ""
			}
			return strconv.Itoa(r.Ext.ShelfLifeMonths)
		},
		classify: func(subj, ref string) *finding {
			sm, _ := strconv.Atoi(subj)
			rm, _ := strconv.Atoi(ref)
			switch {
			case sm == rm:
				return nil
			case sm > rm:
				return &finding{
					severity: models.SeverityMajor,
					description: fmt.Sprintf("Claimed shelf life (%d months) exceeds the reference-validated %d months",
						sm, rm),
				}
			default:
				return &finding{
					severity:    models.SeverityMinor,
					description: "Claimed shelf life is shorter than the reference",
				}
			}
		},
		mitigation: "Provide accelerated and real-time aging data covering the full claimed shelf life.",
		citation:   "ASTM F1980",
	},
	{
		dimension: models.DimSoftware,
		extract:   func(r models.Record) string { return r.Ext.SoftwareLevel },
		classify: func(subj, ref string) *finding {
			sRank, sOK := softwareLevelRank[textmatch.Normalize(subj)]
			rRank, rOK := softwareLevelRank[textmatch.Normalize(ref)]
			if sOK && rOK {
				switch {
				case sRank == rRank:
					return nil
				case sRank > rRank:
					return &finding{
						severity: models.SeverityMajor,
						description: fmt.Sprintf("Software level of concern increases relative to the reference (%s vs %s)",
							textmatch.Normalize(subj), textmatch.Normalize(ref)),
					}
				default:
					return &finding{
						severity:    models.SeverityMinor,
						description: "Software level of concern is lower than the reference",
					}
				}
			}
			if textmatch.Equal(subj, ref) {
				return nil
			}
			return &finding{
				severity:    models.SeverityInformational,
				description: "Software level designation differs from the reference",
			}
		},
		mitigation: "Document software verification and validation commensurate with the elevated level of concern.",
		citation:   "FDA Guidance: Content of Premarket Submissions for Device Software Functions",
	},
	{
		dimension: models.DimEnergySource,
		extract:   func(r models.Record) string { return r.Ext.EnergySource },
		classify: func(subj, ref string) *finding {
			if textmatch.Equal(subj, ref) {
				return nil
			}
			return &finding{
				severity: models.SeverityCritical,
				description: fmt.Sprintf("Energy source differs from the reference (%s vs %s)",
					textmatch.Normalize(subj), textmatch.Normalize(ref)),
			}
		},
		mitigation: "Provide electrical safety and, where applicable, electromagnetic compatibility testing for the new energy source.",
		citation:   "IEC 60601-1",
	},
	{
		dimension: models.DimHumanFactors,
		extract:   func(r models.Record) string { return r.Ext.UseEnvironment },
		classify: func(subj, ref string) *finding {
			if textmatch.Equal(subj, ref) {
				return nil
			}
			return &finding{
				severity:    models.SeverityMinor,
				description: "Intended use environment differs from the reference",
			}
		},
		mitigation: "Assess whether the new use environment introduces use-related hazards; summarize in the human factors file.",
		citation:   "IEC 62366-1",
	},
	{
		dimension: models.DimLabeling,
		extract:   func(r models.Record) string { return r.Ext.LabelingFormat },
		classify: func(subj, ref string) *finding {
			if textmatch.Equal(subj, ref) {
				return nil
			}
			return &finding{
				severity:    models.SeverityMinor,
				description: "Labeling format differs from the reference",
			}
		},
		mitigation: "Confirm labeling content still satisfies 21 CFR Part 801 despite the format change.",
		citation:   "21 CFR Part 801",
	},
}

// addedMaterials returns the normalized materials present in subj but absent
// from ref, preserving subject listing order.
func addedMaterials(subj, ref string) []string {
	refSet := make(map[string]struct{})
	for _, m := range splitMaterials(ref) {
		refSet[m] = struct{}{}
	}
	var added []string
	for _, m := range splitMaterials(subj) {
		if _, ok := refSet[m]; !ok {
			added = append(added, m)
		}
	}
	return added
}

// sameMaterialSet reports whether both listings name the same materials,
// ignoring order and separators.
func sameMaterialSet(a, b string) bool {
	ma, mb := splitMaterials(a), splitMaterials(b)
	if len(ma) != len(mb) {
		return false
	}
	set := make(map[string]struct{}, len(ma))
	for _, m := range ma {
		set[m] = struct{}{}
	}
	for _, m := range mb {
		if _, ok := set[m]; !ok {
			return false
		}
	}
	return true
}

func splitMaterials(s string) []string {
	sep := ","
	if strings.Contains(s, ";") {
		sep = ";"
	}
	var out []string
	for _, p := range strings.Split(s, sep) {
		p = textmatch.Normalize(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
