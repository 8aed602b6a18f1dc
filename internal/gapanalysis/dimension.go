package gapanalysis

import "github.com/regkit/predgap/internal/models"

// DimensionValue returns the comparable value a record carries for the given
// dimension, using the same extractors the rule table evaluates. An empty
// string means the record has no data for that dimension.
func DimensionValue(r models.Record, d models.Dimension) string {
	for _, rule := range defaultRules {
		if rule.dimension == d {
			return rule.extract(r)
		}
	}
	return ""
}
