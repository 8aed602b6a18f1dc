package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// DateLayout is the wire format for clearance dates on input records.
const DateLayout = "2006-01-02"

// MalformedRecordError indicates a source record is missing a required field.
// Callers are expected to skip the offending record and continue with the
// rest of the pool rather than abort the whole run.
type MalformedRecordError struct {
	Missing string // name of the absent field
	Source  string // adapter that rejected the record ("row" or "entry")
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed %s record: required field %q is missing", e.Source, e.Missing)
}

// Record is the normalized representation of one subject, predicate, or
// candidate device. Identity and ClassificationKey are required and immutable
// once constructed; every other field may be empty.
type Record struct {
	Identity          string `json:"identity"`
	ClassificationKey string `json:"classification_key"`

	Name        string `json:"name,omitempty"`
	IntendedUse string `json:"intended_use,omitempty"`
	Technology  string `json:"technology,omitempty"`
	Date        string `json:"date,omitempty"`
	Applicant   string `json:"applicant,omitempty"`

	Ext Extensions `json:"extensions,omitempty"`
}

// Extensions is the typed view of a record's open extension bag. Source rows
// and entries carry these as loose key/value pairs; decoding them into named
// fields keeps the scoring and gap rules auditable.
type Extensions struct {
	AdverseEventCount  int    `mapstructure:"adverse_event_count" json:"adverse_event_count,omitempty"`
	RecallCount        int    `mapstructure:"recall_count" json:"recall_count,omitempty"`
	SevereRecallCount  int    `mapstructure:"class_i_recall_count" json:"class_i_recall_count,omitempty"`
	SafetyRating       string `mapstructure:"safety_rating" json:"safety_rating,omitempty"`
	PriorAcceptability string `mapstructure:"prior_acceptability" json:"prior_acceptability,omitempty"`
	SecondaryCategory  string `mapstructure:"secondary_category" json:"secondary_category,omitempty"`

	SterilizationMethod string `mapstructure:"sterilization_method" json:"sterilization_method,omitempty"`
	ShelfLifeMonths     int    `mapstructure:"shelf_life_months" json:"shelf_life_months,omitempty"`
	SoftwareLevel       string `mapstructure:"software_level" json:"software_level,omitempty"`
	Materials           string `mapstructure:"materials" json:"materials,omitempty"`
	EnergySource        string `mapstructure:"energy_source" json:"energy_source,omitempty"`
	UseEnvironment      string `mapstructure:"use_environment" json:"use_environment,omitempty"`
	LabelingFormat      string `mapstructure:"labeling_format" json:"labeling_format,omitempty"`
	PerformanceSummary  string `mapstructure:"performance_summary" json:"performance_summary,omitempty"`
}

// HasSafetySignals reports whether the record carries any adverse event or
// recall history.
func (e Extensions) HasSafetySignals() bool {
	return e.AdverseEventCount > 0 || e.RecallCount > 0
}

// MaterialList splits the semicolon- or comma-separated materials field into
// normalized (lowercased, trimmed) entries.
func (e Extensions) MaterialList() []string {
	if strings.TrimSpace(e.Materials) == "" {
		return nil
	}
	sep := ","
	if strings.Contains(e.Materials, ";") {
		sep = ";"
	}
	parts := strings.Split(e.Materials, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Acceptability values recognized in the prior_acceptability extension field.
const (
	AcceptabilityAcceptable     = "acceptable"
	AcceptabilityReviewRequired = "review-required"
	AcceptabilityNotRecommended = "not-recommended"
)

// Row keys shared by the tabular and structured adapters.
const (
	keyIdentity    = "identity"
	keyClass       = "classification_key"
	keyName        = "name"
	keyApplicant   = "applicant"
	keyDate        = "date"
	keyIntendedUse = "intended_use"
	keyTechnology  = "technology"
	keyExtensions  = "extensions"
)

// RecordFromRow builds a Record from a flat tabular row (e.g. one CSV line).
// Known columns populate the first-class fields; every remaining column is
// treated as an extension-bag entry. Returns *MalformedRecordError when
// identity or classification key is absent.
func RecordFromRow(row map[string]string) (Record, error) {
	if strings.TrimSpace(row[keyIdentity]) == "" {
		return Record{}, &MalformedRecordError{Missing: keyIdentity, Source: "row"}
	}
	if strings.TrimSpace(row[keyClass]) == "" {
		return Record{}, &MalformedRecordError{Missing: keyClass, Source: "row"}
	}

	rec := Record{
		Identity:          strings.TrimSpace(row[keyIdentity]),
		ClassificationKey: strings.TrimSpace(row[keyClass]),
		Name:              strings.TrimSpace(row[keyName]),
		IntendedUse:       strings.TrimSpace(row[keyIntendedUse]),
		Technology:        strings.TrimSpace(row[keyTechnology]),
		Date:              strings.TrimSpace(row[keyDate]),
		Applicant:         strings.TrimSpace(row[keyApplicant]),
	}

	bag := make(map[string]any)
	for k, v := range row {
		switch k {
		case keyIdentity, keyClass, keyName, keyApplicant, keyDate, keyIntendedUse, keyTechnology:
			continue
		}
		if strings.TrimSpace(v) != "" {
			bag[k] = v
		}
	}

	ext, err := decodeExtensions(bag)
	if err != nil {
		return Record{}, fmt.Errorf("decoding extensions for %s: %w", rec.Identity, err)
	}
	rec.Ext = ext
	return rec, nil
}

// RecordFromEntry builds a Record from a structured entry (e.g. one YAML
// document in a pool file). The entry may nest its extension bag under the
// "extensions" key. Returns *MalformedRecordError when identity or
// classification key is absent.
func RecordFromEntry(entry map[string]any) (Record, error) {
	str := func(key string) string {
		v, _ := entry[key].(string)
		return strings.TrimSpace(v)
	}

	if str(keyIdentity) == "" {
		return Record{}, &MalformedRecordError{Missing: keyIdentity, Source: "entry"}
	}
	if str(keyClass) == "" {
		return Record{}, &MalformedRecordError{Missing: keyClass, Source: "entry"}
	}

	rec := Record{
		Identity:          str(keyIdentity),
		ClassificationKey: str(keyClass),
		Name:              str(keyName),
		IntendedUse:       str(keyIntendedUse),
		Technology:        str(keyTechnology),
		Date:              str(keyDate),
		Applicant:         str(keyApplicant),
	}

	if bag, ok := entry[keyExtensions].(map[string]any); ok {
		ext, err := decodeExtensions(bag)
		if err != nil {
			return Record{}, fmt.Errorf("decoding extensions for %s: %w", rec.Identity, err)
		}
		rec.Ext = ext
	}
	return rec, nil
}

// decodeExtensions converts a loose extension bag into the typed Extensions
// struct. Weak typing is enabled so tabular sources can carry numeric fields
// as strings ("3" → 3).
func decodeExtensions(bag map[string]any) (Extensions, error) {
	var ext Extensions
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &ext,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return Extensions{}, err
	}
	if err := dec.Decode(bag); err != nil {
		return Extensions{}, err
	}
	ext.SafetyRating = strings.ToLower(strings.TrimSpace(ext.SafetyRating))
	ext.PriorAcceptability = strings.ToLower(strings.TrimSpace(ext.PriorAcceptability))
	return ext, nil
}

// ClearanceDate parses the record's date field. The second return value is
// false when the field is empty or not in the expected layout.
func (r Record) ClearanceDate() (time.Time, bool) {
	if r.Date == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, r.Date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Summary returns the compact identification block used in report headers and
// JSON artifacts.
func (r Record) Summary() RecordSummary {
	return RecordSummary{
		Identity:          r.Identity,
		ClassificationKey: r.ClassificationKey,
		Name:              r.Name,
		Applicant:         r.Applicant,
		Date:              r.Date,
	}
}

// RecordSummary is the compact identification block for a record.
type RecordSummary struct {
	Identity          string `json:"identity"`
	ClassificationKey string `json:"classification_key"`
	Name              string `json:"name,omitempty"`
	Applicant         string `json:"applicant,omitempty"`
	Date              string `json:"date,omitempty"`
}
