package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/regkit/predgap/internal/models"
)

// SkippedRecord describes one source record that could not be normalized.
// Malformed records never abort a pool load; they are skipped and reported.
type SkippedRecord struct {
	Position int    // 1-based position within the source file
	Reason   string
}

// poolFile is the on-disk shape of a structured (YAML) candidate pool.
type poolFile struct {
	Records []map[string]any `yaml:"records"`
}

// LoadPool loads a candidate pool from either a tabular CSV file or a
// structured YAML file, dispatching on the file extension. Both paths
// normalize into the same Record shape.
func LoadPool(path string) ([]models.Record, []SkippedRecord, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadPoolCSV(path)
	case ".yaml", ".yml":
		return LoadPoolYAML(path)
	default:
		return nil, nil, fmt.Errorf("pool: unsupported file extension on %s (want .csv, .yaml, or .yml)", path)
	}
}

// LoadPoolCSV reads a tabular pool and normalizes each row through the
// tabular record adapter.
func LoadPoolCSV(path string) ([]models.Record, []SkippedRecord, error) {
	rows, err := LoadCSV(path)
	if err != nil {
		return nil, nil, err
	}

	records := make([]models.Record, 0, len(rows))
	var skipped []SkippedRecord
	for i, row := range rows {
		rec, err := models.RecordFromRow(row)
		if err != nil {
			var malformed *models.MalformedRecordError
			if errors.As(err, &malformed) {
				skipped = append(skipped, SkippedRecord{Position: i + 1, Reason: err.Error()})
				continue
			}
			return nil, nil, fmt.Errorf("pool: row %d: %w", i+1, err)
		}
		records = append(records, rec)
	}
	return records, skipped, nil
}

// LoadPoolYAML reads a structured pool and normalizes each entry through the
// structured record adapter.
func LoadPoolYAML(path string) ([]models.Record, []SkippedRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("pool: read %s: %w", path, err)
	}

	var pf poolFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, nil, fmt.Errorf("pool: parse %s: %w", path, err)
	}

	records := make([]models.Record, 0, len(pf.Records))
	var skipped []SkippedRecord
	for i, entry := range pf.Records {
		rec, err := models.RecordFromEntry(entry)
		if err != nil {
			var malformed *models.MalformedRecordError
			if errors.As(err, &malformed) {
				skipped = append(skipped, SkippedRecord{Position: i + 1, Reason: err.Error()})
				continue
			}
			return nil, nil, fmt.Errorf("pool: entry %d: %w", i+1, err)
		}
		records = append(records, rec)
	}
	return records, skipped, nil
}

// LoadProfile reads a single-record YAML file (a subject or reference
// profile). Unlike pool loading, a malformed profile is a hard error: there
// is no remaining pool to continue with.
func LoadProfile(path string) (models.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Record{}, fmt.Errorf("profile: read %s: %w", path, err)
	}

	var entry map[string]any
	if err := yaml.Unmarshal(data, &entry); err != nil {
		return models.Record{}, fmt.Errorf("profile: parse %s: %w", path, err)
	}

	rec, err := models.RecordFromEntry(entry)
	if err != nil {
		return models.Record{}, fmt.Errorf("profile: %s: %w", path, err)
	}
	return rec, nil
}
