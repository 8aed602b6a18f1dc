package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/regkit/predgap/internal/dataset"
	"github.com/regkit/predgap/internal/models"
	"github.com/regkit/predgap/internal/projectconfig"
)

// loadSubject reads and validates the subject profile.
func loadSubject(path string) (*models.Record, error) {
	rec, err := dataset.LoadProfile(path)
	if err != nil {
		return nil, fmt.Errorf("loading subject profile %s: %w", path, err)
	}
	return &rec, nil
}

// loadReferences reads one profile per path. Reference profiles are
// user-curated, so a malformed one is a hard error rather than a skip.
func loadReferences(paths []string) ([]models.Record, error) {
	refs := make([]models.Record, 0, len(paths))
	for _, p := range paths {
		rec, err := dataset.LoadProfile(p)
		if err != nil {
			return nil, fmt.Errorf("loading reference profile %s: %w", p, err)
		}
		refs = append(refs, rec)
	}
	return refs, nil
}

// loadCandidatePool reads a CSV or YAML pool file, reporting skipped records
// on stderr.
func loadCandidatePool(cmd *cobra.Command, path string) ([]models.Record, error) {
	pool, skipped, err := dataset.LoadPool(path)
	if err != nil {
		return nil, fmt.Errorf("loading candidate pool %s: %w", path, err)
	}
	printSkipped(cmd.ErrOrStderr(), path, skipped)
	return pool, nil
}

// exclusionSet turns repeated --exclude values into a lookup set. Each value
// may itself be a comma-separated list.
func exclusionSet(values []string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, v := range values {
		for _, id := range strings.Split(v, ",") {
			id = strings.TrimSpace(id)
			if id != "" {
				set[id] = struct{}{}
			}
		}
	}
	return set
}

// resolveRunSettings merges project config defaults with explicit flags.
// A flag the user set wins over the config file.
func resolveRunSettings(cmd *cobra.Command, outputDir *string, topN *int, html *bool) error {
	cfg, err := projectconfig.Load(".")
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("output") {
		*outputDir = cfg.Paths.Output
	}
	if topN != nil && !cmd.Flags().Changed("top-n") {
		*topN = cfg.Defaults.TopN
	}
	if html != nil && !cmd.Flags().Changed("html") && cfg.Defaults.HTML != nil {
		*html = *cfg.Defaults.HTML
	}
	return nil
}

// reportRun prints where artifacts landed and surfaces recorded stage errors.
func reportRun(cmd *cobra.Command, meta models.RunMetadata, outputDir string) {
	for _, e := range meta.Errors {
		fmt.Fprintf(cmd.ErrOrStderr(), "[WARN] %s\n", e) //nolint:errcheck
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\nArtifacts written to %s\n", outputDir) //nolint:errcheck
}
