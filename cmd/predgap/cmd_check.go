package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/regkit/predgap/internal/dataset"
	"github.com/regkit/predgap/internal/validation"
)

func newCheckCommand() *cobra.Command {
	var asPool bool

	cmd := &cobra.Command{
		Use:   "check <file>...",
		Short: "Validate profile and pool files before analysis",
		Long: `Validate input files against the embedded JSON Schemas.

YAML files are checked as single-record profiles by default; pass --pool to
check a structured pool file instead. CSV pools are checked by loading them
the way analysis would, reporting every row that would be skipped.

Exits 2 if any file fails validation.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheckFiles(cmd, args, asPool)
		},
	}

	cmd.Flags().BoolVar(&asPool, "pool", false, "Treat YAML arguments as structured pool files")

	return cmd
}

func runCheckFiles(cmd *cobra.Command, paths []string, asPool bool) error {
	out := cmd.OutOrStdout()
	failed := 0

	for _, path := range paths {
		problems, err := checkFile(cmd, path, asPool)
		if err != nil {
			return err
		}
		if len(problems) == 0 {
			fmt.Fprintf(out, "✓ %s\n", path) //nolint:errcheck
			continue
		}
		failed++
		fmt.Fprintf(out, "✗ %s\n", path) //nolint:errcheck
		for _, p := range problems {
			fmt.Fprintf(out, "    %s\n", p) //nolint:errcheck
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed validation", failed, len(paths))
	}
	return nil
}

func checkFile(cmd *cobra.Command, path string, asPool bool) ([]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return checkCSVPool(path)
	case ".yaml", ".yml":
		if asPool {
			return validation.ValidatePoolFile(path)
		}
		return validation.ValidateProfileFile(path)
	default:
		return nil, fmt.Errorf("%s: unsupported file type (want .csv, .yaml, or .yml)", path)
	}
}

// checkCSVPool dry-runs the CSV pool loader and reports skipped rows as
// validation problems.
func checkCSVPool(path string) ([]string, error) {
	_, skipped, err := dataset.LoadPoolCSV(path)
	if err != nil {
		return []string{err.Error()}, nil
	}

	problems := make([]string, 0, len(skipped))
	for _, s := range skipped {
		problems = append(problems, fmt.Sprintf("row %d: %s", s.Position, s.Reason))
	}
	return problems, nil
}
