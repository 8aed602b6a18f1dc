package projectconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

func assertEqual(t *testing.T, field, want, got string) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %q, want %q", field, got, want)
	}
}

func assertEqualInt(t *testing.T, field string, want, got int) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %d, want %d", field, got, want)
	}
}

func assertBoolPtr(t *testing.T, field string, want bool, got *bool) {
	t.Helper()
	if got == nil {
		t.Errorf("%s is nil, want %v", field, want)
		return
	}
	if *got != want {
		t.Errorf("%s = %v, want %v", field, *got, want)
	}
}

func TestNew_ReturnsAllDefaults(t *testing.T) {
	cfg := New()

	assertEqual(t, "Paths.Output", "analysis/", cfg.Paths.Output)
	assertEqualInt(t, "Defaults.TopN", 10, cfg.Defaults.TopN)
	assertBoolPtr(t, "Defaults.HTML", false, cfg.Defaults.HTML)
	assertBoolPtr(t, "Defaults.Verbose", false, cfg.Defaults.Verbose)
}

func TestLoad_FullConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".predgap.yaml", `
paths:
  output: "reports/"
defaults:
  top_n: 5
  html: true
  verbose: true
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	assertEqual(t, "Paths.Output", "reports/", cfg.Paths.Output)
	assertEqualInt(t, "Defaults.TopN", 5, cfg.Defaults.TopN)
	assertBoolPtr(t, "Defaults.HTML", true, cfg.Defaults.HTML)
	assertBoolPtr(t, "Defaults.Verbose", true, cfg.Defaults.Verbose)
}

func TestLoad_PartialConfigKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".predgap.yaml", `
defaults:
  top_n: 3
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	assertEqualInt(t, "Defaults.TopN", 3, cfg.Defaults.TopN)
	assertEqual(t, "Paths.Output", "analysis/", cfg.Paths.Output)
	assertBoolPtr(t, "Defaults.HTML", false, cfg.Defaults.HTML)
}

func TestLoad_NoConfigReturnsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	assertEqual(t, "Paths.Output", "analysis/", cfg.Paths.Output)
	assertEqualInt(t, "Defaults.TopN", 10, cfg.Defaults.TopN)
}

func TestLoad_WalksUpToParentDir(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".predgap.yaml", "paths:\n  output: \"from-parent/\"\n")

	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(nested)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	assertEqual(t, "Paths.Output", "from-parent/", cfg.Paths.Output)
}

func TestLoad_MalformedYAMLIsAnError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".predgap.yaml", "paths: [not: a: map\n")

	if _, err := Load(dir); err == nil {
		t.Fatal("expected parse error, got nil")
	}
}

func TestLoad_ExplicitFalseSurvivesMerge(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".predgap.yaml", "defaults:\n  html: false\n")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	assertBoolPtr(t, "Defaults.HTML", false, cfg.Defaults.HTML)
}
