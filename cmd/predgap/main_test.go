package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const subjectYAML = `identity: SUBJ-1
classification_key: DQY
name: Acme Infusion Pump
intended_use: Continuous infusion of fluids into the bloodstream
technology: Peristaltic pump with rotary drive
extensions:
  sterilization_method: ethylene oxide
`

const referenceYAML = `identity: K230001
classification_key: DQY
name: FlowSafe Pump
intended_use: Continuous infusion of fluids into the bloodstream
technology: Peristaltic pump with rotary drive
extensions:
  sterilization_method: gamma irradiation
`

const poolCSV = `identity,classification_key,name,date,intended_use
K230101,DQY,Acme Pump Pro,2023-06-01,Continuous infusion of fluids into the bloodstream
K100001,LZG,Derm Laser,2010-01-01,Ablation of dermal lesions
`

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(bytes.NewReader(nil))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestAnalyzeCommandFullRun(t *testing.T) {
	dir := t.TempDir()
	subject := writeInput(t, dir, "subject.yaml", subjectYAML)
	reference := writeInput(t, dir, "reference.yaml", referenceYAML)
	pool := writeInput(t, dir, "pool.csv", poolCSV)
	outDir := filepath.Join(dir, "out")

	stdout, _, err := runCommand(t,
		"analyze", "--subject", subject, "--reference", reference,
		"--pool", pool, "--output", outDir)
	require.NoError(t, err)

	require.Contains(t, stdout, "Gap analysis: SUBJ-1 vs 1 reference(s)")
	require.Contains(t, stdout, "Candidate ranking:")
	require.Contains(t, stdout, "Artifacts written to ")

	// One run directory with the full artifact set.
	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	runDir := filepath.Join(outDir, entries[0].Name())
	for _, name := range []string{
		"gap_analysis.json", "gap_report.md",
		"recommendations.json", "recommend.md",
		"executive_summary.md", "run_metadata.json",
	} {
		_, err := os.Stat(filepath.Join(runDir, name))
		require.NoError(t, err, "missing artifact %s", name)
	}
}

func TestGapsCommandHighRiskExitError(t *testing.T) {
	dir := t.TempDir()
	subject := writeInput(t, dir, "subject.yaml", subjectYAML)
	// A different operating principle raises a CRITICAL gap.
	reference := writeInput(t, dir, "reference.yaml", `identity: K230002
classification_key: DQY
technology: Syringe pump with linear drive
intended_use: Continuous infusion of fluids into the bloodstream
`)

	_, _, err := runCommand(t,
		"gaps", "--subject", subject, "--reference", reference,
		"--output", filepath.Join(dir, "out"))

	var highRisk *HighRiskError
	require.ErrorAs(t, err, &highRisk)
}

func TestGapsCommandWritesJUnit(t *testing.T) {
	dir := t.TempDir()
	subject := writeInput(t, dir, "subject.yaml", subjectYAML)
	reference := writeInput(t, dir, "reference.yaml", referenceYAML)
	junitPath := filepath.Join(dir, "junit.xml")

	_, _, err := runCommand(t,
		"gaps", "--subject", subject, "--reference", reference,
		"--output", filepath.Join(dir, "out"), "--junit", junitPath)
	require.NoError(t, err)

	data, err := os.ReadFile(junitPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "<testsuites")
	require.Contains(t, string(data), `name="sterilization"`)
}

func TestRecommendCommandWithoutSubject(t *testing.T) {
	dir := t.TempDir()
	pool := writeInput(t, dir, "pool.csv", poolCSV)

	stdout, _, err := runCommand(t,
		"recommend", "--pool", pool, "--output", filepath.Join(dir, "out"))
	require.NoError(t, err)
	require.Contains(t, stdout, "Candidate ranking: 2 scored")
}

func TestRecommendCommandReportsSkippedRows(t *testing.T) {
	dir := t.TempDir()
	pool := writeInput(t, dir, "pool.csv", `identity,classification_key
K1,DQY
,DQY
`)

	_, stderr, err := runCommand(t,
		"recommend", "--pool", pool, "--output", filepath.Join(dir, "out"))
	require.NoError(t, err)
	require.Contains(t, stderr, "[WARN]")
	require.Contains(t, stderr, "skipped record 2")
}

func TestSummaryCommandRegeneratesFromRunDir(t *testing.T) {
	dir := t.TempDir()
	subject := writeInput(t, dir, "subject.yaml", subjectYAML)
	reference := writeInput(t, dir, "reference.yaml", referenceYAML)
	outDir := filepath.Join(dir, "out")

	_, _, err := runCommand(t,
		"gaps", "--subject", subject, "--reference", reference, "--output", outDir)
	require.NoError(t, err)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	runDir := filepath.Join(outDir, entries[0].Name())

	_, _, err = runCommand(t, "summary", runDir)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(runDir, "executive_summary.md"))
	require.NoError(t, err)
	require.Contains(t, string(data), "## Gap Analysis")
}

func TestSummaryCommandMissingDir(t *testing.T) {
	_, _, err := runCommand(t, "summary", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	var highRisk *HighRiskError
	require.False(t, errors.As(err, &highRisk))
}

func TestCheckCommand(t *testing.T) {
	dir := t.TempDir()
	good := writeInput(t, dir, "good.yaml", subjectYAML)
	bad := writeInput(t, dir, "bad.yaml", "name: missing everything\n")

	stdout, _, err := runCommand(t, "check", good)
	require.NoError(t, err)
	require.Contains(t, stdout, "✓ "+good)

	stdout, _, err = runCommand(t, "check", good, bad)
	require.Error(t, err)
	require.Contains(t, err.Error(), "1 of 2 file(s) failed validation")
	require.Contains(t, stdout, "✗ "+bad)
}

func TestCheckCommandCSVPool(t *testing.T) {
	dir := t.TempDir()
	pool := writeInput(t, dir, "pool.csv", poolCSV)

	stdout, _, err := runCommand(t, "check", pool)
	require.NoError(t, err)
	require.Contains(t, stdout, "✓ "+pool)
}

func TestNewCommandNonInteractive(t *testing.T) {
	t.Chdir(t.TempDir())

	stdout, _, err := runCommand(t, "new", "K240001")
	require.NoError(t, err)
	require.Contains(t, stdout, "Created K240001.yaml")

	data, err := os.ReadFile("K240001.yaml")
	require.NoError(t, err)
	require.Contains(t, string(data), "identity: K240001")

	// Refuses to overwrite without --force.
	_, _, err = runCommand(t, "new", "K240001")
	require.Error(t, err)
	require.Contains(t, err.Error(), "already exists")
}

func TestExclusionSet(t *testing.T) {
	set := exclusionSet([]string{"K1,K2", " K3 ", "", "K1"})
	require.Len(t, set, 3)
	for _, id := range []string{"K1", "K2", "K3"} {
		_, ok := set[id]
		require.True(t, ok, "missing %s", id)
	}
}

func TestPadRightAndTruncate(t *testing.T) {
	if got := padRight("ab", 5); got != "ab   " {
		t.Errorf("padRight = %q", got)
	}
	if got := padRight("abcdef", 3); got != "abcdef" {
		t.Errorf("padRight should not truncate, got %q", got)
	}
	if got := truncateName("short", 10); got != "short" {
		t.Errorf("truncateName = %q", got)
	}
	if got := truncateName("a very long device name", 10); got != "a very lo…" {
		t.Errorf("truncateName = %q", got)
	}
}
