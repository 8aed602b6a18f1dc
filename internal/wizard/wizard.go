// Package wizard provides the interactive form used by `predgap new` to
// scaffold a device profile YAML file.
package wizard

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"text/template"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// ProfileSpec holds all fields collected during the interactive wizard.
type ProfileSpec struct {
	Identity          string
	Name              string
	ClassificationKey string
	Applicant         string
	Date              string
	IntendedUse       string
	Technology        string
}

var (
	identityPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)
	datePattern     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// ValidateIdentity checks that an identity is usable as a record key and as
// part of an output file name.
func ValidateIdentity(s string) error {
	if s == "" {
		return fmt.Errorf("identity is required")
	}
	if !identityPattern.MatchString(s) {
		return fmt.Errorf("identity may only contain letters, digits, '-' and '_'")
	}
	return nil
}

const profileTemplate = `# Device profile generated by predgap new.
# Fill in the extensions block with any structured attributes you have.
identity: {{ .Identity }}
classification_key: {{ .ClassificationKey }}
{{- if .Name }}
name: {{ printf "%q" .Name }}
{{- end }}
{{- if .Applicant }}
applicant: {{ printf "%q" .Applicant }}
{{- end }}
{{- if .Date }}
date: {{ printf "%q" .Date }}
{{- end }}
{{- if .IntendedUse }}
intended_use: >
  {{ .IntendedUse }}
{{- end }}
{{- if .Technology }}
technology: >
  {{ .Technology }}
{{- end }}
extensions: {}
`

// RunProfileWizard runs an interactive huh form to collect device profile
// fields. If initialIdentity is non-empty, it pre-populates the identity field.
func RunProfileWizard(in io.Reader, out io.Writer, initialIdentity string) (*ProfileSpec, error) {
	var (
		identity          = initialIdentity
		name              string
		classificationKey string
		applicant         string
		date              string
		intendedUse       string
		technology        string
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Identity").
				Description("A unique identifier for this device record").
				Placeholder("K240001").
				Value(&identity).
				Validate(func(s string) error {
					return ValidateIdentity(strings.TrimSpace(s))
				}),
			huh.NewInput().
				Title("Classification key").
				Description("The regulatory classification code this device falls under").
				Placeholder("DQY").
				Value(&classificationKey).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("classification key is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Device name").
				Placeholder("Acme Infusion Pump").
				Value(&name),
			huh.NewInput().
				Title("Applicant").
				Placeholder("Acme Medical, Inc.").
				Value(&applicant),
			huh.NewInput().
				Title("Clearance date").
				Description("YYYY-MM-DD, leave blank if not yet cleared").
				Placeholder("2024-03-15").
				Value(&date).
				Validate(func(s string) error {
					s = strings.TrimSpace(s)
					if s == "" {
						return nil
					}
					if !datePattern.MatchString(s) {
						return fmt.Errorf("date must be YYYY-MM-DD")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewText().
				Title("Intended use").
				Placeholder("Describe what the device is for and who uses it").
				Value(&intendedUse),
			huh.NewText().
				Title("Technology").
				Placeholder("Describe the operating principle and key components").
				Value(&technology),
		),
	).
		WithInput(in).
		WithOutput(out)

	// Use accessible mode for non-TTY input (e.g., tests, piped input).
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		form = form.WithAccessible(true)
	}

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("wizard failed: %w", err)
	}

	return &ProfileSpec{
		Identity:          strings.TrimSpace(identity),
		Name:              strings.TrimSpace(name),
		ClassificationKey: strings.TrimSpace(classificationKey),
		Applicant:         strings.TrimSpace(applicant),
		Date:              strings.TrimSpace(date),
		IntendedUse:       strings.TrimSpace(intendedUse),
		Technology:        strings.TrimSpace(technology),
	}, nil
}

// GenerateProfileYAML renders a profile YAML document from the given spec.
func GenerateProfileYAML(spec *ProfileSpec) (string, error) {
	tmpl, err := template.New("profile").Parse(profileTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, spec); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}
	return buf.String(), nil
}
