// Package projectconfig provides the ProjectConfig struct and loader for
// .predgap.yaml project-level configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the project configuration file searched for by Load.
const ConfigFileName = ".predgap.yaml"

// Default values applied by New when no project configuration overrides them.
const (
	DefaultOutputDir = "analysis/"
	DefaultTopN      = 10
)

// PathsConfig holds directory paths for analysis outputs.
type PathsConfig struct {
	Output string `yaml:"output,omitempty"`
}

// DefaultsConfig holds default analysis parameters.
type DefaultsConfig struct {
	TopN    int   `yaml:"top_n,omitempty"`
	HTML    *bool `yaml:"html,omitempty"`
	Verbose *bool `yaml:"verbose,omitempty"`
}

// ProjectConfig is the top-level configuration loaded from .predgap.yaml.
type ProjectConfig struct {
	Paths    PathsConfig    `yaml:"paths,omitempty"`
	Defaults DefaultsConfig `yaml:"defaults,omitempty"`
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	return &ProjectConfig{
		Paths: PathsConfig{
			Output: DefaultOutputDir,
		},
		Defaults: DefaultsConfig{
			TopN:    DefaultTopN,
			HTML:    boolPtr(false),
			Verbose: boolPtr(false),
		},
	}
}

// Load finds .predgap.yaml by walking up from startDir (max 10 levels),
// unmarshals it, and fills in missing fields with defaults.
// If no config file is found, returns defaults with a nil error.
// Real I/O errors (e.g. permission denied) are returned to the caller.
func Load(startDir string) (*ProjectConfig, error) {
	cfg := New()

	data, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil // no file found → return defaults
		}
		return nil, fmt.Errorf("loading %s: %w", ConfigFileName, err)
	}

	var fileCfg ProjectConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", ConfigFileName, err)
	}

	mergeConfig(cfg, &fileCfg)
	return cfg, nil
}

// findConfigFile walks up from dir looking for .predgap.yaml (max 10 levels).
// Returns os.ErrNotExist if no config file is found. Propagates real I/O
// errors (e.g. permission denied) instead of silently swallowing them.
func findConfigFile(dir string) ([]byte, error) {
	// Convert to absolute path so filepath.Dir(".") walks correctly.
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < 10; i++ {
		p := filepath.Join(dir, ConfigFileName)
		data, err := os.ReadFile(p)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		dir = parent
	}
	return nil, os.ErrNotExist
}

// mergeConfig overlays non-zero file values onto the defaults.
func mergeConfig(dst, src *ProjectConfig) {
	if src.Paths.Output != "" {
		dst.Paths.Output = src.Paths.Output
	}
	if src.Defaults.TopN > 0 {
		dst.Defaults.TopN = src.Defaults.TopN
	}
	if src.Defaults.HTML != nil {
		dst.Defaults.HTML = src.Defaults.HTML
	}
	if src.Defaults.Verbose != nil {
		dst.Defaults.Verbose = src.Defaults.Verbose
	}
}

func boolPtr(b bool) *bool {
	return &b
}
