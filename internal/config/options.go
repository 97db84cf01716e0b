package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// NarrowingRules toggles individual edge-condition narrowing patterns,
// using a yaml-tagged options struct with sane zero-value defaults.
type NarrowingRules struct {
	TypeofNarrowing  bool `yaml:"typeofNarrowing"`
	NullishNarrowing bool `yaml:"nullishNarrowing"`
	TruthinessNarrow bool `yaml:"truthinessNarrowing"`
}

// DefaultNarrowingRules enables every sound narrowing pattern this
// analyzer supports.
func DefaultNarrowingRules() NarrowingRules {
	return NarrowingRules{
		TypeofNarrowing:  true,
		NullishNarrowing: true,
		TruthinessNarrow: true,
	}
}

// AnalyzerOptions configures one analysis pass. It is instance-local:
// every Analyzer owns its own copy rather than reading package-level
// state, so parallel analyses cannot observe each other's
// configuration.
type AnalyzerOptions struct {
	MaxIterations  int            `yaml:"maxIterations"`
	Narrowing      NarrowingRules `yaml:"narrowing"`
	UseConstraints bool           `yaml:"useConstraints"` // select the constraint-based front end instead of direct transfer
}

// DefaultOptions returns the recommended defaults for a fresh analysis.
func DefaultOptions() AnalyzerOptions {
	return AnalyzerOptions{
		MaxIterations: DefaultMaxIterations,
		Narrowing:     DefaultNarrowingRules(),
	}
}

// LoadOptionsYAML reads AnalyzerOptions from a YAML document, starting
// from DefaultOptions so a partial document only overrides what it
// names.
func LoadOptionsYAML(data []byte) (AnalyzerOptions, error) {
	opts := DefaultOptions()
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return AnalyzerOptions{}, fmt.Errorf("config: parsing analyzer options: %w", err)
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultMaxIterations
	}
	return opts, nil
}

// LoadOptionsFile reads AnalyzerOptions from a YAML file on disk.
func LoadOptionsFile(path string) (AnalyzerOptions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return AnalyzerOptions{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	return LoadOptionsYAML(data)
}
