package config

import "testing"

func TestDefaultOptionsEnablesEveryNarrowingRule(t *testing.T) {
	opts := DefaultOptions()
	if opts.MaxIterations != DefaultMaxIterations {
		t.Errorf("expected MaxIterations to default to %d, got %d", DefaultMaxIterations, opts.MaxIterations)
	}
	if !opts.Narrowing.TypeofNarrowing || !opts.Narrowing.NullishNarrowing || !opts.Narrowing.TruthinessNarrow {
		t.Errorf("expected every narrowing rule enabled by default, got %+v", opts.Narrowing)
	}
	if opts.UseConstraints {
		t.Errorf("expected UseConstraints to default to false")
	}
}

func TestLoadOptionsYAMLOverridesOnlyWhatItNames(t *testing.T) {
	opts, err := LoadOptionsYAML([]byte(`
useConstraints: true
narrowing:
  typeofNarrowing: false
`))
	if err != nil {
		t.Fatalf("LoadOptionsYAML: %v", err)
	}
	if !opts.UseConstraints {
		t.Errorf("expected useConstraints to be overridden to true")
	}
	if opts.Narrowing.TypeofNarrowing {
		t.Errorf("expected typeofNarrowing to be overridden to false")
	}
	if !opts.Narrowing.NullishNarrowing || !opts.Narrowing.TruthinessNarrow {
		t.Errorf("expected the other narrowing rules to keep their defaults, got %+v", opts.Narrowing)
	}
	if opts.MaxIterations != DefaultMaxIterations {
		t.Errorf("expected MaxIterations to keep its default, got %d", opts.MaxIterations)
	}
}

func TestLoadOptionsYAMLRejectsAZeroMaxIterations(t *testing.T) {
	opts, err := LoadOptionsYAML([]byte(`maxIterations: 0`))
	if err != nil {
		t.Fatalf("LoadOptionsYAML: %v", err)
	}
	if opts.MaxIterations != DefaultMaxIterations {
		t.Errorf("expected a zero maxIterations to fall back to the default, got %d", opts.MaxIterations)
	}
}

func TestLoadOptionsYAMLRejectsInvalidYAML(t *testing.T) {
	if _, err := LoadOptionsYAML([]byte(`not: [valid`)); err == nil {
		t.Fatalf("expected an error for malformed YAML")
	}
}

func TestLoadOptionsFileRejectsAMissingPath(t *testing.T) {
	if _, err := LoadOptionsFile("/nonexistent/options.yaml"); err == nil {
		t.Fatalf("expected an error for a missing options file")
	}
}
