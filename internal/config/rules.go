package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// KeywordRange is the closed interval of keyword occurrences allowed in a body.
type KeywordRange struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// Rules is the canonical threshold set applied to every generation.
type Rules struct {
	MaxAttempts    int          `yaml:"max_attempts"`
	Keyword        KeywordRange `yaml:"keyword"`
	MinBodyChars   int          `yaml:"min_body_chars"`
	PromptMinChars int          `yaml:"prompt_min_chars"`
	ReferenceCap   int          `yaml:"reference_cap"`
}

// DefaultRules returns the thresholds used when no rules file overrides them.
func DefaultRules() Rules {
	return Rules{
		MaxAttempts:    4,
		Keyword:        KeywordRange{Min: 2, Max: 3},
		MinBodyChars:   600,
		PromptMinChars: 1000,
		ReferenceCap:   2200,
	}
}

// LoadRules reads a YAML rules file over the defaults. An empty path yields
// the defaults unchanged.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	if path == "" {
		return rules, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("failed to read rules file %s: %w", path, err)
	}

	var override Rules
	if err := yaml.Unmarshal(raw, &override); err != nil {
		return Rules{}, fmt.Errorf("failed to parse rules file %s: %w", path, err)
	}

	rules.merge(override)
	if err := rules.Validate(); err != nil {
		return Rules{}, fmt.Errorf("invalid rules file %s: %w", path, err)
	}

	return rules, nil
}

func (r *Rules) merge(o Rules) {
	if o.MaxAttempts > 0 {
		r.MaxAttempts = o.MaxAttempts
	}
	if o.Keyword.Min > 0 {
		r.Keyword.Min = o.Keyword.Min
	}
	if o.Keyword.Max > 0 {
		r.Keyword.Max = o.Keyword.Max
	}
	if o.MinBodyChars > 0 {
		r.MinBodyChars = o.MinBodyChars
	}
	if o.PromptMinChars > 0 {
		r.PromptMinChars = o.PromptMinChars
	}
	if o.ReferenceCap > 0 {
		r.ReferenceCap = o.ReferenceCap
	}
}

// Validate checks that the thresholds are internally consistent.
func (r Rules) Validate() error {
	if r.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts must be at least 1, got %d", r.MaxAttempts)
	}
	if r.Keyword.Min < 1 || r.Keyword.Max < r.Keyword.Min {
		return fmt.Errorf("keyword range [%d,%d] is not a valid interval", r.Keyword.Min, r.Keyword.Max)
	}

	return nil
}

// ApplyConfig lets environment settings override file values.
func (r Rules) ApplyConfig(cfg *Config) Rules {
	if cfg != nil && cfg.MaxAttempts > 0 {
		r.MaxAttempts = cfg.MaxAttempts
	}

	return r
}
