package sim

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// PolicyBundle holds run configuration, loadable from a YAML file.
// Nil pointer fields mean "not set in YAML". String fields use empty string for "not set".
type PolicyBundle struct {
	Capacity      *float64       `yaml:"capacity"`
	RefreshScalar *int           `yaml:"refresh_scalar"`
	HitPolicy     string         `yaml:"hit_policy"`
	TieBreak      TieBreakConfig `yaml:"tiebreak"`
	Seed          *int64         `yaml:"seed"`
	Workers       *int           `yaml:"workers"`
	Division      *int           `yaml:"division"`
}

// TieBreakConfig holds tie-break configuration. ScriptFile is resolved relative
// to the bundle file and loaded into Script by LoadPolicyBundle.
type TieBreakConfig struct {
	Policy     string `yaml:"policy"`
	Script     string `yaml:"script"`
	ScriptFile string `yaml:"script_file"`
}

// LoadPolicyBundle reads and parses a YAML policy configuration file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadPolicyBundle(path string) (*PolicyBundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading policy config: %w", err)
	}
	var bundle PolicyBundle
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&bundle); err != nil {
		return nil, fmt.Errorf("parsing policy config: %w", err)
	}
	if bundle.TieBreak.ScriptFile != "" {
		if bundle.TieBreak.Script != "" {
			return nil, &ConfigError{Field: "tiebreak", Reason: "script and script_file are mutually exclusive"}
		}
		scriptPath := bundle.TieBreak.ScriptFile
		if !filepath.IsAbs(scriptPath) {
			scriptPath = filepath.Join(filepath.Dir(path), scriptPath)
		}
		src, err := os.ReadFile(scriptPath)
		if err != nil {
			return nil, fmt.Errorf("reading tie-break script: %w", err)
		}
		bundle.TieBreak.Script = string(src)
	}
	return &bundle, nil
}

// Validate checks that all policy names and parameter ranges in the bundle are valid.
func (b *PolicyBundle) Validate() error {
	if b.Capacity != nil && !(*b.Capacity > 0) {
		return &ConfigError{Field: "capacity", Reason: fmt.Sprintf("must be positive, got %v", *b.Capacity)}
	}
	if _, err := b.refreshRule(); err != nil {
		return err
	}
	if b.TieBreak.Policy != "" {
		if _, err := ParseTieBreak(b.TieBreak.Policy); err != nil {
			return err
		}
	}
	if b.Workers != nil && *b.Workers < 0 {
		return &ConfigError{Field: "workers", Reason: fmt.Sprintf("must be non-negative, got %d", *b.Workers)}
	}
	if b.Division != nil && *b.Division < 0 {
		return &ConfigError{Field: "division", Reason: fmt.Sprintf("must be non-negative, got %d", *b.Division)}
	}
	return nil
}

// Config builds the run configuration. Unset fields take the defaults:
// LRU-Landlord with the LRU tie-break and seed 0. Capacity has no default.
func (b *PolicyBundle) Config() (Config, error) {
	if err := b.Validate(); err != nil {
		return Config{}, err
	}
	if b.Capacity == nil {
		return Config{}, &ConfigError{Field: "capacity", Reason: "required"}
	}
	cfg := Config{Capacity: *b.Capacity, Refresh: RefreshLRU, TieBreak: TieBreak{Kind: TieBreakLRU}}
	if rule, err := b.refreshRule(); err != nil {
		return Config{}, err
	} else if rule != nil {
		cfg.Refresh = *rule
	}
	if b.TieBreak.Policy != "" {
		tb, err := ParseTieBreak(b.TieBreak.Policy)
		if err != nil {
			return Config{}, err
		}
		cfg.TieBreak = tb
	}
	cfg.TieBreak.Script = b.TieBreak.Script
	if b.Seed != nil {
		cfg.Seed = *b.Seed
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// refreshRule resolves refresh_scalar and hit_policy. Both may be set only if they agree.
func (b *PolicyBundle) refreshRule() (*RefreshRule, error) {
	var fromScalar, fromName *RefreshRule
	if b.RefreshScalar != nil {
		rule, err := RefreshFromScalar(*b.RefreshScalar)
		if err != nil {
			return nil, err
		}
		fromScalar = &rule
	}
	if b.HitPolicy != "" {
		rule, err := ParseHitPolicy(b.HitPolicy)
		if err != nil {
			return nil, err
		}
		fromName = &rule
	}
	if fromScalar != nil && fromName != nil && *fromScalar != *fromName {
		return nil, &ConfigError{
			Field:  "hit_policy",
			Reason: fmt.Sprintf("refresh_scalar %d (%v) conflicts with hit_policy %q", *b.RefreshScalar, *fromScalar, b.HitPolicy),
		}
	}
	if fromScalar != nil {
		return fromScalar, nil
	}
	return fromName, nil
}
