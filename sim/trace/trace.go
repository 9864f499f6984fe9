package trace

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"gopkg.in/yaml.v3"
)

// Outcome tags used in StepRecord.Outcome and SuffixRecord.Outcomes.
const (
	OutcomeHit  = "HIT"
	OutcomeMiss = "MISS"
)

// Format selects the report serialization.
type Format string

const (
	// FormatYAML writes the report as YAML.
	FormatYAML Format = "yaml"
	// FormatJSON writes the report as indented JSON.
	FormatJSON Format = "json"
)

// validFormats maps accepted format strings.
var validFormats = map[Format]bool{
	FormatYAML: true,
	FormatJSON: true,
	"":         true, // empty defaults to yaml
}

// IsValidFormat returns true if the given format string is a recognized report format.
func IsValidFormat(format string) bool {
	return validFormats[Format(format)]
}

// Report is the serializable result of a simulation: the full run's trace-level
// outcomes plus the suffix cache results.
type Report struct {
	RunID    string          `yaml:"run_id,omitempty" json:"run_id,omitempty"`
	Config   ConfigRecord    `yaml:"config" json:"config"`
	Summary  *Summary        `yaml:"summary" json:"summary"`
	Steps    []StepRecord    `yaml:"steps" json:"steps"`
	Final    CacheRecord     `yaml:"final" json:"final"`
	Suffixes []SuffixRecord  `yaml:"suffixes,omitempty" json:"suffixes,omitempty"`
	Division *DivisionRecord `yaml:"division,omitempty" json:"division,omitempty"`
	Digest   string          `yaml:"digest" json:"digest"`
}

// Write serializes the report in the given format.
func (r *Report) Write(w io.Writer, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encoding JSON report: %w", err)
		}
		return nil
	case FormatYAML, "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encoding YAML report: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

// Digest fingerprints the hit/miss and eviction sequence of the steps and the
// outcome tags of every suffix. Equal inputs always produce equal digests, so two
// reports can be compared for determinism without diffing them.
func Digest(steps []StepRecord, suffixes []SuffixRecord) string {
	h := xxhash.New()
	var b strings.Builder
	for _, s := range steps {
		b.Reset()
		b.WriteString(strconv.Itoa(s.Step))
		b.WriteByte('|')
		b.WriteString(s.Object)
		b.WriteByte('|')
		b.WriteString(s.Outcome)
		b.WriteByte('|')
		b.WriteString(strings.Join(s.Evicted, ","))
		b.WriteByte('\n')
		_, _ = h.WriteString(b.String())
	}
	for _, s := range suffixes {
		b.Reset()
		b.WriteString("suffix ")
		b.WriteString(strconv.Itoa(s.Start))
		b.WriteByte('|')
		b.WriteString(strings.Join(s.Outcomes, ","))
		b.WriteByte('\n')
		_, _ = h.WriteString(b.String())
	}
	return strconv.FormatUint(h.Sum64(), 16)
}
