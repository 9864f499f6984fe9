// Package workload loads the object catalog and request trace a simulation runs on.
package workload

import (
	"bytes"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/landlord-sim/sim"
)

// CurrentVersion is the workload format version written by this package.
const CurrentVersion = "1"

// Spec is the top-level workload file: the catalog of objects and the
// sequence of requested object identifiers. Loaded from YAML via Load(path).
type Spec struct {
	Version  string       `yaml:"version"`
	Objects  []ObjectSpec `yaml:"objects"`
	Requests []string     `yaml:"requests"`
}

// ObjectSpec defines one catalog entry. Nil fields mean "not set in YAML".
type ObjectSpec struct {
	ID   string   `yaml:"id"`
	Cost *float64 `yaml:"cost"`
	Size *float64 `yaml:"size"`
}

// Load reads and parses a YAML workload file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func Load(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading workload: %w", err)
	}
	spec, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing workload %s: %w", path, err)
	}
	return spec, nil
}

// Parse decodes a YAML workload document.
func Parse(data []byte) (*Spec, error) {
	var spec Spec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, err
	}
	if spec.Version == "" {
		logrus.Warnf("workload has no version; assuming version %q", CurrentVersion)
		spec.Version = CurrentVersion
	}
	return &spec, nil
}

// Validate checks the version and that every object is fully specified.
// Object values themselves are checked by sim.NewCatalog in Build.
func (s *Spec) Validate() error {
	if s.Version != CurrentVersion {
		return fmt.Errorf("unsupported workload version %q; valid: %q", s.Version, CurrentVersion)
	}
	if len(s.Objects) == 0 {
		return &sim.CatalogError{Reason: "at least one object required"}
	}
	for i, o := range s.Objects {
		if o.Cost == nil {
			return &sim.CatalogError{ObjectID: o.ID, Reason: fmt.Sprintf("objects[%d]: cost is required", i)}
		}
		if o.Size == nil {
			return &sim.CatalogError{ObjectID: o.ID, Reason: fmt.Sprintf("objects[%d]: size is required", i)}
		}
	}
	return nil
}

// Build validates the workload and returns the catalog and the request trace.
// A request naming an object outside the catalog is a *sim.TraceError.
func (s *Spec) Build() (*sim.Catalog, []string, error) {
	if err := s.Validate(); err != nil {
		return nil, nil, err
	}
	objects := make([]sim.Object, len(s.Objects))
	for i, o := range s.Objects {
		objects[i] = sim.Object{ID: o.ID, Cost: *o.Cost, Size: *o.Size}
	}
	catalog, err := sim.NewCatalog(objects)
	if err != nil {
		return nil, nil, err
	}
	if err := catalog.ValidateTrace(s.Requests); err != nil {
		return nil, nil, err
	}
	trace := make([]string, len(s.Requests))
	copy(trace, s.Requests)
	return catalog, trace, nil
}

// Marshal encodes the workload as YAML.
func (s *Spec) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("encoding workload: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
