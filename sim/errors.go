package sim

import (
	"errors"
	"fmt"
)

// Sentinel errors for classifying failures with errors.Is.
var (
	ErrCatalog   = errors.New("catalog validation failed")
	ErrTrace     = errors.New("trace validation failed")
	ErrConfig    = errors.New("invalid configuration")
	ErrInvariant = errors.New("internal invariant violated")
)

// CatalogError reports an object definition that cannot be used by the engine.
type CatalogError struct {
	ObjectID string
	Reason   string
}

func (e *CatalogError) Error() string {
	if e.ObjectID == "" {
		return fmt.Sprintf("catalog: %s", e.Reason)
	}
	return fmt.Sprintf("catalog: object %q: %s", e.ObjectID, e.Reason)
}

func (e *CatalogError) Is(target error) bool { return target == ErrCatalog }

// TraceError reports a request that does not resolve in the catalog.
// Index is the position of the request in the sequence being replayed.
type TraceError struct {
	Index    int
	ObjectID string
	Reason   string
}

func (e *TraceError) Error() string {
	return fmt.Sprintf("trace: request %d (%q): %s", e.Index, e.ObjectID, e.Reason)
}

func (e *TraceError) Is(target error) bool { return target == ErrTrace }

// ConfigError reports an unusable configuration value.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Is(target error) bool { return target == ErrConfig }

// InvariantError signals an engine bug. A run that hits one produces no output.
type InvariantError struct {
	Step   int
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violated at step %d: %s", e.Step, e.Reason)
}

func (e *InvariantError) Is(target error) bool { return target == ErrInvariant }

// IsValidation reports whether err stems from user input (catalog, trace or configuration).
func IsValidation(err error) bool {
	return errors.Is(err, ErrCatalog) || errors.Is(err, ErrTrace) || errors.Is(err, ErrConfig)
}

// IsFatal reports whether err is an engine invariant violation.
func IsFatal(err error) bool {
	return errors.Is(err, ErrInvariant)
}
