package sim

import (
	"fmt"
	"math"
)

// Config is the immutable run configuration, built once before the engine runs
// and passed by value into every replay.
type Config struct {
	Capacity float64     // cache capacity in size units (must be > 0)
	Refresh  RefreshRule // hit behavior; RefreshFIFO/RefreshLRU are refresh scalars 0/1
	TieBreak TieBreak    // order among zero-credit entries
	Seed     int64       // seeds the RAND hit policy and RAND tie-break
}

// NewConfig builds a Config from the numeric refresh scalar and a tie-break name.
func NewConfig(capacity float64, refreshScalar int, tieBreak string) (Config, error) {
	refresh, err := RefreshFromScalar(refreshScalar)
	if err != nil {
		return Config{}, err
	}
	tb, err := ParseTieBreak(tieBreak)
	if err != nil {
		return Config{}, err
	}
	cfg := Config{Capacity: capacity, Refresh: refresh, TieBreak: tb}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks capacity, refresh rule and tie-break.
func (c Config) Validate() error {
	if !(c.Capacity > 0) || math.IsInf(c.Capacity, 0) {
		return &ConfigError{Field: "capacity", Reason: fmt.Sprintf("must be positive and finite, got %v", c.Capacity)}
	}
	if !c.Refresh.Valid() {
		return &ConfigError{Field: "refresh", Reason: fmt.Sprintf("unknown refresh rule %d", int(c.Refresh))}
	}
	return c.TieBreak.Validate()
}
