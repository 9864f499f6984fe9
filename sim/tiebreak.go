package sim

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"
)

// TieBreakKind enumerates the built-in orderings among zero-credit entries.
type TieBreakKind int

const (
	// TieBreakLRU evicts the least recently accessed entry first.
	TieBreakLRU TieBreakKind = iota
	// TieBreakFIFO evicts the earliest inserted entry first.
	TieBreakFIFO
	// TieBreakRandom evicts in a seeded random order.
	TieBreakRandom
	// TieBreakScript evicts in ascending order of a user-supplied Lua rank function.
	TieBreakScript
)

// tieBreakNames maps accepted tie-break names (upper case) to kinds.
var tieBreakNames = map[string]TieBreakKind{
	"LRU":    TieBreakLRU,
	"FIFO":   TieBreakFIFO,
	"RAND":   TieBreakRandom,
	"SCRIPT": TieBreakScript,
}

func (k TieBreakKind) String() string {
	switch k {
	case TieBreakLRU:
		return "LRU"
	case TieBreakFIFO:
		return "FIFO"
	case TieBreakRandom:
		return "RAND"
	case TieBreakScript:
		return "SCRIPT"
	default:
		return fmt.Sprintf("TieBreakKind(%d)", int(k))
	}
}

// TieBreak is the eviction order applied to the zero-credit set of one round.
// Script holds Lua source and is only used by TieBreakScript.
type TieBreak struct {
	Kind   TieBreakKind
	Script string
}

// ScriptRanker evaluates a user-defined rank for an eviction candidate.
// Lower ranks are evicted first. Implementations are not shared across replays.
type ScriptRanker interface {
	Rank(candidate EntryState) (float64, error)
	Close()
}

// NewScriptRankerFunc compiles Lua tie-break source into a ScriptRanker.
// Set by sim/script's init(); nil when that package is not linked in.
var NewScriptRankerFunc func(source string) (ScriptRanker, error)

// ParseTieBreak maps a case-insensitive tie-break name onto a TieBreak.
func ParseTieBreak(name string) (TieBreak, error) {
	kind, ok := tieBreakNames[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return TieBreak{}, &ConfigError{Field: "tiebreak", Reason: fmt.Sprintf("unknown tie-break %q; select one of LRU, FIFO, RAND, SCRIPT", name)}
	}
	return TieBreak{Kind: kind}, nil
}

func (t TieBreak) String() string { return t.Kind.String() }

// Validate checks that the tie-break can be instantiated.
func (t TieBreak) Validate() error {
	switch t.Kind {
	case TieBreakLRU, TieBreakFIFO, TieBreakRandom:
		return nil
	case TieBreakScript:
		if strings.TrimSpace(t.Script) == "" {
			return &ConfigError{Field: "tiebreak.script", Reason: "SCRIPT tie-break requires a Lua rank function"}
		}
		if NewScriptRankerFunc == nil {
			return &ConfigError{Field: "tiebreak", Reason: "SCRIPT tie-break is not available in this build"}
		}
		return nil
	default:
		return &ConfigError{Field: "tiebreak", Reason: fmt.Sprintf("unknown tie-break kind %d", int(t.Kind))}
	}
}

// ranking holds the per-replay state a tie-break needs to compute keys.
type ranking struct {
	tb     TieBreak
	rng    *rand.Rand
	script ScriptRanker
}

func newRanking(tb TieBreak, rng *PartitionedRNG) (*ranking, error) {
	r := &ranking{tb: tb}
	switch tb.Kind {
	case TieBreakRandom:
		r.rng = rng.ForSubsystem(SubsystemTieBreak)
	case TieBreakScript:
		if NewScriptRankerFunc == nil {
			return nil, &ConfigError{Field: "tiebreak", Reason: "SCRIPT tie-break is not available in this build"}
		}
		script, err := NewScriptRankerFunc(tb.Script)
		if err != nil {
			return nil, &ConfigError{Field: "tiebreak.script", Reason: err.Error()}
		}
		r.script = script
	}
	return r, nil
}

func (r *ranking) close() {
	if r.script != nil {
		r.script.Close()
		r.script = nil
	}
}

// key is the single ranking function every tie-break variant dispatches through.
func (r *ranking) key(e *Entry) (float64, error) {
	switch r.tb.Kind {
	case TieBreakLRU:
		return float64(e.LastAccess), nil
	case TieBreakFIFO:
		return float64(e.Inserted), nil
	case TieBreakRandom:
		return r.rng.Float64(), nil
	case TieBreakScript:
		k, err := r.script.Rank(e.state())
		if err != nil {
			return 0, &ConfigError{Field: "tiebreak.script", Reason: fmt.Sprintf("ranking %q: %v", e.Object.ID, err)}
		}
		if math.IsNaN(k) {
			return 0, &ConfigError{Field: "tiebreak.script", Reason: fmt.Sprintf("ranking %q returned NaN", e.Object.ID)}
		}
		return k, nil
	default:
		return 0, &InvariantError{Step: -1, Reason: fmt.Sprintf("unhandled tie-break %v", r.tb.Kind)}
	}
}

// order sorts candidates into eviction order: ascending key, then ascending ID.
// Candidates must arrive sorted by ID so that RAND draws are reproducible.
func (r *ranking) order(candidates []*Entry) ([]*Entry, error) {
	keys := make(map[string]float64, len(candidates))
	for _, e := range candidates {
		k, err := r.key(e)
		if err != nil {
			return nil, err
		}
		keys[e.Object.ID] = k
	}
	ordered := make([]*Entry, len(candidates))
	copy(ordered, candidates)
	sort.SliceStable(ordered, func(i, j int) bool {
		ki, kj := keys[ordered[i].Object.ID], keys[ordered[j].Object.ID]
		if ki != kj {
			return ki < kj
		}
		return ordered[i].Object.ID < ordered[j].Object.ID
	})
	return ordered, nil
}

// ValidTieBreakNames returns the accepted tie-break names in sorted order.
func ValidTieBreakNames() []string {
	names := make([]string, 0, len(tieBreakNames))
	for name := range tieBreakNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
