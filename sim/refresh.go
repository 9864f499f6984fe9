package sim

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"
)

// RefreshRule selects what a hit does to the requested entry's credit.
type RefreshRule int

const (
	// RefreshFIFO leaves credit untouched on a hit (refresh scalar 0, FIFO-Landlord).
	RefreshFIFO RefreshRule = iota
	// RefreshLRU restores credit to full cost on a hit (refresh scalar 1, LRU-Landlord).
	RefreshLRU
	// RefreshHalf restores half of the credit the entry has lost.
	RefreshHalf
	// RefreshRandom restores a uniformly random fraction of the lost credit.
	RefreshRandom
)

// hitPolicies maps accepted hit-policy names (upper case) to refresh rules.
var hitPolicies = map[string]RefreshRule{
	"FIFO": RefreshFIFO,
	"LRU":  RefreshLRU,
	"HALF": RefreshHalf,
	"RAND": RefreshRandom,
}

// RefreshFromScalar maps the binary refresh scalar onto a rule: 0 is FIFO-Landlord, 1 is LRU-Landlord.
func RefreshFromScalar(scalar int) (RefreshRule, error) {
	switch scalar {
	case 0:
		return RefreshFIFO, nil
	case 1:
		return RefreshLRU, nil
	default:
		return 0, &ConfigError{Field: "refresh_scalar", Reason: fmt.Sprintf("must be 0 or 1, got %d", scalar)}
	}
}

// ParseHitPolicy maps a case-insensitive hit-policy name onto a rule.
func ParseHitPolicy(name string) (RefreshRule, error) {
	rule, ok := hitPolicies[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return 0, &ConfigError{Field: "hit_policy", Reason: fmt.Sprintf("unknown hit policy %q; select one of LRU, FIFO, HALF, RAND", name)}
	}
	return rule, nil
}

func (r RefreshRule) String() string {
	switch r {
	case RefreshFIFO:
		return "FIFO"
	case RefreshLRU:
		return "LRU"
	case RefreshHalf:
		return "HALF"
	case RefreshRandom:
		return "RAND"
	default:
		return fmt.Sprintf("RefreshRule(%d)", int(r))
	}
}

// Valid reports whether r is one of the defined rules.
func (r RefreshRule) Valid() bool {
	return r >= RefreshFIFO && r <= RefreshRandom
}

// refresh returns the credit an entry holds after a hit. rng is only drawn from by RefreshRandom.
// The result is clamped to [credit, cost].
func (r RefreshRule) refresh(credit, cost float64, rng *rand.Rand) float64 {
	var next float64
	switch r {
	case RefreshLRU:
		next = cost
	case RefreshHalf:
		next = credit + (cost-credit)/2
	case RefreshRandom:
		next = credit + rng.Float64()*(cost-credit)
	default:
		next = credit
	}
	return math.Min(cost, math.Max(credit, next))
}

// ValidHitPolicyNames returns the accepted hit-policy names in sorted order.
func ValidHitPolicyNames() []string {
	names := make([]string, 0, len(hitPolicies))
	for name := range hitPolicies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
