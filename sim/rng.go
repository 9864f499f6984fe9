package sim

import (
	"math/rand"

	"github.com/cespare/xxhash/v2"
)

// SimulationKey is the seed of one replay. Replays of the same trace with the
// same key and configuration produce identical outcomes, including RAND draws.
type SimulationKey int64

// NewSimulationKey wraps a configured seed.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// Random stream names. Each randomized policy draws from its own stream so that
// enabling RAND refresh never shifts the RAND tie-break sequence, and vice versa.
const (
	SubsystemTieBreak = "tiebreak"
	SubsystemRefresh  = "refresh"
)

// PartitionedRNG hands out one lazily created *rand.Rand per named stream.
// A stream is seeded with key XOR xxhash(name).
//
// Not safe for concurrent use; every Landlord owns its own instance, which is
// what lets suffix replays run in parallel without coordination.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG returns an empty set of streams for key.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{key: key, subsystems: make(map[string]*rand.Rand)}
}

// ForSubsystem returns the stream for name, creating it on first use.
// Repeated calls return the same instance, so draws continue where they left off.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if r, ok := p.subsystems[name]; ok {
		return r
	}
	r := rand.New(rand.NewSource(int64(p.key) ^ subsystemSeed(name)))
	p.subsystems[name] = r
	return r
}

// Key returns the key the streams derive from.
func (p *PartitionedRNG) Key() SimulationKey { return p.key }

func subsystemSeed(name string) int64 {
	return int64(xxhash.Sum64String(name))
}
