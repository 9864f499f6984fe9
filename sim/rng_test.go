package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSimulationKey_KeepsSeed(t *testing.T) {
	for _, seed := range []int64{42, 0, -1, math.MaxInt64, math.MinInt64} {
		assert.Equal(t, seed, int64(NewSimulationKey(seed)))
	}
}

func TestPartitionedRNG_SameKeySameStream(t *testing.T) {
	a := NewPartitionedRNG(NewSimulationKey(42))
	b := NewPartitionedRNG(NewSimulationKey(42))

	for i := 0; i < 5; i++ {
		assert.Equal(t, a.ForSubsystem(SubsystemTieBreak).Float64(), b.ForSubsystem(SubsystemTieBreak).Float64(), "draw %d", i)
	}
}

func TestPartitionedRNG_RefreshDrawsDoNotShiftTieBreakStream(t *testing.T) {
	// GIVEN one replay that has already drawn from the refresh stream
	busy := NewPartitionedRNG(NewSimulationKey(42))
	for i := 0; i < 10; i++ {
		busy.ForSubsystem(SubsystemRefresh).Float64()
	}

	// WHEN it draws its first tie-break key
	got := busy.ForSubsystem(SubsystemTieBreak).Float64()

	// THEN that key equals the first tie-break key of an untouched replay
	fresh := NewPartitionedRNG(NewSimulationKey(42))
	assert.Equal(t, fresh.ForSubsystem(SubsystemTieBreak).Float64(), got)
}

func TestPartitionedRNG_StreamsAreCachedAndLazy(t *testing.T) {
	rng := NewPartitionedRNG(NewSimulationKey(7))
	assert.Empty(t, rng.subsystems)

	first := rng.ForSubsystem(SubsystemRefresh)
	assert.Same(t, first, rng.ForSubsystem(SubsystemRefresh))
	assert.Len(t, rng.subsystems, 1)
	assert.Equal(t, SimulationKey(7), rng.Key())
}

func TestPartitionedRNG_DifferentSeedsDiverge(t *testing.T) {
	a := NewPartitionedRNG(NewSimulationKey(1)).ForSubsystem(SubsystemTieBreak).Float64()
	b := NewPartitionedRNG(NewSimulationKey(2)).ForSubsystem(SubsystemTieBreak).Float64()
	assert.NotEqual(t, a, b)
}

func TestSubsystemSeed_DistinctPerStream(t *testing.T) {
	assert.NotEqual(t, subsystemSeed(SubsystemTieBreak), subsystemSeed(SubsystemRefresh))
	assert.Equal(t, subsystemSeed("x"), subsystemSeed("x"))
}

func BenchmarkPartitionedRNG_ForSubsystem_CacheHit(b *testing.B) {
	rng := NewPartitionedRNG(NewSimulationKey(42))
	rng.ForSubsystem(SubsystemTieBreak)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rng.ForSubsystem(SubsystemTieBreak)
	}
}
