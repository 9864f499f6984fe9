package sim

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusObserver_CountsEngineEvents(t *testing.T) {
	// GIVEN the multi-round admission scenario
	catalog := mustCatalog(t,
		Object{ID: "A", Cost: 1, Size: 1},
		Object{ID: "B", Cost: 2, Size: 1},
		Object{ID: "C", Cost: 3, Size: 1},
		Object{ID: "D", Cost: 1, Size: 1},
		Object{ID: "E", Cost: 5, Size: 3},
	)
	reg := prometheus.NewRegistry()
	obs, err := NewPrometheusObserver(reg, "test")
	require.NoError(t, err)

	// WHEN it is replayed with the observer attached, plus a hit on C
	_, err = Replay(catalog, []string{"A", "B", "C", "D", "E", "C"}, mustConfig(t, 4, "FIFO", "FIFO"), WithObserver(obs))
	require.NoError(t, err)

	// THEN the collectors match the run
	assert.Equal(t, 1.0, promtestutil.ToFloat64(obs.hits))
	assert.Equal(t, 5.0, promtestutil.ToFloat64(obs.misses))
	assert.Equal(t, 3.0, promtestutil.ToFloat64(obs.evictions))
	assert.Equal(t, 2.0, promtestutil.ToFloat64(obs.rounds))
	assert.Equal(t, 2.0, promtestutil.ToFloat64(obs.aging))
	assert.Equal(t, 4.0, promtestutil.ToFloat64(obs.used))
	assert.Equal(t, 7, promtestutil.CollectAndCount(reg))
}

func TestPrometheusObserver_SharedAcrossSuffixes(t *testing.T) {
	catalog := uniformCatalog(t, "A", "B", "C")
	trace := []string{"A", "B", "A", "C", "A"}
	cfg := mustConfig(t, 2, "LRU", "LRU")
	obs, err := NewPrometheusObserver(prometheus.NewRegistry(), "suffixes")
	require.NoError(t, err)

	results, err := AnalyzeSuffixes(catalog, trace, cfg, 4, WithObserver(obs))
	require.NoError(t, err)

	hits, misses := 0, 0
	for _, r := range results {
		hits += r.Hits
		misses += r.Misses
	}
	assert.Equal(t, float64(hits), promtestutil.ToFloat64(obs.hits))
	assert.Equal(t, float64(misses), promtestutil.ToFloat64(obs.misses))
}

func TestNewPrometheusObserver_DuplicateRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPrometheusObserver(reg, "dup")
	require.NoError(t, err)

	_, err = NewPrometheusObserver(reg, "dup")
	assert.Error(t, err)
}
