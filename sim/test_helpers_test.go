package sim

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/inference-sim/landlord-sim/sim/internal/testutil"
	"github.com/stretchr/testify/require"
)

// mustCatalog builds a catalog or fails the test.
func mustCatalog(t *testing.T, objects ...Object) *Catalog {
	t.Helper()
	c, err := NewCatalog(objects)
	require.NoError(t, err)
	return c
}

// uniformCatalog builds a catalog whose objects all have cost 1 and size 1.
func uniformCatalog(t *testing.T, ids ...string) *Catalog {
	t.Helper()
	objects := make([]Object, len(ids))
	for i, id := range ids {
		objects[i] = Object{ID: id, Cost: 1, Size: 1}
	}
	return mustCatalog(t, objects...)
}

// mustConfig builds a Config from hit-policy and tie-break names.
func mustConfig(t *testing.T, capacity float64, hitPolicy, tieBreak string) Config {
	t.Helper()
	refresh, err := ParseHitPolicy(hitPolicy)
	require.NoError(t, err)
	tb, err := ParseTieBreak(tieBreak)
	require.NoError(t, err)
	cfg := Config{Capacity: capacity, Refresh: refresh, TieBreak: tb}
	require.NoError(t, cfg.Validate())
	return cfg
}

// goldenInputs converts a golden scenario into engine inputs.
func goldenInputs(t *testing.T, tc testutil.GoldenTestCase) (*Catalog, Config) {
	t.Helper()
	objects := make([]Object, len(tc.Objects))
	for i, o := range tc.Objects {
		objects[i] = Object{ID: o.ID, Cost: o.Cost, Size: o.Size}
	}
	return mustCatalog(t, objects...), mustConfig(t, tc.Capacity, tc.HitPolicy, tc.TieBreak)
}

// randomWorkload draws a catalog of n objects with costs in [1, 10) and sizes in
// [0.5, maxSize), and a trace of length m skewed towards low-numbered objects.
func randomWorkload(t *testing.T, seed int64, n, m int, maxSize float64) (*Catalog, []string) {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	objects := make([]Object, n)
	for i := range objects {
		objects[i] = Object{
			ID:   fmt.Sprintf("obj_%02d", i),
			Cost: 1 + 9*rng.Float64(),
			Size: 0.5 + (maxSize-0.5)*rng.Float64(),
		}
	}
	trace := make([]string, m)
	for i := range trace {
		k := int(float64(n) * rng.Float64() * rng.Float64())
		trace[i] = objects[k].ID
	}
	return mustCatalog(t, objects...), trace
}

// uniformTrace draws m requests uniformly over ids.
func uniformTrace(seed int64, ids []string, m int) []string {
	rng := rand.New(rand.NewSource(seed))
	trace := make([]string, m)
	for i := range trace {
		trace[i] = ids[rng.Intn(len(ids))]
	}
	return trace
}
