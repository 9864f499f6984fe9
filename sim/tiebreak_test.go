package sim

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRanker ranks candidates with a Go function in place of a Lua script.
type fakeRanker struct {
	rank   func(EntryState) (float64, error)
	closed *bool
}

func (f fakeRanker) Rank(e EntryState) (float64, error) { return f.rank(e) }
func (f fakeRanker) Close()                              { *f.closed = true }

// withFakeScript installs a ScriptRanker factory for the duration of the test.
func withFakeScript(t *testing.T, rank func(EntryState) (float64, error)) *bool {
	t.Helper()
	closed := new(bool)
	prev := NewScriptRankerFunc
	NewScriptRankerFunc = func(source string) (ScriptRanker, error) {
		if source == "bad" {
			return nil, errors.New("syntax error")
		}
		return fakeRanker{rank: rank, closed: closed}, nil
	}
	t.Cleanup(func() { NewScriptRankerFunc = prev })
	return closed
}

func entries(specs ...Entry) []*Entry {
	out := make([]*Entry, len(specs))
	for i := range specs {
		out[i] = &specs[i]
	}
	return out
}

func ids(es []*Entry) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.Object.ID
	}
	return out
}

func TestParseTieBreak(t *testing.T) {
	tests := []struct {
		name string
		want TieBreakKind
	}{
		{"LRU", TieBreakLRU},
		{"fifo", TieBreakFIFO},
		{" Rand ", TieBreakRandom},
		{"script", TieBreakScript},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tb, err := ParseTieBreak(tc.name)
			require.NoError(t, err)
			assert.Equal(t, tc.want, tb.Kind)
		})
	}

	_, err := ParseTieBreak("MRU")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfig))
}

func TestRanking_LRUAndFIFO_BreakTiesByID(t *testing.T) {
	candidates := entries(
		Entry{Object: Object{ID: "c"}, Inserted: 0, LastAccess: 5},
		Entry{Object: Object{ID: "a"}, Inserted: 2, LastAccess: 5},
		Entry{Object: Object{ID: "b"}, Inserted: 1, LastAccess: 3},
		Entry{Object: Object{ID: "d"}, Inserted: 2, LastAccess: 4},
	)
	rng := NewPartitionedRNG(NewSimulationKey(0))

	lru, err := newRanking(TieBreak{Kind: TieBreakLRU}, rng)
	require.NoError(t, err)
	got, err := lru.order(candidates)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "d", "a", "c"}, ids(got))

	fifo, err := newRanking(TieBreak{Kind: TieBreakFIFO}, rng)
	require.NoError(t, err)
	got, err = fifo.order(candidates)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a", "d"}, ids(got))

	// order does not reorder its input
	assert.Equal(t, []string{"c", "a", "b", "d"}, ids(candidates))
}

func TestRanking_Random_IsSeededPermutation(t *testing.T) {
	candidates := entries(
		Entry{Object: Object{ID: "a"}},
		Entry{Object: Object{ID: "b"}},
		Entry{Object: Object{ID: "c"}},
		Entry{Object: Object{ID: "d"}},
		Entry{Object: Object{ID: "e"}},
	)
	orderWith := func(seed int64) []string {
		r, err := newRanking(TieBreak{Kind: TieBreakRandom}, NewPartitionedRNG(NewSimulationKey(seed)))
		require.NoError(t, err)
		got, err := r.order(candidates)
		require.NoError(t, err)
		return ids(got)
	}

	first := orderWith(11)
	assert.Equal(t, first, orderWith(11))
	assert.ElementsMatch(t, []string{"a", "b", "c", "d", "e"}, first)
}

func TestRanking_Script_OrdersByRankThenID(t *testing.T) {
	closed := withFakeScript(t, func(e EntryState) (float64, error) {
		return -e.Cost, nil
	})
	r, err := newRanking(TieBreak{Kind: TieBreakScript, Script: "rank by cost"}, NewPartitionedRNG(NewSimulationKey(0)))
	require.NoError(t, err)

	got, err := r.order(entries(
		Entry{Object: Object{ID: "a", Cost: 1}},
		Entry{Object: Object{ID: "b", Cost: 3}},
		Entry{Object: Object{ID: "c", Cost: 2}},
		Entry{Object: Object{ID: "d", Cost: 3}},
	))
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "d", "c", "a"}, ids(got))

	r.close()
	assert.True(t, *closed)
}

func TestRanking_Script_FailuresAreConfigErrors(t *testing.T) {
	withFakeScript(t, func(e EntryState) (float64, error) {
		if e.ID == "nan" {
			return math.NaN(), nil
		}
		return 0, errors.New("attempt to index a nil value")
	})
	rng := NewPartitionedRNG(NewSimulationKey(0))

	_, err := newRanking(TieBreak{Kind: TieBreakScript, Script: "bad"}, rng)
	assert.True(t, errors.Is(err, ErrConfig))

	r, err := newRanking(TieBreak{Kind: TieBreakScript, Script: "ok"}, rng)
	require.NoError(t, err)
	_, err = r.order(entries(Entry{Object: Object{ID: "x"}}))
	assert.True(t, errors.Is(err, ErrConfig))
	_, err = r.order(entries(Entry{Object: Object{ID: "nan"}}))
	assert.True(t, errors.Is(err, ErrConfig))
}

func TestTieBreak_Validate_ScriptNeedsRegisteredFactory(t *testing.T) {
	prev := NewScriptRankerFunc
	NewScriptRankerFunc = nil
	t.Cleanup(func() { NewScriptRankerFunc = prev })

	err := TieBreak{Kind: TieBreakScript, Script: "function rank(e) return 0 end"}.Validate()
	assert.True(t, errors.Is(err, ErrConfig))
}

func TestLandlord_ScriptTieBreak_EvictsLowestRank(t *testing.T) {
	// GIVEN a script that evicts the most recently inserted entry first
	withFakeScript(t, func(e EntryState) (float64, error) { return -float64(e.Inserted), nil })
	catalog := mustCatalog(t,
		Object{ID: "A", Cost: 2, Size: 1},
		Object{ID: "B", Cost: 2, Size: 1},
		Object{ID: "C", Cost: 3, Size: 1},
	)
	cfg := Config{Capacity: 2, Refresh: RefreshLRU, TieBreak: TieBreak{Kind: TieBreakScript, Script: "newest first"}}
	ll := newTestLandlord(t, catalog, cfg)
	for _, id := range []string{"B", "A"} {
		_, err := ll.Access(id)
		require.NoError(t, err)
	}

	// WHEN C is admitted and both residents reach zero in the same round
	out, err := ll.Access("C")
	require.NoError(t, err)

	// THEN the script's order wins over the built-in FIFO order, which would pick B
	assert.Equal(t, []string{"A"}, out.Evicted)
	assert.Equal(t, []string{"B", "C"}, out.State.IDs())
}
