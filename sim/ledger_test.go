package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger_InsertRemove_TracksUsage(t *testing.T) {
	l := NewLedger(3)
	require.NoError(t, l.Insert(Object{ID: "a", Cost: 2, Size: 1.5}, 2, 0))
	require.NoError(t, l.Insert(Object{ID: "b", Cost: 1, Size: 1}, 1, 1))

	assert.Equal(t, 2.5, l.Used())
	assert.Equal(t, 0.5, l.Free())
	assert.Equal(t, 2, l.Len())
	assert.True(t, l.Contains("a"))
	assert.True(t, l.Fits(0.5))
	assert.False(t, l.Fits(0.6))

	require.NoError(t, l.Remove("a"))
	assert.Equal(t, 1.0, l.Used())
	assert.False(t, l.Contains("a"))

	require.NoError(t, l.Remove("b"))
	assert.Equal(t, 0.0, l.Used())
}

func TestLedger_Fits_ToleratesRoundingDrift(t *testing.T) {
	l := NewLedger(0.3)
	require.NoError(t, l.Insert(Object{ID: "a", Cost: 1, Size: 0.1}, 1, 0))
	require.NoError(t, l.Insert(Object{ID: "b", Cost: 1, Size: 0.2}, 1, 1))
	// 0.1 + 0.2 is slightly above 0.3 in binary floating point.
	assert.Equal(t, 2, l.Len())
	assert.False(t, l.Fits(1e-6))
}

func TestLedger_Violations_AreInvariantErrors(t *testing.T) {
	obj := Object{ID: "a", Cost: 2, Size: 1}
	l := NewLedger(1)
	require.NoError(t, l.Insert(obj, 2, 0))

	cases := map[string]error{
		"duplicate insert":        l.Insert(obj, 2, 1),
		"over capacity":           l.Insert(Object{ID: "b", Cost: 1, Size: 1}, 1, 1),
		"credit above cost":       l.SetCredit("a", 2.5),
		"negative credit":         l.SetCredit("a", -0.1),
		"remove non-resident":     l.Remove("zz"),
		"touch non-resident":      l.Touch("zz", 3),
		"set credit non-resident": l.SetCredit("zz", 0),
	}
	for name, err := range cases {
		assert.True(t, IsFatal(err), name)
	}
	credit, _ := l.Credit("a")
	assert.Equal(t, 2.0, credit)
	assert.Equal(t, 1, l.Len())
}

func TestLedger_TouchAndLookup(t *testing.T) {
	l := NewLedger(2)
	require.NoError(t, l.Insert(Object{ID: "a", Cost: 2, Size: 1}, 2, 4))
	require.NoError(t, l.SetCredit("a", 0.5))
	require.NoError(t, l.Touch("a", 9))

	e, ok := l.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, int64(4), e.Inserted)
	assert.Equal(t, int64(9), e.LastAccess)
	assert.Equal(t, 0.5, e.Credit)

	// Lookup returns a copy
	e.Credit = 2
	credit, _ := l.Credit("a")
	assert.Equal(t, 0.5, credit)
}

func TestLedger_Snapshot_SortedByID(t *testing.T) {
	l := NewLedger(5)
	for i, id := range []string{"c", "a", "b"} {
		require.NoError(t, l.Insert(Object{ID: id, Cost: 1, Size: 1}, 1, int64(i)))
	}
	s := l.Snapshot()
	assert.Equal(t, []string{"a", "b", "c"}, s.IDs())
	assert.Equal(t, 5.0, s.Capacity)
	assert.Equal(t, 3.0, s.Used)
	assert.Equal(t, int64(1), s.Entries[0].Inserted)
}
