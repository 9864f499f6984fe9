package sim

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestExampleConfigs_LRULandlord verifies that lru-landlord.yaml builds the
// refresh-scalar-1 configuration.
func TestExampleConfigs_LRULandlord(t *testing.T) {
	// GIVEN the lru-landlord.yaml example config
	bundle, err := LoadPolicyBundle(filepath.Join("..", "examples", "lru-landlord.yaml"))
	require.NoError(t, err, "failed to load lru-landlord.yaml")

	// WHEN it is turned into a run configuration
	cfg, err := bundle.Config()
	require.NoError(t, err)

	// THEN refresh and tie-break are both LRU
	assert.Equal(t, 4.0, cfg.Capacity)
	assert.Equal(t, RefreshLRU, cfg.Refresh)
	assert.Equal(t, TieBreakLRU, cfg.TieBreak.Kind)
}

// TestExampleConfigs_FIFOLandlord verifies that fifo-landlord.yaml builds the
// refresh-scalar-0 configuration.
func TestExampleConfigs_FIFOLandlord(t *testing.T) {
	bundle, err := LoadPolicyBundle(filepath.Join("..", "examples", "fifo-landlord.yaml"))
	require.NoError(t, err)

	cfg, err := bundle.Config()
	require.NoError(t, err)

	assert.Equal(t, RefreshFIFO, cfg.Refresh)
	assert.Equal(t, TieBreakFIFO, cfg.TieBreak.Kind)
}

func TestExampleConfigs_Randomized(t *testing.T) {
	bundle, err := LoadPolicyBundle(filepath.Join("..", "examples", "randomized.yaml"))
	require.NoError(t, err)

	cfg, err := bundle.Config()
	require.NoError(t, err)

	assert.Equal(t, RefreshRandom, cfg.Refresh)
	assert.Equal(t, TieBreakRandom, cfg.TieBreak.Kind)
	assert.Equal(t, int64(7), cfg.Seed)
	require.NotNil(t, bundle.Division)
	assert.Equal(t, 2, *bundle.Division)
}

// TestExampleConfigs_CostDensity verifies that the script file is resolved next
// to the bundle. The script itself is exercised in sim/script.
func TestExampleConfigs_CostDensity(t *testing.T) {
	bundle, err := LoadPolicyBundle(filepath.Join("..", "examples", "cost-density.yaml"))
	require.NoError(t, err)
	require.NoError(t, bundle.Validate())

	assert.Equal(t, "SCRIPT", bundle.TieBreak.Policy)
	assert.True(t, strings.Contains(bundle.TieBreak.Script, "function rank(e)"))
}
