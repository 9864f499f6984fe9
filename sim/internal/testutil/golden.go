// Package testutil holds the hand-verified Landlord scenarios in
// testdata/goldendataset.json and small assertion helpers shared by the sim tests.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset is the top level of testdata/goldendataset.json.
type GoldenDataset struct {
	Tests []GoldenTestCase `json:"tests"`
}

// GoldenObject is one catalog entry of a scenario.
type GoldenObject struct {
	ID   string  `json:"id"`
	Cost float64 `json:"cost"`
	Size float64 `json:"size"`
}

// GoldenTestCase is a catalog, a trace and the policy pair it is replayed under.
type GoldenTestCase struct {
	Name      string         `json:"name"`
	Objects   []GoldenObject `json:"objects"`
	Trace     []string       `json:"trace"`
	Capacity  float64        `json:"capacity"`
	HitPolicy string         `json:"hit_policy"`
	TieBreak  string         `json:"tiebreak"`
	Expected  GoldenExpected `json:"expected"`
}

// GoldenExpected is what a replay of the scenario must reproduce exactly.
type GoldenExpected struct {
	Outcomes []string            `json:"outcomes"`
	Hits     int                 `json:"hits"`
	Cost     float64             `json:"cost"`
	Evicted  map[string][]string `json:"evicted"` // step index (decimal string) -> eviction order
	Final    []string            `json:"final"`   // resident IDs after the run, sorted
}

// RepoPath joins elem onto the module root, located from this file's path
// so that callers do not depend on their package directory.
func RepoPath(t *testing.T, elem ...string) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot locate testutil source file")
	}
	root := filepath.Join(filepath.Dir(thisFile), "..", "..", "..")
	return filepath.Join(append([]string{root}, elem...)...)
}

// LoadGoldenDataset reads testdata/goldendataset.json and rejects scenarios
// whose expected outcomes do not line up with their trace.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()
	data, err := os.ReadFile(RepoPath(t, "testdata", "goldendataset.json"))
	if err != nil {
		t.Fatalf("reading golden dataset: %v", err)
	}
	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("parsing golden dataset: %v", err)
	}
	for _, tc := range dataset.Tests {
		if len(tc.Expected.Outcomes) != len(tc.Trace) {
			t.Fatalf("golden scenario %q: %d outcomes for %d requests", tc.Name, len(tc.Expected.Outcomes), len(tc.Trace))
		}
	}
	return &dataset
}

// AssertFloat64Equal fails when want and got differ by more than relTol relative
// to the larger magnitude.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == got {
		return
	}
	diff := math.Abs(want - got)
	if rel := diff / math.Max(math.Abs(want), math.Abs(got)); rel > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, rel)
	}
}
