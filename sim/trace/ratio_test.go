package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompetitiveRatio(t *testing.T) {
	tests := []struct {
		name   string
		full   []float64
		suffix []float64
		want   float64
	}{
		{"equal costs", []float64{1, 0, 2}, []float64{1, 0, 2}, 1},
		{"suffix pays more", []float64{1, 0, 1}, []float64{1, 1, 1}, 1.5},
		{"zero full cost", []float64{0, 0}, []float64{1, 1}, 0},
		{"empty", nil, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CompetitiveRatio(tt.full, tt.suffix), 1e-12)
		})
	}
}

func TestCumulativeRatios_PrefixSums(t *testing.T) {
	// GIVEN a full run that hits at position 1 where the suffix cache misses
	full := []float64{0, 0, 2}
	suffix := []float64{1, 1, 2}

	// WHEN cumulative ratios are computed
	got := CumulativeRatios(full, suffix)

	// THEN positions with zero full cost so far report 0, then the running ratio
	assert.Equal(t, []float64{0, 0, 2}, got)
}

func TestCumulativeRatios_ShorterSliceWins(t *testing.T) {
	got := CumulativeRatios([]float64{1, 1, 1}, []float64{1})
	assert.Len(t, got, 1)
}

func TestObjectRatios_PerObject(t *testing.T) {
	objects := []string{"A", "B", "A", "B"}
	full := []float64{1, 0, 0, 0}
	suffix := []float64{1, 2, 1, 0}

	got := ObjectRatios(objects, full, suffix)

	assert.InDelta(t, 2.0, got["A"], 1e-12)
	assert.Equal(t, 0.0, got["B"])
}
