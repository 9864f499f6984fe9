package trace

// CompetitiveRatio returns sum(suffix) / sum(full), or 0 when the full cost is 0.
func CompetitiveRatio(full, suffix []float64) float64 {
	fullSum, suffixSum := sum(full), sum(suffix)
	if fullSum == 0 {
		return 0
	}
	return suffixSum / fullSum
}

// CumulativeRatios returns, for every k in [1, n], the competitive ratio over the
// first k requests. n is the shorter of the two slices.
func CumulativeRatios(full, suffix []float64) []float64 {
	n := min(len(full), len(suffix))
	out := make([]float64, n)
	var fullSum, suffixSum float64
	for k := 0; k < n; k++ {
		fullSum += full[k]
		suffixSum += suffix[k]
		if fullSum > 0 {
			out[k] = suffixSum / fullSum
		}
	}
	return out
}

// ObjectRatios returns the competitive ratio restricted to each object's requests.
// objects[k] names the object requested at position k; objects with zero full cost map to 0.
func ObjectRatios(objects []string, full, suffix []float64) map[string]float64 {
	fullBy := make(map[string]float64)
	suffixBy := make(map[string]float64)
	n := min(len(objects), len(full), len(suffix))
	for k := 0; k < n; k++ {
		fullBy[objects[k]] += full[k]
		suffixBy[objects[k]] += suffix[k]
	}
	out := make(map[string]float64, len(fullBy))
	for id, f := range fullBy {
		if f == 0 {
			out[id] = 0
			continue
		}
		out[id] = suffixBy[id] / f
	}
	return out
}

func sum(xs []float64) float64 {
	total := 0.0
	for _, x := range xs {
		total += x
	}
	return total
}
