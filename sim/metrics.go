// Tracks run-wide statistics such as hits, misses, evictions and cost paid.

package sim

import (
	"fmt"
	"io"
	"math"
	"sort"
)

// Metrics aggregates statistics about one replay for final reporting.
type Metrics struct {
	Requests  int     // Number of requests served
	Hits      int     // Requests served from cache
	Misses    int     // Requests that fetched and admitted the object
	Evictions int     // Entries evicted across all admissions
	Rounds    int     // Decay rounds across all admissions
	CostPaid  float64 // Sum of the costs of missed objects
	Aging     float64 // Sum of aging rates across all rounds
	PeakUsed  float64 // Max capacity in use after any step

	ObjectMisses map[string]int // object ID -> number of misses
}

// NewMetrics returns an empty Metrics.
func NewMetrics() *Metrics {
	return &Metrics{ObjectMisses: make(map[string]int)}
}

// Record folds one step outcome into the totals. used is the capacity in use after the step.
func (m *Metrics) Record(out StepOutcome, used float64) {
	m.Requests++
	if out.Outcome == Hit {
		m.Hits++
	} else {
		m.Misses++
		m.ObjectMisses[out.ObjectID]++
	}
	m.Evictions += len(out.Evicted)
	m.Rounds += out.Rounds
	m.CostPaid += out.Cost
	m.Aging += out.Aging
	m.PeakUsed = math.Max(m.PeakUsed, used)
}

// HitRatio returns Hits/Requests, or 0 for an empty run.
func (m *Metrics) HitRatio() float64 {
	if m.Requests == 0 {
		return 0
	}
	return float64(m.Hits) / float64(m.Requests)
}

// Print writes a human-readable summary of the run.
func (m *Metrics) Print(w io.Writer, capacity float64) {
	fmt.Fprintln(w, "=== Simulation Metrics ===")
	fmt.Fprintf(w, "Requests             : %d\n", m.Requests)
	fmt.Fprintf(w, "Hits                 : %d\n", m.Hits)
	fmt.Fprintf(w, "Misses               : %d\n", m.Misses)
	if m.Requests > 0 {
		fmt.Fprintf(w, "Hit Ratio            : %.4f\n", m.HitRatio())
		fmt.Fprintf(w, "Cost Paid            : %.4f\n", m.CostPaid)
		fmt.Fprintf(w, "Evictions            : %d\n", m.Evictions)
		fmt.Fprintf(w, "Decay Rounds         : %d\n", m.Rounds)
		fmt.Fprintf(w, "Aging                : %.4g\n", m.Aging)
		fmt.Fprintf(w, "Peak Usage           : %.4g / %.4g\n", m.PeakUsed, capacity)
	}
	if len(m.ObjectMisses) > 0 {
		ids := make([]string, 0, len(m.ObjectMisses))
		for id := range m.ObjectMisses {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		fmt.Fprintln(w, "Misses by Object     :")
		for _, id := range ids {
			fmt.Fprintf(w, "  %-18s : %d\n", id, m.ObjectMisses[id])
		}
	}
}
