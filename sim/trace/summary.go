package trace

// Summary aggregates statistics from the steps of a run.
type Summary struct {
	Requests  int            `yaml:"requests" json:"requests"`
	Hits      int            `yaml:"hits" json:"hits"`
	Misses    int            `yaml:"misses" json:"misses"`
	HitRatio  float64        `yaml:"hit_ratio" json:"hit_ratio"`
	TotalCost float64        `yaml:"total_cost" json:"total_cost"`
	Evictions int            `yaml:"evictions" json:"evictions"`
	Rounds    int            `yaml:"rounds" json:"rounds"`
	MeanSCR   float64        `yaml:"mean_scr" json:"mean_scr"`
	MaxSCR    float64        `yaml:"max_scr" json:"max_scr"`
	MissCount map[string]int `yaml:"miss_count" json:"miss_count"` // object ID -> misses in the full run
}

// Summarize computes aggregate statistics from the full-run steps and suffix records.
// Safe for nil or empty inputs (returns zero-value fields).
func Summarize(steps []StepRecord, suffixes []SuffixRecord) *Summary {
	summary := &Summary{MissCount: make(map[string]int)}
	for _, s := range steps {
		summary.Requests++
		if s.Outcome == OutcomeHit {
			summary.Hits++
		} else {
			summary.Misses++
			summary.MissCount[s.Object]++
		}
		summary.TotalCost += s.Cost
		summary.Evictions += len(s.Evicted)
		summary.Rounds += s.Rounds
	}
	if summary.Requests > 0 {
		summary.HitRatio = float64(summary.Hits) / float64(summary.Requests)
	}

	if len(suffixes) > 0 {
		total := 0.0
		for _, s := range suffixes {
			total += s.SCR
			if s.SCR > summary.MaxSCR {
				summary.MaxSCR = s.SCR
			}
		}
		summary.MeanSCR = total / float64(len(suffixes))
	}
	return summary
}
