package sim

import (
	"fmt"

	"github.com/inference-sim/landlord-sim/sim/trace"
)

// BuildReport translates a full run and its suffix results into report records.
// division selects the suffix detailed in Report.Division; it is ignored when
// suffixes is empty. The translation is stateless and deterministic.
func BuildReport(run *Run, suffixes []SuffixResult, division int) (*trace.Report, error) {
	if run == nil {
		return nil, fmt.Errorf("building report: nil run")
	}
	if len(suffixes) > 0 && (division < 0 || division >= len(suffixes)) {
		return nil, &ConfigError{Field: "division", Reason: fmt.Sprintf("must lie in [0, %d), got %d", len(suffixes), division)}
	}

	fullCosts := make([]float64, len(run.Outcomes))
	steps := make([]trace.StepRecord, len(run.Outcomes))
	for i, out := range run.Outcomes {
		fullCosts[i] = out.Cost
		steps[i] = trace.StepRecord{
			Step:    out.Step,
			Object:  out.ObjectID,
			Outcome: out.Outcome.String(),
			Cost:    out.Cost,
			Evicted: out.Evicted,
			Rounds:  out.Rounds,
			Aging:   out.Aging,
		}
		if out.State != nil {
			rec := cacheRecord(*out.State)
			steps[i].Cache = &rec
		}
	}

	records := make([]trace.SuffixRecord, len(suffixes))
	for i, s := range suffixes {
		suffixCosts := outcomeCosts(s.Outcomes)
		records[i] = trace.SuffixRecord{
			Start:    s.Start,
			Outcomes: outcomeTags(s.Outcomes),
			Hits:     s.Hits,
			Misses:   s.Misses,
			Cost:     s.Cost,
			FullCost: sumFloat(fullCosts[s.Start:]),
			SCR:      trace.CompetitiveRatio(fullCosts[s.Start:], suffixCosts),
			Final:    cacheRecord(s.Final),
		}
	}

	report := &trace.Report{
		Config: trace.ConfigRecord{
			Capacity: run.Config.Capacity,
			Refresh:  run.Config.Refresh.String(),
			TieBreak: run.Config.TieBreak.String(),
			Seed:     run.Config.Seed,
		},
		Summary:  trace.Summarize(steps, records),
		Steps:    steps,
		Final:    cacheRecord(run.Final),
		Suffixes: records,
		Digest:   trace.Digest(steps, records),
	}

	if len(suffixes) > 0 {
		s := suffixes[division]
		full := fullCosts[s.Start:]
		suffix := outcomeCosts(s.Outcomes)
		report.Division = &trace.DivisionRecord{
			Start:         s.Start,
			FullCosts:     full,
			SuffixCosts:   suffix,
			CumulativeSCR: trace.CumulativeRatios(full, suffix),
			ObjectSCR:     trace.ObjectRatios(run.Trace[s.Start:], full, suffix),
		}
	}
	return report, nil
}

func cacheRecord(s CacheState) trace.CacheRecord {
	rec := trace.CacheRecord{
		Capacity: s.Capacity,
		Used:     s.Used,
		Entries:  make([]trace.EntryRecord, len(s.Entries)),
	}
	for i, e := range s.Entries {
		rec.Entries[i] = trace.EntryRecord{
			ID:         e.ID,
			Credit:     e.Credit,
			Cost:       e.Cost,
			Size:       e.Size,
			Inserted:   e.Inserted,
			LastAccess: e.LastAccess,
		}
	}
	return rec
}

func outcomeTags(outs []StepOutcome) []string {
	tags := make([]string, len(outs))
	for i, o := range outs {
		tags[i] = o.Outcome.String()
	}
	return tags
}

func outcomeCosts(outs []StepOutcome) []float64 {
	costs := make([]float64, len(outs))
	for i, o := range outs {
		costs[i] = o.Cost
	}
	return costs
}

func sumFloat(xs []float64) float64 {
	total := 0.0
	for _, x := range xs {
		total += x
	}
	return total
}
