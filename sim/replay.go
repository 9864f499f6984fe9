package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Run is the result of replaying one request sequence from an empty cache.
type Run struct {
	Config   Config
	Trace    []string
	Outcomes []StepOutcome
	Final    CacheState
	Metrics  *Metrics
}

// Replay drives a fresh Landlord across trace and returns every step outcome.
// The whole trace is resolved against the catalog before the first step, so an
// unknown id fails the run without any Observer seeing an event. An invariant
// violation also aborts the run; no partial Run is returned in either case.
func Replay(catalog *Catalog, trace []string, cfg Config, opts ...Option) (*Run, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := catalog.CheckCapacity(cfg.Capacity); err != nil {
		return nil, err
	}
	if err := catalog.ValidateTrace(trace); err != nil {
		return nil, err
	}
	ll, err := NewLandlord(catalog, cfg, opts...)
	if err != nil {
		return nil, err
	}
	defer ll.Close()

	run := &Run{
		Config:   cfg,
		Trace:    trace,
		Outcomes: make([]StepOutcome, 0, len(trace)),
		Metrics:  NewMetrics(),
	}
	for _, id := range trace {
		out, err := ll.Access(id)
		if err != nil {
			return nil, fmt.Errorf("replaying request %d: %w", len(run.Outcomes), err)
		}
		run.Outcomes = append(run.Outcomes, out)
		run.Metrics.Record(out, ll.Ledger().Used())
	}
	run.Final = ll.Ledger().Snapshot()
	logrus.Debugf("replayed %d requests: %d hits, %d misses, cost %.4g",
		run.Metrics.Requests, run.Metrics.Hits, run.Metrics.Misses, run.Metrics.CostPaid)
	return run, nil
}

// OutcomeTags returns the HIT/MISS tags of the run in request order.
func (r *Run) OutcomeTags() []Outcome {
	tags := make([]Outcome, len(r.Outcomes))
	for i, out := range r.Outcomes {
		tags[i] = out.Outcome
	}
	return tags
}
