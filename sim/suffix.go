package sim

import (
	"fmt"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// SuffixResult is the independent replay of trace[Start:] from an empty cache.
// Outcome steps are relative to Start.
type SuffixResult struct {
	Start    int
	Outcomes []StepOutcome
	Final    CacheState
	Hits     int
	Misses   int
	Cost     float64
}

// AnalyzeSuffixes replays every suffix trace[i:] for i in [0, len(trace)) with the
// same catalog and configuration as the full run. Suffixes share no mutable state,
// so up to workers of them run in parallel (workers <= 0 means GOMAXPROCS).
// Results are indexed by start position.
func AnalyzeSuffixes(catalog *Catalog, trace []string, cfg Config, workers int, opts ...Option) ([]SuffixResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := catalog.ValidateTrace(trace); err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	suffixOpts := make([]Option, 0, len(opts)+1)
	suffixOpts = append(suffixOpts, opts...)
	suffixOpts = append(suffixOpts, WithoutSnapshots())

	results := make([]SuffixResult, len(trace))
	var g errgroup.Group
	g.SetLimit(workers)
	for i := range trace {
		i := i
		g.Go(func() error {
			run, err := Replay(catalog, trace[i:], cfg, suffixOpts...)
			if err != nil {
				return fmt.Errorf("suffix %d: %w", i, err)
			}
			results[i] = SuffixResult{
				Start:    i,
				Outcomes: run.Outcomes,
				Final:    run.Final,
				Hits:     run.Metrics.Hits,
				Misses:   run.Metrics.Misses,
				Cost:     run.Metrics.CostPaid,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	logrus.Debugf("analyzed %d suffixes with %d workers", len(trace), workers)
	return results, nil
}
