package sim

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusObserver exports engine events as Prometheus metrics.
// All collectors are safe for concurrent use, so one observer may be shared by
// the parallel replays of AnalyzeSuffixes.
type PrometheusObserver struct {
	hits      prometheus.Counter
	misses    prometheus.Counter
	evictions prometheus.Counter
	rounds    prometheus.Counter
	aging     prometheus.Counter
	used      prometheus.Gauge
	delta     prometheus.Histogram
}

// NewPrometheusObserver creates the collectors, labelled with run, and registers them with reg.
func NewPrometheusObserver(reg prometheus.Registerer, run string) (*PrometheusObserver, error) {
	labels := prometheus.Labels{"run": run}
	p := &PrometheusObserver{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "landlord",
			Subsystem:   "cache",
			Name:        "hits_total",
			ConstLabels: labels,
			Help:        "Total number of requests served from cache",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "landlord",
			Subsystem:   "cache",
			Name:        "misses_total",
			ConstLabels: labels,
			Help:        "Total number of requests that fetched and admitted the object",
		}),
		evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "landlord",
			Subsystem:   "cache",
			Name:        "evictions_total",
			ConstLabels: labels,
			Help:        "Total number of evicted entries",
		}),
		rounds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "landlord",
			Subsystem:   "cache",
			Name:        "decay_rounds_total",
			ConstLabels: labels,
			Help:        "Total number of credit decay rounds",
		}),
		aging: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "landlord",
			Subsystem:   "cache",
			Name:        "aging_total",
			ConstLabels: labels,
			Help:        "Sum of the aging rates applied across all decay rounds",
		}),
		used: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "landlord",
			Subsystem:   "cache",
			Name:        "used_capacity",
			ConstLabels: labels,
			Help:        "Capacity in use after the most recent engine event",
		}),
		delta: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   "landlord",
			Subsystem:   "cache",
			Name:        "round_delta",
			ConstLabels: labels,
			Help:        "Aging rate per decay round",
			Buckets:     prometheus.ExponentialBuckets(0.01, 4, 8),
		}),
	}
	for _, c := range []prometheus.Collector{p.hits, p.misses, p.evictions, p.rounds, p.aging, p.used, p.delta} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Observe implements Observer.
func (p *PrometheusObserver) Observe(ev Event) {
	switch ev.Kind {
	case EventHit:
		p.hits.Inc()
	case EventAdmit:
		p.misses.Inc()
	case EventEvict:
		p.evictions.Inc()
	case EventRound:
		p.rounds.Inc()
		p.aging.Add(ev.Delta)
		p.delta.Observe(ev.Delta)
	}
	p.used.Set(ev.Used)
}
