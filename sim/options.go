package sim

// Option configures a Landlord or a replay.
type Option func(*options)

type options struct {
	observer  Observer
	snapshots bool
}

func newOptions(opts []Option) options {
	o := options{snapshots: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithObserver attaches an Observer that receives every engine event.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		o.observer = obs
	}
}

// WithoutSnapshots stops the engine from copying the cache state after every step.
// Suffix analysis uses it to keep memory linear in the trace length per suffix.
func WithoutSnapshots() Option {
	return func(o *options) {
		o.snapshots = false
	}
}
