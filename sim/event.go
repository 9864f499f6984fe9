package sim

// EventKind identifies a point in the engine's admission cycle.
type EventKind int

const (
	// EventHit fires after a hit has refreshed the entry.
	EventHit EventKind = iota
	// EventRound fires after one decay round, before any eviction of that round.
	EventRound
	// EventEvict fires after each individual eviction.
	EventEvict
	// EventAdmit fires after a missed object has been inserted.
	EventAdmit
)

func (k EventKind) String() string {
	switch k {
	case EventHit:
		return "hit"
	case EventRound:
		return "round"
	case EventEvict:
		return "evict"
	case EventAdmit:
		return "admit"
	default:
		return "unknown"
	}
}

// Event describes one engine transition. Used and Capacity are read after the transition.
type Event struct {
	Kind       EventKind
	Step       int
	ObjectID   string  // requested object, or the evicted one for EventEvict
	Delta      float64 // aging rate of the round (EventRound only)
	Candidates int     // size of the zero-credit set (EventRound only)
	Used       float64
	Capacity   float64
}

// Observer receives engine events synchronously. Observers handed to
// AnalyzeSuffixes are called from several goroutines and must be safe for that.
type Observer interface {
	Observe(ev Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ev Event)

func (f ObserverFunc) Observe(ev Event) { f(ev) }
