package sim

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"
)

// creditEpsilon is the fraction of an object's cost below which a decayed credit
// is treated as exactly zero.
const creditEpsilon = 1e-9

// Outcome tags a request as served from cache or fetched.
type Outcome int

const (
	Miss Outcome = iota
	Hit
)

func (o Outcome) String() string {
	if o == Hit {
		return "HIT"
	}
	return "MISS"
}

// StepOutcome records what happened on one request.
type StepOutcome struct {
	Step     int      // index of the request within the replayed sequence
	ObjectID string   // requested object
	Outcome  Outcome  // HIT or MISS
	Cost     float64  // cost paid: the object's cost on a miss, 0 on a hit
	Evicted  []string // objects evicted to admit this one, in eviction order
	Rounds   int      // decay rounds run during admission
	Aging    float64  // sum of the aging rates of those rounds
	State    *CacheState
}

// Landlord is the credit-accounting eviction policy bound to one ledger.
// It is not safe for concurrent use; each replay owns one.
type Landlord struct {
	catalog   *Catalog
	cfg       Config
	ledger    *Ledger
	ranking   *ranking
	refresh   *rand.Rand
	observer  Observer
	snapshots bool
	seq       int64
}

// NewLandlord creates an empty cache governed by cfg over catalog.
// Close must be called to release tie-break resources.
func NewLandlord(catalog *Catalog, cfg Config, opts ...Option) (*Landlord, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := newOptions(opts)
	rng := NewPartitionedRNG(NewSimulationKey(cfg.Seed))
	rk, err := newRanking(cfg.TieBreak, rng)
	if err != nil {
		return nil, err
	}
	return &Landlord{
		catalog:   catalog,
		cfg:       cfg,
		ledger:    NewLedger(cfg.Capacity),
		ranking:   rk,
		refresh:   rng.ForSubsystem(SubsystemRefresh),
		observer:  o.observer,
		snapshots: o.snapshots,
	}, nil
}

// Close releases the tie-break state. The Landlord must not be used afterwards.
func (l *Landlord) Close() {
	l.ranking.close()
}

// Ledger exposes the ledger for inspection. Callers must not mutate it.
func (l *Landlord) Ledger() *Ledger { return l.ledger }

// Access serves one request for id and returns its outcome.
// An unknown id fails with a *TraceError before any state changes.
func (l *Landlord) Access(id string) (StepOutcome, error) {
	obj, ok := l.catalog.Lookup(id)
	if !ok {
		return StepOutcome{}, &TraceError{Index: int(l.seq), ObjectID: id, Reason: "unknown object"}
	}
	seq := l.seq
	l.seq++
	out := StepOutcome{Step: int(seq), ObjectID: id}

	if credit, resident := l.ledger.Credit(id); resident {
		out.Outcome = Hit
		if err := l.ledger.SetCredit(id, l.cfg.Refresh.refresh(credit, obj.Cost, l.refresh)); err != nil {
			return StepOutcome{}, err
		}
		if err := l.ledger.Touch(id, seq); err != nil {
			return StepOutcome{}, err
		}
		l.emit(Event{Kind: EventHit, Step: out.Step, ObjectID: id})
	} else {
		out.Outcome = Miss
		out.Cost = obj.Cost
		if err := l.admit(obj, &out); err != nil {
			return StepOutcome{}, err
		}
		l.emit(Event{Kind: EventAdmit, Step: out.Step, ObjectID: id})
	}

	if l.snapshots {
		state := l.ledger.Snapshot()
		out.State = &state
	}
	return out, nil
}

// admit frees capacity for obj by decaying credits and evicting zero-credit
// entries, then inserts obj with full credit.
func (l *Landlord) admit(obj Object, out *StepOutcome) error {
	for !l.ledger.Fits(obj.Size) {
		residents := l.ledger.residents()
		if len(residents) == 0 {
			return &InvariantError{
				Step:   out.Step,
				Reason: fmt.Sprintf("object %q of size %v does not fit in an empty cache of capacity %v", obj.ID, obj.Size, l.ledger.Capacity()),
			}
		}

		delta := math.Inf(1)
		for _, e := range residents {
			delta = math.Min(delta, e.Credit/e.Object.Size)
		}

		var zero []*Entry
		for _, e := range residents {
			credit := e.Credit - delta*e.Object.Size
			// The entries that define delta land on zero by construction.
			if e.Credit/e.Object.Size == delta || credit <= creditEpsilon*e.Object.Cost {
				credit = 0
			}
			if err := l.ledger.SetCredit(e.Object.ID, credit); err != nil {
				return err
			}
			if credit == 0 {
				zero = append(zero, e)
			}
		}
		out.Rounds++
		out.Aging += delta

		ordered, err := l.ranking.order(zero)
		if err != nil {
			return err
		}
		logrus.Debugf("step %d: admitting %q, round %d delta=%.6g, %d zero-credit candidates, free=%v",
			out.Step, obj.ID, out.Rounds, delta, len(ordered), l.ledger.Free())
		l.emit(Event{Kind: EventRound, Step: out.Step, ObjectID: obj.ID, Delta: delta, Candidates: len(ordered)})

		for _, e := range ordered {
			if l.ledger.Fits(obj.Size) {
				break
			}
			victim := e.Object.ID
			if err := l.ledger.Remove(victim); err != nil {
				return err
			}
			out.Evicted = append(out.Evicted, victim)
			logrus.Tracef("step %d: evicted %q", out.Step, victim)
			l.emit(Event{Kind: EventEvict, Step: out.Step, ObjectID: victim})
		}
	}
	if err := l.ledger.Insert(obj, obj.Cost, int64(out.Step)); err != nil {
		return err
	}
	return nil
}

func (l *Landlord) emit(ev Event) {
	if l.observer == nil {
		return
	}
	ev.Used = l.ledger.Used()
	ev.Capacity = l.ledger.Capacity()
	l.observer.Observe(ev)
}
