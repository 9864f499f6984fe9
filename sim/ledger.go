package sim

import (
	"fmt"
	"math"
	"sort"
)

// capacityTolerance absorbs float drift in the running sum of resident sizes.
const capacityTolerance = 1e-9

// Entry is the ledger record of a resident object.
type Entry struct {
	Object     Object
	Credit     float64 // always within [0, Object.Cost]
	Inserted   int64   // sequence number of the admitting request
	LastAccess int64   // sequence number of the most recent request for the object
}

// EntryState is an immutable copy of an Entry, used in snapshots and by tie-break scripts.
type EntryState struct {
	ID         string
	Credit     float64
	Cost       float64
	Size       float64
	Inserted   int64
	LastAccess int64
}

// CacheState is a point-in-time copy of the ledger. Entries are sorted by ID.
type CacheState struct {
	Capacity float64
	Used     float64
	Entries  []EntryState
}

// IDs returns the identifiers of the resident objects in snapshot order.
func (s CacheState) IDs() []string {
	ids := make([]string, len(s.Entries))
	for i, e := range s.Entries {
		ids[i] = e.ID
	}
	return ids
}

// Ledger tracks the resident subset of the catalog: credit, insertion order and
// last-access order per object. The sum of resident sizes never exceeds capacity;
// every mutation that would break that, or the credit bounds, fails with an *InvariantError.
type Ledger struct {
	capacity float64
	used     float64
	entries  map[string]*Entry
}

// NewLedger creates an empty ledger with the given capacity.
func NewLedger(capacity float64) *Ledger {
	return &Ledger{
		capacity: capacity,
		entries:  make(map[string]*Entry),
	}
}

// Capacity returns the fixed capacity of the ledger.
func (l *Ledger) Capacity() float64 { return l.capacity }

// Used returns the sum of resident sizes.
func (l *Ledger) Used() float64 { return l.used }

// Free returns the unused capacity.
func (l *Ledger) Free() float64 { return l.capacity - l.used }

// Len returns the number of resident entries.
func (l *Ledger) Len() int { return len(l.entries) }

// Fits reports whether an object of the given size can be inserted without eviction.
func (l *Ledger) Fits(size float64) bool {
	return !exceeds(l.used+size, l.capacity)
}

// Contains reports whether id is resident.
func (l *Ledger) Contains(id string) bool {
	_, ok := l.entries[id]
	return ok
}

// Lookup returns a copy of the resident entry for id.
func (l *Ledger) Lookup(id string) (Entry, bool) {
	e, ok := l.entries[id]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Credit returns the current credit of a resident object.
func (l *Ledger) Credit(id string) (float64, bool) {
	e, ok := l.entries[id]
	if !ok {
		return 0, false
	}
	return e.Credit, true
}

// Insert admits obj with the given credit. seq becomes both its insertion
// and last-access sequence number.
func (l *Ledger) Insert(obj Object, credit float64, seq int64) error {
	if _, ok := l.entries[obj.ID]; ok {
		return &InvariantError{Step: int(seq), Reason: fmt.Sprintf("object %q is already resident", obj.ID)}
	}
	if err := checkCredit(obj, credit, seq); err != nil {
		return err
	}
	if !l.Fits(obj.Size) {
		return &InvariantError{
			Step:   int(seq),
			Reason: fmt.Sprintf("inserting %q (size %v) would use %v of capacity %v", obj.ID, obj.Size, l.used+obj.Size, l.capacity),
		}
	}
	l.entries[obj.ID] = &Entry{Object: obj, Credit: credit, Inserted: seq, LastAccess: seq}
	l.used += obj.Size
	return nil
}

// Remove evicts a resident object.
func (l *Ledger) Remove(id string) error {
	e, ok := l.entries[id]
	if !ok {
		return &InvariantError{Step: -1, Reason: fmt.Sprintf("removing non-resident object %q", id)}
	}
	delete(l.entries, id)
	if len(l.entries) == 0 {
		l.used = 0
	} else {
		l.used = math.Max(0, l.used-e.Object.Size)
	}
	return nil
}

// SetCredit overwrites the credit of a resident object. value must lie in [0, cost].
func (l *Ledger) SetCredit(id string, value float64) error {
	e, ok := l.entries[id]
	if !ok {
		return &InvariantError{Step: -1, Reason: fmt.Sprintf("setting credit of non-resident object %q", id)}
	}
	if err := checkCredit(e.Object, value, -1); err != nil {
		return err
	}
	e.Credit = value
	return nil
}

// Touch records an access to a resident object at sequence number seq.
func (l *Ledger) Touch(id string, seq int64) error {
	e, ok := l.entries[id]
	if !ok {
		return &InvariantError{Step: int(seq), Reason: fmt.Sprintf("touching non-resident object %q", id)}
	}
	e.LastAccess = seq
	return nil
}

// Snapshot copies the ledger into a CacheState.
func (l *Ledger) Snapshot() CacheState {
	state := CacheState{
		Capacity: l.capacity,
		Used:     l.used,
		Entries:  make([]EntryState, 0, len(l.entries)),
	}
	for _, e := range l.residents() {
		state.Entries = append(state.Entries, e.state())
	}
	return state
}

// residents returns the live entries sorted by object ID, so that every pass over
// the ledger (and every random draw made during one) is deterministic.
func (l *Ledger) residents() []*Entry {
	out := make([]*Entry, 0, len(l.entries))
	for _, e := range l.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Object.ID < out[j].Object.ID })
	return out
}

func (e *Entry) state() EntryState {
	return EntryState{
		ID:         e.Object.ID,
		Credit:     e.Credit,
		Cost:       e.Object.Cost,
		Size:       e.Object.Size,
		Inserted:   e.Inserted,
		LastAccess: e.LastAccess,
	}
}

func checkCredit(obj Object, credit float64, seq int64) error {
	if credit < 0 || credit > obj.Cost || math.IsNaN(credit) {
		return &InvariantError{
			Step:   int(seq),
			Reason: fmt.Sprintf("credit %v of %q outside [0, %v]", credit, obj.ID, obj.Cost),
		}
	}
	return nil
}

// exceeds reports a > b beyond accumulated rounding error.
func exceeds(a, b float64) bool {
	return a-b > capacityTolerance*math.Max(1, math.Abs(b))
}
