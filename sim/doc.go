// Package sim provides the Landlord cache-replacement simulation engine.
//
// # Reading Guide
//
// Start with these files to understand the engine:
//   - object.go: Object and the read-only Catalog of (cost, size) pairs
//   - ledger.go: the Credit Ledger holding resident entries and the capacity invariant
//   - landlord.go: the eviction policy (decay, zero, evict) run on every miss
//   - replay.go: the Trace Replay Engine that drives one request sequence
//   - suffix.go: the Suffix Analyzer that replays every suffix from an empty cache
//
// # Policies
//
// Two closed sets of variants parameterize a run:
//   - RefreshRule: what a hit does to the entry's credit (FIFO, LRU, HALF, RAND)
//   - TieBreak: the total order used to evict among zero-credit entries (LRU, FIFO, RAND, SCRIPT)
//
// The SCRIPT tie-break is implemented in sim/script/, which registers itself via an
// init() function that sets the package-level factory NewScriptRankerFunc.
//
// # Reporting
//
// The engine produces StepOutcome and SuffixResult values; BuildReport translates them
// into the pure data records of sim/trace, which handles serialization.
package sim
