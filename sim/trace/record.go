// Package trace provides the report records of a Landlord simulation: per-step
// outcomes, suffix results, summaries, and their serialization.
// The package does not import sim; it holds plain data types only.
package trace

// EntryRecord captures one resident object in a cache snapshot.
type EntryRecord struct {
	ID         string  `yaml:"id" json:"id"`
	Credit     float64 `yaml:"credit" json:"credit"`
	Cost       float64 `yaml:"cost" json:"cost"`
	Size       float64 `yaml:"size" json:"size"`
	Inserted   int64   `yaml:"inserted" json:"inserted"`
	LastAccess int64   `yaml:"last_access" json:"last_access"`
}

// CacheRecord captures the cache state. Entries are sorted by ID.
type CacheRecord struct {
	Capacity float64       `yaml:"capacity" json:"capacity"`
	Used     float64       `yaml:"used" json:"used"`
	Entries  []EntryRecord `yaml:"entries" json:"entries"`
}

// StepRecord captures a single request of the full run.
type StepRecord struct {
	Step    int          `yaml:"step" json:"step"`
	Object  string       `yaml:"object" json:"object"`
	Outcome string       `yaml:"outcome" json:"outcome"` // "HIT" or "MISS"
	Cost    float64      `yaml:"cost" json:"cost"`       // cost paid on this request
	Evicted []string     `yaml:"evicted,omitempty" json:"evicted,omitempty"`
	Rounds  int          `yaml:"rounds,omitempty" json:"rounds,omitempty"`
	Aging   float64      `yaml:"aging,omitempty" json:"aging,omitempty"`
	Cache   *CacheRecord `yaml:"cache,omitempty" json:"cache,omitempty"`
}

// SuffixRecord captures the independent replay of the suffix starting at Start.
type SuffixRecord struct {
	Start    int         `yaml:"start" json:"start"`
	Outcomes []string    `yaml:"outcomes" json:"outcomes"`
	Hits     int         `yaml:"hits" json:"hits"`
	Misses   int         `yaml:"misses" json:"misses"`
	Cost     float64     `yaml:"cost" json:"cost"`           // cost paid by the suffix cache
	FullCost float64     `yaml:"full_cost" json:"full_cost"` // cost paid by the full run over the same requests
	SCR      float64     `yaml:"scr" json:"scr"`             // Cost / FullCost
	Final    CacheRecord `yaml:"final" json:"final"`
}

// DivisionRecord details the suffix starting at the configured division point.
type DivisionRecord struct {
	Start         int                `yaml:"start" json:"start"`
	FullCosts     []float64          `yaml:"full_costs" json:"full_costs"`
	SuffixCosts   []float64          `yaml:"suffix_costs" json:"suffix_costs"`
	CumulativeSCR []float64          `yaml:"cumulative_scr" json:"cumulative_scr"`
	ObjectSCR     map[string]float64 `yaml:"object_scr" json:"object_scr"`
}

// ConfigRecord captures the configuration a report was produced with.
type ConfigRecord struct {
	Capacity float64 `yaml:"capacity" json:"capacity"`
	Refresh  string  `yaml:"refresh" json:"refresh"`
	TieBreak string  `yaml:"tiebreak" json:"tiebreak"`
	Seed     int64   `yaml:"seed" json:"seed"`
}
