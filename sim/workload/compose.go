package workload

import (
	"fmt"

	"github.com/inference-sim/landlord-sim/sim"
)

// Compose merges specs into one: catalogs are unioned and requests concatenated
// in argument order. An object defined in more than one spec must have the same
// cost and size everywhere. Inputs are not modified.
func Compose(specs []*Spec) (*Spec, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("no workloads to compose")
	}
	merged := &Spec{Version: CurrentVersion}
	seen := make(map[string]ObjectSpec)
	for i, s := range specs {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("workload %d: %w", i, err)
		}
		for _, o := range s.Objects {
			prev, ok := seen[o.ID]
			if !ok {
				seen[o.ID] = o
				merged.Objects = append(merged.Objects, o)
				continue
			}
			if *prev.Cost != *o.Cost || *prev.Size != *o.Size {
				return nil, &sim.CatalogError{
					ObjectID: o.ID,
					Reason: fmt.Sprintf("workload %d redefines cost/size as %v/%v (was %v/%v)",
						i, *o.Cost, *o.Size, *prev.Cost, *prev.Size),
				}
			}
		}
		merged.Requests = append(merged.Requests, s.Requests...)
	}
	return merged, nil
}
