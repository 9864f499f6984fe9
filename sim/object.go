package sim

import (
	"fmt"
	"math"
	"sort"
)

// Object is a cacheable item. Cost is the penalty paid to fetch it on a miss;
// Size is the capacity it occupies while resident.
type Object struct {
	ID   string
	Cost float64
	Size float64
}

// Catalog is the immutable mapping from object identifier to Object.
// The engine only ever reads from it.
type Catalog struct {
	objects map[string]Object
	ids     []string // sorted
	maxSize float64
}

// NewCatalog validates objects and builds a Catalog.
// Identifiers must be unique and non-empty; cost and size must be positive and finite.
func NewCatalog(objects []Object) (*Catalog, error) {
	c := &Catalog{
		objects: make(map[string]Object, len(objects)),
		ids:     make([]string, 0, len(objects)),
	}
	for _, obj := range objects {
		if obj.ID == "" {
			return nil, &CatalogError{Reason: "object identifier must not be empty"}
		}
		if _, dup := c.objects[obj.ID]; dup {
			return nil, &CatalogError{ObjectID: obj.ID, Reason: "duplicate identifier"}
		}
		if !positiveFinite(obj.Cost) {
			return nil, &CatalogError{ObjectID: obj.ID, Reason: fmt.Sprintf("cost must be positive and finite, got %v", obj.Cost)}
		}
		if !positiveFinite(obj.Size) {
			return nil, &CatalogError{ObjectID: obj.ID, Reason: fmt.Sprintf("size must be positive and finite, got %v", obj.Size)}
		}
		c.objects[obj.ID] = obj
		c.ids = append(c.ids, obj.ID)
		c.maxSize = math.Max(c.maxSize, obj.Size)
	}
	sort.Strings(c.ids)
	return c, nil
}

// Lookup returns the object registered under id.
func (c *Catalog) Lookup(id string) (Object, bool) {
	obj, ok := c.objects[id]
	return obj, ok
}

// Len returns the number of objects in the catalog.
func (c *Catalog) Len() int { return len(c.ids) }

// IDs returns the object identifiers in lexicographic order.
func (c *Catalog) IDs() []string {
	out := make([]string, len(c.ids))
	copy(out, c.ids)
	return out
}

// ValidateTrace checks that every request resolves to a catalog object.
func (c *Catalog) ValidateTrace(trace []string) error {
	for i, id := range trace {
		if _, ok := c.objects[id]; !ok {
			return &TraceError{Index: i, ObjectID: id, Reason: "unknown object"}
		}
	}
	return nil
}

// CheckCapacity rejects catalogs holding an object that could never be admitted.
func (c *Catalog) CheckCapacity(capacity float64) error {
	if c.maxSize <= capacity {
		return nil
	}
	for _, id := range c.ids {
		if obj := c.objects[id]; obj.Size > capacity {
			return &ConfigError{
				Field:  "capacity",
				Reason: fmt.Sprintf("object %q has size %v exceeding cache capacity %v", id, obj.Size, capacity),
			}
		}
	}
	return nil
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
