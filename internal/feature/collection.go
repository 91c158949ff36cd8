package feature

// Collection is an ordered set of features from one fetch pass or merge.
type Collection struct {
	Features []*Feature
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{}
}

// Append adds a feature to the end of the collection.
func (c *Collection) Append(f *Feature) {
	c.Features = append(c.Features, f)
}

// Len returns the number of features.
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Features)
}

// Empty reports whether the collection has no features.
func (c *Collection) Empty() bool { return c.Len() == 0 }

// Columns returns the union of attribute keys across all features, in
// first-seen order. Stable for a given collection.
func (c *Collection) Columns() []string {
	var cols []string
	seen := make(map[string]struct{})
	for _, f := range c.Features {
		for _, k := range f.Keys() {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			cols = append(cols, k)
		}
	}
	return cols
}

// SetCity assigns the municipality label to every feature.
func (c *Collection) SetCity(city string) {
	for _, f := range c.Features {
		f.City = city
	}
}

// Merge concatenates collections in argument order. Every row of every input
// appears exactly once in the output; row order is concatenation order.
func Merge(collections ...*Collection) *Collection {
	out := NewCollection()
	for _, c := range collections {
		if c == nil {
			continue
		}
		out.Features = append(out.Features, c.Features...)
	}
	return out
}

// Project reduces each feature to the allow-listed keys that are present
// somewhere in the collection, in allow-list order. Geometry and city are
// always retained. Keys outside the allow-list never appear in the output.
func Project(c *Collection, allow []string) *Collection {
	out := NewCollection()
	if c.Empty() {
		return out
	}

	// Keep only allow-list keys present on at least one feature.
	present := make(map[string]struct{})
	for _, f := range c.Features {
		for _, k := range f.Keys() {
			present[k] = struct{}{}
		}
	}
	var keep []string
	for _, k := range allow {
		if _, ok := present[k]; ok {
			keep = append(keep, k)
		}
	}

	for _, f := range c.Features {
		nf := New(f.Geom)
		nf.City = f.City
		for _, k := range keep {
			if v := f.Get(k); !v.IsAbsent() {
				nf.Set(k, v)
			}
		}
		out.Append(nf)
	}
	return out
}
