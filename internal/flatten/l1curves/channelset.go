package l1curves

import "sort"

// ChannelSet maps channel keys to curves. No two curves share a key.
//
// Stages never modify a set they receive; they build and return a new one.
type ChannelSet struct {
	curves map[ChannelKey]*Curve
}

// NewChannelSet returns an empty set.
func NewChannelSet() *ChannelSet {
	return &ChannelSet{curves: make(map[ChannelKey]*Curve)}
}

// Len returns the number of channels. A nil set is empty.
func (s *ChannelSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.curves)
}

// Set stores c under key, replacing any previous curve. A nil curve removes
// the key.
func (s *ChannelSet) Set(key ChannelKey, c *Curve) {
	if c == nil {
		delete(s.curves, key)
		return
	}
	s.curves[key] = c
}

// Get returns the curve stored under key.
func (s *ChannelSet) Get(key ChannelKey) (*Curve, bool) {
	if s == nil {
		return nil, false
	}
	c, ok := s.curves[key]
	return c, ok
}

// Has reports whether key is present.
func (s *ChannelSet) Has(key ChannelKey) bool {
	_, ok := s.Get(key)
	return ok
}

// Keys returns every key in deterministic order (path, kind, property).
func (s *ChannelSet) Keys() []ChannelKey {
	if s == nil {
		return nil
	}
	keys := make([]ChannelKey, 0, len(s.curves))
	for k := range s.curves {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}

// Paths returns the distinct channel paths in sorted order.
func (s *ChannelSet) Paths() []string {
	seen := make(map[string]struct{})
	var paths []string
	for _, k := range s.Keys() {
		if _, ok := seen[k.Path]; ok {
			continue
		}
		seen[k.Path] = struct{}{}
		paths = append(paths, k.Path)
	}
	return paths
}

// Each calls fn for every channel in key order.
func (s *ChannelSet) Each(fn func(ChannelKey, *Curve)) {
	for _, k := range s.Keys() {
		fn(k, s.curves[k])
	}
}

// Clone returns a set with the same keys and cloned curves.
func (s *ChannelSet) Clone() *ChannelSet {
	out := NewChannelSet()
	if s == nil {
		return out
	}
	for k, c := range s.curves {
		out.curves[k] = c.Clone()
	}
	return out
}

// Equal reports whether both sets hold the same keys with equal curves.
func (s *ChannelSet) Equal(o *ChannelSet) bool {
	if s.Len() != o.Len() {
		return false
	}
	for _, k := range s.Keys() {
		oc, ok := o.Get(k)
		if !ok || !s.curves[k].Equal(oc) {
			return false
		}
	}
	return true
}
