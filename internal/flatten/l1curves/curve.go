package l1curves

import (
	"math"
	"sort"
)

// Curve is an immutable, time-ordered sequence of keyframes evaluated by
// cubic-Hermite interpolation. Outside its key range the curve clamps to
// the first or last value.
//
// Every operation that changes keys returns a new Curve. Accessors hand out
// copies so callers can never reach the backing slice.
type Curve struct {
	keys []Keyframe
}

// NewCurve builds a curve from keys. The input slice is copied and
// stable-sorted by time.
func NewCurve(keys ...Keyframe) *Curve {
	cp := make([]Keyframe, len(keys))
	copy(cp, keys)
	sort.SliceStable(cp, func(i, j int) bool { return cp[i].Time < cp[j].Time })
	return &Curve{keys: cp}
}

// EmptyCurve returns a curve with no keys.
func EmptyCurve() *Curve {
	return &Curve{}
}

// fromSorted adopts an already sorted slice without copying. Callers must
// not retain keys afterwards.
func fromSorted(keys []Keyframe) *Curve {
	return &Curve{keys: keys}
}

// Len returns the number of keys. A nil curve has zero keys.
func (c *Curve) Len() int {
	if c == nil {
		return 0
	}
	return len(c.keys)
}

// IsEmpty reports whether the curve is nil or has no keys.
func (c *Curve) IsEmpty() bool {
	return c.Len() == 0
}

// Key returns the i-th keyframe.
func (c *Curve) Key(i int) Keyframe {
	return c.keys[i]
}

// Keys returns a copy of the keyframes.
func (c *Curve) Keys() []Keyframe {
	if c == nil {
		return nil
	}
	out := make([]Keyframe, len(c.keys))
	copy(out, c.keys)
	return out
}

// Clone returns a distinct curve with the same keys. Cloning nil yields nil.
func (c *Curve) Clone() *Curve {
	if c == nil {
		return nil
	}
	return fromSorted(c.Keys())
}

// Range returns the times of the first and last key. ok is false for an
// empty curve.
func (c *Curve) Range() (start, end float64, ok bool) {
	if c.IsEmpty() {
		return 0, 0, false
	}
	return c.keys[0].Time, c.keys[len(c.keys)-1].Time, true
}

// Equal reports whether both curves hold identical keys.
func (c *Curve) Equal(o *Curve) bool {
	if c.Len() != o.Len() {
		return false
	}
	for i := 0; i < c.Len(); i++ {
		if c.keys[i] != o.keys[i] {
			return false
		}
	}
	return true
}

// segment returns the index i such that keys[i].Time <= t < keys[i+1].Time.
// t must lie strictly inside the key range.
func (c *Curve) segment(t float64) int {
	n := len(c.keys)
	j := sort.Search(n, func(i int) bool { return c.keys[i].Time > t })
	return j - 1
}

// Evaluate returns the curve value at time t.
func (c *Curve) Evaluate(t float64) float32 {
	n := c.Len()
	if n == 0 {
		return 0
	}
	if t <= c.keys[0].Time {
		return c.keys[0].Value
	}
	if t >= c.keys[n-1].Time {
		return c.keys[n-1].Value
	}
	i := c.segment(t)
	return float32(hermite(c.keys[i], c.keys[i+1], t))
}

// Slope returns dValue/dTime at t. It is zero outside the key range. At a
// key the outgoing tangent is used, except at the last key.
func (c *Curve) Slope(t float64) float32 {
	n := c.Len()
	if n == 0 || t < c.keys[0].Time || t > c.keys[n-1].Time {
		return 0
	}
	if t == c.keys[n-1].Time {
		return c.keys[n-1].InTangent
	}
	i := c.segment(t)
	if c.keys[i].Time == t {
		return c.keys[i].OutTangent
	}
	return float32(hermiteSlope(c.keys[i], c.keys[i+1], t))
}

// Sample evaluates the curve every step seconds across its key range. The
// last key time is always included.
func (c *Curve) Sample(step float64) []Keyframe {
	start, end, ok := c.Range()
	if !ok {
		return nil
	}
	if step <= 0 || start == end {
		return []Keyframe{FlatKey(start, c.Evaluate(start))}
	}
	n := int(math.Floor((end-start)/step)) + 1
	out := make([]Keyframe, 0, n+1)
	for i := 0; i < n; i++ {
		t := start + float64(i)*step
		out = append(out, Keyframe{Time: t, Value: c.Evaluate(t), InTangent: c.Slope(t), OutTangent: c.Slope(t)})
	}
	if out[len(out)-1].Time < end {
		out = append(out, FlatKey(end, c.Evaluate(end)))
	}
	return out
}

// stepped reports whether a tangent pair forces a constant segment.
func stepped(a, b Keyframe) bool {
	return math.IsInf(float64(a.OutTangent), 0) || math.IsInf(float64(b.InTangent), 0)
}

func hermite(a, b Keyframe, t float64) float64 {
	if stepped(a, b) {
		return float64(a.Value)
	}
	dt := b.Time - a.Time
	s := (t - a.Time) / dt
	s2 := s * s
	s3 := s2 * s
	h00 := 2*s3 - 3*s2 + 1
	h10 := s3 - 2*s2 + s
	h01 := -2*s3 + 3*s2
	h11 := s3 - s2
	return h00*float64(a.Value) + h10*dt*float64(a.OutTangent) +
		h01*float64(b.Value) + h11*dt*float64(b.InTangent)
}

func hermiteSlope(a, b Keyframe, t float64) float64 {
	if stepped(a, b) {
		return 0
	}
	dt := b.Time - a.Time
	s := (t - a.Time) / dt
	s2 := s * s
	d00 := 6*s2 - 6*s
	d10 := 3*s2 - 4*s + 1
	d01 := -6*s2 + 6*s
	d11 := 3*s2 - 2*s
	return (d00*float64(a.Value) + d10*dt*float64(a.OutTangent) +
		d01*float64(b.Value) + d11*dt*float64(b.InTangent)) / dt
}
