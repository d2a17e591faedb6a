package l2placement

import (
	"sort"

	"github.com/banshee-data/animflatten/internal/flatten/l1curves"
)

// Evaluate answers what value p holds for curve c at global time t.
//
// Inside the active window the curve is evaluated at the matching source
// time. Outside it the relevant extrapolation mode decides: None reports no
// value, Hold reports the boundary value, and the unsupported modes behave
// as None. known is false whenever the caller must fall back to another
// source.
func Evaluate(c *l1curves.Curve, p *Placement, t float64) (value float32, known bool) {
	if c.IsEmpty() || p == nil || p.Validate() != nil {
		return 0, false
	}
	start, end := p.Window()
	switch {
	case t < start:
		if p.PreExtrapolation != Hold {
			return 0, false
		}
		return c.Evaluate(p.ClipIn), true
	case t > end:
		if p.PostExtrapolation != Hold {
			return 0, false
		}
		return c.Evaluate(p.SourceEnd()), true
	default:
		return c.Evaluate(p.ClipIn + (t-start)*p.TimeScale), true
	}
}

// Source pairs a placement with one of its authored curves.
type Source struct {
	Placement *Placement
	Curve     *l1curves.Curve
}

// Evaluate is shorthand for Evaluate(s.Curve, s.Placement, t).
func (s Source) Evaluate(t float64) (float32, bool) {
	return Evaluate(s.Curve, s.Placement, t)
}

// Span is an override window for one channel: a placement's active window,
// or the hull of several overlapping ones. First and Last are the leftmost
// and rightmost contributing placements, whose pre- and post-extrapolation
// govern the window's edges.
type Span struct {
	Start float64
	End   float64
	First Source
	Last  Source
}

// PreMode returns the extrapolation mode before the span.
func (s *Span) PreMode() ExtrapolationMode {
	if s == nil || s.First.Placement == nil {
		return None
	}
	return s.First.Placement.PreExtrapolation
}

// PostMode returns the extrapolation mode after the span.
func (s *Span) PostMode() ExtrapolationMode {
	if s == nil || s.Last.Placement == nil {
		return None
	}
	return s.Last.Placement.PostExtrapolation
}

// SpanOf builds the span of a single placement for channel key.
func SpanOf(p *Placement, key l1curves.ChannelKey) *Span {
	if p == nil {
		return nil
	}
	c, _ := p.Curves.Get(key)
	src := Source{Placement: p, Curve: c}
	return &Span{Start: p.Start, End: p.End(), First: src, Last: src}
}

// Union returns the hull of s and o. Either may be nil.
func (s *Span) Union(o *Span) *Span {
	if s == nil {
		return o
	}
	if o == nil {
		return s
	}
	out := *s
	if o.Start < out.Start {
		out.Start = o.Start
		out.First = o.First
	}
	if o.End >= out.End {
		out.End = o.End
		out.Last = o.Last
	}
	return &out
}

// MergeWindows sorts spans by start and joins those that overlap or touch
// within eps. Windows separated by a gap stay apart, so the time between
// them is not claimed by any of them. Nil spans are skipped; the input is
// not modified.
func MergeWindows(spans []*Span, eps float64) []*Span {
	sorted := make([]*Span, 0, len(spans))
	for _, s := range spans {
		if s != nil {
			sorted = append(sorted, s)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	var out []*Span
	for _, s := range sorted {
		if n := len(out); n > 0 && s.Start <= out[n-1].End+eps {
			out[n-1] = out[n-1].Union(s)
			continue
		}
		out = append(out, s)
	}
	return out
}
