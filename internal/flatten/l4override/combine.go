package l4override

import (
	"sort"

	"github.com/banshee-data/animflatten/internal/flatten/diag"
	"github.com/banshee-data/animflatten/internal/flatten/l1curves"
	"github.com/banshee-data/animflatten/internal/flatten/l2placement"
	"github.com/banshee-data/animflatten/internal/flatten/l3tracks"
)

const stageName = "override"

// DefaultBoundaryEpsilon is how far inside a gap the filler keys sit from
// the surviving lower key and from the override window edge.
const DefaultBoundaryEpsilon = 1e-4

// Config holds override tolerances and switches.
type Config struct {
	Tracks l3tracks.Config

	// BoundaryEpsilon offsets gap-filling keys from the gap edges.
	BoundaryEpsilon float64
	// ExtrapolationAware enables gap filling from the higher placement's
	// extrapolation modes. When false only plain partial override is used.
	ExtrapolationAware bool
}

// DefaultConfig returns the override defaults.
func DefaultConfig() Config {
	return Config{
		Tracks:             l3tracks.DefaultConfig(),
		BoundaryEpsilon:    DefaultBoundaryEpsilon,
		ExtrapolationAware: true,
	}
}

// Combine overrides lower with higher across [start, end].
//
// Either side being empty yields a copy of the other (two empty sides give
// an empty curve). When every lower key lies inside the window the result
// is a copy of higher; otherwise it is lower's keys outside the window
// together with all of higher's keys, sorted by time. The inputs are never
// modified.
func Combine(lower, higher *l1curves.Curve, start, end float64) *l1curves.Curve {
	return combine(lower, higher, start, end, l2placement.DefaultTimeEpsilon)
}

func combine(lower, higher *l1curves.Curve, start, end, eps float64) *l1curves.Curve {
	if c, done := trivial(lower, higher); done {
		return c
	}
	before, after, full := split(lower, start, end, eps)
	if full {
		return higher.Clone()
	}
	return union(eps, before, after, higher.Keys())
}

// trivial handles the empty-side cases.
func trivial(lower, higher *l1curves.Curve) (*l1curves.Curve, bool) {
	switch {
	case lower.IsEmpty() && higher.IsEmpty():
		return l1curves.EmptyCurve(), true
	case lower.IsEmpty():
		return higher.Clone(), true
	case higher.IsEmpty():
		return lower.Clone(), true
	}
	return nil, false
}

// split partitions lower's keys into those before and after the window.
// full is true when no key survives.
func split(lower *l1curves.Curve, start, end, eps float64) (before, after []l1curves.Keyframe, full bool) {
	for _, k := range lower.Keys() {
		switch {
		case k.Time < start-eps:
			before = append(before, k)
		case k.Time > end+eps:
			after = append(after, k)
		}
	}
	return before, after, len(before) == 0 && len(after) == 0
}

// union merges key groups in priority order: a later group wins when two
// keys share a time.
func union(eps float64, groups ...[]l1curves.Keyframe) *l1curves.Curve {
	type ranked struct {
		key  l1curves.Keyframe
		rank int
	}
	var all []ranked
	for rank, g := range groups {
		for _, k := range g {
			all = append(all, ranked{key: k, rank: rank})
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].key.Time != all[j].key.Time {
			return all[i].key.Time < all[j].key.Time
		}
		return all[i].rank < all[j].rank
	})
	out := make([]l1curves.Keyframe, 0, len(all))
	lastRank := -1
	for _, r := range all {
		if n := len(out); n > 0 && r.key.Time-out[n-1].Time <= eps {
			if r.rank >= lastRank {
				out[n-1] = r.key
				lastRank = r.rank
			}
			continue
		}
		out = append(out, r.key)
		lastRank = r.rank
	}
	return l1curves.NewCurve(out...)
}

// CombineSpans is Combine with the override windows taken from
// higherSpans, one per higher placement. Overlapping windows are joined;
// windows separated by a gap stay apart, so lower keys in the gap survive.
// With no windows the override range is higher's own key range.
//
// When cfg.ExtrapolationAware is set and both sides carry windows, the gaps
// between each window and the neighbouring lower keys are filled. A gap
// takes the higher placement's held value when its mode on that side is
// Hold. Under None the gap keeps lower's own value right up to the window
// edge. Loop, PingPong and Continue are reported and treated as None. A gap
// between two windows with no lower key in it is split at its midpoint,
// each half following the adjacent window.
func CombineSpans(lower, higher *l1curves.Curve, lowerSpans, higherSpans []*l2placement.Span, cfg Config, report *diag.Report, key *l1curves.ChannelKey) *l1curves.Curve {
	eps := cfg.Tracks.TimeEpsilon
	if c, done := trivial(lower, higher); done {
		return c
	}
	windows := l2placement.MergeWindows(higherSpans, eps)
	if len(windows) == 0 {
		start, end, _ := higher.Range()
		windows = []*l2placement.Span{{Start: start, End: end}}
	}
	survivors := outside(lower, windows, eps)

	if !cfg.ExtrapolationAware || len(lowerSpans) == 0 || len(higherSpans) == 0 {
		if len(survivors) == 0 {
			return higher.Clone()
		}
		return union(eps, survivors, higher.Keys())
	}

	var fill []l1curves.Keyframe
	for i, w := range windows {
		if gapStart, ok := preGapStart(survivors, windows, i, eps); ok {
			mode := checkedMode(w.PreMode(), "pre", report, key)
			fill = append(fill, fillGap(lower, w.First, mode, gapStart, w.Start, false, cfg.BoundaryEpsilon)...)
		}
		if gapEnd, ok := postGapEnd(survivors, windows, i, eps); ok {
			mode := checkedMode(w.PostMode(), "post", report, key)
			fill = append(fill, fillGap(lower, w.Last, mode, w.End, gapEnd, true, cfg.BoundaryEpsilon)...)
		}
	}
	return union(eps, survivors, fill, higher.Keys())
}

// outside returns lower's keys that fall in no window. windows must be
// sorted and disjoint.
func outside(lower *l1curves.Curve, windows []*l2placement.Span, eps float64) []l1curves.Keyframe {
	var out []l1curves.Keyframe
	w := 0
	for _, k := range lower.Keys() {
		for w < len(windows) && k.Time > windows[w].End+eps {
			w++
		}
		if w < len(windows) && k.Time >= windows[w].Start-eps {
			continue
		}
		out = append(out, k)
	}
	return out
}

// preGapStart finds where the gap before windows[i] begins: the last
// surviving lower key after the previous window, or the midpoint between
// the two windows when no lower key sits between them.
func preGapStart(survivors []l1curves.Keyframe, windows []*l2placement.Span, i int, eps float64) (float64, bool) {
	w := windows[i]
	n := sort.Search(len(survivors), func(j int) bool { return survivors[j].Time >= w.Start-eps })
	if i == 0 {
		if n == 0 {
			return 0, false
		}
		return survivors[n-1].Time, true
	}
	prevEnd := windows[i-1].End
	if n > 0 && survivors[n-1].Time > prevEnd {
		return survivors[n-1].Time, true
	}
	return prevEnd + (w.Start-prevEnd)/2, true
}

// postGapEnd is preGapStart mirrored for the gap after windows[i].
func postGapEnd(survivors []l1curves.Keyframe, windows []*l2placement.Span, i int, eps float64) (float64, bool) {
	w := windows[i]
	n := sort.Search(len(survivors), func(j int) bool { return survivors[j].Time > w.End+eps })
	if i == len(windows)-1 {
		if n == len(survivors) {
			return 0, false
		}
		return survivors[n].Time, true
	}
	nextStart := windows[i+1].Start
	if n < len(survivors) && survivors[n].Time < nextStart {
		return survivors[n].Time, true
	}
	return w.End + (nextStart-w.End)/2, true
}

func checkedMode(mode l2placement.ExtrapolationMode, side string, report *diag.Report, key *l1curves.ChannelKey) l2placement.ExtrapolationMode {
	if l2placement.ModeSupported(mode) {
		return mode
	}
	report.Add(stageName, diag.UnsupportedExtrapolation, key, "%s-extrapolation %s is not supported, treated as none", side, mode)
	return l2placement.None
}

// fillGap returns the keys that pin the value across (gapStart, gapEnd).
// edgeAtStart is true when the override window edge is gapStart (the gap
// follows the window) and false when it is gapEnd (the gap precedes it).
func fillGap(lower *l1curves.Curve, src l2placement.Source, mode l2placement.ExtrapolationMode, gapStart, gapEnd float64, edgeAtStart bool, be float64) []l1curves.Keyframe {
	if gapEnd-gapStart <= 0 {
		return nil
	}
	if mode == l2placement.Hold {
		if held, ok := src.Evaluate(probeTime(gapStart, gapEnd, edgeAtStart)); ok {
			return holdKeys(held, gapStart, gapEnd, be)
		}
	}

	// Lower shows through up to the window edge.
	t := gapEnd - be
	if edgeAtStart {
		t = gapStart + be
	}
	if t <= gapStart || t >= gapEnd {
		return nil
	}
	slope := lower.Slope(t)
	return []l1curves.Keyframe{{Time: t, Value: lower.Evaluate(t), InTangent: slope, OutTangent: slope}}
}

// probeTime picks a time strictly outside the override window inside the gap.
func probeTime(gapStart, gapEnd float64, edgeAtStart bool) float64 {
	mid := gapStart + (gapEnd-gapStart)/2
	if edgeAtStart && mid <= gapStart {
		return gapEnd
	}
	if !edgeAtStart && mid >= gapEnd {
		return gapStart
	}
	return mid
}

func holdKeys(v float32, gapStart, gapEnd, be float64) []l1curves.Keyframe {
	lo, hi := gapStart+be, gapEnd-be
	if lo >= hi {
		mid := gapStart + (gapEnd-gapStart)/2
		return []l1curves.Keyframe{l1curves.FlatKey(mid, v)}
	}
	return []l1curves.Keyframe{l1curves.FlatKey(lo, v), l1curves.FlatKey(hi, v)}
}

// DetectOverlappingProperties returns the keys present in both sets, in
// key order.
func DetectOverlappingProperties(a, b *l1curves.ChannelSet) []l1curves.ChannelKey {
	var out []l1curves.ChannelKey
	for _, k := range a.Keys() {
		if b.Has(k) {
			out = append(out, k)
		}
	}
	return out
}
