package l3tracks

import (
	"sort"

	"github.com/banshee-data/animflatten/internal/flatten/diag"
	"github.com/banshee-data/animflatten/internal/flatten/l1curves"
	"github.com/banshee-data/animflatten/internal/flatten/l2placement"
)

const stageName = "tracks"

// Stack is an ordered list of placements sharing one priority rank.
// Priority between stacks is their position in the caller's slice.
type Stack struct {
	Name       string
	Placements []*l2placement.Placement
}

// Config holds the builder tolerances.
type Config struct {
	// TimeEpsilon is the distance under which two keys count as the same time.
	TimeEpsilon float64
}

// DefaultConfig returns the builder defaults.
func DefaultConfig() Config {
	return Config{TimeEpsilon: l2placement.DefaultTimeEpsilon}
}

type orderedKey struct {
	key   l1curves.Keyframe
	order int
}

// Build merges every placement of stack into one curve per channel.
//
// Remapped keys from all placements defining a channel are unioned and
// sorted by global time. When two placements land a key on the same time
// the later placement in the stack wins. Nil placements are skipped;
// invalid placements are skipped and reported.
func Build(stack *Stack, cfg Config, report *diag.Report) *l1curves.ChannelSet {
	out := l1curves.NewChannelSet()
	if stack == nil {
		report.Add(stageName, diag.NilInput, nil, "nil stack")
		return out
	}

	merged := make(map[l1curves.ChannelKey][]orderedKey)
	for i, p := range usablePlacements(stack, report) {
		if p == nil {
			continue
		}
		remapped := l2placement.RemapSet(p, cfg.TimeEpsilon)
		remapped.Each(func(key l1curves.ChannelKey, c *l1curves.Curve) {
			for j := 0; j < c.Len(); j++ {
				merged[key] = append(merged[key], orderedKey{key: c.Key(j), order: i})
			}
		})
	}

	for key, keys := range merged {
		out.Set(key, l1curves.NewCurve(lastWriteWins(keys, cfg.TimeEpsilon)...))
	}
	if out.Len() == 0 {
		report.Add(stageName, diag.EmptyChannelSet, nil, "stack %q produced no channels", stack.Name)
	}
	return out
}

// lastWriteWins sorts keys by time and, for keys sharing a time within eps,
// keeps the one from the latest placement. Within one placement the later
// key wins.
func lastWriteWins(keys []orderedKey, eps float64) []l1curves.Keyframe {
	sort.SliceStable(keys, func(i, j int) bool {
		if keys[i].key.Time != keys[j].key.Time {
			return keys[i].key.Time < keys[j].key.Time
		}
		return keys[i].order < keys[j].order
	})
	out := make([]l1curves.Keyframe, 0, len(keys))
	lastOrder := -1
	for _, k := range keys {
		if n := len(out); n > 0 && k.key.Time-out[n-1].Time <= eps {
			if k.order >= lastOrder {
				out[n-1] = k.key
				lastOrder = k.order
			}
			continue
		}
		out = append(out, k.key)
		lastOrder = k.order
	}
	return out
}

// usablePlacements returns the stack's placements with invalid ones
// replaced by nil, keeping indexes aligned with stack order.
func usablePlacements(stack *Stack, report *diag.Report) []*l2placement.Placement {
	out := make([]*l2placement.Placement, len(stack.Placements))
	for i, p := range stack.Placements {
		if p == nil {
			continue
		}
		if err := p.Validate(); err != nil {
			report.Add(stageName, diag.InvalidPlacement, nil, "stack %q: %v", stack.Name, err)
			continue
		}
		out[i] = p
	}
	return out
}

// Coverage returns, per channel, the active window of every valid
// placement that authors the channel, sorted by start. Windows are kept
// apart so a gap between two placements is not claimed by the stack.
func Coverage(stack *Stack) map[l1curves.ChannelKey][]*l2placement.Span {
	spans := make(map[l1curves.ChannelKey][]*l2placement.Span)
	if stack == nil {
		return spans
	}
	for _, p := range stack.Placements {
		if p == nil || p.Validate() != nil {
			continue
		}
		for _, key := range p.Curves.Keys() {
			spans[key] = append(spans[key], l2placement.SpanOf(p, key))
		}
	}
	for _, ws := range spans {
		sort.SliceStable(ws, func(i, j int) bool { return ws[i].Start < ws[j].Start })
	}
	return spans
}
