package l4override

import (
	"github.com/banshee-data/animflatten/internal/flatten/diag"
	"github.com/banshee-data/animflatten/internal/flatten/l1curves"
	"github.com/banshee-data/animflatten/internal/flatten/l2placement"
	"github.com/banshee-data/animflatten/internal/flatten/l3tracks"
)

// MergeStacks folds the stacks from lowest to highest priority.
//
// Each stack is built into one curve per channel. Channels present in both
// the running result and the next stack are combined, each active window of
// the stack's placements overriding the result across that window only;
// channels on one side only are taken as they are. The result spans every
// channel of every stack.
func MergeStacks(stacks []*l3tracks.Stack, cfg Config, report *diag.Report) *l1curves.ChannelSet {
	if len(stacks) == 0 {
		report.Add(stageName, diag.EmptyChannelSet, nil, "no stacks to merge")
		return l1curves.NewChannelSet()
	}

	result := l3tracks.Build(stacks[0], cfg.Tracks, report)
	spans := l3tracks.Coverage(stacks[0])

	for _, stack := range stacks[1:] {
		higher := l3tracks.Build(stack, cfg.Tracks, report)
		higherSpans := l3tracks.Coverage(stack)
		result, spans = fold(result, higher, spans, higherSpans, cfg, report)
	}
	return result
}

// spanIndex holds the active windows claimed per channel.
type spanIndex = map[l1curves.ChannelKey][]*l2placement.Span

// fold applies one higher-priority stack on top of the running result.
func fold(lower, higher *l1curves.ChannelSet, lowerSpans, higherSpans spanIndex, cfg Config, report *diag.Report) (*l1curves.ChannelSet, spanIndex) {
	out := l1curves.NewChannelSet()
	spans := make(spanIndex, len(lowerSpans))
	for k, s := range lowerSpans {
		spans[k] = s
	}

	overlapping := make(map[l1curves.ChannelKey]bool)
	for _, k := range DetectOverlappingProperties(lower, higher) {
		overlapping[k] = true
	}

	lower.Each(func(key l1curves.ChannelKey, c *l1curves.Curve) {
		if !overlapping[key] {
			out.Set(key, c)
		}
	})
	higher.Each(func(key l1curves.ChannelKey, hc *l1curves.Curve) {
		if overlapping[key] {
			lc, _ := lower.Get(key)
			k := key
			out.Set(key, CombineSpans(lc, hc, lowerSpans[key], higherSpans[key], cfg, report, &k))
		} else {
			out.Set(key, hc)
		}
		joined := make([]*l2placement.Span, 0, len(spans[key])+len(higherSpans[key]))
		joined = append(joined, spans[key]...)
		spans[key] = append(joined, higherSpans[key]...)
	})
	return out, spans
}
