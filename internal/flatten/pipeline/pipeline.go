// Package pipeline wires the flattening layers into one entry point.
//
// Stacks are folded low to high priority (l3tracks, l4override), channel
// paths are corrected against a target hierarchy (l5paths) and the root
// offset is injected (l6offset). The hierarchy and the offset are optional;
// leaving either out disables that stage.
package pipeline

import (
	"github.com/banshee-data/animflatten/internal/config"
	"github.com/banshee-data/animflatten/internal/flatten/diag"
	"github.com/banshee-data/animflatten/internal/flatten/l1curves"
	"github.com/banshee-data/animflatten/internal/flatten/l3tracks"
	"github.com/banshee-data/animflatten/internal/flatten/l4override"
	"github.com/banshee-data/animflatten/internal/flatten/l5paths"
	"github.com/banshee-data/animflatten/internal/flatten/l6offset"
	"github.com/banshee-data/animflatten/internal/monitoring"
)

// Options configures every stage of a merge.
type Options struct {
	Override l4override.Config
	Paths    l5paths.Config
	Offset   l6offset.Config

	CorrectPaths    bool
	ApplyRootOffset bool
}

// DefaultOptions returns options with every stage enabled and default
// tolerances.
func DefaultOptions() Options {
	return Options{
		Override:        l4override.DefaultConfig(),
		Paths:           l5paths.DefaultConfig(),
		Offset:          l6offset.DefaultConfig(),
		CorrectPaths:    true,
		ApplyRootOffset: true,
	}
}

// OptionsFromConfig builds Options from a loaded MergeConfig.
func OptionsFromConfig(cfg *config.MergeConfig) Options {
	opts := DefaultOptions()
	if cfg == nil {
		return opts
	}
	opts.Override.Tracks.TimeEpsilon = cfg.GetTimeEpsilon()
	opts.Override.BoundaryEpsilon = cfg.GetBoundaryEpsilon()
	opts.Override.ExtrapolationAware = cfg.GetExtrapolationAware()
	opts.Paths.Separator = cfg.GetPathSeparator()
	opts.Offset.Separator = cfg.GetPathSeparator()
	opts.Offset.PositionBases = cfg.GetPositionProperties()
	opts.Offset.RotationBases = cfg.GetRotationProperties()
	opts.CorrectPaths = cfg.GetCorrectPaths()
	opts.ApplyRootOffset = cfg.GetApplyRootOffset()
	return opts
}

// Merge flattens stacks, ordered low to high priority, into one channel set
// using DefaultOptions. root and offset may be nil.
func Merge(stacks []*l3tracks.Stack, root *l5paths.Node, offset *l6offset.Offset) (*l1curves.ChannelSet, *diag.Report) {
	return MergeWithOptions(stacks, root, offset, DefaultOptions())
}

// MergeWithOptions is Merge with explicit options. The returned set is
// freshly allocated; no input is modified. Diagnostics are collected in the
// report rather than interrupting the merge.
func MergeWithOptions(stacks []*l3tracks.Stack, root *l5paths.Node, offset *l6offset.Offset, opts Options) (*l1curves.ChannelSet, *diag.Report) {
	report := diag.NewReport()
	logf := monitoring.StageLogf("flatten " + report.RunID)

	merged := l4override.MergeStacks(stacks, opts.Override, report)
	logf("merged %d stacks into %d channels", len(stacks), merged.Len())

	if root != nil && opts.CorrectPaths {
		merged = l5paths.Correct(merged, root, opts.Paths, report)
		logf("path correction: %d not found, %d ambiguous",
			report.Count(diag.PathNotFound), report.Count(diag.PathAmbiguous))
	}

	if offset != nil && opts.ApplyRootOffset {
		merged = l6offset.Apply(merged, *offset, opts.Offset, report)
	}

	if merged.Len() == 0 {
		report.Add("pipeline", diag.EmptyChannelSet, nil, "merge produced no channels")
	}
	return merged, report
}
