package l5paths

import (
	"github.com/banshee-data/animflatten/internal/flatten/diag"
	"github.com/banshee-data/animflatten/internal/flatten/l1curves"
)

const stageName = "paths"

// Config holds path corrector settings.
type Config struct {
	Separator string
}

// DefaultConfig returns the corrector defaults.
func DefaultConfig() Config {
	return Config{Separator: DefaultSeparator}
}

// Correctable reports whether channels of kind take part in path correction.
func Correctable(kind l1curves.ChannelKind) bool {
	return kind == l1curves.KindObject || kind == l1curves.KindBlendShape
}

type outcome int

const (
	resolvedDirect outcome = iota
	resolvedByLeaf
	notFound
	ambiguous
)

type resolution struct {
	path    string
	outcome outcome
	matches int
}

// corrector holds the per-invocation caches. Nothing survives past one
// Correct call.
type corrector struct {
	root     *Node
	sep      string
	index    map[string][]string
	resolved map[string]resolution
}

func (c *corrector) resolve(path string) (resolution, bool) {
	if r, ok := c.resolved[path]; ok {
		return r, true
	}
	var r resolution
	if _, ok := Resolve(c.root, path, c.sep); ok {
		r = resolution{path: path, outcome: resolvedDirect}
	} else {
		if c.index == nil {
			c.index = leafIndex(c.root, c.sep)
		}
		matches := c.index[leafName(path, c.sep)]
		switch len(matches) {
		case 0:
			r = resolution{path: path, outcome: notFound}
		case 1:
			r = resolution{path: matches[0], outcome: resolvedByLeaf, matches: 1}
		default:
			r = resolution{path: path, outcome: ambiguous, matches: len(matches)}
		}
	}
	c.resolved[path] = r
	return r, false
}

// Correct rewrites unresolved object and blend-shape paths in set against
// the hierarchy under root.
//
// A path that already resolves uniquely is kept. Otherwise the whole
// subtree is searched for nodes named like the path's final segment: one
// match rewrites the path, none or several leave it unchanged and are
// reported. Curves, kinds and properties are carried over untouched. A nil
// root returns a copy of set.
func Correct(set *l1curves.ChannelSet, root *Node, cfg Config, report *diag.Report) *l1curves.ChannelSet {
	if root == nil {
		return set.Clone()
	}
	sep := cfg.Separator
	if sep == "" {
		sep = DefaultSeparator
	}
	c := &corrector{root: root, sep: sep, resolved: make(map[string]resolution)}

	out := l1curves.NewChannelSet()
	set.Each(func(key l1curves.ChannelKey, curve *l1curves.Curve) {
		next := key
		if Correctable(key.Kind) && key.Path != "" {
			r, cached := c.resolve(key.Path)
			next.Path = r.path
			if !cached {
				reportOutcome(report, key, r, sep)
			}
		}
		if out.Has(next) {
			report.Add(stageName, diag.PathCollision, &key, "rewrite to %q collides with an existing channel, dropped", next.Path)
			return
		}
		out.Set(next, curve.Clone())
	})
	return out
}

func reportOutcome(report *diag.Report, key l1curves.ChannelKey, r resolution, sep string) {
	switch r.outcome {
	case notFound:
		report.Add(stageName, diag.PathNotFound, &key, "no node named %q under root", leafName(key.Path, sep))
	case ambiguous:
		report.Add(stageName, diag.PathAmbiguous, &key, "%d nodes named %q under root", r.matches, leafName(key.Path, sep))
	}
}
