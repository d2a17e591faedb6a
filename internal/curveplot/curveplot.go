// Package curveplot renders merged channel sets for review: one PNG per
// object path via gonum/plot, or a single HTML page of line charts via
// go-echarts.
package curveplot

import (
	"fmt"
	"image/color"
	"strings"

	"gonum.org/v1/plot/palette"

	"github.com/banshee-data/animflatten/internal/flatten/l1curves"
)

// Series is one sampled channel.
type Series struct {
	Key    l1curves.ChannelKey
	Points []l1curves.Keyframe
}

// Label names the series within its path group.
func (s Series) Label() string {
	if s.Key.Kind == l1curves.KindObject {
		return s.Key.Property
	}
	return s.Key.Kind.String() + ":" + s.Key.Property
}

// Group is every series sharing one object path, in key order.
type Group struct {
	Path   string
	Series []Series
}

// Title is the display name of the group. The root path is shown as "(root)".
func (g Group) Title() string {
	if g.Path == "" {
		return "(root)"
	}
	return g.Path
}

// Collect samples every non-empty channel in set at step seconds and groups
// the result by path. Groups come back in path order.
func Collect(set *l1curves.ChannelSet, step float64) []Group {
	var groups []Group
	idx := make(map[string]int)
	set.Each(func(key l1curves.ChannelKey, c *l1curves.Curve) {
		if c.IsEmpty() {
			return
		}
		i, ok := idx[key.Path]
		if !ok {
			i = len(groups)
			idx[key.Path] = i
			groups = append(groups, Group{Path: key.Path})
		}
		groups[i].Series = append(groups[i].Series, Series{Key: key, Points: c.Sample(step)})
	})
	return groups
}

// fileStem turns a path into something safe to use as a file name.
func fileStem(path string) string {
	if path == "" {
		return "root"
	}
	r := strings.NewReplacer("/", "__", "\\", "__", ":", "_", " ", "_", ".", "_")
	return r.Replace(path)
}

// generateColors spreads n colours evenly around the hue wheel, stopping
// short of red again so the first and last series stay distinct.
func generateColors(n int) []color.Color {
	if n <= 0 {
		return nil
	}
	return palette.Rainbow(n, 0, 5.0/6, 0.7, 0.85, 1).Colors()
}

func hexColor(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}
