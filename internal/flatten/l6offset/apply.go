package l6offset

import (
	"sort"
	"strings"

	"gonum.org/v1/gonum/num/quat"

	"github.com/banshee-data/animflatten/internal/flatten/diag"
	"github.com/banshee-data/animflatten/internal/flatten/l1curves"
)

const stageName = "offset"

// Config names the property bases that form position and rotation groups.
type Config struct {
	PositionBases []string
	RotationBases []string
	Separator     string
}

// DefaultConfig returns the usual transform and root-motion property names.
func DefaultConfig() Config {
	return Config{
		PositionBases: []string{"localPosition", "m_LocalPosition", "RootT"},
		RotationBases: []string{"localRotation", "m_LocalRotation", "RootQ"},
		Separator:     "/",
	}
}

type role int

const (
	position role = iota
	rotation
)

type groupID struct {
	path string
	kind l1curves.ChannelKind
	base string
	role role
}

// group is one candidate vector/quaternion: its component keys by letter.
type group struct {
	id         groupID
	components map[string]l1curves.ChannelKey
}

func (g *group) complete() bool {
	need := "xyz"
	if g.id.role == rotation {
		need = "xyzw"
	}
	for _, c := range need {
		if _, ok := g.components[string(c)]; !ok {
			return false
		}
	}
	return true
}

func (g *group) rooted() bool {
	return g.id.path == "" || g.id.kind == l1curves.KindRootMotion
}

// Apply injects off into the root-level position and rotation channels.
//
// Root groups are channels with an empty path or of root-motion kind. When
// none of them forms a complete position triple or rotation quadruple, the
// shallowest non-empty path that does is used instead. Position values are
// shifted by the translation with tangents untouched; rotation samples q
// become off.Rotation*q. Incomplete groups are left alone and reported.
// The input set is not modified; an identity offset returns an exact copy.
func Apply(set *l1curves.ChannelSet, off Offset, cfg Config, report *diag.Report) *l1curves.ChannelSet {
	out := set.Clone()
	if off.IsIdentity() || out.Len() == 0 {
		return out
	}

	for _, g := range targetGroups(collectGroups(out, cfg), cfg) {
		if !g.complete() {
			key := firstKey(g)
			report.Add(stageName, diag.IncompleteGroup, &key, "%s group %q has %d components, left unchanged", roleName(g.id.role), g.id.base, len(g.components))
			continue
		}
		switch g.id.role {
		case position:
			if off.HasTranslation() {
				translate(out, g, off)
			}
		case rotation:
			if off.HasRotation() {
				rotate(out, g, off.Rotation)
			}
		}
	}
	return out
}

func roleName(r role) string {
	if r == rotation {
		return "rotation"
	}
	return "position"
}

func firstKey(g *group) l1curves.ChannelKey {
	names := make([]string, 0, len(g.components))
	for n := range g.components {
		names = append(names, n)
	}
	sort.Strings(names)
	return g.components[names[0]]
}

func collectGroups(set *l1curves.ChannelSet, cfg Config) []*group {
	bases := make(map[string]role)
	for _, b := range cfg.PositionBases {
		bases[b] = position
	}
	for _, b := range cfg.RotationBases {
		bases[b] = rotation
	}

	byID := make(map[groupID]*group)
	var order []groupID
	for _, key := range set.Keys() {
		base, comp := l1curves.SplitProperty(key.Property)
		r, ok := bases[base]
		if !ok || len(comp) != 1 || !strings.Contains("xyzw", comp) {
			continue
		}
		if r == position && comp == "w" {
			continue
		}
		id := groupID{path: key.Path, kind: key.Kind, base: base, role: r}
		g, ok := byID[id]
		if !ok {
			g = &group{id: id, components: make(map[string]l1curves.ChannelKey)}
			byID[id] = g
			order = append(order, id)
		}
		g.components[comp] = key
	}

	out := make([]*group, 0, len(order))
	for _, id := range order {
		out = append(out, byID[id])
	}
	return out
}

// targetGroups picks the root groups, falling back to the shallowest path
// carrying a complete group.
func targetGroups(groups []*group, cfg Config) []*group {
	var rooted []*group
	for _, g := range groups {
		if g.rooted() {
			rooted = append(rooted, g)
		}
	}
	for _, g := range rooted {
		if g.complete() {
			return rooted
		}
	}

	sep := cfg.Separator
	if sep == "" {
		sep = "/"
	}
	best := ""
	bestDepth := -1
	for _, g := range groups {
		if g.rooted() || !g.complete() {
			continue
		}
		d := strings.Count(g.id.path, sep)
		if bestDepth < 0 || d < bestDepth || (d == bestDepth && g.id.path < best) {
			best, bestDepth = g.id.path, d
		}
	}
	if bestDepth < 0 {
		return rooted
	}
	var picked []*group
	for _, g := range groups {
		if !g.rooted() && g.id.path == best {
			picked = append(picked, g)
		}
	}
	return picked
}

func translate(set *l1curves.ChannelSet, g *group, off Offset) {
	shift := map[string]float64{"x": off.Translation.X, "y": off.Translation.Y, "z": off.Translation.Z}
	for comp, key := range g.components {
		c, _ := set.Get(key)
		keys := c.Keys()
		d := float32(shift[comp])
		for i := range keys {
			keys[i].Value += d
		}
		set.Set(key, l1curves.NewCurve(keys...))
	}
}

// rotate left-multiplies every sample of the quaternion group by r. Samples
// are taken at the union of the four curves' key times; tangents go through
// the same linear map.
func rotate(set *l1curves.ChannelSet, g *group, r quat.Number) {
	comps := [4]string{"w", "x", "y", "z"}
	var curves [4]*l1curves.Curve
	var at [4]map[float64]l1curves.Keyframe
	var times []float64
	seen := make(map[float64]bool)
	for i, comp := range comps {
		curves[i], _ = set.Get(g.components[comp])
		at[i] = make(map[float64]l1curves.Keyframe, curves[i].Len())
		for _, k := range curves[i].Keys() {
			at[i][k.Time] = k
			if !seen[k.Time] {
				seen[k.Time] = true
				times = append(times, k.Time)
			}
		}
	}
	sort.Float64s(times)

	var out [4][]l1curves.Keyframe
	for _, t := range times {
		var v, in, o [4]float64
		for i := range comps {
			if k, ok := at[i][t]; ok {
				v[i], in[i], o[i] = float64(k.Value), float64(k.InTangent), float64(k.OutTangent)
				continue
			}
			s := float64(curves[i].Slope(t))
			v[i], in[i], o[i] = float64(curves[i].Evaluate(t)), s, s
		}
		rv, rin, rout := quat.Mul(r, toQuat(v)), quat.Mul(r, toQuat(in)), quat.Mul(r, toQuat(o))
		pv, pin, pout := fromQuat(rv), fromQuat(rin), fromQuat(rout)
		for i := range comps {
			out[i] = append(out[i], l1curves.Keyframe{
				Time:       t,
				Value:      float32(pv[i]),
				InTangent:  float32(pin[i]),
				OutTangent: float32(pout[i]),
			})
		}
	}
	for i, comp := range comps {
		set.Set(g.components[comp], l1curves.NewCurve(out[i]...))
	}
}

// toQuat packs (w, x, y, z).
func toQuat(v [4]float64) quat.Number {
	return quat.Number{Real: v[0], Imag: v[1], Jmag: v[2], Kmag: v[3]}
}

func fromQuat(q quat.Number) [4]float64 {
	return [4]float64{q.Real, q.Imag, q.Jmag, q.Kmag}
}
