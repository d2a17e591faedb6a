package l2placement

import "github.com/banshee-data/animflatten/internal/flatten/l1curves"

// Remap converts an authored curve into global-timeline keys under p.
//
// A key at source time t lands at Start + (t-ClipIn)/TimeScale and is kept
// only when that local time lies inside [0, Duration]. Tangents scale by
// TimeScale; values are untouched. A nil curve, nil placement or invalid
// placement yields nil.
func Remap(c *l1curves.Curve, p *Placement) *l1curves.Curve {
	return RemapTolerance(c, p, DefaultTimeEpsilon)
}

// RemapTolerance is Remap with an explicit boundary tolerance.
func RemapTolerance(c *l1curves.Curve, p *Placement, eps float64) *l1curves.Curve {
	if c == nil || p == nil || p.Validate() != nil {
		return nil
	}
	scale := float32(p.TimeScale)
	out := make([]l1curves.Keyframe, 0, c.Len())
	for i := 0; i < c.Len(); i++ {
		k := c.Key(i)
		localT := (k.Time - p.ClipIn) / p.TimeScale
		if localT < -eps || localT > p.Duration+eps {
			continue
		}
		out = append(out, l1curves.Keyframe{
			Time:       p.Start + localT,
			Value:      k.Value,
			InTangent:  k.InTangent * scale,
			OutTangent: k.OutTangent * scale,
		})
	}
	return l1curves.NewCurve(out...)
}

// RemapSet remaps every authored channel of p. Channels left without keys
// are omitted. An invalid placement yields an empty set.
func RemapSet(p *Placement, eps float64) *l1curves.ChannelSet {
	out := l1curves.NewChannelSet()
	if p == nil || p.Validate() != nil {
		return out
	}
	p.Curves.Each(func(key l1curves.ChannelKey, c *l1curves.Curve) {
		if r := RemapTolerance(c, p, eps); !r.IsEmpty() {
			out.Set(key, r)
		}
	})
	return out
}
