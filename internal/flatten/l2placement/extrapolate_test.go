package l2placement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/animflatten/internal/flatten/l1curves"
)

func TestEvaluate_HoldAfterEnd(t *testing.T) {
	c := l1curves.NewCurve(l1curves.FlatKey(0, 100), l1curves.FlatKey(1, 200))
	p := &Placement{Start: 1, Duration: 1, TimeScale: 1, PostExtrapolation: Hold}

	v, ok := Evaluate(c, p, 4)
	require.True(t, ok)
	assert.Equal(t, float32(200), v)
}

func TestEvaluate_HoldBeforeStartHonoursClipIn(t *testing.T) {
	c := l1curves.NewCurve(
		l1curves.Keyframe{Time: 0, Value: 0, InTangent: 10, OutTangent: 10},
		l1curves.Keyframe{Time: 2, Value: 20, InTangent: 10, OutTangent: 10},
	)
	p := &Placement{Start: 3, ClipIn: 1, Duration: 1, TimeScale: 1, PreExtrapolation: Hold}

	v, ok := Evaluate(c, p, 0)
	require.True(t, ok)
	assert.InDelta(t, 10.0, float64(v), 1e-5)
}

func TestEvaluate_InsideWindow(t *testing.T) {
	c := l1curves.NewCurve(
		l1curves.Keyframe{Time: 0, Value: 0, InTangent: 1, OutTangent: 1},
		l1curves.Keyframe{Time: 4, Value: 4, InTangent: 1, OutTangent: 1},
	)
	p := &Placement{Start: 10, ClipIn: 0, Duration: 2, TimeScale: 2}

	v, ok := Evaluate(c, p, 11)
	require.True(t, ok)
	assert.InDelta(t, 2.0, float64(v), 1e-5)

	// Window edges are inclusive.
	_, ok = Evaluate(c, p, 10)
	assert.True(t, ok)
	_, ok = Evaluate(c, p, 12)
	assert.True(t, ok)
}

func TestEvaluate_UnknownCases(t *testing.T) {
	c := l1curves.NewCurve(l1curves.FlatKey(0, 1))
	base := Placement{Start: 1, Duration: 1, TimeScale: 1}

	tests := []struct {
		name string
		c    *l1curves.Curve
		p    *Placement
		t    float64
	}{
		{"nil curve", nil, &base, 1.5},
		{"empty curve", l1curves.EmptyCurve(), &base, 1.5},
		{"nil placement", c, nil, 1.5},
		{"invalid placement", c, &Placement{Start: 1, Duration: 1, TimeScale: 0}, 1.5},
		{"none before", c, &base, 0},
		{"none after", c, &base, 3},
		{"loop after", c, &Placement{Start: 1, Duration: 1, TimeScale: 1, PostExtrapolation: Loop}, 3},
		{"pingpong before", c, &Placement{Start: 1, Duration: 1, TimeScale: 1, PreExtrapolation: PingPong}, 0},
		{"continue after", c, &Placement{Start: 1, Duration: 1, TimeScale: 1, PostExtrapolation: Continue}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Evaluate(tt.c, tt.p, tt.t)
			assert.False(t, ok)
		})
	}
}

func TestMergeWindows(t *testing.T) {
	key := l1curves.ChannelKey{Path: "a", Kind: l1curves.KindObject, Property: "x"}
	a := &Placement{Name: "a", Start: 2, Duration: 1, TimeScale: 1, PreExtrapolation: Hold}
	b := &Placement{Name: "b", Start: 0, Duration: 1, TimeScale: 1, PostExtrapolation: Hold}
	c := &Placement{Name: "c", Start: 2.5, Duration: 2, TimeScale: 1, PostExtrapolation: Loop}
	d := &Placement{Name: "d", Start: 4.5, Duration: 1, TimeScale: 1}

	in := []*Span{SpanOf(a, key), nil, SpanOf(c, key), SpanOf(b, key), SpanOf(d, key)}
	got := MergeWindows(in, 1e-6)
	require.Len(t, got, 2)

	// b stands alone; a, c and the touching d join into one window.
	assert.Equal(t, 0.0, got[0].Start)
	assert.Equal(t, 1.0, got[0].End)
	assert.Same(t, b, got[0].First.Placement)
	assert.Equal(t, Hold, got[0].PostMode())

	assert.Equal(t, 2.0, got[1].Start)
	assert.Equal(t, 5.5, got[1].End)
	assert.Same(t, a, got[1].First.Placement)
	assert.Same(t, d, got[1].Last.Placement)
	assert.Equal(t, Hold, got[1].PreMode())
	assert.Equal(t, None, got[1].PostMode())

	assert.Equal(t, 3.0, in[0].End, "inputs must not be modified")
	assert.Empty(t, MergeWindows(nil, 1e-6))

	var empty *Span
	assert.Equal(t, None, empty.PreMode())
	assert.Nil(t, SpanOf(nil, key))
}

func TestSpan_Union(t *testing.T) {
	a := &Span{Start: 0, End: 2}
	b := &Span{Start: 1, End: 5}
	u := a.Union(b)
	assert.Equal(t, 0.0, u.Start)
	assert.Equal(t, 5.0, u.End)
	assert.Equal(t, 2.0, a.End, "union must not modify its receiver")

	var none *Span
	assert.Same(t, b, none.Union(b))
	assert.Same(t, a, a.Union(nil))
}
