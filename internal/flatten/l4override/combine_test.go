package l4override

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/animflatten/internal/flatten/diag"
	"github.com/banshee-data/animflatten/internal/flatten/l1curves"
	"github.com/banshee-data/animflatten/internal/flatten/l2placement"
	"github.com/banshee-data/animflatten/internal/testutil"
)

var posX = testutil.Object("Hips", "localPosition.x")

func TestCombine_FullOverrideContainment(t *testing.T) {
	a := testutil.Flat(0, 1, 1, 2, 2, 3)
	b := testutil.Flat(0, 10, 1.5, 20, 3, 30)

	got := Combine(a, b, 0, 3)
	require.NotSame(t, b, got)
	assert.True(t, got.Equal(b))
}

func TestCombine_PartialOverrideUnion(t *testing.T) {
	lower := testutil.Flat(0, 0, 3, 3)
	higher := testutil.Flat(1, 100, 2, 200)

	got := Combine(lower, higher, 1, 2)
	require.Equal(t, 4, got.Len())
	testutil.AssertCurve(t, got, 0, 0, 1, 100, 2, 200, 3, 3)
}

func TestCombine_DropsLowerKeysInsideWindow(t *testing.T) {
	lower := testutil.Flat(0, 0, 1.5, 15, 3, 3)
	higher := testutil.Flat(1, 100, 2, 200)

	got := Combine(lower, higher, 1, 2)
	testutil.AssertCurve(t, got, 0, 0, 1, 100, 2, 200, 3, 3)
}

func TestCombine_HigherWinsOnSharedTime(t *testing.T) {
	lower := testutil.Flat(0, 0, 5, 5)
	higher := testutil.Flat(0, 100, 1, 200)

	// Window narrower than higher's keys: lower's t=0 key survives the
	// split but collides with higher's t=0 key.
	got := Combine(lower, higher, 0.5, 1)
	testutil.AssertCurve(t, got, 0, 100, 1, 200, 5, 5)
}

func TestCombine_EmptySides(t *testing.T) {
	c := testutil.Flat(0, 1)

	got := Combine(nil, c, 0, 1)
	assert.NotSame(t, c, got)
	assert.True(t, got.Equal(c))

	got = Combine(c, l1curves.EmptyCurve(), 0, 1)
	assert.NotSame(t, c, got)
	assert.True(t, got.Equal(c))

	got = Combine(nil, nil, 0, 1)
	require.NotNil(t, got)
	assert.True(t, got.IsEmpty())
}

func TestCombine_DoesNotMutateInputs(t *testing.T) {
	lower := testutil.Flat(0, 0, 1.5, 15, 3, 3)
	higher := testutil.Flat(1, 100, 2, 200)
	lowerBefore, higherBefore := lower.Keys(), higher.Keys()

	got := Combine(lower, higher, 1, 2)
	assert.NotSame(t, lower, got)
	assert.NotSame(t, higher, got)
	assert.Equal(t, lowerBefore, lower.Keys())
	assert.Equal(t, higherBefore, higher.Keys())
}

// spanFor builds a single-placement span authoring posX with src.
func spanFor(start, duration float64, pre, post l2placement.ExtrapolationMode, src *l1curves.Curve) *l2placement.Span {
	p := testutil.Placement("p", start, duration, testutil.Set(map[l1curves.ChannelKey]*l1curves.Curve{posX: src}))
	p.PreExtrapolation = pre
	p.PostExtrapolation = post
	return l2placement.SpanOf(p, posX)
}

func spans(s ...*l2placement.Span) []*l2placement.Span { return s }

func TestCombineSpans_HoldAndNoneGaps(t *testing.T) {
	lower := testutil.Flat(0, 0, 1, 1, 4, 4, 5, 5)
	authored := testutil.Flat(0, 100, 1, 200)
	higherSpan := spanFor(2, 1, l2placement.Hold, l2placement.None, authored)
	higher := l2placement.Remap(authored, higherSpan.First.Placement)
	lowerSpan := spanFor(0, 5, l2placement.None, l2placement.None, lower)

	cfg := DefaultConfig()
	got := CombineSpans(lower, higher, spans(lowerSpan), spans(higherSpan), cfg, nil, nil)
	keys := got.Keys()
	require.Len(t, keys, 9)

	be := cfg.BoundaryEpsilon
	// Pre gap (1, 2) holds the higher placement's first value.
	assert.InDelta(t, 1+be, keys[2].Time, 1e-12)
	assert.Equal(t, float32(100), keys[2].Value)
	assert.InDelta(t, 2-be, keys[3].Time, 1e-12)
	assert.Equal(t, float32(100), keys[3].Value)

	// Higher keys inside the window.
	assert.Equal(t, 2.0, keys[4].Time)
	assert.Equal(t, 3.0, keys[5].Time)

	// Post gap (3, 4) shows lower through from the window edge.
	assert.InDelta(t, 3+be, keys[6].Time, 1e-12)
	assert.Equal(t, lower.Evaluate(3+be), keys[6].Value)
	assert.Equal(t, lower.Slope(3+be), keys[6].OutTangent)

	assert.Equal(t, 4.0, keys[7].Time)
	assert.Equal(t, 5.0, keys[8].Time)
}

func TestCombineSpans_HoldAfterWindow(t *testing.T) {
	lower := testutil.Flat(0, 0, 10, 10)
	authored := testutil.Flat(0, 100, 1, 200)
	higherSpan := spanFor(1, 1, l2placement.None, l2placement.Hold, authored)
	higher := l2placement.Remap(authored, higherSpan.First.Placement)
	lowerSpan := spanFor(0, 10, l2placement.None, l2placement.None, lower)

	got := CombineSpans(lower, higher, spans(lowerSpan), spans(higherSpan), DefaultConfig(), nil, nil)

	// Every time between the window end and lower's next key reads the
	// held value.
	for _, tt := range []float64{2.5, 5, 9.5} {
		assert.InDelta(t, 200.0, float64(got.Evaluate(tt)), 1e-3, "t=%v", tt)
	}
	assert.Equal(t, float32(10), got.Evaluate(10))
}

func TestCombineSpans_UnsupportedModeFallsBackToNone(t *testing.T) {
	lower := testutil.Flat(0, 0, 5, 5)
	authored := testutil.Flat(0, 100, 1, 200)
	higherSpan := spanFor(2, 1, l2placement.Loop, l2placement.PingPong, authored)
	higher := l2placement.Remap(authored, higherSpan.First.Placement)
	lowerSpan := spanFor(0, 5, l2placement.None, l2placement.None, lower)

	report := diag.NewReport()
	got := CombineSpans(lower, higher, spans(lowerSpan), spans(higherSpan), DefaultConfig(), report, &posX)
	assert.Equal(t, 2, report.Count(diag.UnsupportedExtrapolation))

	// One show-through key per gap, none carrying held values.
	require.Equal(t, 6, got.Len())
	for _, k := range got.Keys() {
		if k.Time > 0 && k.Time < 2 {
			assert.Equal(t, lower.Evaluate(k.Time), k.Value)
		}
	}
}

func TestCombineSpans_PlainWithoutSpans(t *testing.T) {
	lower := testutil.Flat(0, 0, 3, 3)
	higher := testutil.Flat(1, 100, 2, 200)
	higherSpan := &l2placement.Span{Start: 1, End: 2}

	got := CombineSpans(lower, higher, nil, spans(higherSpan), DefaultConfig(), nil, nil)
	testutil.AssertCurve(t, got, 0, 0, 1, 100, 2, 200, 3, 3)

	cfg := DefaultConfig()
	cfg.ExtrapolationAware = false
	got = CombineSpans(lower, higher, spans(higherSpan), spans(higherSpan), cfg, nil, nil)
	testutil.AssertCurve(t, got, 0, 0, 1, 100, 2, 200, 3, 3)

	// No span at all: higher's key range is the window.
	got = CombineSpans(lower, higher, nil, nil, DefaultConfig(), nil, nil)
	testutil.AssertCurve(t, got, 0, 0, 1, 100, 2, 200, 3, 3)
}

func TestCombineSpans_LowerShowsThroughBetweenWindows(t *testing.T) {
	lower := testutil.Flat(0, 0, 1, 1, 2, 2, 3, 3, 4, 4, 5, 5, 6, 6, 7, 7, 8, 8, 9, 9, 10, 10)
	lowerSpan := spanFor(0, 10, l2placement.None, l2placement.None, lower)

	authoredA := testutil.Flat(0, 100, 1, 100)
	authoredB := testutil.Flat(0, 200, 1, 200)
	a := spanFor(1, 1, l2placement.None, l2placement.None, authoredA)
	b := spanFor(8, 1, l2placement.None, l2placement.None, authoredB)
	higher := l1curves.NewCurve(append(
		l2placement.Remap(authoredA, a.First.Placement).Keys(),
		l2placement.Remap(authoredB, b.First.Placement).Keys()...)...)

	got := CombineSpans(lower, higher, spans(lowerSpan), spans(b, a), DefaultConfig(), nil, nil)

	for _, tt := range []float64{3, 5, 7} {
		assert.Equal(t, float32(tt), got.Evaluate(tt), "t=%v", tt)
	}
	assert.Equal(t, float32(100), got.Evaluate(1.5))
	assert.Equal(t, float32(200), got.Evaluate(8.5))
	assert.Equal(t, float32(10), got.Evaluate(10))
}

func TestCombineSpans_EmptyGapBetweenWindowsIsSplit(t *testing.T) {
	lower := testutil.Flat(0, 0, 10, 10)
	lowerSpan := spanFor(0, 10, l2placement.None, l2placement.None, lower)

	authoredA := testutil.Flat(0, 100, 1, 100)
	authoredB := testutil.Flat(0, 200, 1, 200)
	a := spanFor(2, 1, l2placement.None, l2placement.Hold, authoredA)
	b := spanFor(7, 1, l2placement.None, l2placement.None, authoredB)
	higher := l1curves.NewCurve(append(
		l2placement.Remap(authoredA, a.First.Placement).Keys(),
		l2placement.Remap(authoredB, b.First.Placement).Keys()...)...)

	cfg := DefaultConfig()
	got := CombineSpans(lower, higher, spans(lowerSpan), spans(a, b), cfg, nil, nil)

	// a holds across the first half of (3, 7); b lets lower show through
	// just before its window.
	assert.InDelta(t, 100.0, float64(got.Evaluate(4)), 1e-3)
	assert.InDelta(t, 100.0, float64(got.Evaluate(5-2*cfg.BoundaryEpsilon)), 1e-3)
	assert.InDelta(t, float64(lower.Evaluate(7-cfg.BoundaryEpsilon)), float64(got.Evaluate(7-cfg.BoundaryEpsilon)), 1e-4)
	assert.Equal(t, float32(0), got.Evaluate(0))
	assert.Equal(t, float32(10), got.Evaluate(10))
}

func TestDetectOverlappingProperties(t *testing.T) {
	posY := testutil.Object("Hips", "localPosition.y")
	posZ := testutil.Object("Hips", "localPosition.z")
	a := testutil.Set(map[l1curves.ChannelKey]*l1curves.Curve{posX: testutil.Flat(0, 1), posY: testutil.Flat(0, 1)})
	b := testutil.Set(map[l1curves.ChannelKey]*l1curves.Curve{posY: testutil.Flat(0, 1), posZ: testutil.Flat(0, 1)})

	assert.Equal(t, []l1curves.ChannelKey{posY}, DetectOverlappingProperties(a, b))
	assert.Empty(t, DetectOverlappingProperties(a, l1curves.NewChannelSet()))
}
