// Package testutil provides shared test utilities and fixtures.
//
// Curve fixtures are written as flat (time, value) pairs so tables stay
// readable; helpers take a small T interface so they can be exercised
// against a recorder in their own tests.
package testutil

import (
	"github.com/google/go-cmp/cmp"

	"github.com/banshee-data/animflatten/internal/flatten/l1curves"
	"github.com/banshee-data/animflatten/internal/flatten/l2placement"
)

// T is the subset of testing.TB the helpers need.
type T interface {
	Helper()
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t T, err error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
}

// Flat builds a curve of zero-tangent keys from (time, value) pairs.
// A trailing unpaired time is ignored.
func Flat(pairs ...float64) *l1curves.Curve {
	keys := make([]l1curves.Keyframe, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		keys = append(keys, l1curves.FlatKey(pairs[i], float32(pairs[i+1])))
	}
	return l1curves.NewCurve(keys...)
}

// Pairs flattens a curve back into (time, value) pairs for compact comparisons.
func Pairs(c *l1curves.Curve) []float64 {
	out := make([]float64, 0, 2*c.Len())
	for _, k := range c.Keys() {
		out = append(out, k.Time, float64(k.Value))
	}
	return out
}

// AssertCurve reports a diff when got's (time, value) pairs differ from want.
func AssertCurve(t T, got *l1curves.Curve, want ...float64) {
	t.Helper()
	if diff := cmp.Diff(want, Pairs(got)); diff != "" {
		t.Errorf("curve mismatch (-want +got):\n%s", diff)
	}
}

// Object returns an ordinary object channel key.
func Object(path, property string) l1curves.ChannelKey {
	return l1curves.ChannelKey{Path: path, Kind: l1curves.KindObject, Property: property}
}

// Set builds a channel set from a key to curve map.
func Set(entries map[l1curves.ChannelKey]*l1curves.Curve) *l1curves.ChannelSet {
	s := l1curves.NewChannelSet()
	for k, c := range entries {
		s.Set(k, c)
	}
	return s
}

// Placement returns a unit-speed placement over [start, start+duration]
// authoring the given channels.
func Placement(name string, start, duration float64, curves *l1curves.ChannelSet) *l2placement.Placement {
	return &l2placement.Placement{
		Name:      name,
		Curves:    curves,
		Start:     start,
		Duration:  duration,
		TimeScale: 1,
	}
}
