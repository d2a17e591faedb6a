package l1curves

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelSet_KeysOrdered(t *testing.T) {
	s := NewChannelSet()
	s.Set(ChannelKey{Path: "b", Kind: KindObject, Property: "x"}, EmptyCurve())
	s.Set(ChannelKey{Path: "a", Kind: KindBlendShape, Property: "w"}, EmptyCurve())
	s.Set(ChannelKey{Path: "a", Kind: KindObject, Property: "z"}, EmptyCurve())
	s.Set(ChannelKey{Path: "a", Kind: KindObject, Property: "y"}, EmptyCurve())

	keys := s.Keys()
	require.Len(t, keys, 4)
	assert.Equal(t, ChannelKey{Path: "a", Kind: KindObject, Property: "y"}, keys[0])
	assert.Equal(t, ChannelKey{Path: "a", Kind: KindObject, Property: "z"}, keys[1])
	assert.Equal(t, ChannelKey{Path: "a", Kind: KindBlendShape, Property: "w"}, keys[2])
	assert.Equal(t, "b", keys[3].Path)
	assert.Equal(t, []string{"a", "b"}, s.Paths())
}

func TestChannelSet_SetNilRemoves(t *testing.T) {
	s := NewChannelSet()
	k := ChannelKey{Path: "a", Kind: KindObject, Property: "x"}
	s.Set(k, NewCurve(FlatKey(0, 1)))
	require.True(t, s.Has(k))
	s.Set(k, nil)
	assert.False(t, s.Has(k))
	assert.Equal(t, 0, s.Len())
}

func TestChannelSet_CloneDeep(t *testing.T) {
	s := NewChannelSet()
	k := ChannelKey{Path: "a", Kind: KindObject, Property: "x"}
	c := NewCurve(FlatKey(0, 1))
	s.Set(k, c)

	cl := s.Clone()
	require.NotSame(t, s, cl)
	got, ok := cl.Get(k)
	require.True(t, ok)
	assert.NotSame(t, c, got)
	assert.True(t, s.Equal(cl))

	var nilSet *ChannelSet
	assert.Equal(t, 0, nilSet.Clone().Len())
}

func TestChannelKind_RoundTripNames(t *testing.T) {
	for _, k := range []ChannelKind{KindObject, KindBlendShape, KindRootMotion, KindUnknown} {
		b, err := k.MarshalText()
		require.NoError(t, err)
		var got ChannelKind
		require.NoError(t, got.UnmarshalText(b))
		assert.Equal(t, k, got)
	}
	assert.Equal(t, KindUnknown, ParseChannelKind("material-ish"))

	var zero ChannelKind
	assert.Equal(t, KindObject, zero)
	assert.Equal(t, KindObject, ParseChannelKind(""))
	assert.Equal(t, "ChannelKind(42)", ChannelKind(42).String())
}

func TestSplitProperty(t *testing.T) {
	base, comp := SplitProperty("m_LocalPosition.x")
	assert.Equal(t, "m_LocalPosition", base)
	assert.Equal(t, "x", comp)

	base, comp = SplitProperty("weight")
	assert.Equal(t, "weight", base)
	assert.Equal(t, "", comp)
}
