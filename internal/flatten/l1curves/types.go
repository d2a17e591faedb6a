package l1curves

import (
	"fmt"
	"strings"
)

// ChannelKind distinguishes how a channel binds to the animated rig.
type ChannelKind int

// The zero value is KindObject, so a channel decoded without a kind binds
// like an ordinary scene-node channel.
const (
	// KindObject is an ordinary scene-node channel (position, rotation, scale, material).
	KindObject ChannelKind = iota
	// KindBlendShape is a deformer blend-weight channel.
	KindBlendShape
	// KindRootMotion is recorded against the rig root rather than a scene node.
	// It is logically rooted regardless of its path.
	KindRootMotion
	// KindUnknown marks channels whose binding type was not recognised.
	KindUnknown
)

var kindNames = map[ChannelKind]string{
	KindUnknown:    "unknown",
	KindObject:     "object",
	KindBlendShape: "blendshape",
	KindRootMotion: "rootmotion",
}

func (k ChannelKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ChannelKind(%d)", int(k))
}

// ParseChannelKind maps a kind name back to its ChannelKind.
// Unrecognised names map to KindUnknown.
func ParseChannelKind(s string) ChannelKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "object", "transform", "":
		return KindObject
	case "blendshape", "blend_shape", "blendweight":
		return KindBlendShape
	case "rootmotion", "root_motion", "root":
		return KindRootMotion
	default:
		return KindUnknown
	}
}

// MarshalText encodes the kind by name.
func (k ChannelKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name.
func (k *ChannelKind) UnmarshalText(b []byte) error {
	*k = ParseChannelKind(string(b))
	return nil
}

// ChannelKey identifies one scalar animatable value. Keys compare by full
// structural equality and are used directly as map keys.
type ChannelKey struct {
	Path     string      `json:"path" yaml:"path"`
	Kind     ChannelKind `json:"kind" yaml:"kind"`
	Property string      `json:"property" yaml:"property"`
}

func (k ChannelKey) String() string {
	return fmt.Sprintf("%s:%s:%s", k.Path, k.Kind, k.Property)
}

// Less orders keys by path, then kind, then property.
func (k ChannelKey) Less(o ChannelKey) bool {
	if k.Path != o.Path {
		return k.Path < o.Path
	}
	if k.Kind != o.Kind {
		return k.Kind < o.Kind
	}
	return k.Property < o.Property
}

// Keyframe is one sample of a curve. Tangents are slopes in value units per second.
type Keyframe struct {
	Time       float64 `json:"time" yaml:"time"`
	Value      float32 `json:"value" yaml:"value"`
	InTangent  float32 `json:"in_tangent" yaml:"in_tangent"`
	OutTangent float32 `json:"out_tangent" yaml:"out_tangent"`
}

// FlatKey returns a keyframe with zero tangents.
func FlatKey(t float64, v float32) Keyframe {
	return Keyframe{Time: t, Value: v}
}

// SplitProperty splits "m_LocalPosition.x" into ("m_LocalPosition", "x").
// A property without a component suffix returns an empty component.
func SplitProperty(property string) (base, component string) {
	i := strings.LastIndexByte(property, '.')
	if i < 0 {
		return property, ""
	}
	return property[:i], property[i+1:]
}
