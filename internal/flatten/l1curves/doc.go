// Package l1curves owns Layer 1 (Curves) of the flattening data model.
//
// Responsibilities: keyframes, immutable cubic-Hermite curves, channel
// keys and channel sets.
// Key types: Keyframe, Curve, ChannelKey, ChannelSet.
//
// Dependency rule: L1 depends on nothing else in internal/flatten.
package l1curves
