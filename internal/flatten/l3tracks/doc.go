// Package l3tracks owns Layer 3 (Tracks) of the flattening data model.
//
// Responsibilities: merging every placement of one priority stack into a
// single curve per channel, and describing which part of the timeline each
// stack claims per channel.
// Key types: Stack, Config.
//
// Dependency rule: L3 may depend on L1-L2, but never on L4+.
package l3tracks
