// Package l5paths owns Layer 5 (Paths) of the flattening data model.
//
// Responsibilities: rewriting channel paths that do not resolve against a
// target hierarchy to the unique node sharing their leaf name.
// Key types: Node, Config.
//
// Dependency rule: L5 may depend on L1, but never on L6.
// It is independent of the time-domain layers L2-L4.
package l5paths
