// Package l6offset owns Layer 6 (Offset) of the flattening data model.
//
// Responsibilities: injecting a rigid translation/rotation offset into the
// root-level position and rotation channels of a merged channel set.
// Key types: Offset, Config.
//
// Dependency rule: L6 may depend on L1 only. It runs last; nothing in
// internal/flatten depends on it except the pipeline.
package l6offset
