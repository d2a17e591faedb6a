// Package l2placement owns Layer 2 (Placement) of the flattening data model.
//
// Responsibilities: mapping an authored curve onto the global timeline
// under one placement's start/trim/speed parameters, and answering what
// value a placement holds outside its active window.
// Key types: Placement, ExtrapolationMode, Span.
//
// Dependency rule: L2 may depend on L1, but never on L3+.
package l2placement
