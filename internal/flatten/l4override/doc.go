// Package l4override owns Layer 4 (Override) of the flattening data model.
//
// Responsibilities: combining a lower- and a higher-priority curve for one
// channel (full, partial and extrapolation-aware override), and folding
// that operation across stacks ordered from low to high priority.
// Key types: Config.
//
// Dependency rule: L4 may depend on L1-L3, but never on L5+.
package l4override
