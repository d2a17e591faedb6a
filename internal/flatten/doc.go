// Package flatten groups the stages of the animation flattening engine.
//
// Stacks of time-shifted placements are merged into one channel set in
// six layers:
//
//	l1curves    keyframes, Hermite curves, channel keys and sets
//	l2placement time remapping and extrapolation of one placement
//	l3tracks    per-stack curve building
//	l4override  priority override and multi-stack folding
//	l5paths     path correction against a target hierarchy
//	l6offset    root position/rotation offset injection
//
// A layer may import lower-numbered layers and diag, never a higher one.
// The pipeline package wires the layers together behind Merge.
package flatten
