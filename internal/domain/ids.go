// Package domain holds the value types the simulation core is built from:
// nodes, edges, their mutable per-turn state, group partitions, capacity
// modifiers and the snapshot that bundles them together.
package domain

// NodeID is a dense, zero-based index into a Graph's node array.
type NodeID int

// EdgeID is a dense, zero-based index into a Graph's edge array.
type EdgeID int

// GroupID is a dense, zero-based index into a GroupSet's group array.
type GroupID int
