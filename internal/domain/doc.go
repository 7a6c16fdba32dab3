// Package domain defines the core types of the orbit visualization.
//
// # Core Types
//
// Node is one entry of the topic tree supplied by the node repository.
// The tree is flat: parent references link subgraphs to themes and themes
// to the hub.
//
// NodeSet indexes a node snapshot and answers the hub/theme/subgraph
// questions the layout and selection logic ask. It only looks two levels
// below the hub.
//
// LayoutPosition, ViewPose and Selection are plain values. They are
// replaced, never mutated in place, so a renderer can hold the latest
// value without sharing state with the simulation.
//
// # Design Principles
//
// - Immutable value objects where possible
// - No database or external dependencies beyond vector math
// - Degenerate input is defaulted, not rejected
package domain
