// Package repository defines the data access interface for the node tree.
//
// The scene core never touches storage; it receives flat node snapshots.
// This package is the host shell's source of those snapshots. The
// implementation lives in the sqlite subpackage.
//
// # Ordering
//
// ListNodes returns nodes in insertion order. Themes are laid out in the
// order they appear, so the order survives restarts and re-imports.
//
// # Deletes
//
// DeleteNode removes the whole subtree below the node.
package repository
