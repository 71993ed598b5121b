// Package rbtree provides an ordered, self-balancing binary search tree
// (a red-black tree) under a caller-supplied total order, with worst-case
// O(log n) insert, delete, and search.
//
// The balancing algorithm is written once against a storage seam and runs
// over two interchangeable node-storage backends:
//
//   - ArenaTree keeps nodes in a growable slot arena owned by an Arena.
//     Handles are stable uint32 indices, freed slots are recycled through
//     a gap set, and a dormant arena can be compressed in place with
//     Hibernate/Boot. Several trees may share one Arena.
//   - HeapTree allocates each node individually and links nodes by
//     pointer, with one shared black sentinel per tree.
//
// Both backends produce bit-for-bit identical topologies and colors for
// the same operation sequence; only memory management differs.
//
// Duplicate keys are permitted: ties descend right on insert, every
// duplicate is reachable by search equality, and Delete removes exactly
// one matching node (which one among equals is unspecified).
//
// Trees are safe for concurrent reads. Any concurrent writer requires
// external synchronization; no operation blocks or performs I/O.
package rbtree
