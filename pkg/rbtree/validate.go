package rbtree

import (
	"errors"
	"fmt"
)

// Validation errors. A non-nil Validate result signals a defect in the
// balancing logic, not a recoverable runtime condition.
var (
	// ErrRootNotBlack is returned when the tree's root is red.
	ErrRootNotBlack = errors.New("root is not black")

	// ErrRedViolation is returned when a red node has a red child.
	ErrRedViolation = errors.New("red node has a red child")

	// ErrBlackHeight is returned when two root-to-sentinel paths pass
	// through different counts of black nodes.
	ErrBlackHeight = errors.New("black-height mismatch")
)

// Validate checks the red-black invariants over the whole tree: the
// root is black, no red node has a red child, and every path from a
// node to a descendant sentinel carries the same count of black nodes.
//
// The check is a full traversal and costs O(n); it exists for tests and
// diagnostics and is never run by the mutation path, which stays
// O(log n).
func (t *tree[H, K]) Validate() error {
	if t.store.isRed(t.root) {
		return ErrRootNotBlack
	}

	err := t.checkRedProperty()
	if err != nil {
		return err
	}

	_, err = t.blackHeight(t.root)

	return err
}

// checkRedProperty walks the tree breadth-first asserting that no red
// node has a red child.
func (t *tree[H, K]) checkRedProperty() error {
	s := t.store
	nilH := s.sentinel()

	if t.root == nilH {
		return nil
	}

	queue := []H{t.root}

	for len(queue) > 0 {
		h := queue[0]
		queue = queue[1:]

		l := s.child(h, left)
		r := s.child(h, right)

		if s.isRed(h) && (s.isRed(l) || s.isRed(r)) {
			return fmt.Errorf("%w: key %v", ErrRedViolation, s.key(h))
		}

		if l != nilH {
			queue = append(queue, l)
		}

		if r != nilH {
			queue = append(queue, r)
		}
	}

	return nil
}

// blackHeight recursively computes the subtree's black-height, failing
// when the left and right heights disagree. Recursion depth is bounded
// by the tree height, at most 2·log₂(n+1) on a valid tree.
func (t *tree[H, K]) blackHeight(h H) (int, error) {
	s := t.store

	if h == s.sentinel() {
		return 0, nil
	}

	lh, err := t.blackHeight(s.child(h, left))
	if err != nil {
		return 0, err
	}

	rh, err := t.blackHeight(s.child(h, right))
	if err != nil {
		return 0, err
	}

	if lh != rh {
		return 0, fmt.Errorf("%w at key %v: left %d, right %d", ErrBlackHeight, s.key(h), lh, rh)
	}

	if !s.isRed(h) {
		lh++
	}

	return lh, nil
}
