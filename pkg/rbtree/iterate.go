package rbtree

import "iter"

// Ascend applies fn to every key from smallest to largest. Iteration
// stops early when fn returns false. The tree must not be mutated while
// iterating.
func (t *tree[H, K]) Ascend(fn func(K) bool) {
	s := t.store
	nilH := s.sentinel()

	for h := t.firstHandle(); h != nilH; h = t.successor(h) {
		if !fn(s.key(h)) {
			return
		}
	}
}

// Descend applies fn to every key from largest to smallest. Iteration
// stops early when fn returns false.
func (t *tree[H, K]) Descend(fn func(K) bool) {
	s := t.store
	nilH := s.sentinel()

	for h := t.lastHandle(); h != nilH; h = t.predecessor(h) {
		if !fn(s.key(h)) {
			return
		}
	}
}

// All returns an iterator over the keys in ascending order, usable in a
// range-over-func loop.
func (t *tree[H, K]) All() iter.Seq[K] {
	return func(yield func(K) bool) {
		t.Ascend(yield)
	}
}

// maximum returns the rightmost node of the subtree rooted at h.
// h must not be the sentinel.
func (t *tree[H, K]) maximum(h H) H {
	s := t.store

	for s.child(h, right) != s.sentinel() {
		h = s.child(h, right)
	}

	return h
}

// predecessor returns the node holding the previous key in order before
// h, or the sentinel when h holds the minimum.
func (t *tree[H, K]) predecessor(h H) H {
	s := t.store
	nilH := s.sentinel()

	if s.child(h, left) != nilH {
		return t.maximum(s.child(h, left))
	}

	p := s.parent(h)
	for p != nilH && h == s.child(p, left) {
		h = p
		p = s.parent(p)
	}

	return p
}

// lastHandle returns the maximum node, or the sentinel when empty.
func (t *tree[H, K]) lastHandle() H {
	if t.root == t.store.sentinel() {
		return t.root
	}

	return t.maximum(t.root)
}
