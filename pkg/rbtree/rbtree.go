package rbtree

import (
	"cmp"
	"iter"
)

// LessFunc reports whether a orders strictly before b. It must define a
// total order; two keys are considered equal when neither is less than
// the other.
type LessFunc[K any] func(a, b K) bool

// Ordered returns a LessFunc over the natural order of K.
func Ordered[K cmp.Ordered]() LessFunc[K] {
	return func(a, b K) bool { return a < b }
}

// Tree is the contract satisfied by both storage backends. Callers that
// do not care how nodes are stored can program against it; the test
// suite runs once per implementation.
type Tree[K any] interface {
	Insert(key K)
	Delete(key K) (K, bool)
	Search(key K) (K, bool)
	Min() (K, bool)
	Max() (K, bool)
	Len() int
	Clear()
	Ascend(fn func(K) bool)
	Descend(fn func(K) bool)
	All() iter.Seq[K]
	Validate() error
}

// Child directions. The other side of dir is always dir^1, which lets a
// single code path serve both left- and right-handed fixup cases.
const (
	left  = 0
	right = 1
)

// store is the seam between the balancing algorithm and node memory.
// A handle H identifies one node within a backend; handles are compared
// only for equality and are never portable across backends. sentinel()
// returns the designated "no node" handle: one always-black slot shared
// by every absent child and parent link.
//
// alloc returns a fresh red node whose parent and children are the
// sentinel. free releases a node's storage; callers must have rewritten
// every link into the node first.
type store[H comparable, K any] interface {
	sentinel() H
	key(h H) K
	setKey(h H, key K)
	isRed(h H) bool
	setRed(h H, red bool)
	parent(h H) H
	setParent(h H, p H)
	child(h H, dir int) H
	setChild(h H, dir int, c H)
	alloc(key K) H
	free(h H)
}

// tree implements the red-black algorithms once, generically over the
// storage seam. The exported backends embed it.
type tree[H comparable, K any] struct {
	store store[H, K]
	less  LessFunc[K]
	root  H
	size  int
}

// Len returns the number of keys in the tree.
func (t *tree[H, K]) Len() int {
	return t.size
}

// Insert adds key to the tree. Duplicates are kept; an equal key
// descends into the right subtree of the node it ties with.
func (t *tree[H, K]) Insert(key K) {
	s := t.store
	nilH := s.sentinel()

	parent := nilH
	cursor := t.root

	for cursor != nilH {
		parent = cursor

		dir := right
		if t.less(key, s.key(cursor)) {
			dir = left
		}

		cursor = s.child(cursor, dir)
	}

	z := s.alloc(key)
	s.setParent(z, parent)

	switch {
	case parent == nilH:
		t.root = z
	case t.less(key, s.key(parent)):
		s.setChild(parent, left, z)
	default:
		s.setChild(parent, right, z)
	}

	t.insertFixup(z)
	t.size++
}

// Search returns the stored key equal to key, or false if no node
// matches. The descent is read-only.
func (t *tree[H, K]) Search(key K) (K, bool) {
	h, ok := t.lookup(key)
	if !ok {
		var zero K

		return zero, false
	}

	return t.store.key(h), true
}

// Delete removes one node whose key equals key and returns the stored
// key. When no node matches it returns false and the tree is untouched.
// Which node among several equal keys is removed is unspecified beyond
// "the first one the descent reaches".
func (t *tree[H, K]) Delete(key K) (K, bool) {
	s := t.store
	nilH := s.sentinel()

	z, ok := t.lookup(key)
	if !ok {
		var zero K

		return zero, false
	}

	// The node physically detached always has at most one real child:
	// z itself, or z's in-order successor when z has two.
	y := z
	if s.child(z, left) != nilH && s.child(z, right) != nilH {
		y = t.minimum(s.child(z, right))
	}

	x := s.child(y, left)
	if x == nilH {
		x = s.child(y, right)
	}

	// Splice y out. The sentinel's parent field is deliberately written
	// when x is the sentinel: deleteFixup navigates upward through it.
	yp := s.parent(y)
	s.setParent(x, yp)

	switch {
	case yp == nilH:
		t.root = x
	case s.child(yp, left) == y:
		s.setChild(yp, left, x)
	default:
		s.setChild(yp, right, x)
	}

	removed := s.key(z)
	if y != z {
		// z keeps its handle; only the key moves.
		s.setKey(z, s.key(y))
	}

	if !s.isRed(y) {
		// Splicing a black node left one path short a black; repair
		// starting from x.
		t.deleteFixup(x)
	}

	s.free(y)
	t.size--

	return removed, true
}

// Min returns the smallest key in the tree.
func (t *tree[H, K]) Min() (K, bool) {
	if t.root == t.store.sentinel() {
		var zero K

		return zero, false
	}

	return t.store.key(t.minimum(t.root)), true
}

// Max returns the largest key in the tree.
func (t *tree[H, K]) Max() (K, bool) {
	if t.root == t.store.sentinel() {
		var zero K

		return zero, false
	}

	return t.store.key(t.maximum(t.root)), true
}

// Clear removes every node and returns its storage to the backend.
func (t *tree[H, K]) Clear() {
	s := t.store
	nilH := s.sentinel()

	handles := make([]H, 0, t.size)
	for h := t.firstHandle(); h != nilH; h = t.successor(h) {
		handles = append(handles, h)
	}

	for _, h := range handles {
		s.free(h)
	}

	t.root = nilH
	t.size = 0
}

// lookup descends from the root comparing key with each visited node.
func (t *tree[H, K]) lookup(key K) (H, bool) {
	s := t.store
	nilH := s.sentinel()

	cursor := t.root
	for cursor != nilH {
		nodeKey := s.key(cursor)

		switch {
		case t.less(key, nodeKey):
			cursor = s.child(cursor, left)
		case t.less(nodeKey, key):
			cursor = s.child(cursor, right)
		default:
			return cursor, true
		}
	}

	return nilH, false
}

// minimum returns the leftmost node of the subtree rooted at h.
// h must not be the sentinel.
func (t *tree[H, K]) minimum(h H) H {
	s := t.store

	for s.child(h, left) != s.sentinel() {
		h = s.child(h, left)
	}

	return h
}

// successor returns the node holding the next key in order after h, or
// the sentinel when h holds the maximum.
func (t *tree[H, K]) successor(h H) H {
	s := t.store
	nilH := s.sentinel()

	if s.child(h, right) != nilH {
		return t.minimum(s.child(h, right))
	}

	p := s.parent(h)
	for p != nilH && h == s.child(p, right) {
		h = p
		p = s.parent(p)
	}

	return p
}

// firstHandle returns the minimum node, or the sentinel when empty.
func (t *tree[H, K]) firstHandle() H {
	if t.root == t.store.sentinel() {
		return t.root
	}

	return t.minimum(t.root)
}

// rotate promotes x's dir^1-side child y into x's former position:
// rotate(x, left) is a left rotation, rotate(x, right) a right rotation.
// O(1), no descent.
func (t *tree[H, K]) rotate(x H, dir int) {
	s := t.store
	nilH := s.sentinel()

	y := s.child(x, dir^1)

	// y's dir-side subtree becomes x's dir^1-side subtree.
	inner := s.child(y, dir)
	s.setChild(x, dir^1, inner)

	if inner != nilH {
		s.setParent(inner, x)
	}

	// y replaces x under x's old parent, or as root.
	xp := s.parent(x)
	s.setParent(y, xp)

	switch {
	case xp == nilH:
		t.root = y
	case s.child(xp, left) == x:
		s.setChild(xp, left, y)
	default:
		s.setChild(xp, right, y)
	}

	s.setChild(y, dir, x)
	s.setParent(x, y)
}

// insertFixup restores the red-black invariants after z was attached as
// a red leaf. At most two rotations; recoloring may propagate to the
// root. The sentinel is black, so the loop terminates at the root.
func (t *tree[H, K]) insertFixup(z H) {
	s := t.store

	for s.isRed(s.parent(z)) {
		p := s.parent(z)
		g := s.parent(p)

		dir := left
		if s.child(g, right) == p {
			dir = right
		}

		uncle := s.child(g, dir^1)
		if s.isRed(uncle) {
			// Red uncle: recolor and push the violation one level up.
			s.setRed(p, false)
			s.setRed(uncle, false)
			s.setRed(g, true)
			z = g

			continue
		}

		if z == s.child(p, dir^1) {
			// Inner grandchild: rotate it outward first.
			z = p
			t.rotate(z, dir)
			p = s.parent(z)
			g = s.parent(p)
		}

		s.setRed(p, false)
		s.setRed(g, true)
		t.rotate(g, dir^1)
	}

	s.setRed(t.root, false)
}

// deleteFixup restores the invariants after a black node was spliced
// out; x carries the missing black up the tree. At most three rotations.
func (t *tree[H, K]) deleteFixup(x H) {
	s := t.store

	for x != t.root && !s.isRed(x) {
		p := s.parent(x)

		dir := left
		if s.child(p, right) == x {
			dir = right
		}

		w := s.child(p, dir^1)
		if s.isRed(w) {
			// Red sibling: rotate it above p so the remaining cases see
			// a black sibling.
			s.setRed(w, false)
			s.setRed(p, true)
			t.rotate(p, dir)

			w = s.child(p, dir^1)
		}

		if !s.isRed(s.child(w, left)) && !s.isRed(s.child(w, right)) {
			// Both nephews black: paint w red, move the deficiency up.
			s.setRed(w, true)
			x = p

			continue
		}

		if !s.isRed(s.child(w, dir^1)) {
			// Far nephew black, near nephew red: rotate the near nephew
			// over w so the final case applies.
			s.setRed(s.child(w, dir), false)
			s.setRed(w, true)
			t.rotate(w, dir^1)

			w = s.child(p, dir^1)
		}

		// Far nephew red: one rotation at p absorbs the extra black.
		s.setRed(w, s.isRed(p))
		s.setRed(p, false)
		s.setRed(s.child(w, dir^1), false)
		t.rotate(p, dir)

		x = t.root
	}

	s.setRed(x, false)
}
