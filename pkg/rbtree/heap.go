package rbtree

import "cmp"

// heapNode is an individually allocated node. Handles in this backend
// are plain pointers; "no node" is the tree's shared sentinel, never a
// nil pointer, so link traversal needs no nil branches.
type heapNode[K any] struct {
	key      K
	parent   *heapNode[K]
	children [2]*heapNode[K]
	red      bool
}

// heapStore owns the per-tree sentinel: one heap-allocated black node
// created at construction and shared as the placeholder for every
// absent link for the tree's whole lifetime.
type heapStore[K any] struct {
	nilNode *heapNode[K]
}

func newHeapStore[K any]() *heapStore[K] {
	s := &heapStore[K]{nilNode: &heapNode[K]{}}
	s.nilNode.parent = s.nilNode
	s.nilNode.children = [2]*heapNode[K]{s.nilNode, s.nilNode}

	return s
}

// store seam implementation.

func (s *heapStore[K]) sentinel() *heapNode[K] {
	return s.nilNode
}

func (s *heapStore[K]) key(h *heapNode[K]) K {
	return h.key
}

func (s *heapStore[K]) setKey(h *heapNode[K], key K) {
	h.key = key
}

func (s *heapStore[K]) isRed(h *heapNode[K]) bool {
	return h.red
}

func (s *heapStore[K]) setRed(h *heapNode[K], red bool) {
	h.red = red
}

func (s *heapStore[K]) parent(h *heapNode[K]) *heapNode[K] {
	return h.parent
}

func (s *heapStore[K]) setParent(h, p *heapNode[K]) {
	h.parent = p
}

func (s *heapStore[K]) child(h *heapNode[K], dir int) *heapNode[K] {
	return h.children[dir]
}

func (s *heapStore[K]) setChild(h *heapNode[K], dir int, c *heapNode[K]) {
	h.children[dir] = c
}

func (s *heapStore[K]) alloc(key K) *heapNode[K] {
	return &heapNode[K]{
		key:      key,
		parent:   s.nilNode,
		children: [2]*heapNode[K]{s.nilNode, s.nilNode},
		red:      true,
	}
}

// free severs the node's outgoing links and zeroes its key so a spliced
// node pins neither subtrees nor caller memory. Reclamation itself is
// the garbage collector's job; by the time free runs, every link into
// the node has already been rewritten.
func (s *heapStore[K]) free(h *heapNode[K]) {
	if h == s.nilNode {
		panic("the sentinel cannot be freed")
	}

	var zero K

	h.key = zero
	h.parent = nil
	h.children = [2]*heapNode[K]{}
}

// HeapTree is the red-black tree over individually allocated nodes.
// It runs the same balancing algorithm as ArenaTree and produces
// bit-for-bit identical topologies and colors; only node memory
// management differs.
type HeapTree[K any] struct {
	tree[*heapNode[K], K]
}

// Compile-time seam and contract checks.
var (
	_ store[*heapNode[int], int] = (*heapStore[int])(nil)
	_ Tree[int]                  = (*HeapTree[int])(nil)
)

// NewHeap creates a heap-backed tree over the natural order of K.
func NewHeap[K cmp.Ordered]() *HeapTree[K] {
	return NewHeapFunc(Ordered[K]())
}

// NewHeapFunc creates a heap-backed tree over a caller-supplied order.
func NewHeapFunc[K any](less LessFunc[K]) *HeapTree[K] {
	if less == nil {
		panic("rbtree: nil LessFunc")
	}

	s := newHeapStore[K]()

	t := &HeapTree[K]{}
	t.tree = tree[*heapNode[K], K]{
		store: s,
		less:  less,
		root:  s.nilNode,
	}

	return t
}
