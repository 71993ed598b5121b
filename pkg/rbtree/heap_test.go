package rbtree //nolint:testpackage // heap tests inspect sentinel identity and node links

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeapSentinel(t *testing.T) {
	t.Parallel()

	s := newHeapStore[int]()
	nilNode := s.sentinel()

	assert.False(t, s.isRed(nilNode))
	assert.Same(t, nilNode, s.parent(nilNode))
	assert.Same(t, nilNode, s.child(nilNode, left))
	assert.Same(t, nilNode, s.child(nilNode, right))

	// Each store owns its own sentinel.
	other := newHeapStore[int]()
	assert.NotSame(t, nilNode, other.sentinel())
}

func TestHeapAllocLinksToSentinel(t *testing.T) {
	t.Parallel()

	s := newHeapStore[int]()

	h := s.alloc(42)
	assert.True(t, s.isRed(h))
	assert.Equal(t, 42, s.key(h))
	assert.Same(t, s.sentinel(), s.parent(h))
	assert.Same(t, s.sentinel(), s.child(h, left))
	assert.Same(t, s.sentinel(), s.child(h, right))
}

func TestHeapFreeSeversLinks(t *testing.T) {
	t.Parallel()

	s := newHeapStore[int]()

	a := s.alloc(1)
	b := s.alloc(2)
	s.setChild(a, right, b)
	s.setParent(b, a)

	s.free(b)
	assert.Nil(t, b.parent)
	assert.Nil(t, b.children[left])
	assert.Nil(t, b.children[right])
	assert.Equal(t, 0, b.key)
}

func TestHeapFreeSentinelPanics(t *testing.T) {
	t.Parallel()

	s := newHeapStore[int]()
	assert.PanicsWithValue(t, "the sentinel cannot be freed", func() { s.free(s.sentinel()) })
}

func TestHeapTreeBasic(t *testing.T) {
	t.Parallel()

	tree := NewHeap[string]()
	tree.Insert("banana")
	tree.Insert("apple")
	tree.Insert("cherry")

	got, found := tree.Min()
	assert.True(t, found)
	assert.Equal(t, "apple", got)

	got, found = tree.Max()
	assert.True(t, found)
	assert.Equal(t, "cherry", got)

	require.NoError(t, tree.Validate())
}
