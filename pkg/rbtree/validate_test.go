package rbtree //nolint:testpackage // corruption is injected through the storage seam

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEmptyTree(t *testing.T) {
	t.Parallel()

	require.NoError(t, New[int]().Validate())
	require.NoError(t, NewHeap[int]().Validate())
}

func TestValidateRootNotBlack(t *testing.T) {
	t.Parallel()

	tree := New[int]()
	tree.Insert(1)

	tree.store.setRed(tree.root, true)

	assert.ErrorIs(t, tree.Validate(), ErrRootNotBlack)
}

func TestValidateRedViolation(t *testing.T) {
	t.Parallel()

	// Layout: 5(b) [1(b), 8(b)[7(r), 9(r)]]. Painting 8 red puts two
	// reds in a row on both of its branches.
	tree := testNewFixedTree()
	tree.store.setRed(3, true)

	assert.ErrorIs(t, tree.Validate(), ErrRedViolation)
}

func TestValidateBlackHeightMismatch(t *testing.T) {
	t.Parallel()

	// Painting the black leaf 1 red shortens the left spine by one
	// black node without introducing a red-red pair.
	tree := testNewFixedTree()
	tree.store.setRed(2, true)

	assert.ErrorIs(t, tree.Validate(), ErrBlackHeight)
}

func TestValidateCorruptHeapTree(t *testing.T) {
	t.Parallel()

	tree := NewHeap[int]()

	for _, key := range []int{5, 1, 8, 7, 9} {
		tree.Insert(key)
	}

	require.NoError(t, tree.Validate())

	// Same corruption as the arena case, through the seam.
	h, ok := tree.lookup(8)
	require.True(t, ok)
	tree.store.setRed(h, true)

	assert.ErrorIs(t, tree.Validate(), ErrRedViolation)
}
