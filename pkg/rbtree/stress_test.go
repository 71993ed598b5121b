package rbtree //nolint:testpackage // shares the backend table with the behavioral tests

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lcgKeys yields count keys from the multiplicative congruential
// generator num = num*17 + 255 (mod 2^32). The stream repeats keys on
// long runs, exercising the duplicate path.
func lcgKeys(seed uint32, count int, fn func(uint32)) {
	num := seed

	for range count {
		num = num*17 + 255

		fn(num)
	}
}

func stressBackends() map[string]func() Tree[uint32] {
	return map[string]func() Tree[uint32]{
		"arena": func() Tree[uint32] { return New[uint32]() },
		"heap":  func() Tree[uint32] { return NewHeap[uint32]() },
	}
}

func TestStressRandomInserts(t *testing.T) {
	t.Parallel()

	if testing.Short() {
		t.Skip("skipping million-key stress test in short mode")
	}

	const numKeys = 1_000_000

	for name, newTree := range stressBackends() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			tree := newTree()

			lcgKeys(1, numKeys, tree.Insert)

			assert.Equal(t, numKeys, tree.Len())
			require.NoError(t, tree.Validate())

			// Every generated key must be findable afterwards.
			lcgKeys(1, 1000, func(key uint32) {
				_, found := tree.Search(key)
				assert.True(t, found, "key %d", key)
			})
		})
	}
}

// Paired inserts of i and span-i cover 1..span-1 with the midpoint
// twice; spot deletes at increasing depths must each leave a valid
// tree behind.
func TestStressPairedRangeDeletes(t *testing.T) {
	t.Parallel()

	if testing.Short() {
		t.Skip("skipping million-key sweep test in short mode")
	}

	const span = 1_000_000

	for name, newTree := range stressBackends() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			tree := newTree()

			for i := span / 2; i < span; i++ {
				tree.Insert(uint32(i))
				tree.Insert(uint32(span - i))
			}

			assert.Equal(t, span, tree.Len())
			require.NoError(t, tree.Validate())

			for _, probe := range []uint32{5, 50, 500, 5000, 50000, 500000} {
				_, found := tree.Search(probe)
				require.True(t, found, "probe %d", probe)
			}

			for _, probe := range []uint32{5, 50, 500, 5000, 50000, 500000} {
				got, found := tree.Delete(probe)
				require.True(t, found, "probe %d", probe)
				assert.Equal(t, probe, got)
				require.NoError(t, tree.Validate(), "after deleting %d", probe)
			}

			// The midpoint was inserted twice; one copy survives. Every
			// other probe is gone for good.
			for _, probe := range []uint32{5, 50, 500, 5000, 50000} {
				_, found := tree.Delete(probe)
				assert.False(t, found, "probe %d", probe)

				_, found = tree.Search(probe)
				assert.False(t, found, "probe %d", probe)
			}

			_, found := tree.Search(500000)
			assert.True(t, found)
		})
	}
}

func BenchmarkInsertArena(b *testing.B) {
	tree := New[uint32]()

	b.ReportAllocs()

	num := uint32(1)

	for range b.N {
		num = num*17 + 255

		tree.Insert(num)
	}
}

func BenchmarkInsertHeap(b *testing.B) {
	tree := NewHeap[uint32]()

	b.ReportAllocs()

	num := uint32(1)

	for range b.N {
		num = num*17 + 255

		tree.Insert(num)
	}
}

func BenchmarkSearchArena(b *testing.B) {
	const numKeys = 1 << 16

	tree := New[uint32]()

	lcgKeys(1, numKeys, tree.Insert)

	b.ReportAllocs()
	b.ResetTimer()

	num := uint32(1)

	for range b.N {
		num = num*17 + 255

		tree.Search(num)
	}
}

func BenchmarkDeleteInsertArena(b *testing.B) {
	const numKeys = 1 << 16

	tree := New[uint32]()

	lcgKeys(1, numKeys, tree.Insert)

	b.ReportAllocs()
	b.ResetTimer()

	num := uint32(1)

	for range b.N {
		num = num*17 + 255

		if _, found := tree.Delete(num); found {
			tree.Insert(num)
		}
	}
}
