package rbtree

import (
	"cmp"
	"maps"
	"math"
	"slices"
	"sync"

	"github.com/Sumatoshi-tech/rbtree/pkg/safeconv"
)

// growCapacityNumerator and growCapacityDenominator define the 3/2
// capacity factor used when a hibernated arena is rebuilt.
const (
	growCapacityNumerator   = 3
	growCapacityDenominator = 2
)

// sentinelIndex is the arena slot reserved for the shared sentinel node.
// It is created at construction, is always black, and never holds a
// meaningful key.
const sentinelIndex uint32 = 0

// slot is one arena-resident node. Links are uint32 indices into the
// owning arena's storage; sentinelIndex means "no node".
type slot[K any] struct {
	key      K
	parent   uint32
	children [2]uint32
	red      bool
}

// Arena owns node storage for one or more ArenaTrees. Handles are
// stable uint32 indices: storage only ever grows by appending, and
// freed slots are recycled through the gap set, so an index issued once
// stays valid until it is freed. The zero-valued slot doubles as the
// sentinel (all links sentinelIndex, black).
//
// A dormant arena can be compressed in place with Hibernate and later
// restored with Boot; a hibernated arena must not be used by any tree
// until it is booted again.
type Arena[K any] struct {
	storage []slot[K]
	gaps    map[uint32]bool

	// Hibernated state: LZ4-compressed link/color planes plus the gap
	// set; keys cannot be byte-plane encoded generically and are parked
	// as a plain slice instead.
	hibernatedLinks   [4][]byte
	hibernatedGaps    []byte
	hibernatedKeys    []K
	hibernatedLen     int
	hibernatedGapsLen int

	// HibernationThreshold suppresses Hibernate below this storage
	// size; compressing tiny arenas is not worth the round trip.
	HibernationThreshold int
}

// NewArena creates an empty arena holding only the sentinel slot.
func NewArena[K any]() *Arena[K] {
	return &Arena[K]{
		storage: make([]slot[K], 1),
		gaps:    map[uint32]bool{},
	}
}

// Size returns the number of slots currently allocated, including the
// sentinel slot and any free gaps.
func (a *Arena[K]) Size() int {
	return len(a.storage)
}

// Used returns the number of live slots, including the sentinel.
func (a *Arena[K]) Used() int {
	if a.storage == nil {
		panic("hibernated arenas cannot be used")
	}

	return len(a.storage) - len(a.gaps)
}

// HibernatedBytes returns the total size of the compressed planes, or
// zero when the arena is not hibernated. Parked keys are not counted.
func (a *Arena[K]) HibernatedBytes() int {
	total := len(a.hibernatedGaps)
	for _, plane := range a.hibernatedLinks {
		total += len(plane)
	}

	return total
}

// Clone copies the arena. Trees bound to the original keep their
// handles valid against the clone, since indices are preserved.
func (a *Arena[K]) Clone() *Arena[K] {
	if a.storage == nil {
		panic("cannot clone a hibernated arena")
	}

	clone := &Arena[K]{
		storage:              make([]slot[K], len(a.storage), cap(a.storage)),
		gaps:                 map[uint32]bool{},
		HibernationThreshold: a.HibernationThreshold,
	}
	copy(clone.storage, a.storage)
	maps.Copy(clone.gaps, a.gaps)

	return clone
}

// store seam implementation.

func (a *Arena[K]) sentinel() uint32 {
	return sentinelIndex
}

func (a *Arena[K]) key(h uint32) K {
	return a.storage[h].key
}

func (a *Arena[K]) setKey(h uint32, key K) {
	a.storage[h].key = key
}

func (a *Arena[K]) isRed(h uint32) bool {
	return a.storage[h].red
}

func (a *Arena[K]) setRed(h uint32, red bool) {
	a.storage[h].red = red
}

func (a *Arena[K]) parent(h uint32) uint32 {
	return a.storage[h].parent
}

func (a *Arena[K]) setParent(h, p uint32) {
	a.storage[h].parent = p
}

func (a *Arena[K]) child(h uint32, dir int) uint32 {
	return a.storage[h].children[dir]
}

func (a *Arena[K]) setChild(h uint32, dir int, c uint32) {
	a.storage[h].children[dir] = c
}

// alloc returns a red node with all links pointing at the sentinel.
// A recycled slot is fully reinitialized before it is exposed; stale
// fields never leak into a new node.
func (a *Arena[K]) alloc(key K) uint32 {
	if a.storage == nil {
		panic("hibernated arenas cannot be used")
	}

	fresh := slot[K]{
		key:      key,
		parent:   sentinelIndex,
		children: [2]uint32{sentinelIndex, sentinelIndex},
		red:      true,
	}

	if len(a.gaps) > 0 {
		var idx uint32
		for idx = range a.gaps {
			break
		}

		delete(a.gaps, idx)
		a.storage[idx] = fresh

		return idx
	}

	if len(a.storage) == math.MaxUint32 {
		panic("arena is full: uint32 handle space exhausted")
	}

	a.storage = append(a.storage, fresh)

	return safeconv.MustIntToUint32(len(a.storage) - 1)
}

// free returns a slot to the gap set. The slot is zeroed immediately so
// freed keys do not pin caller memory.
func (a *Arena[K]) free(h uint32) {
	if a.storage == nil {
		panic("hibernated arenas cannot be used")
	}

	if h == sentinelIndex {
		panic("slot 0 holds the sentinel and cannot be freed")
	}

	if a.gaps[h] {
		panic("double free of arena slot")
	}

	a.storage[h] = slot[K]{}
	a.gaps[h] = true
}

// Hibernate compresses the arena's memory in place. The link and color
// planes are deinterleaved and LZ4-compressed in parallel; keys are
// parked uncompressed. No tree bound to this arena may be used until
// Boot is called.
func (a *Arena[K]) Hibernate() {
	if a.hibernatedLen > 0 {
		panic("cannot hibernate an already hibernated arena")
	}

	if len(a.storage) < a.HibernationThreshold {
		return
	}

	a.hibernatedLen = len(a.storage)

	planes := [4][]uint32{}
	for idx := range planes {
		planes[idx] = make([]uint32, len(a.storage))
	}

	a.hibernatedKeys = make([]K, len(a.storage))

	// Deinterleaving the node fields gives LZ4 long runs of similar
	// values to work with.
	for idx, nd := range a.storage {
		a.hibernatedKeys[idx] = nd.key
		planes[0][idx] = nd.parent
		planes[1][idx] = nd.children[left]
		planes[2][idx] = nd.children[right]

		if nd.red {
			planes[3][idx] = 1
		}
	}

	a.storage = nil

	wg := &sync.WaitGroup{}
	wg.Add(len(planes) + 1)

	for idx, plane := range planes {
		go func(planeIdx int, buf []uint32) {
			a.hibernatedLinks[planeIdx] = compressUint32Slice(buf)
			planes[planeIdx] = nil

			wg.Done()
		}(idx, plane)
	}

	go func() {
		if len(a.gaps) > 0 {
			a.hibernatedGapsLen = len(a.gaps)

			// Sorted gaps delta-encode into small repetitive values.
			buf := sortedGaps(a.gaps)
			deltaEncodeUint32Slice(buf)
			a.hibernatedGaps = compressUint32Slice(buf)
		}

		a.gaps = nil

		wg.Done()
	}()

	wg.Wait()
}

// Boot reverses Hibernate, decompressing and restoring the arena.
func (a *Arena[K]) Boot() {
	if a.hibernatedLen == 0 {
		// Not hibernated.
		return
	}

	planes := [4][]uint32{}

	wg := &sync.WaitGroup{}
	wg.Add(len(planes) + 1)

	for idx := range planes {
		go func(planeIdx int) {
			planes[planeIdx] = make([]uint32, a.hibernatedLen)
			decompressUint32Slice(a.hibernatedLinks[planeIdx], planes[planeIdx])
			a.hibernatedLinks[planeIdx] = nil

			wg.Done()
		}(idx)
	}

	a.gaps = map[uint32]bool{}

	go func() {
		if a.hibernatedGapsLen > 0 {
			buf := make([]uint32, a.hibernatedGapsLen)
			decompressUint32Slice(a.hibernatedGaps, buf)
			deltaDecodeUint32Slice(buf)

			for _, idx := range buf {
				a.gaps[idx] = true
			}

			a.hibernatedGaps = nil
			a.hibernatedGapsLen = 0
		}

		wg.Done()
	}()

	wg.Wait()

	capSize := (a.hibernatedLen * growCapacityNumerator) / growCapacityDenominator
	a.storage = make([]slot[K], a.hibernatedLen, capSize)

	for idx := range a.storage {
		nd := &a.storage[idx]
		nd.key = a.hibernatedKeys[idx]
		nd.parent = planes[0][idx]
		nd.children[left] = planes[1][idx]
		nd.children[right] = planes[2][idx]
		nd.red = planes[3][idx] > 0
	}

	a.hibernatedKeys = nil
	a.hibernatedLen = 0
}

// sortedGaps flattens the gap set into an ascending slice.
func sortedGaps(gaps map[uint32]bool) []uint32 {
	buf := make([]uint32, 0, len(gaps))
	for idx := range gaps {
		buf = append(buf, idx)
	}

	slices.Sort(buf)

	return buf
}

// ArenaTree is the arena-backed red-black tree, the default backend.
// Nodes live in an Arena; handles are stable uint32 slot indices.
type ArenaTree[K any] struct {
	tree[uint32, K]
	arena *Arena[K]
}

// Compile-time seam and contract checks.
var (
	_ store[uint32, int] = (*Arena[int])(nil)
	_ Tree[int]          = (*ArenaTree[int])(nil)
)

// New creates an arena-backed tree over the natural order of K, with a
// private arena.
func New[K cmp.Ordered]() *ArenaTree[K] {
	return NewFunc(Ordered[K]())
}

// NewFunc creates an arena-backed tree over a caller-supplied order,
// with a private arena.
func NewFunc[K any](less LessFunc[K]) *ArenaTree[K] {
	return NewWithArena(NewArena[K](), less)
}

// NewWithArena creates an arena-backed tree bound to an existing arena.
// Several trees may share one arena; the arena must outlive them all.
func NewWithArena[K any](arena *Arena[K], less LessFunc[K]) *ArenaTree[K] {
	if less == nil {
		panic("rbtree: nil LessFunc")
	}

	t := &ArenaTree[K]{arena: arena}
	t.tree = tree[uint32, K]{
		store: arena,
		less:  less,
		root:  sentinelIndex,
	}

	return t
}

// Arena returns the bound node arena.
func (t *ArenaTree[K]) Arena() *Arena[K] {
	return t.arena
}
