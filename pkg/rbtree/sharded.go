package rbtree

import (
	"hash/fnv"
	"sync"
)

// minHibernationThreshold is the minimal per-shard default when the
// requested threshold divides down to zero.
const minHibernationThreshold = 1000

// ShardedArena manages multiple Arenas so that independent trees can be
// hibernated and booted in parallel. Shards are selected by name;
// callers that keep one tree per named entity get stable shard
// affinity.
type ShardedArena[K any] struct {
	shards []*Arena[K]
}

// NewShardedArena creates a ShardedArena with shardCount shards. The
// hibernation threshold is split evenly across shards.
func NewShardedArena[K any](shardCount, hibernationThreshold int) *ShardedArena[K] {
	if shardCount <= 0 {
		shardCount = 1
	}

	shards := make([]*Arena[K], shardCount)

	for idx := range shardCount {
		shards[idx] = NewArena[K]()

		if hibernationThreshold > 0 {
			shards[idx].HibernationThreshold = hibernationThreshold / shardCount
			if shards[idx].HibernationThreshold == 0 {
				shards[idx].HibernationThreshold = minHibernationThreshold
			}
		}
	}

	return &ShardedArena[K]{shards: shards}
}

// Shard returns the arena shard for the given name.
func (sa *ShardedArena[K]) Shard(name string) *Arena[K] {
	hasher := fnv.New32a()
	hasher.Write([]byte(name))

	idx := int(hasher.Sum32()) % len(sa.shards)
	if idx < 0 {
		idx = -idx
	}

	return sa.shards[idx]
}

// Shards returns all underlying arenas.
func (sa *ShardedArena[K]) Shards() []*Arena[K] {
	return sa.shards
}

// Hibernate hibernates all shards in parallel, regardless of their
// individual thresholds.
func (sa *ShardedArena[K]) Hibernate() {
	wg := sync.WaitGroup{}
	wg.Add(len(sa.shards))

	for _, shard := range sa.shards {
		go func(arena *Arena[K]) {
			defer wg.Done()

			// Force hibernation even below threshold.
			originalThreshold := arena.HibernationThreshold
			arena.HibernationThreshold = 0
			arena.Hibernate()
			arena.HibernationThreshold = originalThreshold
		}(shard)
	}

	wg.Wait()
}

// Boot boots all shards in parallel.
func (sa *ShardedArena[K]) Boot() {
	wg := sync.WaitGroup{}
	wg.Add(len(sa.shards))

	for _, shard := range sa.shards {
		go func(arena *Arena[K]) {
			defer wg.Done()

			arena.Boot()
		}(shard)
	}

	wg.Wait()
}
