// Package helloserver implements the collaborator behind cmd/helloserver:
// a cancellable TCP listener, a single-flight-per-key cache, a bounded
// connection-handling pool, and request statistics. The cache composes
// this module's own lock package the way a real program would, rather
// than reaching past it for sync.Map.
package helloserver

import (
	"sync"

	"github.com/dijkstracula/go-concur/lock"
)

// cacheSlot is one key's memoized result. ready is flipped under the
// slot's own lock exactly once; every caller racing to fill the same key
// sees the flip and returns the already-computed value instead of
// recomputing it.
type cacheSlot[V any] struct {
	ready bool
	value V
}

// Cache memoizes the result of a (possibly expensive) function per key.
// Structurally it is a two-granularity tree: a root PinLock stands for
// the whole table, and each key's entry is its own lock.Lock-guarded
// slot. GetOrInsert only ever pins the root plus takes its own key's
// slot lock, so two calls with different keys never block each other;
// Clear takes the root exclusively, which waits out every in-flight
// GetOrInsert before wiping the table and keeps new ones from starting
// until the wipe is done.
type Cache[K comparable, V any] struct {
	root *lock.PinLock

	mapMu   sync.Mutex
	entries map[K]*lock.Lock[struct{}, cacheSlot[V]]
}

// NewCache returns an empty Cache.
func NewCache[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{
		root:    lock.NewPinLock(),
		entries: make(map[K]*lock.Lock[struct{}, cacheSlot[V]]),
	}
}

// entryFor returns key's slot, allocating one under a brief structural
// lock if this is the first time key has been seen. The slot's own lock
// is not held on return.
func (c *Cache[K, V]) entryFor(key K) *lock.Lock[struct{}, cacheSlot[V]] {
	c.mapMu.Lock()
	defer c.mapMu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		e = lock.New[struct{}](lock.NewSpinLock(), cacheSlot[V]{})
		c.entries[key] = e
	}
	return e
}

// GetOrInsert returns the cached value for key, computing it via f if
// this is the first request for key. Concurrent calls for different keys
// never block one another; concurrent calls for the same key block on
// each other, but f runs at most once per key — whichever caller's slot
// lock wins the race computes the value, and every other caller that was
// waiting observes the slot already marked ready and reuses the result.
func (c *Cache[K, V]) GetOrInsert(key K, f func(K) V) V {
	c.root.Pin()
	defer c.root.Unpin()

	entry := c.entryFor(key)
	g := entry.Lock()
	defer g.Unlock()

	slot := g.Get()
	if !slot.ready {
		slot.value = f(key)
		slot.ready = true
	}
	return slot.value
}

// Clear empties the cache, waiting for every in-flight GetOrInsert to
// finish first.
func (c *Cache[K, V]) Clear() {
	c.root.Lock()
	defer c.root.Unlock()

	c.mapMu.Lock()
	c.entries = make(map[K]*lock.Lock[struct{}, cacheSlot[V]])
	c.mapMu.Unlock()
}
