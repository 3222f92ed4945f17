package lockfree

import (
	"unsafe"

	"github.com/dijkstracula/go-concur/hazard"
)

// List is a sorted, lock-free singly linked list keyed by K and ordered by
// cmp. Every method that walks or mutates the list takes an explicit
// *hazard.Retirees: the list itself owns no memory-reclamation state beyond
// the chain of nodes.
type List[K any, V any] struct {
	head node[K, V] // head.next is the real list; head.key/head.value are unused
	cmp  func(a, b K) int
}

// NewList returns an empty list ordered by cmp (negative if a < b, zero if
// equal, positive if a > b).
func NewList[K any, V any](cmp func(a, b K) int) *List[K, V] {
	return &List[K, V]{cmp: cmp}
}

// findFunc is one of the three traversal strategies below, each producing a
// cursor positioned at the first node whose key is >= the search key (or at
// a nil curr if the list has no such node).
type findFunc[K any, V any] func(l *List[K, V], key K, shield *hazard.Shield, retirees *hazard.Retirees) *cursor[K, V]

// findHarris walks the list until it reaches a node whose key is >= key,
// skipping over logically-deleted (marked) nodes as it goes. Once the walk
// stops it bulk-unlinks the whole run of marked nodes between the last
// unmarked node and curr with a single CAS on prev, then retires each
// unlinked node. This amortizes physical unlinking across however many
// deletions happened to land in the same stretch of the list.
func findHarris[K any, V any](l *List[K, V], key K, shield *hazard.Shield, retirees *hazard.Retirees) *cursor[K, V] {
retry:
	cur := &cursor[K, V]{prev: &l.head.next}
	cur.curr, _ = cur.prev.Load()
	prevNext := cur.curr
	// src is the slot cur.curr was read from: cur.prev, or the next field of
	// the last marked node skipped over.
	src := cur.prev

	for {
		if cur.curr == nil {
			cur.found = false
			break
		}
		if _, ok := hazard.TryProtect(shield, cur.curr, src); !ok {
			goto retry
		}
		next, nextTag := cur.curr.next.Load()
		if nextTag == markTag {
			// curr is marked; keep scanning without moving prev forward, so
			// the eventual CAS below unlinks this node too.
			src = &cur.curr.next
			cur.curr = next
			continue
		}

		c := l.cmp(cur.curr.key, key)
		if c < 0 {
			cur.prev = &cur.curr.next
			src = cur.prev
			prevNext = next
			cur.curr = next
			continue
		}
		cur.found = c == 0
		break
	}

	if prevNext != cur.curr {
		if !cur.prev.CompareAndSwap(prevNext, 0, cur.curr, 0) {
			goto retry
		}
		for n := prevNext; n != cur.curr; {
			next, _ := n.next.Load()
			retirees.Retire(unsafe.Pointer(n), func(unsafe.Pointer) {})
			n = next
		}
	}
	return cur
}

// findHarrisMichael is find_harris_michael: every marked node is physically
// unlinked and retired the instant it's encountered, one CAS per node
// rather than one CAS per run.
func findHarrisMichael[K any, V any](l *List[K, V], key K, shield *hazard.Shield, retirees *hazard.Retirees) *cursor[K, V] {
retry:
	cur := &cursor[K, V]{prev: &l.head.next}
	cur.curr, _ = cur.prev.Load()

	for {
		if cur.curr == nil {
			cur.found = false
			return cur
		}
		if _, ok := hazard.TryProtect(shield, cur.curr, cur.prev); !ok {
			goto retry
		}
		next, nextTag := cur.curr.next.Load()
		if nextTag == markTag {
			if !cur.prev.CompareAndSwap(cur.curr, 0, next, 0) {
				goto retry
			}
			retirees.Retire(unsafe.Pointer(cur.curr), func(unsafe.Pointer) {})
			cur.curr = next
			continue
		}

		c := l.cmp(cur.curr.key, key)
		if c < 0 {
			cur.prev = &cur.curr.next
			cur.curr = next
			continue
		}
		cur.found = c == 0
		return cur
	}
}

// findHarrisHerlihyShavit is find_harris_herlihy_shavit: a read-only,
// lookup-only traversal that never unlinks anything and never retries on a
// concurrent mutation, since it doesn't care about marks until it reaches
// the node whose key matches (at which point the mark decides whether the
// match still counts). This makes lookups that use it cheaper than the
// other two strategies at the cost of being unusable for Insert/Delete.
func findHarrisHerlihyShavit[K any, V any](l *List[K, V], key K, shield *hazard.Shield, _ *hazard.Retirees) *cursor[K, V] {
	cur := &cursor[K, V]{prev: &l.head.next}
	cur.curr, _ = cur.prev.Load()

	for {
		if cur.curr == nil {
			cur.found = false
			return cur
		}
		if _, ok := hazard.TryProtect(shield, cur.curr, cur.prev); !ok {
			// Read-only: re-read straight from prev instead of restarting
			// the whole walk, since there is nothing here to undo.
			cur.curr, _ = cur.prev.Load()
			continue
		}
		next, nextTag := cur.curr.next.Load()
		c := l.cmp(cur.curr.key, key)
		if c < 0 {
			cur.prev = &cur.curr.next
			cur.curr = next
			continue
		}
		if c == 0 {
			cur.found = nextTag != markTag
		} else {
			cur.found = false
		}
		return cur
	}
}

func (l *List[K, V]) lookup(key K, retirees *hazard.Retirees, find findFunc[K, V]) (V, bool) {
	shield := retirees.Shield()
	defer shield.Close()

	cur := find(l, key, shield, retirees)
	if !cur.found {
		var zero V
		return zero, false
	}
	return cur.curr.value, true
}

func (l *List[K, V]) insert(key K, value V, retirees *hazard.Retirees, find findFunc[K, V]) bool {
	shield := retirees.Shield()
	defer shield.Close()

	n := newNode(key, value)
	for {
		cur := find(l, key, shield, retirees)
		if cur.found {
			return false
		}
		n.next.Store(cur.curr, 0)
		if cur.prev.CompareAndSwap(cur.curr, 0, n, 0) {
			return true
		}
	}
}

func (l *List[K, V]) delete(key K, retirees *hazard.Retirees, find findFunc[K, V]) (V, bool) {
	shield := retirees.Shield()
	defer shield.Close()

	for {
		cur := find(l, key, shield, retirees)
		if !cur.found {
			var zero V
			return zero, false
		}

		// Mark curr's own next pointer before attempting to physically
		// unlink it, so no inserter can link a new node after a node that's
		// already being removed.
		next, oldTag := cur.curr.next.FetchOrTag(markTag)
		if oldTag == markTag {
			// A racing delete already marked this node; from here on it no
			// longer logically exists, so re-find to get a fresh answer.
			continue
		}

		value := cur.curr.value
		if cur.prev.CompareAndSwap(cur.curr, 0, next, 0) {
			retirees.Retire(unsafe.Pointer(cur.curr), func(unsafe.Pointer) {})
		}
		// Whether or not the CAS above won the race to physically unlink,
		// curr is now marked: the next find pass (by any goroutine) will
		// finish the job. The deletion this call represents already
		// happened logically, so report it as successful either way.
		return value, true
	}
}

// HarrisLookup, HarrisInsert, and HarrisDelete use the bulk-unlinking Harris
// traversal.
func (l *List[K, V]) HarrisLookup(key K, retirees *hazard.Retirees) (V, bool) {
	return l.lookup(key, retirees, findHarris[K, V])
}

func (l *List[K, V]) HarrisInsert(key K, value V, retirees *hazard.Retirees) bool {
	return l.insert(key, value, retirees, findHarris[K, V])
}

func (l *List[K, V]) HarrisDelete(key K, retirees *hazard.Retirees) (V, bool) {
	return l.delete(key, retirees, findHarris[K, V])
}

// HarrisMichaelLookup, HarrisMichaelInsert, and HarrisMichaelDelete use the
// per-node unlink-as-you-go Harris-Michael traversal.
func (l *List[K, V]) HarrisMichaelLookup(key K, retirees *hazard.Retirees) (V, bool) {
	return l.lookup(key, retirees, findHarrisMichael[K, V])
}

func (l *List[K, V]) HarrisMichaelInsert(key K, value V, retirees *hazard.Retirees) bool {
	return l.insert(key, value, retirees, findHarrisMichael[K, V])
}

func (l *List[K, V]) HarrisMichaelDelete(key K, retirees *hazard.Retirees) (V, bool) {
	return l.delete(key, retirees, findHarrisMichael[K, V])
}

// HarrisHerlihyShavitLookup uses the read-only Harris-Herlihy-Shavit
// traversal. HarrisHerlihyShavitInsert and HarrisHerlihyShavitDelete fall
// back to the Harris-Michael traversal for the actual mutation:
// Harris-Herlihy-Shavit has no unlink/insert variant of its own, since
// it's a lookup-only optimization.
func (l *List[K, V]) HarrisHerlihyShavitLookup(key K, retirees *hazard.Retirees) (V, bool) {
	return l.lookup(key, retirees, findHarrisHerlihyShavit[K, V])
}

func (l *List[K, V]) HarrisHerlihyShavitInsert(key K, value V, retirees *hazard.Retirees) bool {
	return l.insert(key, value, retirees, findHarrisMichael[K, V])
}

func (l *List[K, V]) HarrisHerlihyShavitDelete(key K, retirees *hazard.Retirees) (V, bool) {
	return l.delete(key, retirees, findHarrisMichael[K, V])
}
