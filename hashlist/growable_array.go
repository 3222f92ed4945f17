package hashlist

import "sync/atomic"

// segmentBits controls both the width of a GrowableArray's fixed
// top-level segment-pointer table and the size of each lazily-allocated
// second-level segment. 2^10 entries per level comfortably covers every
// bucket count this package's load factor will ever ask for in a single
// process.
const segmentBits = 10
const segmentSize = 1 << segmentBits

// segment is a second-level page of slots, allocated in one shot the
// first time any index inside it is touched.
type segment[V any] [segmentSize]atomic.Pointer[V]

// GrowableArray is a sparse, index-addressed array of *V slots realized as
// a 2-level array of segments: a fixed top-level table of segment
// pointers, each lazily CAS-initialized the first time an index inside it
// is requested. This gives O(1) amortized access to segmentSize *
// segmentSize indices without the up-front allocation a flat array would
// need, and without the reader-blocking a resize-and-copy would need; an
// index at or past that bound is out of range.
type GrowableArray[V any] struct {
	top [segmentSize]atomic.Pointer[segment[V]]
}

// NewGrowableArray returns an empty GrowableArray.
func NewGrowableArray[V any]() *GrowableArray[V] {
	return &GrowableArray[V]{}
}

// Get returns the slot for index, allocating its backing segment on first
// use. The returned *atomic.Pointer[V] is a live handle into the array:
// callers CAS it directly rather than going through a setter.
func (a *GrowableArray[V]) Get(index int) *atomic.Pointer[V] {
	seg, off := index>>segmentBits, index&(segmentSize-1)
	s := a.top[seg].Load()
	if s == nil {
		newSeg := new(segment[V])
		if a.top[seg].CompareAndSwap(nil, newSeg) {
			s = newSeg
		} else {
			s = a.top[seg].Load()
		}
	}
	return &s[off]
}
