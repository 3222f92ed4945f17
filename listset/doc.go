// Package listset implements two concurrent sorted-set data structures
// backed by a singly linked list: FineGrainedSet, which lock-couples a
// sync.Mutex per node (hand-over-hand locking), and OptimisticFineGrainedSet,
// which lock-couples a lock.SeqLock per node instead, optimistically
// reading ahead and restarting a traversal whenever a write invalidates
// what it read.
package listset
