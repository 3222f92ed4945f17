// Package dlist implements a doubly-linked list with owned nodes,
// supporting O(1) push/pop at either end and O(1) splicing of one list
// onto another.
//
// Nodes are ordinary Go pointers reclaimed by the garbage collector; no
// unlink ever needs a manual free.
// List is not safe for concurrent use by itself; a caller wanting shared
// access wraps one in a lock.Lock[Token, *List[T]] the same way
// internal/helloserver's Cache wraps its map entries, rather than this
// package inventing its own synchronization.
package dlist
