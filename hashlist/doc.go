// Package hashlist builds a lock-free extensible hash table on top of
// lockfree.List, following Shalev and Shavit's split-ordered list
// construction ("Split-Ordered Lists: Lock-Free Extensible Hash Tables",
// JACM 2006): every key's hash is stored with its bits reversed so that a
// single sorted list simultaneously orders items within a bucket and
// orders buckets relative to one another, and growing the table is just
// raising the bucket count and lazily splicing in new bucket sentinels —
// no item ever needs to move.
//
// GrowableArray is the 2-level, lazily-allocated segmented array the
// construction uses to index buckets without a large up-front allocation;
// SplitOrderedList is the hash table itself.
package hashlist
