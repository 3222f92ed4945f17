// Package boc implements Behavior-oriented Concurrency: a runtime that
// schedules a closure ("behavior") for exclusive access to a set of
// concurrently owned values ("cowns") without the caller ever taking a
// lock directly.
//
// A behavior enqueues one request per cown, smallest cown address first,
// using a two-phase locking protocol modeled on an MCS queue lock: phase
// one swaps itself onto each cown's tail and waits for the previous
// occupant to finish enqueuing everywhere it needed to be; phase two
// publishes the link back to that occupant and marks itself schedulable.
// Once every cown has granted access the thunk runs on the worker pool
// with exclusive mutable access to each cown's value, and on completion
// the behavior hands each cown off to whatever queued up behind it.
package boc
