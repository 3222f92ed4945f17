// Package adt holds the shared abstract-data-type interfaces and
// model-based stress-test helpers used across this module's concurrent
// container packages (lockfree, listset, hashlist, bst), so the same
// sequential and concurrent stress harness can run against every
// implementation instead of each package growing its own copy.
package adt
