package hazard

import "sync"

var (
	defaultBagOnce sync.Once
	defaultBag     *HazardBag
)

// DefaultBag returns the package's shared, lazily-initialized HazardBag,
// a process-lifetime singleton behind a well-defined accessor.
// Most callers should prefer constructing their own HazardBag (e.g. one
// per lockfree.List) so that unrelated data structures don't contend on
// the same slot list; DefaultBag exists for tests and for collaborators
// that are happy to share a single process-wide bag.
func DefaultBag() *HazardBag {
	defaultBagOnce.Do(func() {
		defaultBag = NewHazardBag()
	})
	return defaultBag
}
