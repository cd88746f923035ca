package stage

import (
	"github.com/gogpu/swr/cache"
	"github.com/gogpu/swr/reactor"
)

// DefaultCacheCapacity is the per-stage routine cache size spec.md §3
// names as the default.
const DefaultCacheCapacity = 1024

// buildResult lets RoutineCache ride on cache.SyncCache's build-once
// semantics (the build func returns a plain value, not a (value, error)
// pair) while still surfacing a generation error to every caller
// waiting on that key. A failed build is delivered to the callers
// concurrent with it but, per spec.md §7, is not inserted: GetOrBuild
// uses GetOrCreateFallible so the next lookup for that key retries
// instead of replaying the same failure forever.
type buildResult struct {
	routine *reactor.Routine
	err     error
}

// RoutineCache wraps cache.SyncCache to key on one stage's State type,
// giving the get_or_create semantics spec.md §4.G requires: concurrent
// misses for the same key build exactly once, and the losing callers
// block on that build rather than duplicating it.
type RoutineCache[S comparable] struct {
	sync *cache.SyncCache[S, *buildResult]
}

// NewRoutineCache creates a RoutineCache bounded at capacity (0 or
// negative falls back to DefaultCacheCapacity).
func NewRoutineCache[S comparable](capacity int) *RoutineCache[S] {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &RoutineCache[S]{sync: cache.NewSync[S, *buildResult](capacity)}
}

// GetOrBuild returns the routine cached for key, building it with
// build if this is the first lookup for that key (or the key was
// evicted since).
func (c *RoutineCache[S]) GetOrBuild(key S, build func() (*reactor.Routine, error)) (*reactor.Routine, error) {
	res := c.sync.GetOrCreateFallible(key, func() (*buildResult, bool) {
		r, err := build()
		return &buildResult{routine: r, err: err}, err == nil
	})
	return res.routine, res.err
}

// Len reports the number of tracked entries, including in-flight builds.
func (c *RoutineCache[S]) Len() int { return c.sync.Len() }
