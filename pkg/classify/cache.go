package classify

import (
	"sync"
)

// Func classifies one value.
type Func func(value string) (string, error)

// CacheStats counts cache lookups.
type CacheStats struct {
	Hits   uint64
	Misses uint64
}

type cacheEntry struct {
	label      string
	generation uint64
}

// RollingCache memoizes classification results for a bounded window of rows.
// Row r belongs to generation r/window; an entry written in an older
// generation is treated as a miss. The cache only ever returns what the
// wrapped function would return, so it never changes results.
//
// A window of zero or less disables caching.
type RollingCache struct {
	classify Func
	window   uint64

	mu         sync.Mutex
	entries    map[string]cacheEntry
	generation uint64
	stats      CacheStats
}

// NewRollingCache wraps fn with a cache of the given row window.
func NewRollingCache(fn Func, window int) *RollingCache {
	c := &RollingCache{classify: fn}
	if window > 0 {
		c.window = uint64(window)
		c.entries = make(map[string]cacheEntry)
	}
	return c
}

// Enabled reports whether lookups are memoized.
func (c *RollingCache) Enabled() bool {
	return c.window > 0
}

// LookupOrClassify returns the label for value seen on the given 0-based
// data row and whether it came from the cache.
func (c *RollingCache) LookupOrClassify(value string, row uint64) (string, bool, error) {
	if c.window == 0 {
		label, err := c.classify(value)
		return label, false, err
	}

	gen := row / c.window

	c.mu.Lock()
	if gen != c.generation {
		// new window: drop everything from older windows
		clear(c.entries)
		c.generation = gen
	}
	if e, ok := c.entries[value]; ok && e.generation == gen {
		c.stats.Hits++
		c.mu.Unlock()
		return e.label, true, nil
	}
	c.stats.Misses++
	c.mu.Unlock()

	label, err := c.classify(value)
	if err != nil {
		return "", false, err
	}

	c.mu.Lock()
	if gen == c.generation {
		c.entries[value] = cacheEntry{label: label, generation: gen}
	}
	c.mu.Unlock()
	return label, false, nil
}

// Stats returns a snapshot of hit and miss counts.
func (c *RollingCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Len returns the number of live entries.
func (c *RollingCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
