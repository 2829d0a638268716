// Package match resolves calculated quantities to priced catalog items
// through a cascade of short-circuiting strategies.
package match

import (
	"fmt"

	"construction-cost/catalog"
)

// Cache memoizes resolver output for the duration of one estimation run.
// It is owned by the run, not the resolver: callers create one per estimate
// call and discard it afterwards, so concurrent runs never share state.
type Cache struct {
	entries map[string][]catalog.Item
	hits    int
	misses  int
}

// NewCache creates an empty per-run cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string][]catalog.Item)}
}

func cacheKey(category, quantity, tier string) string {
	return fmt.Sprintf("%s:%s:%s", category, quantity, tier)
}

func (c *Cache) get(category, quantity, tier string) ([]catalog.Item, bool) {
	items, ok := c.entries[cacheKey(category, quantity, tier)]
	if ok {
		c.hits++
	}
	return items, ok
}

func (c *Cache) put(category, quantity, tier string, items []catalog.Item) {
	c.misses++
	c.entries[cacheKey(category, quantity, tier)] = items
}

// Clear drops all entries. Called at estimate entry and exit.
func (c *Cache) Clear() {
	c.entries = make(map[string][]catalog.Item)
	c.hits = 0
	c.misses = 0
}

// Stats returns hit and miss counts, used to verify that repeat resolutions
// never re-scan the catalog.
func (c *Cache) Stats() (hits, misses int) {
	return c.hits, c.misses
}
