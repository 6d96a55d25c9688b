package nav

import (
	"container/list"

	"github.com/talgya/hexpath/internal/hexgrid"
)

// PathKey identifies a cached path by its ordered endpoint pair.
type PathKey struct {
	From hexgrid.HexCoord
	To   hexgrid.HexCoord
}

// PathCache is a bounded store of computed paths with least-recently-used
// eviction. Lookups return copies, so callers never hold a reference into
// cached storage.
type PathCache struct {
	capacity int
	entries  map[PathKey]*list.Element
	order    *list.List // front = most recently used
}

type cacheEntry struct {
	key  PathKey
	path []hexgrid.HexCoord
}

// NewPathCache creates a cache holding at most capacity entries.
func NewPathCache(capacity int) *PathCache {
	return &PathCache{
		capacity: capacity,
		entries:  make(map[PathKey]*list.Element),
		order:    list.New(),
	}
}

// Lookup returns a copy of the cached path for the key and promotes the
// entry to most-recently-used. The second return is false on a miss.
func (c *PathCache) Lookup(key PathKey) ([]hexgrid.HexCoord, bool) {
	elem, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(elem)
	stored := elem.Value.(*cacheEntry).path
	path := make([]hexgrid.HexCoord, len(stored))
	copy(path, stored)
	return path, true
}

// Store caches a copy of the path under the key. Empty paths are rejected.
// When the cache is at capacity, the single least-recently-used entry is
// evicted before insertion.
func (c *PathCache) Store(key PathKey, path []hexgrid.HexCoord) {
	if len(path) == 0 || c.capacity <= 0 {
		return
	}

	stored := make([]hexgrid.HexCoord, len(path))
	copy(stored, path)

	if elem, ok := c.entries[key]; ok {
		elem.Value.(*cacheEntry).path = stored
		c.order.MoveToFront(elem)
		return
	}

	if len(c.entries) >= c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*cacheEntry).key)
		}
	}

	c.entries[key] = c.order.PushFront(&cacheEntry{key: key, path: stored})
}

// Invalidate removes every entry whose path contains the hex anywhere in
// its sequence. Returns the number of entries removed.
func (c *PathCache) Invalidate(hex hexgrid.HexCoord) int {
	removed := 0
	for elem := c.order.Front(); elem != nil; {
		next := elem.Next()
		entry := elem.Value.(*cacheEntry)
		if containsCoord(entry.path, hex) {
			c.order.Remove(elem)
			delete(c.entries, entry.key)
			removed++
		}
		elem = next
	}
	return removed
}

// InvalidateAll clears the cache.
func (c *PathCache) InvalidateAll() {
	c.entries = make(map[PathKey]*list.Element)
	c.order.Init()
}

// Len returns the current number of cached entries.
func (c *PathCache) Len() int {
	return len(c.entries)
}
