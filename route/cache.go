package route

import (
	"container/list"
	"sync"

	"github.com/flowtiles/engine/flowfield"
	"github.com/flowtiles/engine/sectorgrid"
)

// DefaultCacheCapacity is the design-default FlowFieldCache size (spec §4.7).
const DefaultCacheCapacity = 64

// SectorFlow pairs a sector with its built FlowField, one entry per hop of
// a route's sector chain, ordered from source to goal.
type SectorFlow struct {
	Sector sectorgrid.SectorID
	Flow   flowfield.Field
}

// Route is the cached, immutable result of a successful build: the ordered
// sector chain and each sector's FlowField.
type Route struct {
	Key   Key
	Chain []SectorFlow
}

// Cache is the FlowFieldCache: an LRU of Route keyed by Key, with
// sector-aware invalidation (spec §4.7's "drop every cached route whose
// sector chain includes S"). Locking is a single mutex guarding both the
// map and the LRU list — reads and writes are both short, so there's no
// call for the RWMutex split the teacher's hotter-path graph code uses.
type Cache struct {
	mu       sync.Mutex
	capacity int
	entries  map[Key]*list.Element // Key -> element holding *cacheEntry
	order    *list.List            // front = most recently used
	bySector map[sectorgrid.SectorID]map[Key]struct{}
}

type cacheEntry struct {
	key   Key
	route Route
}

// NewCache constructs a Cache with the given eviction capacity. A
// non-positive capacity falls back to DefaultCacheCapacity.
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &Cache{
		capacity: capacity,
		entries:  make(map[Key]*list.Element),
		order:    list.New(),
		bySector: make(map[sectorgrid.SectorID]map[Key]struct{}),
	}
}

// Get returns the cached route for key, if present, bumping it to
// most-recently-used.
func (c *Cache) Get(key Key) (Route, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return Route{}, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).route, true
}

// Put inserts or replaces route under its Key, evicting the least-recently
// used entry if the cache is at capacity.
func (c *Cache) Put(route Route) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[route.Key]; ok {
		c.removeElementLocked(el)
	}

	el := c.order.PushFront(&cacheEntry{key: route.Key, route: route})
	c.entries[route.Key] = el
	for _, hop := range route.Chain {
		if c.bySector[hop.Sector] == nil {
			c.bySector[hop.Sector] = make(map[Key]struct{})
		}
		c.bySector[hop.Sector][route.Key] = struct{}{}
	}

	for len(c.entries) > c.capacity {
		back := c.order.Back()
		if back == nil {
			break
		}
		c.removeElementLocked(back)
	}
}

// Invalidate drops every cached route whose sector chain includes s.
func (c *Cache) Invalidate(s sectorgrid.SectorID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := c.bySector[s]
	for key := range keys {
		if el, ok := c.entries[key]; ok {
			c.removeElementLocked(el)
		}
	}
}

// removeElementLocked deletes el from both the LRU list and the index maps.
// Callers must hold c.mu.
func (c *Cache) removeElementLocked(el *list.Element) {
	entry := el.Value.(*cacheEntry)
	c.order.Remove(el)
	delete(c.entries, entry.key)
	for _, hop := range entry.route.Chain {
		if set, ok := c.bySector[hop.Sector]; ok {
			delete(set, entry.key)
			if len(set) == 0 {
				delete(c.bySector, hop.Sector)
			}
		}
	}
}

// Len reports the current number of cached routes.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
