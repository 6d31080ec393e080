package ui

import "container/list"

// labelCacheCapacity bounds the label render cache. Rendering a styled label
// is cheap but happens for every visible row on every frame; the cache keeps
// redraws allocation-free for trees far larger than any real installation.
const labelCacheCapacity = 32 * 1024

// labelKey is the full input tuple of a label render. Two renders with equal
// keys produce identical output within one tree instance, so the cache can
// never serve a stale entry for unchanged inputs.
type labelKey struct {
	nodeID   int
	kind     NodeKind
	expanded bool
	isCursor bool
	isHover  bool
	hasFocus bool
}

type labelEntry struct {
	key      labelKey
	rendered string
}

// labelCache is a fixed-capacity LRU map from render inputs to the styled
// label line. The UI runs on a single goroutine, so no locking is needed.
type labelCache struct {
	capacity int
	entries  map[labelKey]*list.Element
	order    *list.List // front = most recently used
}

func newLabelCache(capacity int) *labelCache {
	if capacity < 1 {
		capacity = 1
	}
	return &labelCache{
		capacity: capacity,
		entries:  make(map[labelKey]*list.Element),
		order:    list.New(),
	}
}

// get returns the cached render for key, marking it most recently used.
func (c *labelCache) get(key labelKey) (string, bool) {
	el, ok := c.entries[key]
	if !ok {
		return "", false
	}
	c.order.MoveToFront(el)
	return el.Value.(*labelEntry).rendered, true
}

// put inserts or refreshes a render. When the cache is full the least
// recently used entry is evicted before insertion, so the capacity bound
// holds unconditionally.
func (c *labelCache) put(key labelKey, rendered string) {
	if el, ok := c.entries[key]; ok {
		el.Value.(*labelEntry).rendered = rendered
		c.order.MoveToFront(el)
		return
	}

	if c.order.Len() >= c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*labelEntry).key)
		}
	}

	c.entries[key] = c.order.PushFront(&labelEntry{key: key, rendered: rendered})
}

// len returns the number of cached entries.
func (c *labelCache) len() int {
	return c.order.Len()
}

// contains reports whether key is cached without touching recency.
func (c *labelCache) contains(key labelKey) bool {
	_, ok := c.entries[key]
	return ok
}
