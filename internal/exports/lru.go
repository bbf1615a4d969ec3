package exports

import (
	"container/list"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/standardbeagle/sigfind/internal/types"
)

// entryLRU is a bounded content-hash-keyed cache of analysis results,
// including memoized failures (nil metadata for unparseable content).
// Grounded on the teacher's internal/semantic/lru_cache.go: a
// container/list for recency order plus a map for O(1) lookup, guarded by
// one mutex since eviction always follows a hit or insert.
type entryLRU struct {
	mu       sync.Mutex
	capacity int
	ll       *list.List
	items    map[uint64]*list.Element
}

type lruEntry struct {
	key   uint64
	value *types.ExportsMetadata
}

func newEntryLRU(capacity int) *entryLRU {
	if capacity < 1 {
		capacity = 1
	}
	return &entryLRU{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[uint64]*list.Element, capacity),
	}
}

func (c *entryLRU) get(key uint64) (*types.ExportsMetadata, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.items[key]
	if !ok {
		return nil, false
	}
	c.ll.MoveToFront(el)
	return el.Value.(*lruEntry).value, true
}

func (c *entryLRU) put(key uint64, value *types.ExportsMetadata) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		el.Value.(*lruEntry).value = value
		c.ll.MoveToFront(el)
		return
	}
	el := c.ll.PushFront(&lruEntry{key: key, value: value})
	c.items[key] = el
	if c.ll.Len() > c.capacity {
		oldest := c.ll.Back()
		if oldest != nil {
			c.ll.Remove(oldest)
			delete(c.items, oldest.Value.(*lruEntry).key)
		}
	}
}

// contentKey hashes fileName and content together so identical content
// under different names (e.g. a moved file, spec.md's "move resilience"
// scenario) gets distinct cache entries, since export resolution for
// relative-ish metadata can depend on the file's own name.
func contentKey(fileName, content string) uint64 {
	h := xxhash.New()
	_, _ = h.WriteString(fileName)
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(content)
	return h.Sum64()
}
