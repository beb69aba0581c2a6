// Package memory implements a bounded, insertion-order (LRU) cache backend.
//
// A single Mutex guards the map and list. The resident byte, insert and
// eviction counters are atomics, so Stats() takes the lock only to read the
// current entry count.
package memory

import (
	"container/list"
	"sync"
	"sync/atomic"

	"github.com/ditsuke/cachegate/internal/logger"
	"github.com/ditsuke/cachegate/pkg/cachekey"
)

type entry struct {
	key         cachekey.Key
	bytes       []byte
	contentType string
}

// Cache is a bounded map with insertion-order eviction: Get promotes to
// most-recently-used, Put evicts from the least-recently-used end once the
// configured memory cap is exceeded.
type Cache struct {
	maxMemory int64

	mu       sync.Mutex
	ll       *list.List // front = most recently used
	elements map[cachekey.Key]*list.Element

	residentBytes atomic.Int64
	inserts       atomic.Int64
	evictions     atomic.Int64
}

// New builds a memory-only cache backend with the given hard byte cap.
func New(maxMemory int64) *Cache {
	return &Cache{
		maxMemory: maxMemory,
		ll:        list.New(),
		elements:  make(map[cachekey.Key]*list.Element),
	}
}

// Get returns the entry for key, promoting it to most-recently-used on hit.
func (c *Cache) Get(key cachekey.Key) (cachekey.Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.elements[key]
	if !ok {
		return cachekey.Entry{}, false
	}
	c.ll.MoveToFront(el)
	e := el.Value.(*entry)
	return cachekey.Entry{Bytes: e.bytes, ContentType: e.contentType}, true
}

// Put admits bytes under key. Oversized payloads (relative to maxMemory)
// are rejected outright; otherwise the LRU end is evicted until the entry
// fits.
func (c *Cache) Put(key cachekey.Key, bytes []byte, contentType string) {
	size := int64(len(bytes))
	if c.maxMemory > 0 && size > c.maxMemory {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, exists := c.elements[key]; exists {
		old := el.Value.(*entry)
		c.residentBytes.Add(-int64(len(old.bytes)))
		c.ll.Remove(el)
		delete(c.elements, key)
	}

	el := c.ll.PushFront(&entry{key: key, bytes: bytes, contentType: contentType})
	c.elements[key] = el
	c.residentBytes.Add(size)
	c.inserts.Add(1)

	if c.maxMemory <= 0 {
		return
	}
	for c.residentBytes.Load() > c.maxMemory {
		back := c.ll.Back()
		if back == nil {
			break
		}
		victim := back.Value.(*entry)
		c.ll.Remove(back)
		delete(c.elements, victim.key)
		c.residentBytes.Add(-int64(len(victim.bytes)))
		c.evictions.Add(1)
		logger.Debug("memory cache eviction",
			logger.Bucket(victim.key.Bucket), logger.Path(victim.key.Path))
	}
}

// Stats returns a lock-free snapshot of counters plus a locked read of the
// current entry count.
func (c *Cache) Stats() cachekey.Stats {
	c.mu.Lock()
	entries := int64(c.ll.Len())
	c.mu.Unlock()

	return cachekey.Stats{
		Inserts:   c.inserts.Load(),
		Entries:   entries,
		Bytes:     c.residentBytes.Load(),
		Evictions: c.evictions.Load(),
	}
}
