package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// LRU is a bounded in-process Store. It is used on its own in development
// and as the front tier of [Tiered] in production.
type LRU struct {
	ttl   time.Duration
	clock clockwork.Clock
	cache *lruCache
}

// NewLRU creates an in-memory store holding at most maxEntries entries.
func NewLRU(maxEntries int, ttl time.Duration, clock clockwork.Clock) *LRU {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &LRU{ttl: ttl, clock: clock, cache: newLRUCache(maxEntries)}
}

func (l *LRU) Get(_ context.Context, key string) (Entry, bool, error) {
	e, ok := l.cache.get(key)
	return e, ok, nil
}

func (l *LRU) Put(_ context.Context, key string, payload []byte, sources []string) error {
	l.set(Entry{
		Key:       key,
		Payload:   append([]byte(nil), payload...),
		Sources:   cloneSources(sources),
		ExpiresAt: l.clock.Now().Add(l.ttl),
	})
	return nil
}

// set stores e as-is, keeping its expiry.
func (l *LRU) set(e Entry) {
	l.cache.put(e.Key, e)
}

// lruCache is a simple thread-safe LRU cache of entries.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*node
	head       *node // most recently used
	tail       *node // least recently used
}

type node struct {
	key   string
	value Entry
	prev  *node
	next  *node
}

func newLRUCache(maxEntries int) *lruCache {
	if maxEntries <= 0 {
		maxEntries = 1
	}
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*node),
	}
}

func (c *lruCache) get(key string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.entries[key]
	if !ok {
		return Entry{}, false
	}
	c.moveToFront(n)
	return n.value, true
}

func (c *lruCache) put(key string, value Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n, ok := c.entries[key]; ok {
		n.value = value
		c.moveToFront(n)
		return
	}

	n := &node{key: key, value: value}
	c.entries[key] = n
	c.addToFront(n)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *lruCache) moveToFront(n *node) {
	if n == c.head {
		return
	}
	c.remove(n)
	c.addToFront(n)
}

func (c *lruCache) addToFront(n *node) {
	n.next = c.head
	n.prev = nil
	if c.head != nil {
		c.head.prev = n
	}
	c.head = n
	if c.tail == nil {
		c.tail = n
	}
}

func (c *lruCache) remove(n *node) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		c.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		c.tail = n.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
