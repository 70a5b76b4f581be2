// Package fpcache implements the fingerprint cache used to reuse compiled
// artifacts: a size-bounded LRU with per-entry TTL and explicit hit/miss
// accounting.
package fpcache

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/goliatone/go-mdxcraft/internal/logging"
	"github.com/goliatone/go-mdxcraft/pkg/interfaces"
)

const (
	// DefaultMaxSizeMB is the byte budget used when Options.MaxSizeMB is zero.
	DefaultMaxSizeMB = 10
	// DefaultTTL is the entry lifetime used when Options.TTL is zero.
	DefaultTTL = 5 * time.Minute

	entryOverhead    = 1024
	fallbackSize     = 10 * 1024
	bytesPerMegabyte = 1024 * 1024
)

// Options configures a Cache.
type Options struct {
	MaxSizeMB float64
	// MaxSizeBytes, when positive, takes precedence over MaxSizeMB.
	MaxSizeBytes int64
	TTL          time.Duration
	// Clock overrides time.Now, mostly for tests.
	Clock func() time.Time
	// Logger receives debug entries for expired and evicted keys.
	Logger interfaces.Logger
}

// Entry is a cached value together with its creation time.
type Entry[V any] struct {
	Value     V
	CreatedAt time.Time
}

// Stats summarises the cache state.
type Stats struct {
	SizeBytes    int64
	EntryCount   int
	MaxSizeBytes int64
	HitRate      float64
	Evictions    int64
}

// Cache maps fingerprint keys to entries. It is safe for concurrent use; no
// method blocks while holding the lock.
type Cache[V any] struct {
	mu sync.Mutex

	entries map[string]*node[V]
	// head.next is the least recently used entry, tail.prev the most recent.
	head *node[V]
	tail *node[V]

	currentSize int64
	maxSize     int64
	ttl         time.Duration
	now         func() time.Time
	logger      interfaces.Logger

	hits      int64
	misses    int64
	evictions int64
}

type node[V any] struct {
	key   string
	entry Entry[V]
	size  int64
	prev  *node[V]
	next  *node[V]
}

// New builds a cache, applying defaults for zero options.
func New[V any](opts Options) *Cache[V] {
	maxMB := opts.MaxSizeMB
	if maxMB <= 0 {
		maxMB = DefaultMaxSizeMB
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	maxSize := int64(maxMB * bytesPerMegabyte)
	if opts.MaxSizeBytes > 0 {
		maxSize = opts.MaxSizeBytes
	}
	now := opts.Clock
	if now == nil {
		now = time.Now
	}

	c := &Cache[V]{
		entries: make(map[string]*node[V]),
		head:    &node[V]{},
		tail:    &node[V]{},
		maxSize: maxSize,
		ttl:     ttl,
		now:     now,
		logger:  logging.Or(opts.Logger),
	}
	c.head.next = c.tail
	c.tail.prev = c.head
	return c
}

// Get returns the entry stored under key. Expired entries are deleted and
// reported as absent; a hit moves key to the most recently used position.
// Hit and miss counters are not touched.
func (c *Cache[V]) Get(key string) (Entry[V], bool) {
	c.mu.Lock()
	n, ok := c.entries[key]
	if !ok {
		c.mu.Unlock()
		return Entry[V]{}, false
	}
	if age := c.now().Sub(n.entry.CreatedAt); age > c.ttl {
		c.remove(n)
		c.mu.Unlock()
		c.logger.Debug("mdx.cache.expired", "cache_key", key, "age_ms", age.Milliseconds())
		return Entry[V]{}, false
	}

	c.unlink(n)
	c.pushBack(n)
	entry := n.entry
	c.mu.Unlock()
	return entry, true
}

// Set stores entry under key, replacing any previous entry. Least recently
// used entries are evicted until the new one fits or the cache is empty; an
// entry larger than the whole budget is still inserted.
func (c *Cache[V]) Set(key string, entry Entry[V]) {
	size := EstimateSize(entry.Value)

	c.mu.Lock()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = c.now()
	}
	if existing, ok := c.entries[key]; ok {
		c.remove(existing)
	}

	var evicted []string
	for c.currentSize+size > c.maxSize && c.head.next != c.tail {
		evicted = append(evicted, c.head.next.key)
		c.remove(c.head.next)
		c.evictions++
	}

	n := &node[V]{key: key, entry: entry, size: size}
	c.entries[key] = n
	c.currentSize += size
	c.pushBack(n)
	c.mu.Unlock()

	for _, k := range evicted {
		c.logger.Debug("mdx.cache.evicted", "cache_key", k, "incoming_key", key)
	}
}

// Delete removes key and reports whether an entry was removed.
func (c *Cache[V]) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.entries[key]
	if !ok {
		return false
	}
	c.remove(n)
	return true
}

// Clear empties the cache and resets its counters.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*node[V])
	c.head.next = c.tail
	c.tail.prev = c.head
	c.currentSize = 0
	c.hits = 0
	c.misses = 0
	c.evictions = 0
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// RecordHit increments the hit counter.
func (c *Cache[V]) RecordHit() {
	c.mu.Lock()
	c.hits++
	c.mu.Unlock()
}

// RecordMiss increments the miss counter.
func (c *Cache[V]) RecordMiss() {
	c.mu.Lock()
	c.misses++
	c.mu.Unlock()
}

// Stats returns a snapshot of the cache. HitRate is 0 before any hit or miss
// has been recorded.
func (c *Cache[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	var rate float64
	if total := c.hits + c.misses; total > 0 {
		rate = float64(c.hits) / float64(total)
	}
	return Stats{
		SizeBytes:    c.currentSize,
		EntryCount:   len(c.entries),
		MaxSizeBytes: c.maxSize,
		HitRate:      rate,
		Evictions:    c.evictions,
	}
}

// Keys lists keys from least to most recently used.
func (c *Cache[V]) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, len(c.entries))
	for n := c.head.next; n != c.tail; n = n.next {
		keys = append(keys, n.key)
	}
	return keys
}

// EstimateSize approximates the memory held by value as the length of its JSON
// encoding plus a fixed per-entry overhead. Values that cannot be encoded, or
// whose encoder panics, count as a fixed fallback size.
func EstimateSize(value any) (size int64) {
	defer func() {
		if recover() != nil {
			size = fallbackSize
		}
	}()

	payload, err := json.Marshal(value)
	if err != nil {
		return fallbackSize
	}
	return int64(len(payload)) + entryOverhead
}

func (c *Cache[V]) remove(n *node[V]) {
	c.unlink(n)
	delete(c.entries, n.key)
	c.currentSize -= n.size
}

func (c *Cache[V]) unlink(n *node[V]) {
	n.prev.next = n.next
	n.next.prev = n.prev
	n.prev, n.next = nil, nil
}

func (c *Cache[V]) pushBack(n *node[V]) {
	n.prev = c.tail.prev
	n.next = c.tail
	c.tail.prev.next = n
	c.tail.prev = n
}
