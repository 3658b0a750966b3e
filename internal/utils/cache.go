package utils

import (
	"os"
	"sync"
	"time"
)

// FileStamp identifies one version of a file on disk
type FileStamp struct {
	ModTime time.Time `json:"mod_time"`
	Size    int64     `json:"size"`
}

// StampFromInfo builds a stamp from already-fetched file info
func StampFromInfo(info os.FileInfo) FileStamp {
	return FileStamp{ModTime: info.ModTime(), Size: info.Size()}
}

// Matches reports whether both stamps describe the same file version
func (s FileStamp) Matches(other FileStamp) bool {
	return s.ModTime.Equal(other.ModTime) && s.Size == other.Size
}

type stampedEntry[V any] struct {
	value V
	stamp FileStamp
}

// Cache holds values derived from files, such as parsed syntax trees. An
// entry is only returned while the file still has the stamp it was stored
// with; a stale entry is dropped on lookup.
type Cache[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]stampedEntry[V]
	hits    int
	misses  int
}

// NewCache returns an empty cache
func NewCache[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{entries: make(map[K]stampedEntry[V])}
}

// Lookup returns the value stored under key if it was stored with stamp
func (c *Cache[K, V]) Lookup(key K, stamp FileStamp) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if ok && entry.stamp.Matches(stamp) {
		c.hits++
		return entry.value, true
	}
	if ok {
		delete(c.entries, key)
	}
	c.misses++

	var zero V
	return zero, false
}

// Store records value as derived from the file version described by stamp
func (c *Cache[K, V]) Store(key K, value V, stamp FileStamp) {
	c.mu.Lock()
	c.entries[key] = stampedEntry[V]{value: value, stamp: stamp}
	c.mu.Unlock()
}

// Evict drops the entry for key, whatever its stamp
func (c *Cache[K, V]) Evict(key K) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Clear drops every entry and resets the counters
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[K]stampedEntry[V])
	c.hits, c.misses = 0, 0
}

// Stats reports the entry count and the hits and misses since the last Clear
func (c *Cache[K, V]) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return CacheStats{Size: len(c.entries), Hits: c.hits, Misses: c.misses}
}

// CacheStats reports cache occupancy and lookup outcomes
type CacheStats struct {
	Size   int `json:"size" yaml:"size"`
	Hits   int `json:"hits" yaml:"hits"`
	Misses int `json:"misses" yaml:"misses"`
}
