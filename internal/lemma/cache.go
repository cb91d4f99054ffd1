package lemma

import (
	"container/list"
	"context"
	"sync"
)

// Cache is a bounded, thread-safe LRU wrapper around a Lemmatizer. Lookups
// that hit the cache skip the wrapped lemmatizer entirely; errors are never
// cached. The cache is an explicit dependency to be constructed and injected
// by the caller, not a process-wide singleton.
type Cache struct {
	inner Lemmatizer
	size  int

	mu      sync.Mutex
	entries map[string]*list.Element
	order   *list.List // front is most recently used
}

type cacheEntry struct {
	key   string
	lemma string
}

// DefaultCacheSize bounds the cache when the caller passes a non-positive size
const DefaultCacheSize = 4096

// NewCache wraps a lemmatizer with an LRU cache holding up to size entries
func NewCache(inner Lemmatizer, size int) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &Cache{
		inner:   inner,
		size:    size,
		entries: make(map[string]*list.Element),
		order:   list.New(),
	}
}

// Lemmatize returns the cached lemma or asks the wrapped lemmatizer
func (c *Cache) Lemmatize(ctx context.Context, language, word string) (string, error) {
	key := language + "\x00" + Normalize(word)

	c.mu.Lock()
	if el, ok := c.entries[key]; ok {
		c.order.MoveToFront(el)
		lemma := el.Value.(*cacheEntry).lemma
		c.mu.Unlock()
		return lemma, nil
	}
	c.mu.Unlock()

	lemma, err := c.inner.Lemmatize(ctx, language, word)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; !ok {
		c.entries[key] = c.order.PushFront(&cacheEntry{key: key, lemma: lemma})
		if c.order.Len() > c.size {
			oldest := c.order.Back()
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*cacheEntry).key)
		}
	}
	return lemma, nil
}

// Len returns the number of cached lemmas
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
