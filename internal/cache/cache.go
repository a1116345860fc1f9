// Package cache provides thread-safe in-memory caches grouped by namespace.
package cache

import "sync"

type Cache[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]V
	gen   uint64
}

func NewCache[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{
		items: make(map[K]V),
	}
}

func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	val, ok := c.items[key]
	return val, ok
}

func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
}

// Generation changes every time the cache is cleared.
func (c *Cache[K, V]) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gen
}

// SetIfGeneration stores value only if no Clear happened since gen was read.
// A value computed before a clear is dropped instead of resurrecting stale data.
func (c *Cache[K, V]) SetIfGeneration(gen uint64, key K, value V) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return false
	}
	c.items[key] = value
	return true
}

func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[K]V)
	c.gen++
}

// Pool hands out named caches. Clearing a namespace drops every key in it.
type Pool struct {
	mu     sync.Mutex
	spaces map[string]*Cache[string, any]
}

func NewPool() *Pool {
	return &Pool{spaces: make(map[string]*Cache[string, any])}
}

// Namespace returns the cache registered under name, creating it on first use.
func (p *Pool) Namespace(name string) *Cache[string, any] {
	p.mu.Lock()
	defer p.mu.Unlock()
	c, ok := p.spaces[name]
	if !ok {
		c = NewCache[string, any]()
		p.spaces[name] = c
	}
	return c
}

// ClearCache empties the named namespace. Unknown namespaces are ignored.
func (p *Pool) ClearCache(name string) {
	p.mu.Lock()
	c, ok := p.spaces[name]
	p.mu.Unlock()
	if ok {
		c.Clear()
	}
}
