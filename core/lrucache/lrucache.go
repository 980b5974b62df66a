// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package lrucache provides thread-safe, fixed-capacity least-recently-used (LRU) caches.

[Cache] holds values of any type. [Blobs] holds byte slices and stores them
zstd-compressed whenever that saves space, so that compressed frames can be
handed out as they are, for example as a zstd-encoded HTTP response body.
*/
package lrucache

import (
	"container/list"
	"errors"
	"sync"
)

var ErrInvalidSize = errors.New("must provide a positive size")

// Cache is a fixed-capacity, least-recently-used cache that is safe for concurrent use.
// Instances must be constructed with [New]; the zero value is not ready for use.
type Cache[V any] struct {
	size  int
	order *list.List // front is the most recently used entry
	items map[string]*list.Element
	mu    sync.Mutex
}

type entry[V any] struct {
	key   string
	value V
}

// New creates a cache holding at most size entries.
//
// It returns an error if size is not a positive integer.
func New[V any](size int) (*Cache[V], error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	return &Cache[V]{
		size:  size,
		order: list.New(),
		items: make(map[string]*list.Element),
	}, nil
}

// Add adds or updates the value for key and marks it as most recently used.
// If the cache is over capacity afterwards, the least recently used entry is
// evicted. Add reports whether an eviction occurred.
func (c *Cache[V]) Add(key string, value V) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.order.MoveToFront(el)
		el.Value.(*entry[V]).value = value

		return false
	}

	c.items[key] = c.order.PushFront(&entry[V]{key: key, value: value})

	if c.order.Len() <= c.size {
		return false
	}

	c.removeElement(c.order.Back())

	return true
}

// Get returns the value for key and marks it as most recently used.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		var zero V

		return zero, false
	}

	c.order.MoveToFront(el)

	return el.Value.(*entry[V]).value, true
}

// Peek returns the value for key without changing the LRU order.
func (c *Cache[V]) Peek(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		var zero V

		return zero, false
	}

	return el.Value.(*entry[V]).value, true
}

// GetOrAdd returns the cached value for key, calling load to produce and
// store it on a miss. Errors from load are returned and nothing is stored.
// Concurrent misses for the same key may each call load.
func (c *Cache[V]) GetOrAdd(key string, load func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	v, err := load()
	if err != nil {
		return v, err
	}

	c.Add(key, v)

	return v, nil
}

// Remove deletes key from the cache and reports whether it was present.
func (c *Cache[V]) Remove(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if ok {
		c.removeElement(el)
	}

	return ok
}

// Keys returns all keys, from the oldest to the newest.
func (c *Cache[V]) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, len(c.items))
	for el := c.order.Back(); el != nil; el = el.Prev() {
		keys = append(keys, el.Value.(*entry[V]).key)
	}

	return keys
}

// Len returns the number of entries.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.order.Len()
}

func (c *Cache[V]) removeElement(el *list.Element) {
	c.order.Remove(el)
	delete(c.items, el.Value.(*entry[V]).key)
}
