// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cache provides the bounded LRU result cache wrapping the query
// pipeline. Entries key on (trimmed query text, clamped top-K) and are
// cleared wholesale whenever artifacts reload, so a stale ranking can never
// outlive the snapshot that produced it.
package cache

import (
	"strconv"
	"strings"
	"sync"

	"github.com/poiesic/agroqa/core"
)

// DefaultCapacity bounds the cache when no explicit capacity is given.
const DefaultCapacity = 64

// Key identifies one cached ranking.
func Key(query string, topK int) string {
	return strings.TrimSpace(query) + "\x00" + strconv.Itoa(core.ClampTopK(topK))
}

// ResultCache is a fixed-capacity LRU over ranked results, implemented with
// a map plus a doubly linked list for O(1) get, put and eviction. Entries
// are inserted only after a fully successful pipeline run, so the cache
// never needs a repair path.
type ResultCache struct {
	mu       sync.Mutex
	capacity int
	items    map[string]*node
	head     *node // most recently used
	tail     *node // eviction candidate
}

type node struct {
	key     string
	results []core.Result
	prev    *node
	next    *node
}

// New creates a result cache. Capacities below 1 fall back to
// DefaultCapacity.
func New(capacity int) *ResultCache {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &ResultCache{
		capacity: capacity,
		items:    make(map[string]*node),
	}
}

// Get returns the cached ranking for key and marks it most recently used.
// The returned slice is a copy; callers may annotate it freely.
func (c *ResultCache) Get(key string) ([]core.Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.items[key]
	if !ok {
		return nil, false
	}

	c.moveToHead(n)
	return copyResults(n.results), true
}

// Put stores a ranking under key, evicting the least recently used entry
// when the cache is full.
func (c *ResultCache) Put(key string, results []core.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n, ok := c.items[key]; ok {
		n.results = copyResults(results)
		c.moveToHead(n)
		return
	}

	if len(c.items) >= c.capacity {
		c.evictTail()
	}

	n := &node{key: key, results: copyResults(results)}
	c.items[key] = n
	c.addToHead(n)
}

// Clear drops every entry. Called on every successful artifact reload.
func (c *ResultCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*node)
	c.head = nil
	c.tail = nil
}

// Len returns the number of cached rankings.
func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *ResultCache) addToHead(n *node) {
	n.prev = nil
	n.next = c.head
	if c.head != nil {
		c.head.prev = n
	}
	c.head = n
	if c.tail == nil {
		c.tail = n
	}
}

func (c *ResultCache) removeNode(n *node) {
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

func (c *ResultCache) moveToHead(n *node) {
	if n == c.head {
		return
	}
	c.removeNode(n)
	c.addToHead(n)
}

func (c *ResultCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.items, c.tail.key)
	c.removeNode(c.tail)
}

func copyResults(results []core.Result) []core.Result {
	out := make([]core.Result, len(results))
	copy(out, results)
	return out
}
