// Package cache memoizes expression compilation by source text.
package cache

import (
	"container/list"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/san-kum/calclab/internal/expr"
)

const DefaultSize = 256

type entry struct {
	text     string
	compiled *expr.Compiled
	err      error
}

// Cache holds compiled expressions, including failed compilations, keyed
// by exact text. The least recently used entry is evicted beyond size.
type Cache struct {
	size   int
	mu     sync.Mutex
	items  map[string]*list.Element
	order  *list.List
	flight singleflight.Group
	hits   uint64
	misses uint64
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Hits   uint64
	Misses uint64
	Len    int
}

func New(size int) *Cache {
	if size <= 0 {
		size = DefaultSize
	}
	return &Cache{
		size:  size,
		items: make(map[string]*list.Element),
		order: list.New(),
	}
}

// Get returns the compiled form of text, compiling it at most once even
// under concurrent callers.
func (c *Cache) Get(text string) (*expr.Compiled, error) {
	if e, ok := c.lookup(text); ok {
		return e.compiled, e.err
	}

	v, _, _ := c.flight.Do(text, func() (interface{}, error) {
		if e, ok := c.peek(text); ok {
			return e, nil
		}
		compiled, err := expr.Compile(text)
		e := &entry{text: text, compiled: compiled, err: err}
		c.store(e)
		return e, nil
	})
	e := v.(*entry)
	return e.compiled, e.err
}

func (c *Cache) lookup(text string) (*entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.items[text]
	if !ok {
		c.misses++
		return nil, false
	}
	c.hits++
	c.order.MoveToFront(el)
	return el.Value.(*entry), true
}

func (c *Cache) peek(text string) (*entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.items[text]
	if !ok {
		return nil, false
	}
	return el.Value.(*entry), true
}

func (c *Cache) store(e *entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[e.text]; ok {
		return
	}
	c.items[e.text] = c.order.PushFront(e)
	for c.order.Len() > c.size {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*entry).text)
	}
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{Hits: c.hits, Misses: c.misses, Len: c.order.Len()}
}
