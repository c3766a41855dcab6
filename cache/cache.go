package cache

import (
	"container/list"
	"fmt"

	"genebank/page"
)

// Cache is a bounded, most-recently-touched-first list of B-tree nodes. Entries are identified by
// node offset. It is an accelerator only: a miss never means the key is absent from the tree.
//
// Key lookups scan every cached node, so the cost grows linearly with MaxSize. Keep it small.
type Cache struct {
	LruList *list.List              // front is most recently touched
	Entries map[int64]*list.Element // offset -> element holding *page.Node
	MaxSize int

	hits   uint64
	misses uint64
}

// NewCache creates a cache that holds at most maxSize nodes.
func NewCache(maxSize int) (*Cache, error) {
	if maxSize < 1 {
		return nil, fmt.Errorf("cache size must be at least 1, got %d", maxSize)
	}
	return &Cache{
		LruList: list.New(),
		Entries: make(map[int64]*list.Element),
		MaxSize: maxSize,
	}, nil
}

// evictLRU removes the least recently touched node.
func (cache *Cache) evictLRU() {
	if element := cache.LruList.Back(); element != nil {
		n := element.Value.(*page.Node)
		cache.LruList.Remove(element)
		delete(cache.Entries, n.Offset())
	}
}
