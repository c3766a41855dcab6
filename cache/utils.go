package cache

import (
	"container/list"

	"genebank/page"
)

func (cache *Cache) GetSize() int {
	return cache.LruList.Len()
}

func (cache *Cache) GetMaxSize() int {
	return cache.MaxSize
}

// Offsets lists cached node offsets, most recently touched first.
func (cache *Cache) Offsets() []int64 {
	offsets := make([]int64, 0, cache.LruList.Len())
	for element := cache.LruList.Front(); element != nil; element = element.Next() {
		offsets = append(offsets, element.Value.(*page.Node).Offset())
	}
	return offsets
}

func (cache *Cache) Contains(offset int64) bool {
	_, found := cache.Entries[offset]
	return found
}

// HitsAndMisses reports key lookup outcomes since creation or the last Clear.
func (cache *Cache) HitsAndMisses() (uint64, uint64) {
	return cache.hits, cache.misses
}

func (cache *Cache) Clear() {
	cache.LruList = list.New()
	cache.Entries = make(map[int64]*list.Element)
	cache.hits, cache.misses = 0, 0
}
