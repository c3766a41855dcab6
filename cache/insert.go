package cache

import "genebank/page"

// Touch moves n to the front, replacing any older handle for the same offset, and evicts the
// tail once the cache holds more than MaxSize nodes.
func (cache *Cache) Touch(n *page.Node) {
	if element, found := cache.Entries[n.Offset()]; found {
		cache.LruList.Remove(element)
	}
	cache.Entries[n.Offset()] = cache.LruList.PushFront(n)

	if cache.LruList.Len() > cache.MaxSize {
		cache.evictLRU()
	}
}
