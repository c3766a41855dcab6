package cache

import (
	"container/list"

	"genebank/page"
)

// find scans cached nodes most recent first and returns the first one holding key.
func (cache *Cache) find(key uint64) (*list.Element, int) {
	for element := cache.LruList.Front(); element != nil; element = element.Next() {
		n := element.Value.(*page.Node)
		if i, found := n.Search(key); found {
			return element, i
		}
	}
	return nil, -1
}

// LookupFrequency returns the frequency of key if a cached node holds it and promotes that
// node to the front. ok == false only means "ask the tree".
func (cache *Cache) LookupFrequency(key uint64) (freq uint32, ok bool) {
	element, i := cache.find(key)
	if element == nil {
		cache.misses++
		return 0, false
	}
	cache.hits++
	cache.LruList.MoveToFront(element)
	return element.Value.(*page.Node).Keys[i].Freq, true
}

// LookupNode returns the cached node holding key after incrementing that key's frequency in
// memory. The caller must persist the returned node.
func (cache *Cache) LookupNode(key uint64) *page.Node {
	element, i := cache.find(key)
	if element == nil {
		cache.misses++
		return nil
	}
	cache.hits++
	n := element.Value.(*page.Node)
	n.Increment(i)
	return n
}
