package btree

import (
	"fmt"

	"genebank/page"
)

// Search returns how many times key was inserted, 0 when it never was.
func (bt *BTree) Search(key uint64) (uint32, error) {
	if bt.cache != nil {
		if freq, ok := bt.cache.LookupFrequency(key); ok {
			return freq, nil
		}
	}

	if bt.Empty() {
		return 0, nil
	}

	root, err := bt.store.Read(bt.RootOffset)
	if err != nil {
		return 0, fmt.Errorf("failed to load root node: %w", err)
	}

	return bt.findInNode(root, key)
}

func (bt *BTree) findInNode(node *page.Node, key uint64) (uint32, error) {
	i, found := node.Search(key)
	if found {
		if bt.cache != nil {
			bt.cache.Touch(node)
		}
		return node.Keys[i].Freq, nil
	}

	if node.IsLeaf() || node.Children[i] == page.NoChild {
		return 0, nil
	}

	child, err := bt.store.Read(node.Children[i])
	if err != nil {
		return 0, fmt.Errorf("failed to load child node: %w", err)
	}

	return bt.findInNode(child, key)
}
