package btree

import (
	"fmt"

	"genebank/page"
)

// Traverse calls visit for every key in ascending key order. It never mutates the tree or the
// cache. A visit error stops the walk and is returned as is.
func (bt *BTree) Traverse(visit func(freq uint32, key uint64) error) error {
	if bt.Empty() {
		return nil
	}
	return bt.traverse(visit, bt.RootOffset)
}

func (bt *BTree) traverse(visit func(uint32, uint64) error, offset int64) error {
	node, err := bt.store.Read(offset)
	if err != nil {
		return fmt.Errorf("failed to load node: %w", err)
	}

	leaf := node.IsLeaf()
	for i := 0; i < node.NumKeys; i++ {
		if !leaf {
			if err := bt.traverse(visit, node.Children[i]); err != nil {
				return err
			}
		}
		if err := visit(node.Keys[i].Freq, node.Keys[i].Key); err != nil {
			return err
		}
	}
	if !leaf {
		return bt.traverse(visit, node.Children[node.NumKeys])
	}
	return nil
}

// Entries collects the whole traversal in memory.
func (bt *BTree) Entries() ([]page.KeyFreq, error) {
	var entries []page.KeyFreq
	err := bt.Traverse(func(freq uint32, key uint64) error {
		entries = append(entries, page.KeyFreq{Key: key, Freq: freq})
		return nil
	})
	return entries, err
}
