package btree

import (
	"fmt"

	"genebank/page"
)

// Verify walks the persisted tree and checks ordering, fill bounds, child counts, uniform leaf
// depth and the absence of shared nodes. It reads through the store only.
func (bt *BTree) Verify() (Report, error) {
	var report Report
	if bt.Empty() {
		return report, nil
	}

	v := &verifier{bt: bt, seen: make(map[int64]bool), leafDepth: -1}
	if err := v.walk(bt.RootOffset, 1, nil, nil); err != nil {
		return report, err
	}
	report.Nodes = v.nodes
	report.Keys = v.keys
	report.Height = v.leafDepth
	return report, nil
}

type verifier struct {
	bt        *BTree
	seen      map[int64]bool
	leafDepth int
	nodes     int
	keys      int
}

// walk checks the subtree at offset whose keys must lie strictly between lo and hi (nil = open).
func (v *verifier) walk(offset int64, depth int, lo, hi *uint64) error {
	if v.seen[offset] {
		return fmt.Errorf("%w: node %d reachable twice", ErrInvariant, offset)
	}
	v.seen[offset] = true

	node, err := v.bt.store.Read(offset)
	if err != nil {
		return fmt.Errorf("failed to load node: %w", err)
	}
	v.nodes++
	v.keys += node.NumKeys

	t := v.bt.Degree
	if offset != v.bt.RootOffset && node.NumKeys < t-1 {
		return fmt.Errorf("%w: node %d holds %d keys, minimum %d", ErrInvariant, offset, node.NumKeys, t-1)
	}
	if offset == v.bt.RootOffset && node.NumKeys == 0 && node.IsLeaf() {
		return fmt.Errorf("%w: root %d is empty", ErrInvariant, offset)
	}

	for i := 0; i < node.NumKeys; i++ {
		k := node.Keys[i].Key
		if (lo != nil && k <= *lo) || (hi != nil && k >= *hi) {
			return fmt.Errorf("%w: key %d of node %d is outside its subtree range", ErrInvariant, k, offset)
		}
	}

	if node.IsLeaf() {
		if v.leafDepth == -1 {
			v.leafDepth = depth
		} else if v.leafDepth != depth {
			return fmt.Errorf("%w: leaf %d at depth %d, expected %d", ErrInvariant, offset, depth, v.leafDepth)
		}
		return nil
	}

	if got := node.NumChildren(); got != node.NumKeys+1 {
		return fmt.Errorf("%w: node %d has %d keys and %d children", ErrInvariant, offset, node.NumKeys, got)
	}

	for i := 0; i <= node.NumKeys; i++ {
		childLo, childHi := lo, hi
		if i > 0 {
			childLo = &node.Keys[i-1].Key
		}
		if i < node.NumKeys {
			childHi = &node.Keys[i].Key
		}
		if node.Children[i] == page.NoChild {
			return fmt.Errorf("%w: node %d misses child %d", ErrInvariant, offset, i)
		}
		if err := v.walk(node.Children[i], depth+1, childLo, childHi); err != nil {
			return err
		}
	}
	return nil
}
