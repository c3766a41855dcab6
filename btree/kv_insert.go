package btree

import (
	"errors"
	"fmt"

	"genebank/page"
)

// Insert records one more occurrence of key.
func (bt *BTree) Insert(key uint64) error {
	if key == page.EmptyKey {
		return fmt.Errorf("%w: key %#x is reserved for empty slots", ErrInvalidArgument, key)
	}

	// A cached node holding key only saves the descent. A miss proves nothing.
	if bt.cache != nil {
		if node := bt.cache.LookupNode(key); node != nil {
			return bt.store.Write(node)
		}
	}

	if bt.Empty() {
		root, err := bt.store.Allocate()
		if err != nil {
			return fmt.Errorf("failed to allocate root node: %w", err)
		}
		bt.RootOffset = root.Offset()
		if _, err := bt.store.AddKey(root, key); err != nil {
			return fmt.Errorf("failed to add key to root node: %w", err)
		}
		return nil
	}

	root, err := bt.store.Read(bt.RootOffset)
	if err != nil {
		return fmt.Errorf("failed to load root node: %w", err)
	}

	if root.IsFull() && !root.Contains(key) {
		newRoot, err := bt.growRoot(root)
		if err != nil {
			return err
		}
		i, _ := newRoot.Search(key)
		child, err := bt.store.Read(newRoot.Children[i])
		if err != nil {
			return fmt.Errorf("failed to load child node: %w", err)
		}
		return bt.insertNonFull([]*page.Node{newRoot}, child, key)
	}

	return bt.insertNonFull(nil, root, key)
}

// growRoot allocates a new root above old and splits old under it.
func (bt *BTree) growRoot(old *page.Node) (*page.Node, error) {
	newRoot, err := bt.store.Allocate()
	if err != nil {
		return nil, fmt.Errorf("failed to allocate root node: %w", err)
	}
	newRoot.Children[0] = old.Offset()
	bt.RootOffset = newRoot.Offset()

	if _, _, err := bt.splitChild(nil, 0, old, newRoot); err != nil {
		return nil, fmt.Errorf("failed to split root node: %w", err)
	}
	bt.log.Debugw("grew root", "old", old.Offset(), "new", newRoot.Offset())
	return newRoot, nil
}

// insertNonFull adds key below node. path holds the ancestors of node, root first.
func (bt *BTree) insertNonFull(path []*page.Node, node *page.Node, key uint64) error {
	// Duplicates are counted wherever they live, not only in leaves.
	if node.IsLeaf() || node.Contains(key) {
		if _, err := bt.store.AddKey(node, key); err != nil {
			if errors.Is(err, page.ErrFull) {
				return fmt.Errorf("%w: reached full node %d on insert path", page.ErrCorrupt, node.Offset())
			}
			return fmt.Errorf("failed to add key to node %d: %w", node.Offset(), err)
		}
		return nil
	}

	i, _ := node.Search(key)
	child, err := bt.store.Read(node.Children[i])
	if err != nil {
		return fmt.Errorf("failed to load child node: %w", err)
	}

	if child.IsFull() && !child.Contains(key) {
		path, node, err = bt.splitChild(path, i, child, node)
		if err != nil {
			return fmt.Errorf("failed to split child: %w", err)
		}

		// The promoted median may send key to the right of its old slot.
		i, _ = node.Search(key)
		child, err = bt.store.Read(node.Children[i])
		if err != nil {
			return fmt.Errorf("failed to load child node: %w", err)
		}
	}

	return bt.insertNonFull(append(path, node), child, key)
}

// splitChild splits the full child at slot i of parent, promoting its median into parent.
// path holds the ancestors of parent. A full parent is split first, one level up, which may
// move child under the parent's new sibling; the returned path and node are the ones child
// ends up under.
func (bt *BTree) splitChild(path []*page.Node, i int, child, parent *page.Node) ([]*page.Node, *page.Node, error) {
	t := bt.Degree

	if parent.IsFull() {
		var grand *page.Node
		ancestors := path
		if len(path) == 0 {
			g, err := bt.store.Allocate()
			if err != nil {
				return nil, nil, fmt.Errorf("failed to allocate root node: %w", err)
			}
			g.Children[0] = parent.Offset()
			bt.RootOffset = g.Offset()
			grand = g
		} else {
			grand = path[len(path)-1]
			ancestors = path[:len(path)-1]
		}

		slot := grand.ChildSlot(parent.Offset())
		if slot < 0 {
			return nil, nil, fmt.Errorf("%w: node %d is not a child of %d", page.ErrCorrupt, parent.Offset(), grand.Offset())
		}
		gpath, gparent, err := bt.splitChild(ancestors, slot, parent, grand)
		if err != nil {
			return nil, nil, err
		}
		path = append(gpath, gparent)

		if i >= t {
			// child now hangs off parent's new right sibling.
			s := gparent.ChildSlot(parent.Offset())
			parent, err = bt.store.Read(gparent.Children[s+1])
			if err != nil {
				return nil, nil, fmt.Errorf("failed to load sibling node: %w", err)
			}
			i -= t
		}
	}

	sibling, err := bt.store.Allocate()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to allocate sibling node: %w", err)
	}

	for n := 0; n < t-1; n++ {
		if err := bt.store.TransferKey(sibling, child, t); err != nil {
			return nil, nil, err
		}
	}

	if !child.IsLeaf() {
		for n := 0; n < t; n++ {
			sibling.Children[n] = child.Children[n+t]
			child.Children[n+t] = page.NoChild
		}
	}

	copy(parent.Children[i+2:], parent.Children[i+1:])
	parent.Children[i+1] = sibling.Offset()

	// Median goes up; child and parent are persisted by the transfer.
	if err := bt.store.TransferKey(parent, child, t-1); err != nil {
		return nil, nil, err
	}

	if err := bt.store.Write(sibling); err != nil {
		return nil, nil, err
	}

	return path, parent, nil
}
