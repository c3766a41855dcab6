package page

import "math"

func newNode(degree int, offset int64) *Node {
	n := &Node{
		offset:   offset,
		degree:   degree,
		Keys:     make([]KeyFreq, MaxKeys(degree)),
		Children: make([]int64, MaxChildren(degree)),
	}
	for i := range n.Keys {
		n.Keys[i] = KeyFreq{Key: EmptyKey}
	}
	for i := range n.Children {
		n.Children[i] = NoChild
	}
	return n
}

// MaxKeys is the key capacity 2t-1 of a node of degree t.
func MaxKeys(degree int) int { return 2*degree - 1 }

// MaxChildren is the child capacity 2t of a node of degree t.
func MaxChildren(degree int) int { return 2 * degree }

func (n *Node) Offset() int64 { return n.offset }

func (n *Node) Degree() int { return n.degree }

// IsLeaf reports whether the first child slot is empty.
func (n *Node) IsLeaf() bool {
	return n.Children[0] == NoChild
}

func (n *Node) IsFull() bool {
	return n.NumKeys == MaxKeys(n.degree)
}

// Search returns the index of key if it is stored in n. Otherwise it returns the lower bound of
// key, which is also the slot of the child whose subtree would hold it.
func (n *Node) Search(key uint64) (int, bool) {
	low, high := 0, n.NumKeys
	for low < high {
		mid := (low + high) / 2
		switch k := n.Keys[mid].Key; {
		case key > k:
			low = mid + 1
		case key < k:
			high = mid
		default:
			return mid, true
		}
	}
	return low, false
}

// Contains tests membership among the node's own keys only.
func (n *Node) Contains(key uint64) bool {
	_, found := n.Search(key)
	return found
}

// Frequency returns the count stored for key in this node.
func (n *Node) Frequency(key uint64) (uint32, bool) {
	i, found := n.Search(key)
	if !found {
		return 0, false
	}
	return n.Keys[i].Freq, true
}

// ChildSlot returns the slot index holding offset, or -1.
func (n *Node) ChildSlot(offset int64) int {
	for i, c := range n.Children {
		if c == NoChild {
			break
		}
		if c == offset {
			return i
		}
	}
	return -1
}

// NumChildren counts the live, left-packed child slots.
func (n *Node) NumChildren() int {
	count := 0
	for count < len(n.Children) && n.Children[count] != NoChild {
		count++
	}
	return count
}

// insertAt places kf at pos, shifting later keys right. The caller guarantees free capacity.
func (n *Node) insertAt(pos int, kf KeyFreq) {
	if pos < n.NumKeys {
		copy(n.Keys[pos+1:n.NumKeys+1], n.Keys[pos:n.NumKeys])
	}
	n.Keys[pos] = kf
	n.NumKeys++
}

// removeAt drops the key at pos, shifting later keys left and clearing the vacated slot.
func (n *Node) removeAt(pos int) KeyFreq {
	kf := n.Keys[pos]
	copy(n.Keys[pos:n.NumKeys-1], n.Keys[pos+1:n.NumKeys])
	n.NumKeys--
	n.Keys[n.NumKeys] = KeyFreq{Key: EmptyKey}
	return kf
}

// Increment bumps the frequency of the key at index i. Counts saturate at math.MaxUint32.
func (n *Node) Increment(i int) {
	n.Keys[i].Freq = addFreq(n.Keys[i].Freq, 1)
}

func addFreq(a, b uint32) uint32 {
	if a > math.MaxUint32-b {
		return math.MaxUint32
	}
	return a + b
}
