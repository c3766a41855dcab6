package page

import (
	"encoding/binary"
	"fmt"
)

// Record layout, big-endian, fixed width for a given degree t:
//
//	offset    int64
//	numKeys   int64
//	children  2t x int64         (NoChild when unused)
//	keys      (2t-1) x {uint64 key, uint32 freq}   (EmptyKey, 0 when unused)
//
// Frequencies saturate at math.MaxUint32 and never wrap back to 0.
const (
	headerSize = 16
	childSize  = 8
	keySize    = 12
)

// RecordSize is the byte width of every node record of a tree with the given degree.
func RecordSize(degree int) int {
	return headerSize + MaxChildren(degree)*childSize + MaxKeys(degree)*keySize
}

// OptimalDegree is the largest degree whose record fits in blockSize bytes.
func OptimalDegree(blockSize int) int {
	t := 1
	for RecordSize(t+1) <= blockSize {
		t++
	}
	return t
}

func (n *Node) encode(buf []byte) {
	binary.BigEndian.PutUint64(buf[0:], uint64(n.offset))
	binary.BigEndian.PutUint64(buf[8:], uint64(n.NumKeys))
	pos := headerSize
	for _, c := range n.Children {
		binary.BigEndian.PutUint64(buf[pos:], uint64(c))
		pos += childSize
	}
	for _, kf := range n.Keys {
		binary.BigEndian.PutUint64(buf[pos:], kf.Key)
		binary.BigEndian.PutUint32(buf[pos+8:], kf.Freq)
		pos += keySize
	}
}

func decode(buf []byte, degree int, offset int64) (*Node, error) {
	n := newNode(degree, offset)

	self := int64(binary.BigEndian.Uint64(buf[0:]))
	if self != offset {
		return nil, fmt.Errorf("%w: record at %d claims offset %d", ErrCorrupt, offset, self)
	}
	numKeys := int64(binary.BigEndian.Uint64(buf[8:]))
	if numKeys < 0 || numKeys > int64(MaxKeys(degree)) {
		return nil, fmt.Errorf("%w: record at %d has %d keys, capacity %d", ErrCorrupt, offset, numKeys, MaxKeys(degree))
	}
	n.NumKeys = int(numKeys)

	pos := headerSize
	packed := true
	for i := range n.Children {
		c := int64(binary.BigEndian.Uint64(buf[pos:]))
		pos += childSize
		switch {
		case c == NoChild:
			packed = false
		case c < 0 || !packed:
			return nil, fmt.Errorf("%w: record at %d has invalid child %d in slot %d", ErrCorrupt, offset, c, i)
		}
		n.Children[i] = c
	}

	for i := range n.Keys {
		kf := KeyFreq{
			Key:  binary.BigEndian.Uint64(buf[pos:]),
			Freq: binary.BigEndian.Uint32(buf[pos+8:]),
		}
		pos += keySize
		if i >= n.NumKeys {
			if kf.Key != EmptyKey {
				return nil, fmt.Errorf("%w: record at %d has key in unused slot %d", ErrCorrupt, offset, i)
			}
			continue
		}
		if kf.Key == EmptyKey || kf.Freq == 0 {
			return nil, fmt.Errorf("%w: record at %d has empty key in live slot %d", ErrCorrupt, offset, i)
		}
		if i > 0 && kf.Key <= n.Keys[i-1].Key {
			return nil, fmt.Errorf("%w: record at %d has unordered keys at slot %d", ErrCorrupt, offset, i)
		}
		n.Keys[i] = kf
	}

	return n, nil
}
