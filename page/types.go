package page

import (
	"errors"
	"math"
)

const (
	// NoChild marks an unused child slot. It is never a valid record offset.
	NoChild int64 = -1

	// EmptyKey marks an unused key slot in a persisted record.
	EmptyKey uint64 = math.MaxUint64
)

var (
	// ErrStorageIO wraps every read, write or size failure of the underlying medium.
	ErrStorageIO = errors.New("storage i/o failure")

	// ErrCorrupt is returned when a decoded record violates the structural bounds of a node.
	ErrCorrupt = errors.New("corrupt node record")

	// ErrFull is returned by AddKey when the key is new and the node already holds 2t-1 keys.
	// The tree engine resolves it by splitting; it never leaves the btree package.
	ErrFull = errors.New("node is full")
)

// KeyFreq is one key of a node together with the number of times it has been inserted.
type KeyFreq struct {
	Key  uint64 `json:"key"`
	Freq uint32 `json:"freq"`
}

// Node is the in-memory image of one fixed-width record. Its offset is assigned once by
// Store.Allocate and is the node's identity for its whole lifetime.
type Node struct {
	offset   int64
	degree   int
	NumKeys  int
	Keys     []KeyFreq // len 2t-1, left-packed, empty slots hold EmptyKey
	Children []int64   // len 2t, left-packed, empty slots hold NoChild
}
