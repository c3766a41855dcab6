package btree

import (
	"errors"
	"fmt"

	"genebank/cache"
	"genebank/page"

	"go.uber.org/zap"
)

// MaxDegree bounds the degree so that record widths stay addressable.
const MaxDegree = 1 << 16

var (
	// ErrInvalidArgument reports configuration or keys rejected before any storage access.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvariant is returned by Verify when the persisted structure is not a valid B-tree.
	ErrInvariant = errors.New("b-tree invariant violated")
)

// Config fixes the tree shape and cache policy for the lifetime of a BTree.
type Config struct {
	Degree       int
	CacheEnabled bool
	CacheSize    int
}

func (c Config) Validate() error {
	if c.Degree < 1 || c.Degree > MaxDegree {
		return fmt.Errorf("%w: degree must be between 1 and %d, got %d", ErrInvalidArgument, MaxDegree, c.Degree)
	}
	if c.CacheEnabled && c.CacheSize < 1 {
		return fmt.Errorf("%w: cache size must be at least 1, got %d", ErrInvalidArgument, c.CacheSize)
	}
	return nil
}

// BTree maps 64-bit keys to occurrence counts. Nodes are addressed by their byte offset in the
// backing storage; RootOffset is page.NoChild while the tree is empty.
//
// A BTree is not safe for concurrent use. Searches mutate the recency cache, so even readers
// need exclusive access.
type BTree struct {
	RootOffset int64 `json:"root_offset"`
	Degree     int   `json:"degree"`

	storage  page.Storage
	store    *page.Store
	cache    *cache.Cache
	metaPath string
	readOnly bool
	log      *zap.SugaredLogger
}

type Option func(*BTree)

// WithLogger routes tree diagnostics to l.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(bt *BTree) {
		if l != nil {
			bt.log = l
		}
	}
}

// Stats is a snapshot of storage and cache activity.
type Stats struct {
	NodeReads   uint64 `json:"node_reads"`
	NodeWrites  uint64 `json:"node_writes"`
	CacheHits   uint64 `json:"cache_hits"`
	CacheMisses uint64 `json:"cache_misses"`
	CacheSize   int    `json:"cache_size"`
}

// Report summarises a successful Verify walk.
type Report struct {
	Nodes  int `json:"nodes"`
	Keys   int `json:"keys"`
	Height int `json:"height"`
}
