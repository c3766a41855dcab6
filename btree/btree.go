package btree

import (
	"fmt"
	"io"
	"os"

	"genebank/cache"
	"genebank/page"

	"go.uber.org/zap"
)

// New builds a tree engine over storage. rootOffset is page.NoChild for an empty tree.
func New(storage page.Storage, cfg Config, rootOffset int64, opts ...Option) (*BTree, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rootOffset < page.NoChild {
		return nil, fmt.Errorf("%w: root offset %d", ErrInvalidArgument, rootOffset)
	}

	bt := &BTree{
		RootOffset: rootOffset,
		Degree:     cfg.Degree,
		storage:    storage,
		store:      page.NewStore(storage, cfg.Degree),
		log:        zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(bt)
	}

	if cfg.CacheEnabled {
		c, err := cache.NewCache(cfg.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
		bt.cache = c
		bt.store.SetToucher(c)
	}

	return bt, nil
}

// Create truncates dataPath and returns an empty tree stored in it. The metadata record is
// written next to it on Close.
func Create(dataPath string, cfg Config, opts ...Option) (*BTree, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	storage, err := page.CreateFile(dataPath)
	if err != nil {
		return nil, err
	}
	bt, err := New(storage, cfg, page.NoChild, opts...)
	if err != nil {
		storage.Close()
		return nil, err
	}
	bt.metaPath = MetadataPath(dataPath)
	bt.log.Debugw("created tree", "path", dataPath, "degree", cfg.Degree, "record_size", bt.store.RecordSize())
	return bt, nil
}

// Open loads a tree from dataPath and its metadata record. The degree stored in the metadata
// overrides cfg.Degree. A read-only tree never rewrites its metadata.
func Open(dataPath string, cfg Config, readOnly bool, opts ...Option) (*BTree, error) {
	metaPath := MetadataPath(dataPath)
	f, err := os.Open(metaPath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open metadata file: %v", page.ErrStorageIO, err)
	}
	root, degree, err := ReadMetadata(f)
	f.Close()
	if err != nil {
		return nil, err
	}

	cfg.Degree = degree
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	storage, err := page.OpenFile(dataPath, readOnly)
	if err != nil {
		return nil, err
	}
	bt, err := New(storage, cfg, root, opts...)
	if err != nil {
		storage.Close()
		return nil, err
	}
	bt.metaPath = metaPath
	bt.readOnly = readOnly
	bt.log.Debugw("opened tree", "path", dataPath, "degree", degree, "root", root)
	return bt, nil
}

// Close persists the metadata record of a writable, file-backed tree and releases the storage.
// The storage is released even when saving the metadata fails; the first error is returned.
func (bt *BTree) Close() error {
	var firstErr error
	if bt.metaPath != "" && !bt.readOnly {
		if err := bt.SaveMetadata(); err != nil {
			firstErr = fmt.Errorf("failed to save metadata: %w", err)
		}
	}

	if bt.cache != nil {
		bt.cache.Clear()
	}

	if closer, ok := bt.storage.(io.Closer); ok {
		if err := closer.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("%w: failed to close data file: %v", page.ErrStorageIO, err)
		}
	}
	return firstErr
}

// Empty reports whether no key has been inserted yet.
func (bt *BTree) Empty() bool {
	return bt.RootOffset == page.NoChild
}

// Cache exposes the recency cache, nil when disabled.
func (bt *BTree) Cache() *cache.Cache {
	return bt.cache
}

func (bt *BTree) Stats() Stats {
	var s Stats
	s.NodeReads, s.NodeWrites = bt.store.Counters()
	if bt.cache != nil {
		s.CacheHits, s.CacheMisses = bt.cache.HitsAndMisses()
		s.CacheSize = bt.cache.GetSize()
	}
	return s
}
