package routes

import (
	"fmt"
	"sync"

	"genebank/btree"
	"genebank/database"
	"genebank/sequence"

	"go.uber.org/zap"
)

// openTree is one tree opened read-only. The engine is single-owner, so every access goes
// through mu, searches included since they reorder the cache.
type openTree struct {
	mu    sync.Mutex
	entry database.TreeEntry
	tree  *btree.BTree
	codec *sequence.Codec
}

// Registry lazily opens the trees of a bank and keeps them open until Close.
type Registry struct {
	bank      *database.Bank
	cacheSize int
	log       *zap.SugaredLogger

	mu    sync.Mutex
	trees map[string]*openTree
}

func NewRegistry(bank *database.Bank, cacheSize int, log *zap.SugaredLogger) *Registry {
	return &Registry{
		bank:      bank,
		cacheSize: cacheSize,
		log:       log,
		trees:     make(map[string]*openTree),
	}
}

func (r *Registry) get(id string) (*openTree, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ot, ok := r.trees[id]; ok {
		return ot, nil
	}

	entry, err := r.bank.GetTree(id)
	if err != nil {
		return nil, err
	}
	codec, err := sequence.NewCodec(entry.Length)
	if err != nil {
		return nil, err
	}
	cfg := btree.Config{CacheEnabled: r.cacheSize > 0, CacheSize: r.cacheSize}
	tree, err := btree.Open(entry.DataFile, cfg, true, btree.WithLogger(r.log))
	if err != nil {
		return nil, fmt.Errorf("failed to open tree %q: %w", id, err)
	}

	ot := &openTree{entry: entry, tree: tree, codec: codec}
	r.trees[entry.ID] = ot
	r.log.Debugw("opened tree", "id", id, "path", entry.DataFile)
	return ot, nil
}

func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var firstErr error
	for id, ot := range r.trees {
		ot.mu.Lock()
		if err := ot.tree.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed closing tree %q: %w", id, err)
		}
		ot.mu.Unlock()
		delete(r.trees, id)
	}
	return firstErr
}
