package btree

import (
	"errors"
	"fmt"
	"io"
)

// KeySource yields keys for Build until it returns io.EOF.
type KeySource interface {
	Next() (uint64, error)
}

// Build inserts every key of src and returns how many were inserted.
func (bt *BTree) Build(src KeySource) (int, error) {
	count := 0
	for {
		key, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return count, fmt.Errorf("failed to read key: %w", err)
		}
		if err := bt.Insert(key); err != nil {
			return count, fmt.Errorf("failed to insert key %d: %w", key, err)
		}
		count++
		if count%100000 == 0 {
			bt.log.Debugw("build progress", "inserted", count, "root", bt.RootOffset)
		}
	}
	bt.log.Infow("build finished", "inserted", count, "stats", bt.Stats())
	return count, nil
}

func (bt *BTree) InsertAll(keys ...uint64) error {
	for _, key := range keys {
		if err := bt.Insert(key); err != nil {
			return fmt.Errorf("failed to insert key %d: %w", key, err)
		}
	}
	return nil
}
