package page

import (
	"fmt"
	"io"
)

// Toucher is notified after every successful node write.
type Toucher interface {
	Touch(n *Node)
}

// Store reads and writes node records at their permanent offsets. It knows nothing about
// tree-wide algorithms.
type Store struct {
	storage    Storage
	degree     int
	recordSize int
	buf        []byte
	toucher    Toucher

	reads  uint64
	writes uint64
}

func NewStore(storage Storage, degree int) *Store {
	size := RecordSize(degree)
	return &Store{
		storage:    storage,
		degree:     degree,
		recordSize: size,
		buf:        make([]byte, size),
	}
}

// SetToucher installs the write hook. A nil toucher disables notifications.
func (s *Store) SetToucher(t Toucher) {
	s.toucher = t
}

func (s *Store) RecordSize() int { return s.recordSize }

// Counters returns the number of records read and written so far.
func (s *Store) Counters() (reads, writes uint64) {
	return s.reads, s.writes
}

// Allocate binds an empty node to the current end of storage and persists it immediately.
func (s *Store) Allocate() (*Node, error) {
	offset, err := s.storage.Size()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to determine end of storage: %v", ErrStorageIO, err)
	}
	n := newNode(s.degree, offset)
	if err := s.Write(n); err != nil {
		return nil, err
	}
	return n, nil
}

// Read loads the record stored at offset.
func (s *Store) Read(offset int64) (*Node, error) {
	if offset < 0 {
		return nil, fmt.Errorf("%w: invalid node offset %d", ErrCorrupt, offset)
	}
	nr, err := s.storage.ReadAt(s.buf, offset)
	if nr < len(s.buf) {
		if err == nil || err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("%w: failed to read node at %d: %v", ErrStorageIO, offset, err)
	}
	s.reads++
	return decode(s.buf, s.degree, offset)
}

// Write persists n in place at its own offset and touches the cache hook.
func (s *Store) Write(n *Node) error {
	n.encode(s.buf)
	if _, err := s.storage.WriteAt(s.buf, n.offset); err != nil {
		return fmt.Errorf("%w: failed to write node at %d: %v", ErrStorageIO, n.offset, err)
	}
	s.writes++
	if s.toucher != nil {
		s.toucher.Touch(n)
	}
	return nil
}

// AddKey bumps the frequency of key if n already holds it, otherwise inserts it in sorted
// position with frequency 1. Both cases persist n. A new key on a full node returns ErrFull and
// leaves n untouched.
func (s *Store) AddKey(n *Node, key uint64) (int, error) {
	i, found := n.Search(key)
	if found {
		n.Increment(i)
		return i, s.Write(n)
	}
	if n.IsFull() {
		return -1, ErrFull
	}
	n.insertAt(i, KeyFreq{Key: key, Freq: 1})
	return i, s.Write(n)
}

// TransferKey moves the pair at index of src into dest, keeping its frequency, and persists both.
func (s *Store) TransferKey(dest, src *Node, index int) error {
	if index < 0 || index >= src.NumKeys {
		return fmt.Errorf("transfer index %d out of range for node at %d", index, src.offset)
	}
	kf := src.Keys[index]
	i, found := dest.Search(kf.Key)
	switch {
	case found:
		dest.Keys[i].Freq = addFreq(dest.Keys[i].Freq, kf.Freq)
	case dest.IsFull():
		return ErrFull
	default:
		dest.insertAt(i, kf)
	}
	src.removeAt(index)

	if err := s.Write(src); err != nil {
		return err
	}
	return s.Write(dest)
}
