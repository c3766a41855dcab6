package page

import (
	"errors"
	"io"
)

// Storage is the medium node records live in. Size reports the current end of storage, which is
// where the next record is allocated.
type Storage interface {
	io.ReaderAt
	io.WriterAt
	Size() (int64, error)
}

var errInjected = errors.New("injected failure")

// MemStorage is a growable in-memory arena. FailReads and FailWrites make the next operations
// of that kind fail, which lets callers exercise storage error paths.
type MemStorage struct {
	data       []byte
	FailReads  bool
	FailWrites bool
	FailSize   bool
}

func NewMemStorage() *MemStorage {
	return &MemStorage{}
}

func (m *MemStorage) ReadAt(p []byte, off int64) (int, error) {
	if m.FailReads {
		return 0, errInjected
	}
	if off < 0 || off >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(p, m.data[off:])
	if n < len(p) {
		return n, io.ErrUnexpectedEOF
	}
	return n, nil
}

func (m *MemStorage) WriteAt(p []byte, off int64) (int, error) {
	if m.FailWrites {
		return 0, errInjected
	}
	if off < 0 {
		return 0, errors.New("negative offset")
	}
	if end := off + int64(len(p)); end > int64(len(m.data)) {
		grown := make([]byte, end)
		copy(grown, m.data)
		m.data = grown
	}
	return copy(m.data[off:], p), nil
}

func (m *MemStorage) Size() (int64, error) {
	if m.FailSize {
		return 0, errInjected
	}
	return int64(len(m.data)), nil
}

// Bytes exposes the raw arena.
func (m *MemStorage) Bytes() []byte {
	return m.data
}
