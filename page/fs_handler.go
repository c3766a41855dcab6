package page

import (
	"fmt"
	"os"
)

// FileStorage keeps node records in a single sequential file.
type FileStorage struct {
	file *os.File
}

// CreateFile truncates or creates path for a fresh tree.
func CreateFile(path string) (*FileStorage, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create data file: %v", ErrStorageIO, err)
	}
	return &FileStorage{file: f}, nil
}

// OpenFile opens an existing data file. Read-only files reject writes with ErrStorageIO.
func OpenFile(path string, readOnly bool) (*FileStorage, error) {
	flags := os.O_RDWR
	if readOnly {
		flags = os.O_RDONLY
	}
	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open data file: %v", ErrStorageIO, err)
	}
	return &FileStorage{file: f}, nil
}

func (fs *FileStorage) ReadAt(p []byte, off int64) (int, error) {
	return fs.file.ReadAt(p, off)
}

func (fs *FileStorage) WriteAt(p []byte, off int64) (int, error) {
	return fs.file.WriteAt(p, off)
}

func (fs *FileStorage) Size() (int64, error) {
	info, err := fs.file.Stat()
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func (fs *FileStorage) Sync() error {
	return fs.file.Sync()
}

func (fs *FileStorage) Close() error {
	return fs.file.Close()
}
