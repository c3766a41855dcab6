package btree

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"genebank/page"
)

// MetadataSize is the width of the metadata record: root offset (int64) then degree (int32).
const MetadataSize = 12

func MetadataPath(dataPath string) string {
	return dataPath + ".metadata"
}

func WriteMetadata(w io.Writer, root int64, degree int) error {
	buf := make([]byte, MetadataSize)
	binary.BigEndian.PutUint64(buf[0:], uint64(root))
	binary.BigEndian.PutUint32(buf[8:], uint32(int32(degree)))
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("%w: failed to write metadata: %v", page.ErrStorageIO, err)
	}
	return nil
}

func ReadMetadata(r io.Reader) (root int64, degree int, err error) {
	buf := make([]byte, MetadataSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return 0, 0, fmt.Errorf("%w: failed to read metadata: %v", page.ErrStorageIO, err)
	}
	root = int64(binary.BigEndian.Uint64(buf[0:]))
	degree = int(int32(binary.BigEndian.Uint32(buf[8:])))
	if root < page.NoChild {
		return 0, 0, fmt.Errorf("%w: metadata root offset %d", page.ErrCorrupt, root)
	}
	if degree < 1 || degree > MaxDegree {
		return 0, 0, fmt.Errorf("%w: metadata degree %d", page.ErrCorrupt, degree)
	}
	return root, degree, nil
}

// SaveMetadata writes the root offset and degree next to the data file.
func (bt *BTree) SaveMetadata() error {
	if bt.metaPath == "" {
		return fmt.Errorf("%w: tree has no metadata file", ErrInvalidArgument)
	}
	var buf bytes.Buffer
	if err := WriteMetadata(&buf, bt.RootOffset, bt.Degree); err != nil {
		return err
	}
	if err := os.WriteFile(bt.metaPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("%w: failed to write metadata file: %v", page.ErrStorageIO, err)
	}
	return nil
}
