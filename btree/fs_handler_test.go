package btree

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"genebank/page"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMetadata(&buf, 4084, 102))
	require.Equal(t, MetadataSize, buf.Len())

	root, degree, err := ReadMetadata(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(4084), root)
	assert.Equal(t, 102, degree)

	buf.Reset()
	require.NoError(t, WriteMetadata(&buf, page.NoChild, 2))
	root, _, err = ReadMetadata(&buf)
	require.NoError(t, err)
	assert.Equal(t, page.NoChild, root)
}

func TestReadMetadataRejectsGarbage(t *testing.T) {
	_, _, err := ReadMetadata(bytes.NewReader([]byte{1, 2, 3}))
	require.ErrorIs(t, err, page.ErrStorageIO)

	var buf bytes.Buffer
	require.NoError(t, WriteMetadata(&buf, 0, 0))
	_, _, err = ReadMetadata(&buf)
	require.ErrorIs(t, err, page.ErrCorrupt)

	buf.Reset()
	require.NoError(t, WriteMetadata(&buf, -7, 2))
	_, _, err = ReadMetadata(&buf)
	require.ErrorIs(t, err, page.ErrCorrupt)
}

func TestCreateCloseOpen(t *testing.T) {
	dataPath := filepath.Join(t.TempDir(), "test.gbk.btree.data.3.2")

	bt, err := Create(dataPath, Config{Degree: 2, CacheEnabled: true, CacheSize: 4})
	require.NoError(t, err)
	keys := []uint64{10, 20, 5, 6, 12, 30, 7, 17, 6, 6}
	require.NoError(t, bt.InsertAll(keys...))
	want, err := bt.Entries()
	require.NoError(t, err)
	root := bt.RootOffset
	require.NoError(t, bt.Close())

	info, err := os.Stat(MetadataPath(dataPath))
	require.NoError(t, err)
	assert.Equal(t, int64(MetadataSize), info.Size())

	// the stored degree wins over the configured one
	bt, err = Open(dataPath, Config{Degree: 50}, true)
	require.NoError(t, err)
	assert.Equal(t, 2, bt.Degree)
	assert.Equal(t, root, bt.RootOffset)

	got, err := bt.Entries()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	freq, err := bt.Search(6)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), freq)

	require.ErrorIs(t, bt.Insert(99), page.ErrStorageIO)
	require.NoError(t, bt.Close())

	bt, err = Open(dataPath, Config{}, false)
	require.NoError(t, err)
	require.NoError(t, bt.Insert(99))
	require.NoError(t, bt.Close())

	bt, err = Open(dataPath, Config{}, true)
	require.NoError(t, err)
	defer bt.Close()
	freq, err = bt.Search(99)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), freq)
	_, err = bt.Verify()
	require.NoError(t, err)
}

func TestOpenWithoutMetadata(t *testing.T) {
	dataPath := filepath.Join(t.TempDir(), "orphan.data")
	require.NoError(t, os.WriteFile(dataPath, nil, 0644))

	_, err := Open(dataPath, Config{Degree: 2}, true)
	require.ErrorIs(t, err, page.ErrStorageIO)
}

func TestSaveMetadataNeedsFile(t *testing.T) {
	bt, _ := newMemTree(t, Config{Degree: 2})
	require.ErrorIs(t, bt.SaveMetadata(), ErrInvalidArgument)
	require.NoError(t, bt.Close())
}

type closeRecorder struct {
	*page.MemStorage
	closed bool
}

func (c *closeRecorder) Close() error {
	c.closed = true
	return nil
}

func TestCloseReleasesStorageWhenMetadataFails(t *testing.T) {
	storage := &closeRecorder{MemStorage: page.NewMemStorage()}
	bt, err := New(storage, Config{Degree: 2}, page.NoChild)
	require.NoError(t, err)
	require.NoError(t, bt.Insert(5))

	bt.metaPath = filepath.Join(t.TempDir(), "missing", "tree.metadata")
	err = bt.Close()
	require.ErrorIs(t, err, page.ErrStorageIO)
	assert.True(t, storage.closed)
}
