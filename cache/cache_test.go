package cache

import (
	"math"
	"testing"

	"genebank/page"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newNodes allocates count leaf nodes of degree 2, node i holding key 10*(i+1).
func newNodes(t *testing.T, count int) (*page.Store, []*page.Node) {
	t.Helper()
	store := page.NewStore(page.NewMemStorage(), 2)
	nodes := make([]*page.Node, count)
	for i := range nodes {
		n, err := store.Allocate()
		require.NoError(t, err)
		_, err = store.AddKey(n, uint64(10*(i+1)))
		require.NoError(t, err)
		nodes[i] = n
	}
	return store, nodes
}

func TestNewCacheRejectsZeroSize(t *testing.T) {
	_, err := NewCache(0)
	require.Error(t, err)

	c, err := NewCache(3)
	require.NoError(t, err)
	assert.Equal(t, 3, c.GetMaxSize())
	assert.Zero(t, c.GetSize())
}

func TestTouchEvictsLeastRecent(t *testing.T) {
	_, nodes := newNodes(t, 5)
	c, err := NewCache(3)
	require.NoError(t, err)

	for _, n := range nodes {
		c.Touch(n)
	}

	assert.Equal(t, 3, c.GetSize())
	assert.Equal(t, []int64{nodes[4].Offset(), nodes[3].Offset(), nodes[2].Offset()}, c.Offsets())
	assert.False(t, c.Contains(nodes[0].Offset()))
	assert.False(t, c.Contains(nodes[1].Offset()))

	_, ok := c.LookupFrequency(10)
	assert.False(t, ok, "evicted node must not answer")
}

func TestTouchReplacesSameOffset(t *testing.T) {
	store, nodes := newNodes(t, 2)
	c, err := NewCache(2)
	require.NoError(t, err)
	c.Touch(nodes[0])
	c.Touch(nodes[1])

	fresh, err := store.Read(nodes[0].Offset())
	require.NoError(t, err)
	fresh.Keys[0].Freq = 9
	c.Touch(fresh)

	assert.Equal(t, 2, c.GetSize())
	assert.Equal(t, []int64{nodes[0].Offset(), nodes[1].Offset()}, c.Offsets())

	freq, ok := c.LookupFrequency(10)
	require.True(t, ok)
	assert.Equal(t, uint32(9), freq, "newest handle for an offset wins")
}

func TestLookupFrequencyPromotes(t *testing.T) {
	_, nodes := newNodes(t, 3)
	c, err := NewCache(3)
	require.NoError(t, err)
	for _, n := range nodes {
		c.Touch(n)
	}

	freq, ok := c.LookupFrequency(10)
	require.True(t, ok)
	assert.Equal(t, uint32(1), freq)
	assert.Equal(t, nodes[0].Offset(), c.Offsets()[0])

	_, ok = c.LookupFrequency(15)
	assert.False(t, ok)

	hits, misses := c.HitsAndMisses()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
}

func TestLookupNodeIncrements(t *testing.T) {
	_, nodes := newNodes(t, 2)
	c, err := NewCache(2)
	require.NoError(t, err)
	c.Touch(nodes[0])
	c.Touch(nodes[1])

	n := c.LookupNode(20)
	require.NotNil(t, n)
	assert.Same(t, nodes[1], n)
	assert.Equal(t, uint32(2), n.Keys[0].Freq)

	assert.Nil(t, c.LookupNode(30))
}

func TestStoreWritesTouchCache(t *testing.T) {
	store := page.NewStore(page.NewMemStorage(), 2)
	c, err := NewCache(2)
	require.NoError(t, err)
	store.SetToucher(c)

	a, err := store.Allocate()
	require.NoError(t, err)
	_, err = store.AddKey(a, 7)
	require.NoError(t, err)

	freq, ok := c.LookupFrequency(7)
	require.True(t, ok)
	assert.Equal(t, uint32(1), freq)

	_, err = store.AddKey(a, 7)
	require.NoError(t, err)
	freq, _ = c.LookupFrequency(7)
	assert.Equal(t, uint32(2), freq)

	c.Clear()
	assert.Zero(t, c.GetSize())
	_, ok = c.LookupFrequency(7)
	assert.False(t, ok)
}

func TestLookupNodeSaturates(t *testing.T) {
	_, nodes := newNodes(t, 1)
	c, err := NewCache(1)
	require.NoError(t, err)
	nodes[0].Keys[0].Freq = math.MaxUint32
	c.Touch(nodes[0])

	n := c.LookupNode(10)
	require.NotNil(t, n)
	assert.Equal(t, uint32(math.MaxUint32), n.Keys[0].Freq)
}
