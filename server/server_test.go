package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"genebank/btree"
	"genebank/database"
	"genebank/sequence"
	routes "genebank/server/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupBank(t *testing.T, cacheSize int) (*fiber.App, string) {
	t.Helper()
	dir := t.TempDir()

	codec, err := sequence.NewCodec(3)
	require.NoError(t, err)
	dataFile := filepath.Join(dir, database.DataFileName("sample.gbk", 3, 2))
	bt, err := btree.Create(dataFile, btree.Config{Degree: 2})
	require.NoError(t, err)
	for _, seq := range []string{"acg", "cgt", "acg", "ttt", "gat", "acg"} {
		key, err := codec.Encode(seq)
		require.NoError(t, err)
		require.NoError(t, bt.Insert(key))
	}
	require.NoError(t, bt.Close())

	bank, err := database.OpenBank(filepath.Join(dir, "bank"))
	require.NoError(t, err)
	entry, err := bank.Register(database.TreeEntry{
		Source: "sample.gbk", Length: 3, Degree: 2, DataFile: dataFile, Keys: 6,
	})
	require.NoError(t, err)

	registry := routes.NewRegistry(bank, cacheSize, zap.NewNop().Sugar())
	t.Cleanup(func() { registry.Close() })
	return New(bank, registry), entry.ID
}

func get(t *testing.T, app *fiber.App, target string, out interface{}) int {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if out != nil {
		require.NoError(t, json.Unmarshal(body, out), string(body))
	}
	return resp.StatusCode
}

type searchResult struct {
	Sequence  string `json:"sequence"`
	Frequency uint32 `json:"frequency"`
	Error     string `json:"error"`
}

func TestSearchRoute(t *testing.T) {
	for _, cacheSize := range []int{0, 4} {
		app, id := setupBank(t, cacheSize)

		var res searchResult
		status := get(t, app, "/api/trees/"+id+"/search?sequence=ACG", &res)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "acg", res.Sequence)
		assert.Equal(t, uint32(3), res.Frequency)

		res = searchResult{}
		status = get(t, app, "/api/trees/"+id+"/search?sequence=ggg", &res)
		assert.Equal(t, http.StatusOK, status)
		assert.Zero(t, res.Frequency)

		res = searchResult{}
		status = get(t, app, "/api/trees/"+id+"/search?sequence=acgt", &res)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.NotEmpty(t, res.Error)

		status = get(t, app, "/api/trees/"+id+"/search", &res)
		assert.Equal(t, http.StatusBadRequest, status)

		status = get(t, app, "/api/trees/tree_missing/search?sequence=acg", &res)
		assert.Equal(t, http.StatusNotFound, status)
	}
}

func TestDumpAndListRoutes(t *testing.T) {
	app, id := setupBank(t, 2)

	var dump struct {
		ID      string         `json:"id"`
		Entries []searchResult `json:"entries"`
	}
	require.Equal(t, http.StatusOK, get(t, app, "/api/trees/"+id+"/dump", &dump))
	assert.Equal(t, id, dump.ID)
	var seqs []string
	for _, e := range dump.Entries {
		seqs = append(seqs, e.Sequence)
	}
	assert.Equal(t, []string{"acg", "cgt", "gat", "ttt"}, seqs)
	assert.Equal(t, uint32(3), dump.Entries[0].Frequency)

	var list struct {
		Bank  string               `json:"bank"`
		Trees []database.TreeEntry `json:"trees"`
	}
	require.Equal(t, http.StatusOK, get(t, app, "/api/trees", &list))
	require.Len(t, list.Trees, 1)
	assert.Equal(t, id, list.Trees[0].ID)

	var stats struct {
		Degree int         `json:"degree"`
		Stats  btree.Stats `json:"stats"`
	}
	require.Equal(t, http.StatusOK, get(t, app, "/api/trees/"+id+"/stats", &stats))
	assert.Equal(t, 2, stats.Degree)
	assert.NotZero(t, stats.Stats.NodeReads)
}
