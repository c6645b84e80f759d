package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmofeed/cosmofeed/internal/embedder"
	"github.com/cosmofeed/cosmofeed/internal/lexicon"
	"github.com/cosmofeed/cosmofeed/internal/searcher"
	"github.com/cosmofeed/cosmofeed/internal/storage"
	"github.com/cosmofeed/cosmofeed/pkg/types"
)

func newMCPTestServer(t *testing.T) (*Server, *storage.SQLiteStore) {
	t.Helper()
	store, err := storage.NewSQLiteStore(":memory:", embedder.NewLocalProvider(nil))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	srch := searcher.NewSearcher(store, lexicon.Default())
	return NewServer(srch, store), store
}

func callToolRequest(args map[string]interface{}) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func textContent(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, result.Content, 1)
	tc, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok)
	return tc.Text
}

func TestHandleSearchContent(t *testing.T) {
	s, store := newMCPTestServer(t)
	require.NoError(t, store.UpsertContent(context.Background(), storage.ContentRow{
		ID:    "p1",
		Type:  types.ContentPaper,
		Title: "Gravitational wave catalog",
	}))

	result, err := s.handleSearchContent(context.Background(), callToolRequest(map[string]interface{}{
		"query": "gravitational wave",
		"type":  "papers",
	}))
	require.NoError(t, err)

	var resp types.SearchResponse
	require.NoError(t, json.Unmarshal([]byte(textContent(t, result)), &resp))
	assert.Equal(t, 1, resp.Total)
	require.Len(t, resp.Papers, 1)
	assert.Equal(t, "p1", resp.Papers[0].ID)
}

func TestHandleSearchContent_MissingQuery(t *testing.T) {
	s, _ := newMCPTestServer(t)

	_, err := s.handleSearchContent(context.Background(), callToolRequest(map[string]interface{}{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "-32004")

	_, err = s.handleSearchContent(context.Background(), callToolRequest(map[string]interface{}{
		"query": "",
	}))
	require.Error(t, err)
}

func TestHandleSearchContent_NumericArgsFromJSON(t *testing.T) {
	s, _ := newMCPTestServer(t)

	// JSON decoding hands integers to the handler as float64.
	result, err := s.handleSearchContent(context.Background(), callToolRequest(map[string]interface{}{
		"query": "nebula",
		"limit": float64(5),
		"page":  float64(1),
	}))
	require.NoError(t, err)

	var resp types.SearchResponse
	require.NoError(t, json.Unmarshal([]byte(textContent(t, result)), &resp))
	assert.Equal(t, 5, resp.Pagination.PerPage)
}

func TestHandleGetStatus(t *testing.T) {
	s, store := newMCPTestServer(t)
	require.NoError(t, store.UpsertContent(context.Background(), storage.ContentRow{
		ID: "v1", Type: types.ContentVideo, Title: "launch replay",
	}))

	result, err := s.handleGetStatus(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)

	var status map[string]int
	require.NoError(t, json.Unmarshal([]byte(textContent(t, result)), &status))
	assert.Equal(t, 1, status["videos"])
	assert.Equal(t, 0, status["papers"])
}

func TestGetIntAndGetString(t *testing.T) {
	args := map[string]interface{}{
		"f": float64(7),
		"i": 3,
		"s": "hello",
		"b": true,
	}
	assert.Equal(t, 7, getInt(args, "f"))
	assert.Equal(t, 3, getInt(args, "i"))
	assert.Equal(t, 0, getInt(args, "missing"))
	assert.Equal(t, 0, getInt(args, "s"))
	assert.Equal(t, "hello", getString(args, "s"))
	assert.Equal(t, "", getString(args, "b"))
}
