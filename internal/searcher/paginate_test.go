package searcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmofeed/cosmofeed/pkg/types"
)

func scored(id string, ct types.ContentType, score float64) types.ScoredResult {
	return types.ScoredResult{ID: id, Type: ct, Score: score}
}

func TestMergeAndPaginate_InterleavesTypesByScore(t *testing.T) {
	q := types.Query{Text: "q", PerPage: 3, Page: 1}
	q.Normalize()

	papers := []types.ScoredResult{scored("p1", types.ContentPaper, 0.9), scored("p2", types.ContentPaper, 0.3)}
	videos := []types.ScoredResult{scored("v1", types.ContentVideo, 0.7)}
	nasa := []types.ScoredResult{scored("n1", types.ContentNASA, 0.5)}

	resp := mergeAndPaginate(q, papers, videos, nasa)

	// Page 1 of the global ranking is p1, v1, n1; p2 falls to page 2.
	assert.Equal(t, 4, resp.Total)
	assert.Equal(t, 2, resp.Pagination.TotalPages)
	require.Len(t, resp.Papers, 1)
	require.Len(t, resp.Videos, 1)
	require.Len(t, resp.Nasa, 1)
	assert.Equal(t, "p1", resp.Papers[0].ID)
	assert.True(t, resp.Pagination.HasNext)
	assert.False(t, resp.Pagination.HasPrev)
}

func TestMergeAndPaginate_SecondPage(t *testing.T) {
	q := types.Query{Text: "q", PerPage: 3, Page: 2}
	q.Normalize()

	papers := []types.ScoredResult{scored("p1", types.ContentPaper, 0.9), scored("p2", types.ContentPaper, 0.3)}
	videos := []types.ScoredResult{scored("v1", types.ContentVideo, 0.7)}
	nasa := []types.ScoredResult{scored("n1", types.ContentNASA, 0.5)}

	resp := mergeAndPaginate(q, papers, videos, nasa)

	require.Len(t, resp.Papers, 1)
	assert.Equal(t, "p2", resp.Papers[0].ID)
	assert.Empty(t, resp.Videos)
	assert.Empty(t, resp.Nasa)
	assert.False(t, resp.Pagination.HasNext)
	assert.True(t, resp.Pagination.HasPrev)
}

func TestMergeAndPaginate_EmptyInput(t *testing.T) {
	q := types.Query{Text: "q"}
	q.Normalize()

	resp := mergeAndPaginate(q, nil, nil, nil)

	assert.Equal(t, 0, resp.Total)
	assert.Equal(t, 0, resp.Pagination.TotalPages)
	assert.Equal(t, 1, resp.Pagination.Page)
	assert.NotNil(t, resp.Papers)
	assert.NotNil(t, resp.Videos)
	assert.NotNil(t, resp.Nasa)
}

func TestMergeAndPaginate_TotalCountsEveryPage(t *testing.T) {
	q := types.Query{Text: "q", PerPage: 2}
	q.Normalize()

	var papers []types.ScoredResult
	for i := 0; i < 5; i++ {
		papers = append(papers, scored(string(rune('a'+i)), types.ContentPaper, float64(5-i)/10))
	}

	resp := mergeAndPaginate(q, papers, nil, nil)
	assert.Equal(t, 5, resp.Total)
	assert.Equal(t, 3, resp.Pagination.TotalPages)
	assert.Len(t, resp.Papers, 2)
}
