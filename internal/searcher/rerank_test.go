package searcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmofeed/cosmofeed/internal/storage"
	"github.com/cosmofeed/cosmofeed/pkg/types"
)

func item(id, title, summary string, score float64) hydratedItem {
	return hydratedItem{
		row: storage.ContentRow{
			ID:      id,
			Type:    types.ContentPaper,
			Title:   title,
			Summary: summary,
		},
		score: score,
	}
}

func TestRerank_KeywordOverlapWeighting(t *testing.T) {
	items := []hydratedItem{
		item("full", "black hole merger", "event horizon imaged", 0.6),
		item("half", "black hole census", "survey results", 0.6),
		item("none", "unrelated paper", "nothing in common", 0.6),
	}
	terms := []string{"black hole", "event horizon"}

	results := rerank(items, terms, true)
	require.Len(t, results, 3)

	// combined = 0.5*base + 0.5*overlap
	assert.Equal(t, "full", results[0].ID)
	assert.InDelta(t, 0.8, results[0].Score, 1e-9)
	assert.Equal(t, "half", results[1].ID)
	assert.InDelta(t, 0.55, results[1].Score, 1e-9)
	assert.Equal(t, "none", results[2].ID)
	assert.InDelta(t, 0.3, results[2].Score, 1e-9)
}

func TestRerank_NoTermsKeepsBaseScore(t *testing.T) {
	items := []hydratedItem{item("a", "title", "summary", 0.62)}
	results := rerank(items, nil, false)
	require.Len(t, results, 1)
	assert.InDelta(t, 0.62, results[0].Score, 1e-9)
}

func TestRerank_DropsLowRelevance(t *testing.T) {
	items := []hydratedItem{
		item("strong", "mars rover update", "", 0.9),
		item("weak", "unrelated", "", 0.05),
	}
	terms := []string{"mars"}

	confident := rerank(items, terms, false)
	require.Len(t, confident, 1)
	assert.Equal(t, "strong", confident[0].ID)

	all := rerank(items, terms, true)
	require.Len(t, all, 2)
	assert.False(t, all[0].LowRelevance)
	assert.True(t, all[1].LowRelevance)
}

func TestRerank_StableTieOrder(t *testing.T) {
	items := []hydratedItem{
		item("first", "same title", "", 0.5),
		item("second", "same title", "", 0.5),
		item("third", "same title", "", 0.5),
	}
	results := rerank(items, []string{"same"}, true)
	require.Len(t, results, 3)
	assert.Equal(t, "first", results[0].ID)
	assert.Equal(t, "second", results[1].ID)
	assert.Equal(t, "third", results[2].ID)
}

func TestRerank_MatchesAgainstSummary(t *testing.T) {
	items := []hydratedItem{
		item("a", "bland title", "the supernova remnant expands", 0.4),
	}
	results := rerank(items, []string{"supernova"}, true)
	require.Len(t, results, 1)
	// overlap 1.0: 0.5*0.4 + 0.5
	assert.InDelta(t, 0.7, results[0].Score, 1e-9)
}

func TestRerank_AbstractServesAsSnippetForPapers(t *testing.T) {
	it := hydratedItem{
		row: storage.ContentRow{
			ID:       "p",
			Type:     types.ContentPaper,
			Title:    "bland title",
			Abstract: "we report a quasar detection",
		},
		score: 0.4,
	}
	results := rerank([]hydratedItem{it}, []string{"quasar"}, true)
	require.Len(t, results, 1)
	assert.InDelta(t, 0.7, results[0].Score, 1e-9)
	assert.Equal(t, "we report a quasar detection", results[0].Summary)
}
