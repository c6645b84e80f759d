package searcher

import (
	"sort"
	"strings"

	"github.com/cosmofeed/cosmofeed/pkg/types"
)

// rerank combines each item's normalized retrieval score with a
// keyword-overlap score against its (localized) title and snippet,
// producing final ScoredResults sorted by combined score. With
// keepLowRelevance false, items below the relevance floor are dropped;
// with it true, every item is returned carrying its LowRelevance flag.
func rerank(items []hydratedItem, terms []string, keepLowRelevance bool) []types.ScoredResult {
	results := make([]types.ScoredResult, 0, len(items))
	for _, it := range items {
		base := clamp01(it.score)

		combined := base
		if len(terms) > 0 {
			haystack := strings.ToLower(it.row.Title + " " + it.row.Snippet())
			matched := 0
			for _, t := range terms {
				if strings.Contains(haystack, t) {
					matched++
				}
			}
			keyword := float64(matched) / float64(len(terms))
			combined = base*baseScoreWeight + keyword*keywordScoreWeight
		}
		combined = clamp01(combined)

		r := types.ScoredResult{
			ID:           it.row.ID,
			Type:         it.row.Type,
			Title:        it.row.Title,
			Summary:      it.row.Snippet(),
			URL:          it.row.URL,
			PublishedAt:  it.row.PublishedAt,
			Authors:      it.row.Authors,
			Categories:   it.row.Categories,
			Channel:      it.row.Channel,
			MediaType:    it.row.MediaType,
			Center:       it.row.Center,
			Score:        combined,
			LowRelevance: combined < MinRelevanceScore,
		}
		if !keepLowRelevance && r.LowRelevance {
			continue
		}
		results = append(results, r)
	}

	// Stable: ties keep their retrieval order.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}
