package searcher

import (
	"sort"

	"github.com/cosmofeed/cosmofeed/pkg/types"
)

// mergeAndPaginate folds the per-type scored lists into one ranked
// sequence, slices out the requested page, and splits the slice back
// into per-type arrays for the response shape.
func mergeAndPaginate(q types.Query, papers, videos, nasa []types.ScoredResult) *types.SearchResponse {
	merged := make([]types.ScoredResult, 0, len(papers)+len(videos)+len(nasa))
	merged = append(merged, papers...)
	merged = append(merged, videos...)
	merged = append(merged, nasa...)

	// Stable w.r.t. the per-type order established by the reranker.
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})

	total := len(merged)
	totalPages := (total + q.PerPage - 1) / q.PerPage

	page := q.Page
	if page < 1 {
		page = 1
	}
	if maxPage := max(totalPages, 1); page > maxPage {
		page = maxPage
	}

	start := (page - 1) * q.PerPage
	end := start + q.PerPage
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	slice := merged[start:end]

	resp := &types.SearchResponse{
		Query:  q.Text,
		Papers: []types.ScoredResult{},
		Videos: []types.ScoredResult{},
		Nasa:   []types.ScoredResult{},
		Total:  total,
		Pagination: types.Pagination{
			Page:       page,
			PerPage:    q.PerPage,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
			HasPrev:    page > 1,
		},
	}
	for _, r := range slice {
		switch r.Type {
		case types.ContentPaper:
			resp.Papers = append(resp.Papers, r)
		case types.ContentVideo:
			resp.Videos = append(resp.Videos, r)
		case types.ContentNASA:
			resp.Nasa = append(resp.Nasa, r)
		}
	}
	return resp
}
