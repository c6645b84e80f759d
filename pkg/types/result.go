package types

// ScoredResult is one ranked search hit after hydration and reranking.
type ScoredResult struct {
	ID          string      `json:"id"`
	Type        ContentType `json:"type"`
	Title       string      `json:"title"`
	Summary     string      `json:"summary,omitempty"`
	URL         string      `json:"url,omitempty"`
	PublishedAt string      `json:"publishedAt,omitempty"`

	// Type-specific metadata.
	Authors    []string `json:"authors,omitempty"`
	Categories []string `json:"categories,omitempty"`
	Channel    string   `json:"channel,omitempty"`
	MediaType  string   `json:"mediaType,omitempty"`
	Center     string   `json:"center,omitempty"`

	// Score is the combined relevance in [0,1].
	Score float64 `json:"score"`
	// LowRelevance marks hits below the relevance floor; such hits are
	// only returned when the whole response is a related-items fallback.
	LowRelevance bool `json:"lowRelevance"`
}

// Pagination describes the slice of the merged result list a response
// carries. It is always self-consistent: HasNext == Page < TotalPages.
type Pagination struct {
	Page       int  `json:"page"`
	PerPage    int  `json:"perPage"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// SearchResponse is the single response shape every surface returns.
type SearchResponse struct {
	Query          string         `json:"query"`
	Papers         []ScoredResult `json:"papers"`
	Videos         []ScoredResult `json:"videos"`
	Nasa           []ScoredResult `json:"nasa"`
	Total          int            `json:"total"`
	ShowingRelated bool           `json:"showingRelated"`
	Pagination     Pagination     `json:"pagination"`
}

// Empty returns a well-formed zero-result response for the given query.
func Empty(q Query) *SearchResponse {
	return &SearchResponse{
		Query:  q.Text,
		Papers: []ScoredResult{},
		Videos: []ScoredResult{},
		Nasa:   []ScoredResult{},
		Pagination: Pagination{
			Page:       1,
			PerPage:    q.PerPage,
			TotalPages: 0,
			HasNext:    false,
			HasPrev:    false,
		},
	}
}
