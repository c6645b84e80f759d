package types

// ContentType identifies one of the indexed content corpora.
type ContentType string

const (
	// ContentPaper is an arXiv/astronomy paper.
	ContentPaper ContentType = "paper"
	// ContentVideo is an aggregated video.
	ContentVideo ContentType = "video"
	// ContentNASA is a NASA image/video library item.
	ContentNASA ContentType = "nasa"
)

// AllContentTypes lists every searchable content type in response order.
var AllContentTypes = []ContentType{ContentPaper, ContentVideo, ContentNASA}

// Valid reports whether ct is a known content type.
func (ct ContentType) Valid() bool {
	switch ct {
	case ContentPaper, ContentVideo, ContentNASA:
		return true
	}
	return false
}

// TypeFilter narrows a search to a subset of content types.
type TypeFilter string

const (
	FilterAll    TypeFilter = "all"
	FilterPapers TypeFilter = "papers"
	FilterVideos TypeFilter = "videos"
	FilterNASA   TypeFilter = "nasa"
)

// ParseTypeFilter maps a request string to a filter. Unknown or empty
// values fall back to FilterAll rather than erroring.
func ParseTypeFilter(s string) TypeFilter {
	switch TypeFilter(s) {
	case FilterPapers, FilterVideos, FilterNASA, FilterAll:
		return TypeFilter(s)
	}
	return FilterAll
}

// ContentTypes resolves the filter to the concrete types it covers.
func (f TypeFilter) ContentTypes() []ContentType {
	switch f {
	case FilterPapers:
		return []ContentType{ContentPaper}
	case FilterVideos:
		return []ContentType{ContentVideo}
	case FilterNASA:
		return []ContentType{ContentNASA}
	default:
		return AllContentTypes
	}
}
