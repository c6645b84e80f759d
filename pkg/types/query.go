package types

const (
	// DefaultPerPage is the page size used when a request does not set one.
	DefaultPerPage = 10
	// MaxPerPage caps the page size a single request may ask for.
	MaxPerPage = 50
)

// Query is the normalized input to the search engine. All fields are
// already validated/defaulted by Normalize; the engine never sees raw
// transport-level values.
type Query struct {
	Text     string
	Type     TypeFilter
	PerPage  int
	Page     int
	Locale   Locale
	DateFrom string // YYYY-MM-DD inclusive, empty = unbounded
	DateTo   string // YYYY-MM-DD inclusive, empty = unbounded
}

// Normalize clamps paging values and fills defaults in place.
func (q *Query) Normalize() {
	if q.Type == "" {
		q.Type = FilterAll
	}
	if q.Locale == "" {
		q.Locale = BaseLocale
	}
	if q.PerPage <= 0 {
		q.PerPage = DefaultPerPage
	}
	if q.PerPage > MaxPerPage {
		q.PerPage = MaxPerPage
	}
	if q.Page < 1 {
		q.Page = 1
	}
}
