package storage

import (
	"context"
	"errors"

	"github.com/cosmofeed/cosmofeed/pkg/types"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist.
	ErrNotFound = errors.New("not found")
)

// Neighbor is one nearest-neighbor hit from the semantic index.
// Distance is cosine distance in [0,2]; lower is closer.
type Neighbor struct {
	ID       string
	Distance float64
}

// SemanticIndex is a nearest-neighbor service over text embeddings,
// partitioned by content type and locale. QueryLegacy reaches the
// pre-locale-partitioning index kept for older indexed data.
type SemanticIndex interface {
	Query(ctx context.Context, ct types.ContentType, locale types.Locale, text string, n int) ([]Neighbor, error)
	QueryLegacy(ctx context.Context, ct types.ContentType, text string, n int) ([]Neighbor, error)
}

// ContentRow is a canonical content row. Snippet fields and metadata
// are populated per content type; unused fields stay zero.
type ContentRow struct {
	ID          string
	Type        types.ContentType
	Title       string
	Summary     string
	Abstract    string // papers only
	URL         string
	PublishedAt string // RFC 3339 or YYYY-MM-DD

	Authors    []string // papers
	Categories []string // papers
	Channel    string   // videos
	MediaType  string   // nasa items
	Center     string   // nasa items
}

// Snippet returns the text paired with the title for keyword scoring.
func (r *ContentRow) Snippet() string {
	if r.Summary != "" {
		return r.Summary
	}
	return r.Abstract
}

// ContentStore is the keyed lookup/filter service over canonical rows.
type ContentStore interface {
	// FindByIDs hydrates rows for the given id set in one batch.
	FindByIDs(ctx context.Context, ct types.ContentType, ids []string) ([]ContentRow, error)
	// FindByPatterns returns rows whose title or snippet fields contain
	// any of the given terms as a substring.
	FindByPatterns(ctx context.Context, ct types.ContentType, terms []string) ([]ContentRow, error)
}

// TranslationRow is a localized (title, summary) override for one item.
type TranslationRow struct {
	ItemType types.ContentType
	ItemID   string
	Lang     types.Locale
	Title    string
	Summary  string
}

// TranslationStore serves localized overrides keyed by
// (content type, item id, locale).
type TranslationStore interface {
	// FindTranslations hydrates overrides for the given items.
	FindTranslations(ctx context.Context, lang types.Locale, ct types.ContentType, ids []string) ([]TranslationRow, error)
	// MatchTranslations returns overrides whose title or summary
	// contains any of the given terms as a substring.
	MatchTranslations(ctx context.Context, lang types.Locale, terms []string) ([]TranslationRow, error)
}

// FTSHit is one ranked full-text match. Rank is the index's native
// signed rank; more negative means a better match.
type FTSHit struct {
	ID   string
	Rank float64
}

// TranslationHit is a full-text match against the translations index,
// resolved to the translated item.
type TranslationHit struct {
	ItemType types.ContentType
	ItemID   string
	Rank     float64
}

// FullTextIndex is the ranked keyword-match service, one index per
// content type plus one over translations.
type FullTextIndex interface {
	SearchContent(ctx context.Context, ct types.ContentType, match string, limit int) ([]FTSHit, error)
	SearchTranslations(ctx context.Context, lang types.Locale, match string, limit int) ([]TranslationHit, error)
}

// Backend aggregates every read capability the search engine consumes.
type Backend interface {
	SemanticIndex
	ContentStore
	TranslationStore
	FullTextIndex
}

// Stats summarizes store contents, surfaced by the status tool.
type Stats struct {
	Papers       int
	Videos       int
	NasaItems    int
	Translations int
	Embeddings   int
}
