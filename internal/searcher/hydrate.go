package searcher

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/cosmofeed/cosmofeed/internal/storage"
	"github.com/cosmofeed/cosmofeed/pkg/types"
)

// hydratedItem joins a candidate with its canonical row (localized
// where an override exists) and its normalized retrieval score.
type hydratedItem struct {
	row   storage.ContentRow
	score float64
}

// hydrate loads canonical rows for one type's candidate set in a
// single batch, applies locale overrides, and drops rows outside the
// date filter. Unlike the retrieval stages, failures here are hard
// errors.
func (s *Searcher) hydrate(ctx context.Context, ct types.ContentType, q types.Query, set *candidateSet) ([]hydratedItem, error) {
	if set.size() == 0 {
		return []hydratedItem{}, nil
	}

	rows, err := s.store.FindByIDs(ctx, ct, set.ids)
	if err != nil {
		return nil, fmt.Errorf("failed to hydrate %s rows: %w", ct, err)
	}
	byID := make(map[string]storage.ContentRow, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}

	if !q.Locale.IsBase() {
		overrides, err := s.store.FindTranslations(ctx, q.Locale, ct, set.ids)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s translations: %w", ct, err)
		}
		for _, tr := range overrides {
			row, ok := byID[tr.ItemID]
			if !ok {
				continue
			}
			if tr.Title != "" {
				row.Title = tr.Title
			}
			if tr.Summary != "" {
				row.Summary = tr.Summary
			}
			byID[tr.ItemID] = row
		}
	}

	from := normalizeDateBound(q.DateFrom)
	to := normalizeDateBound(q.DateTo)

	items := make([]hydratedItem, 0, len(rows))
	for _, id := range set.ids {
		row, ok := byID[id]
		if !ok {
			// Candidate ids without canonical rows (stale index entries)
			// are dropped silently.
			continue
		}
		if !withinDateRange(row.PublishedAt, from, to) {
			continue
		}
		items = append(items, hydratedItem{row: row, score: clamp01(set.scores[id])})
	}
	return items, nil
}

var dateBound = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// normalizeDateBound validates a YYYY-MM-DD filter bound. Malformed
// bounds are treated as absent, not as errors.
func normalizeDateBound(s string) string {
	if !dateBound.MatchString(s) {
		return ""
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return ""
	}
	return s
}

// withinDateRange compares the row's publish date, truncated to
// calendar-date granularity, against the inclusive bounds. Rows
// without a parseable date fail any active bound.
func withinDateRange(published, from, to string) bool {
	if from == "" && to == "" {
		return true
	}
	if len(published) < 10 {
		return false
	}
	date := published[:10]
	if !dateBound.MatchString(date) {
		return false
	}
	if from != "" && date < from {
		return false
	}
	if to != "" && date > to {
		return false
	}
	return true
}
