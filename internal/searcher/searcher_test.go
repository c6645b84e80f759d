package searcher

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmofeed/cosmofeed/internal/lexicon"
	"github.com/cosmofeed/cosmofeed/internal/storage"
	"github.com/cosmofeed/cosmofeed/pkg/types"
)

// fakeStore is an in-memory Backend with per-method call counters so
// tests can assert which cascade stages actually ran.
type fakeStore struct {
	mu sync.Mutex

	semantic     map[string][]storage.Neighbor // key: type|locale
	legacy       map[types.ContentType][]storage.Neighbor
	rows         map[types.ContentType][]storage.ContentRow
	translations []storage.TranslationRow
	ftsHits      map[types.ContentType][]storage.FTSHit
	trFTSHits    []storage.TranslationHit
	patternRows  map[types.ContentType][]storage.ContentRow

	semanticErr error
	findErr     error
	trErr       error
	ftsErr      error

	queryCalls   int
	legacyCalls  int
	ftsCalls     int
	trFTSCalls   int
	findCalls    int
	findTrCalls  int
	patternCalls int
	matchTrCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		semantic:    make(map[string][]storage.Neighbor),
		legacy:      make(map[types.ContentType][]storage.Neighbor),
		rows:        make(map[types.ContentType][]storage.ContentRow),
		ftsHits:     make(map[types.ContentType][]storage.FTSHit),
		patternRows: make(map[types.ContentType][]storage.ContentRow),
	}
}

func (f *fakeStore) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queryCalls + f.legacyCalls + f.ftsCalls + f.trFTSCalls +
		f.findCalls + f.findTrCalls + f.patternCalls + f.matchTrCalls
}

func (f *fakeStore) Query(ctx context.Context, ct types.ContentType, locale types.Locale, text string, n int) ([]storage.Neighbor, error) {
	f.mu.Lock()
	f.queryCalls++
	f.mu.Unlock()
	if f.semanticErr != nil {
		return nil, f.semanticErr
	}
	return f.semantic[string(ct)+"|"+string(locale)], nil
}

func (f *fakeStore) QueryLegacy(ctx context.Context, ct types.ContentType, text string, n int) ([]storage.Neighbor, error) {
	f.mu.Lock()
	f.legacyCalls++
	f.mu.Unlock()
	return f.legacy[ct], nil
}

func (f *fakeStore) FindByIDs(ctx context.Context, ct types.ContentType, ids []string) ([]storage.ContentRow, error) {
	f.mu.Lock()
	f.findCalls++
	f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	var out []storage.ContentRow
	for _, row := range f.rows[ct] {
		if _, ok := want[row.ID]; ok {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeStore) FindByPatterns(ctx context.Context, ct types.ContentType, terms []string) ([]storage.ContentRow, error) {
	f.mu.Lock()
	f.patternCalls++
	f.mu.Unlock()
	return f.patternRows[ct], nil
}

func (f *fakeStore) FindTranslations(ctx context.Context, lang types.Locale, ct types.ContentType, ids []string) ([]storage.TranslationRow, error) {
	f.mu.Lock()
	f.findTrCalls++
	f.mu.Unlock()
	if f.trErr != nil {
		return nil, f.trErr
	}
	var out []storage.TranslationRow
	for _, tr := range f.translations {
		if tr.Lang == lang && tr.ItemType == ct {
			out = append(out, tr)
		}
	}
	return out, nil
}

func (f *fakeStore) MatchTranslations(ctx context.Context, lang types.Locale, terms []string) ([]storage.TranslationRow, error) {
	f.mu.Lock()
	f.matchTrCalls++
	f.mu.Unlock()
	return nil, nil
}

func (f *fakeStore) SearchContent(ctx context.Context, ct types.ContentType, match string, limit int) ([]storage.FTSHit, error) {
	f.mu.Lock()
	f.ftsCalls++
	f.mu.Unlock()
	if f.ftsErr != nil {
		return nil, f.ftsErr
	}
	return f.ftsHits[ct], nil
}

func (f *fakeStore) SearchTranslations(ctx context.Context, lang types.Locale, match string, limit int) ([]storage.TranslationHit, error) {
	f.mu.Lock()
	f.trFTSCalls++
	f.mu.Unlock()
	return f.trFTSHits, nil
}

var _ storage.Backend = (*fakeStore)(nil)

func newTestSearcher(store storage.Backend) *Searcher {
	return NewSearcher(store, lexicon.Default())
}

func paperRow(id, title string) storage.ContentRow {
	return storage.ContentRow{
		ID:          id,
		Type:        types.ContentPaper,
		Title:       title,
		Summary:     title + " summary",
		URL:         "https://example.org/" + id,
		PublishedAt: "2026-01-15",
	}
}

func TestSearch_SemanticScoresAndOrdering(t *testing.T) {
	store := newFakeStore()
	store.semantic["paper|en"] = []storage.Neighbor{
		{ID: "p1", Distance: 0.2},
		{ID: "p2", Distance: 1.0},
	}
	store.rows[types.ContentPaper] = []storage.ContentRow{
		paperRow("p1", "Crab nebula imaging"),
		paperRow("p2", "Orion nebula survey"),
	}
	s := newTestSearcher(store)

	resp, err := s.Search(context.Background(), types.Query{
		Text: "nebula", Type: types.FilterPapers, Locale: types.LocaleEN,
	})
	require.NoError(t, err)

	require.Len(t, resp.Papers, 2)
	// Both titles contain the query token, so the keyword component is
	// 1.0 and combined = 0.5*base + 0.5.
	assert.Equal(t, "p1", resp.Papers[0].ID)
	assert.InDelta(t, 0.95, resp.Papers[0].Score, 1e-9)
	assert.Equal(t, "p2", resp.Papers[1].ID)
	assert.InDelta(t, 0.75, resp.Papers[1].Score, 1e-9)

	assert.Equal(t, 2, resp.Total)
	assert.False(t, resp.ShowingRelated)
	assert.False(t, resp.Papers[0].LowRelevance)

	// Confident semantic hits stop the cascade: no legacy, no FTS.
	assert.Equal(t, 1, store.queryCalls)
	assert.Equal(t, 0, store.legacyCalls)
	assert.Equal(t, 0, store.ftsCalls)
}

func TestSearch_EmptyQueryMakesNoStoreCalls(t *testing.T) {
	store := newFakeStore()
	s := newTestSearcher(store)

	resp, err := s.Search(context.Background(), types.Query{Text: "   \t  "})
	require.NoError(t, err)

	assert.Equal(t, 0, resp.Total)
	assert.Empty(t, resp.Papers)
	assert.Empty(t, resp.Videos)
	assert.Empty(t, resp.Nasa)
	assert.Equal(t, 0, store.totalCalls())
}

func TestSearch_CrossLocaleMaxMerge(t *testing.T) {
	store := newFakeStore()
	// The zh-TW partition knows p1 only weakly; the base partition has
	// both items with better distances.
	store.semantic["paper|zh-TW"] = []storage.Neighbor{{ID: "p1", Distance: 1.2}}
	store.semantic["paper|en"] = []storage.Neighbor{
		{ID: "p1", Distance: 0.2},
		{ID: "p2", Distance: 0.4},
	}
	store.rows[types.ContentPaper] = []storage.ContentRow{
		paperRow("p1", "Falcon rocket landing"),
		paperRow("p2", "Methane rocket engines"),
	}
	s := newTestSearcher(store)

	resp, err := s.Search(context.Background(), types.Query{
		Text: "rocket", Type: types.FilterPapers, Locale: types.LocaleZhTW,
	})
	require.NoError(t, err)

	// Latin query off the base locale hits both partitions even though
	// stage 1 found something.
	assert.Equal(t, 2, store.queryCalls)
	assert.Equal(t, 0, store.legacyCalls)

	require.Len(t, resp.Papers, 2)
	assert.Equal(t, "p1", resp.Papers[0].ID)
	assert.Greater(t, resp.Papers[0].Score, resp.Papers[1].Score)

	// p1's base score is the max of the two partitions (0.9, not 0.4);
	// with it, p1 must outrank p2 whose base is 0.8.
	assert.Equal(t, "p2", resp.Papers[1].ID)
}

func TestSearch_LegacyStageOnlyWhenAllEmpty(t *testing.T) {
	store := newFakeStore()
	store.legacy[types.ContentPaper] = []storage.Neighbor{{ID: "p1", Distance: 0.4}}
	store.rows[types.ContentPaper] = []storage.ContentRow{
		paperRow("p1", "Pulsar timing arrays"),
	}
	s := newTestSearcher(store)

	resp, err := s.Search(context.Background(), types.Query{
		Text: "pulsar", Type: types.FilterPapers, Locale: types.LocaleEN,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, store.legacyCalls)
	require.Len(t, resp.Papers, 1)
	assert.Equal(t, "p1", resp.Papers[0].ID)
}

func TestSearch_FTSFallbackNormalization(t *testing.T) {
	store := newFakeStore()
	// Nothing semantic at all; full text carries the query.
	store.ftsHits[types.ContentPaper] = []storage.FTSHit{
		{ID: "p2", Rank: -1.0},
		{ID: "p1", Rank: -5.0},
	}
	store.rows[types.ContentPaper] = []storage.ContentRow{
		paperRow("p1", "Quasar jets observed"),
		paperRow("p2", "Quasar catalog release"),
	}
	s := newTestSearcher(store)

	resp, err := s.Search(context.Background(), types.Query{
		Text: "quasar", Type: types.FilterPapers, Locale: types.LocaleEN,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, store.ftsCalls)
	assert.Equal(t, 0, store.patternCalls, "substring fallback must not run when FTS matched")

	require.Len(t, resp.Papers, 2)
	// Rank -5 normalizes to the 0.9 ceiling, -1 to the 0.5 floor; both
	// titles match the keyword so combined = 0.5*base + 0.5.
	assert.Equal(t, "p1", resp.Papers[0].ID)
	assert.InDelta(t, 0.95, resp.Papers[0].Score, 1e-9)
	assert.InDelta(t, 0.75, resp.Papers[1].Score, 1e-9)
}

func TestSearch_SubstringFallbackFlatScore(t *testing.T) {
	store := newFakeStore()
	store.patternRows[types.ContentPaper] = []storage.ContentRow{
		paperRow("p1", "SLS wet dress rehearsal"),
	}
	s := newTestSearcher(store)

	resp, err := s.Search(context.Background(), types.Query{
		Text: "rehearsal", Type: types.FilterPapers, Locale: types.LocaleEN,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, store.ftsCalls)
	assert.Equal(t, 1, store.patternCalls)

	require.Len(t, resp.Papers, 1)
	// base 0.5 flat, keyword 1.0 -> 0.75
	assert.InDelta(t, 0.75, resp.Papers[0].Score, 1e-9)
}

func TestSearch_NoMatchesAnywhere(t *testing.T) {
	store := newFakeStore()
	s := newTestSearcher(store)

	resp, err := s.Search(context.Background(), types.Query{
		Text: "xyzzy", Locale: types.LocaleEN,
	})
	require.NoError(t, err)

	assert.Equal(t, 0, resp.Total)
	assert.False(t, resp.ShowingRelated)
	assert.Equal(t, 0, resp.Pagination.TotalPages)
	assert.Equal(t, 1, resp.Pagination.Page)
	assert.False(t, resp.Pagination.HasNext)
	assert.False(t, resp.Pagination.HasPrev)
}

func TestSearch_RelatedFallbackWhenEverythingIsWeak(t *testing.T) {
	store := newFakeStore()
	// Distance 1.9 -> base 0.05; the title shares no keyword with the
	// query, so combined stays below the floor.
	store.semantic["paper|en"] = []storage.Neighbor{{ID: "p1", Distance: 1.9}}
	store.rows[types.ContentPaper] = []storage.ContentRow{
		paperRow("p1", "Unrelated topic entirely"),
	}
	s := newTestSearcher(store)

	resp, err := s.Search(context.Background(), types.Query{
		Text: "zork", Type: types.FilterPapers, Locale: types.LocaleEN,
	})
	require.NoError(t, err)

	// Weak best score also triggers the text fallback stages.
	assert.Equal(t, 1, store.ftsCalls)
	assert.Equal(t, 1, store.patternCalls)

	require.Len(t, resp.Papers, 1)
	assert.True(t, resp.ShowingRelated)
	assert.True(t, resp.Papers[0].LowRelevance)
	assert.Less(t, resp.Papers[0].Score, MinRelevanceScore)
	assert.Equal(t, 1, resp.Total)
}

func TestSearch_TiersNeverMix(t *testing.T) {
	store := newFakeStore()
	store.semantic["paper|en"] = []storage.Neighbor{
		{ID: "p1", Distance: 0.2}, // strong
		{ID: "p2", Distance: 1.9}, // weak
	}
	store.rows[types.ContentPaper] = []storage.ContentRow{
		paperRow("p1", "Comet nucleus flyby"),
		paperRow("p2", "Unrelated item"),
	}
	s := newTestSearcher(store)

	resp, err := s.Search(context.Background(), types.Query{
		Text: "comet", Type: types.FilterPapers, Locale: types.LocaleEN,
	})
	require.NoError(t, err)

	require.Len(t, resp.Papers, 1)
	assert.Equal(t, "p1", resp.Papers[0].ID)
	assert.False(t, resp.ShowingRelated)
}

func TestSearch_HydrationErrorPropagates(t *testing.T) {
	store := newFakeStore()
	store.semantic["paper|en"] = []storage.Neighbor{{ID: "p1", Distance: 0.2}}
	store.findErr = errors.New("disk gone")
	s := newTestSearcher(store)

	_, err := s.Search(context.Background(), types.Query{
		Text: "nebula", Type: types.FilterPapers, Locale: types.LocaleEN,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hydrate")
}

func TestSearch_TranslationErrorPropagates(t *testing.T) {
	store := newFakeStore()
	store.semantic["paper|zh-TW"] = []storage.Neighbor{{ID: "p1", Distance: 0.2}}
	store.rows[types.ContentPaper] = []storage.ContentRow{
		paperRow("p1", "Falcon rocket landing"),
	}
	store.trErr = errors.New("translations table locked")
	s := newTestSearcher(store)

	_, err := s.Search(context.Background(), types.Query{
		Text: "rocket", Type: types.FilterPapers, Locale: types.LocaleZhTW,
	})
	require.Error(t, err)
}

func TestSearch_TranslationOverlay(t *testing.T) {
	store := newFakeStore()
	store.semantic["paper|zh-TW"] = []storage.Neighbor{{ID: "p1", Distance: 0.2}}
	store.rows[types.ContentPaper] = []storage.ContentRow{
		paperRow("p1", "Falcon rocket landing"),
	}
	store.translations = []storage.TranslationRow{
		{ItemType: types.ContentPaper, ItemID: "p1", Lang: types.LocaleZhTW,
			Title: "獵鷹火箭著陸", Summary: "火箭回收"},
	}
	s := newTestSearcher(store)

	resp, err := s.Search(context.Background(), types.Query{
		Text: "獵鷹", Type: types.FilterPapers, Locale: types.LocaleZhTW,
	})
	require.NoError(t, err)

	require.Len(t, resp.Papers, 1)
	assert.Equal(t, "獵鷹火箭著陸", resp.Papers[0].Title)
	assert.Equal(t, "火箭回收", resp.Papers[0].Summary)
}

func TestSearch_DateFiltering(t *testing.T) {
	store := newFakeStore()
	store.semantic["paper|en"] = []storage.Neighbor{
		{ID: "old", Distance: 0.2},
		{ID: "new", Distance: 0.3},
		{ID: "undated", Distance: 0.4},
	}
	store.rows[types.ContentPaper] = []storage.ContentRow{
		{ID: "old", Type: types.ContentPaper, Title: "nebula archive", PublishedAt: "2020-03-01"},
		{ID: "new", Type: types.ContentPaper, Title: "nebula release", PublishedAt: "2026-02-10T08:00:00Z"},
		{ID: "undated", Type: types.ContentPaper, Title: "nebula misc"},
	}
	s := newTestSearcher(store)

	resp, err := s.Search(context.Background(), types.Query{
		Text: "nebula", Type: types.FilterPapers, Locale: types.LocaleEN,
		DateFrom: "2026-01-01",
	})
	require.NoError(t, err)

	// The RFC 3339 timestamp truncates to its date; the undated row
	// fails the active bound.
	require.Len(t, resp.Papers, 1)
	assert.Equal(t, "new", resp.Papers[0].ID)
}

func TestSearch_MalformedDateBoundIgnored(t *testing.T) {
	store := newFakeStore()
	store.semantic["paper|en"] = []storage.Neighbor{{ID: "p1", Distance: 0.2}}
	store.rows[types.ContentPaper] = []storage.ContentRow{
		paperRow("p1", "Crab nebula imaging"),
	}
	s := newTestSearcher(store)

	for _, bound := range []string{"not-a-date", "2026-13-40", "2026/01/01"} {
		resp, err := s.Search(context.Background(), types.Query{
			Text: "nebula", Type: types.FilterPapers, Locale: types.LocaleEN,
			DateFrom: bound,
		})
		require.NoError(t, err)
		assert.Len(t, resp.Papers, 1, "bound %q should be treated as absent", bound)
	}
}

func TestSearch_Pagination(t *testing.T) {
	store := newFakeStore()
	store.semantic["paper|en"] = []storage.Neighbor{
		{ID: "p1", Distance: 0.2},
		{ID: "p2", Distance: 0.4},
		{ID: "p3", Distance: 0.6},
	}
	store.rows[types.ContentPaper] = []storage.ContentRow{
		paperRow("p1", "nebula one"),
		paperRow("p2", "nebula two"),
		paperRow("p3", "nebula three"),
	}
	s := newTestSearcher(store)

	q := types.Query{
		Text: "nebula", Type: types.FilterPapers, Locale: types.LocaleEN,
		PerPage: 2, Page: 2,
	}
	resp, err := s.Search(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, 2, resp.Pagination.Page)
	assert.Equal(t, 2, resp.Pagination.TotalPages)
	assert.True(t, resp.Pagination.HasPrev)
	assert.False(t, resp.Pagination.HasNext)
	require.Len(t, resp.Papers, 1)
	assert.Equal(t, "p3", resp.Papers[0].ID)
}

func TestSearch_PageBeyondEndClamps(t *testing.T) {
	store := newFakeStore()
	store.semantic["paper|en"] = []storage.Neighbor{{ID: "p1", Distance: 0.2}}
	store.rows[types.ContentPaper] = []storage.ContentRow{
		paperRow("p1", "nebula one"),
	}
	s := newTestSearcher(store)

	resp, err := s.Search(context.Background(), types.Query{
		Text: "nebula", Type: types.FilterPapers, Locale: types.LocaleEN,
		PerPage: 10, Page: 99,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Pagination.Page)
	require.Len(t, resp.Papers, 1)
}

func TestSearch_CachedResponseSkipsStores(t *testing.T) {
	store := newFakeStore()
	store.semantic["paper|en"] = []storage.Neighbor{{ID: "p1", Distance: 0.2}}
	store.rows[types.ContentPaper] = []storage.ContentRow{
		paperRow("p1", "Crab nebula imaging"),
	}
	s := newTestSearcher(store)

	q := types.Query{Text: "nebula", Type: types.FilterPapers, Locale: types.LocaleEN}
	first, err := s.Search(context.Background(), q)
	require.NoError(t, err)
	callsAfterFirst := store.totalCalls()

	second, err := s.Search(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, callsAfterFirst, store.totalCalls())
	assert.Equal(t, first.Total, second.Total)

	// Mutating one response must not leak into the cache.
	second.Papers[0].Title = "mutated"
	third, err := s.Search(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, "Crab nebula imaging", third.Papers[0].Title)
}

func TestSearch_InvalidateCache(t *testing.T) {
	store := newFakeStore()
	store.semantic["paper|en"] = []storage.Neighbor{{ID: "p1", Distance: 0.2}}
	store.rows[types.ContentPaper] = []storage.ContentRow{
		paperRow("p1", "Crab nebula imaging"),
	}
	s := newTestSearcher(store)

	q := types.Query{Text: "nebula", Type: types.FilterPapers, Locale: types.LocaleEN}
	_, err := s.Search(context.Background(), q)
	require.NoError(t, err)
	before := store.totalCalls()

	s.InvalidateCache()
	_, err = s.Search(context.Background(), q)
	require.NoError(t, err)
	assert.Greater(t, store.totalCalls(), before)
}

func TestSearch_Deterministic(t *testing.T) {
	store := newFakeStore()
	store.semantic["paper|zh-TW"] = []storage.Neighbor{
		{ID: "p1", Distance: 0.5},
		{ID: "p2", Distance: 0.5},
	}
	store.rows[types.ContentPaper] = []storage.ContentRow{
		paperRow("p1", "黑洞觀測"),
		paperRow("p2", "黑洞模擬"),
	}
	s := newTestSearcher(store)

	q := types.Query{Text: "黑洞", Type: types.FilterPapers, Locale: types.LocaleZhTW}
	first, err := s.Search(context.Background(), q)
	require.NoError(t, err)

	s.InvalidateCache()
	second, err := s.Search(context.Background(), q)
	require.NoError(t, err)

	require.Equal(t, len(first.Papers), len(second.Papers))
	for i := range first.Papers {
		assert.Equal(t, first.Papers[i].ID, second.Papers[i].ID)
		assert.Equal(t, first.Papers[i].Score, second.Papers[i].Score)
	}
	// Equal scores keep retrieval order.
	assert.Equal(t, "p1", first.Papers[0].ID)
}

func TestSearch_StaleCandidatesDroppedSilently(t *testing.T) {
	store := newFakeStore()
	store.semantic["paper|en"] = []storage.Neighbor{
		{ID: "gone", Distance: 0.1},
		{ID: "p1", Distance: 0.3},
	}
	store.rows[types.ContentPaper] = []storage.ContentRow{
		paperRow("p1", "nebula one"),
	}
	s := newTestSearcher(store)

	resp, err := s.Search(context.Background(), types.Query{
		Text: "nebula", Type: types.FilterPapers, Locale: types.LocaleEN,
	})
	require.NoError(t, err)

	require.Len(t, resp.Papers, 1)
	assert.Equal(t, "p1", resp.Papers[0].ID)
}

func TestSearch_SemanticErrorAbsorbed(t *testing.T) {
	store := newFakeStore()
	store.semanticErr = errors.New("embedding provider down")
	store.ftsHits[types.ContentPaper] = []storage.FTSHit{{ID: "p1", Rank: -2.0}}
	store.rows[types.ContentPaper] = []storage.ContentRow{
		paperRow("p1", "Quasar jets observed"),
	}
	s := newTestSearcher(store)

	resp, err := s.Search(context.Background(), types.Query{
		Text: "quasar", Type: types.FilterPapers, Locale: types.LocaleEN,
	})
	require.NoError(t, err)
	require.Len(t, resp.Papers, 1)
	assert.Equal(t, "p1", resp.Papers[0].ID)
}
