package searcher

import (
	"context"
	"crypto/sha256"
	"fmt"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"github.com/cosmofeed/cosmofeed/internal/lexicon"
	"github.com/cosmofeed/cosmofeed/internal/storage"
	"github.com/cosmofeed/cosmofeed/pkg/types"
)

const (
	// defaultCacheSize bounds the response cache.
	defaultCacheSize = 512
	// defaultCacheTTL is how long a cached response stays valid.
	defaultCacheTTL = 5 * time.Minute
)

// cacheEntry is a cached search response with expiration time.
type cacheEntry struct {
	response  *types.SearchResponse
	expiresAt time.Time
}

// Searcher coordinates the full query pipeline. It is stateless
// between queries except for the response cache; it never writes to
// the stores and is safe for concurrent use.
type Searcher struct {
	store   storage.Backend
	lexicon *lexicon.Lexicon
	cache   *lru.Cache[[32]byte, *cacheEntry]
	cacheMu sync.RWMutex
	ttl     time.Duration
}

// NewSearcher creates a Searcher over the given backend and lexicon.
func NewSearcher(store storage.Backend, lex *lexicon.Lexicon) *Searcher {
	cache, err := lru.New[[32]byte, *cacheEntry](defaultCacheSize)
	if err != nil {
		// Only possible with a non-positive size constant.
		panic(fmt.Sprintf("failed to create response cache: %v", err))
	}
	return &Searcher{
		store:   store,
		lexicon: lex,
		cache:   cache,
		ttl:     defaultCacheTTL,
	}
}

// Search executes one query end to end and always returns a
// well-formed response on success. Retrieval-stage store failures are
// absorbed by the cascade; hydration failures return an error.
func (s *Searcher) Search(ctx context.Context, q types.Query) (*types.SearchResponse, error) {
	q.Normalize()

	exp := s.lexicon.Expand(q.Text, q.Locale)
	q.Text = exp.Query
	if exp.Query == "" {
		// Whitespace-only queries short-circuit with no store calls.
		return types.Empty(q), nil
	}

	if cached := s.checkCache(q); cached != nil {
		return cached, nil
	}

	cts := q.Type.ContentTypes()
	sets := s.runCascade(ctx, cts, q, exp)

	// Hydration is batched per type; the three types proceed in
	// parallel like the retrieval pipelines.
	perType := make(map[types.ContentType][]hydratedItem, len(cts))
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, ct := range cts {
		ct := ct
		g.Go(func() error {
			items, err := s.hydrate(gctx, ct, q, sets[ct])
			if err != nil {
				return err
			}
			mu.Lock()
			perType[ct] = items
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	final, showingRelated := s.applyRelevanceGate(cts, perType, exp.RerankTerms)

	resp := mergeAndPaginate(q,
		final[types.ContentPaper],
		final[types.ContentVideo],
		final[types.ContentNASA])
	resp.ShowingRelated = showingRelated

	s.storeInCache(q, resp)
	return resp, nil
}

// applyRelevanceGate implements the two-tier result policy: show
// confident results when any type has them; otherwise fall back to the
// best low-relevance items rather than an empty response. The two
// tiers never mix.
func (s *Searcher) applyRelevanceGate(cts []types.ContentType, perType map[types.ContentType][]hydratedItem, terms []string) (map[types.ContentType][]types.ScoredResult, bool) {
	confident := make(map[types.ContentType][]types.ScoredResult, len(cts))
	total := 0
	for _, ct := range cts {
		res := rerank(perType[ct], terms, false)
		confident[ct] = res
		total += len(res)
	}
	if total > 0 {
		return confident, false
	}

	related := make(map[types.ContentType][]types.ScoredResult, len(cts))
	relatedTotal := 0
	for _, ct := range cts {
		res := rerank(perType[ct], terms, true)
		related[ct] = res
		relatedTotal += len(res)
	}
	return related, relatedTotal > 0
}

// checkCache returns a copy of a valid cached response, or nil.
func (s *Searcher) checkCache(q types.Query) *types.SearchResponse {
	hash := computeQueryHash(q)

	s.cacheMu.RLock()
	entry, found := s.cache.Get(hash)
	if !found {
		s.cacheMu.RUnlock()
		return nil
	}
	if time.Now().After(entry.expiresAt) {
		s.cacheMu.RUnlock()
		s.cacheMu.Lock()
		s.cache.Remove(hash)
		s.cacheMu.Unlock()
		return nil
	}
	resp := copyResponse(entry.response)
	s.cacheMu.RUnlock()
	return resp
}

// storeInCache saves a copy of the response under the request hash.
func (s *Searcher) storeInCache(q types.Query, resp *types.SearchResponse) {
	entry := &cacheEntry{
		response:  copyResponse(resp),
		expiresAt: time.Now().Add(s.ttl),
	}
	s.cacheMu.Lock()
	s.cache.Add(computeQueryHash(q), entry)
	s.cacheMu.Unlock()
}

// InvalidateCache drops every cached response, used after reindexing.
func (s *Searcher) InvalidateCache() {
	s.cacheMu.Lock()
	s.cache.Purge()
	s.cacheMu.Unlock()
}

// computeQueryHash builds a deterministic hash of a normalized query.
func computeQueryHash(q types.Query) [32]byte {
	var b strings.Builder
	b.WriteString(q.Text)
	b.WriteString("|")
	b.WriteString(string(q.Type))
	b.WriteString("|")
	b.WriteString(fmt.Sprintf("%d|%d|", q.PerPage, q.Page))
	b.WriteString(string(q.Locale))
	b.WriteString("|")
	b.WriteString(q.DateFrom)
	b.WriteString("|")
	b.WriteString(q.DateTo)
	return sha256.Sum256([]byte(b.String()))
}

// copyResponse creates a deep copy of a SearchResponse so cached
// entries can't be mutated by callers.
func copyResponse(src *types.SearchResponse) *types.SearchResponse {
	if src == nil {
		return nil
	}
	dst := *src
	dst.Papers = copyResults(src.Papers)
	dst.Videos = copyResults(src.Videos)
	dst.Nasa = copyResults(src.Nasa)
	return &dst
}

func copyResults(src []types.ScoredResult) []types.ScoredResult {
	dst := make([]types.ScoredResult, len(src))
	copy(dst, src)
	for i := range dst {
		if len(src[i].Authors) > 0 {
			dst[i].Authors = append([]string(nil), src[i].Authors...)
		}
		if len(src[i].Categories) > 0 {
			dst[i].Categories = append([]string(nil), src[i].Categories...)
		}
	}
	return dst
}
