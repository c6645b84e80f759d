package searcher

import (
	"context"
	"sort"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/cosmofeed/cosmofeed/internal/lexicon"
	"github.com/cosmofeed/cosmofeed/internal/storage"
	"github.com/cosmofeed/cosmofeed/pkg/types"
)

const (
	// semanticLimit is how many neighbors each semantic stage requests.
	semanticLimit = 30
	// ftsLimit caps full-text hits per index per type.
	ftsLimit = 30
)

// candidateSet accumulates (id, normalized score) pairs for one content
// type. Ids keep their first-seen order; a later stage appends new ids
// after earlier ones. Scores keep the first assignment unless addMax is
// used.
type candidateSet struct {
	ids    []string
	scores map[string]float64
}

func newCandidateSet() *candidateSet {
	return &candidateSet{scores: make(map[string]float64)}
}

// add records a candidate, keeping the first-assigned score for ids
// seen before.
func (c *candidateSet) add(id string, score float64) {
	if _, ok := c.scores[id]; ok {
		return
	}
	c.scores[id] = score
	c.ids = append(c.ids, id)
}

// addMax records a candidate, keeping the maximum score for ids seen
// before. Used when merging cross-locale semantic results.
func (c *candidateSet) addMax(id string, score float64) {
	if prev, ok := c.scores[id]; ok {
		if score > prev {
			c.scores[id] = score
		}
		return
	}
	c.scores[id] = score
	c.ids = append(c.ids, id)
}

func (c *candidateSet) size() int { return len(c.ids) }

// best returns the highest score in the set, or 0 when empty.
func (c *candidateSet) best() float64 {
	var max float64
	for _, s := range c.scores {
		if s > max {
			max = s
		}
	}
	return max
}

// runCascade executes the retrieval cascade for every active content
// type and returns one candidate set per type. Store failures inside a
// stage are absorbed; the stage simply contributes no candidates.
func (s *Searcher) runCascade(ctx context.Context, cts []types.ContentType, q types.Query, exp lexicon.Expansion) map[types.ContentType]*candidateSet {
	sets := make(map[types.ContentType]*candidateSet, len(cts))
	for _, ct := range cts {
		sets[ct] = newCandidateSet()
	}

	// Stage 1: locale-partition semantic search, all types in parallel.
	s.semanticStage(ctx, cts, sets, q.Locale, exp.Query, false)

	// Stage 2: base-locale fallback. Cross-language queries benefit
	// from also hitting the base index even when stage 1 found hits.
	if !q.Locale.IsBase() && (totalCandidates(sets) == 0 || exp.HasLatin) {
		s.semanticStage(ctx, cts, sets, types.BaseLocale, exp.Query, true)
	}

	// Stage 3: legacy unpartitioned index, only when nothing at all
	// was found across every active type.
	if totalCandidates(sets) == 0 {
		s.legacyStage(ctx, cts, sets, exp.Query)
	}

	// Stages 4-5: per-type text fallback for types that are still
	// empty or whose best candidate sits below the relevance floor.
	g, gctx := errgroup.WithContext(ctx)
	for _, ct := range cts {
		set := sets[ct]
		if set.size() > 0 && set.best() >= MinRelevanceScore {
			continue
		}
		ct := ct
		g.Go(func() error {
			s.textFallback(gctx, ct, q, exp, set)
			return nil
		})
	}
	_ = g.Wait()

	return sets
}

// semanticStage fans out one semantic query per content type against
// the given locale partition and merges results into the sets. With
// maxMerge set, scores reconcile by maximum per id.
func (s *Searcher) semanticStage(ctx context.Context, cts []types.ContentType, sets map[types.ContentType]*candidateSet, locale types.Locale, text string, maxMerge bool) {
	results := make([][]storage.Neighbor, len(cts))
	g, gctx := errgroup.WithContext(ctx)
	for i, ct := range cts {
		i, ct := i, ct
		g.Go(func() error {
			neighbors, err := s.store.Query(gctx, ct, locale, text, semanticLimit)
			if err != nil {
				// Absorbed: an unavailable partition yields no candidates.
				return nil
			}
			results[i] = neighbors
			return nil
		})
	}
	_ = g.Wait()

	for i, ct := range cts {
		set := sets[ct]
		for _, nb := range results[i] {
			score := distanceToScore(nb.Distance)
			if maxMerge {
				set.addMax(nb.ID, score)
			} else {
				set.add(nb.ID, score)
			}
		}
	}
}

// legacyStage queries the pre-locale-partitioning index per type.
func (s *Searcher) legacyStage(ctx context.Context, cts []types.ContentType, sets map[types.ContentType]*candidateSet, text string) {
	results := make([][]storage.Neighbor, len(cts))
	g, gctx := errgroup.WithContext(ctx)
	for i, ct := range cts {
		i, ct := i, ct
		g.Go(func() error {
			neighbors, err := s.store.QueryLegacy(gctx, ct, text, semanticLimit)
			if err != nil {
				return nil
			}
			results[i] = neighbors
			return nil
		})
	}
	_ = g.Wait()

	for i, ct := range cts {
		for _, nb := range results[i] {
			sets[ct].add(nb.ID, distanceToScore(nb.Distance))
		}
	}
}

// rankedHit pairs an id with its native full-text rank.
type rankedHit struct {
	id   string
	rank float64
}

// textFallback runs stage 4 (full-text) and, when that is unavailable
// or empty, stage 5 (substring match) for a single content type.
func (s *Searcher) textFallback(ctx context.Context, ct types.ContentType, q types.Query, exp lexicon.Expansion, set *candidateSet) {
	hits, ftsErr := s.store.SearchContent(ctx, ct, exp.FTSQuery, ftsLimit)

	var combined []rankedHit
	if ftsErr == nil {
		for _, h := range hits {
			combined = append(combined, rankedHit{id: h.ID, rank: h.Rank})
		}
	}

	// Localized-only matches live in the translations index.
	if !q.Locale.IsBase() {
		trHits, err := s.store.SearchTranslations(ctx, q.Locale, exp.FTSQuery, ftsLimit)
		if err == nil {
			for _, h := range trHits {
				if h.ItemType == ct {
					combined = append(combined, rankedHit{id: h.ItemID, rank: h.Rank})
				}
			}
		}
	}

	if len(combined) > 0 {
		// Better matches first: more negative native rank wins.
		sort.SliceStable(combined, func(i, j int) bool {
			return combined[i].rank < combined[j].rank
		})
		ranks := make([]float64, len(combined))
		for i, h := range combined {
			ranks[i] = h.rank
		}
		scores := normalizeFTSRanks(ranks)
		for i, h := range combined {
			set.add(h.id, scores[i])
		}
		return
	}

	// Stage 5: substring fallback.
	s.substringFallback(ctx, ct, q, exp, set)
}

// substringFallback matches %term% patterns against the canonical rows
// and, off the base locale, the translations store. Every match gets a
// flat score.
func (s *Searcher) substringFallback(ctx context.Context, ct types.ContentType, q types.Query, exp lexicon.Expansion, set *candidateSet) {
	terms := []string{exp.Query}
	if exp.HasCJK && utf8.RuneCountInString(exp.Query) >= 2 {
		terms = append(terms, lexicon.Bigrams(exp.Query)...)
	}

	rows, err := s.store.FindByPatterns(ctx, ct, terms)
	if err == nil {
		for _, row := range rows {
			set.add(row.ID, substringScore)
		}
	}

	if !q.Locale.IsBase() {
		trs, err := s.store.MatchTranslations(ctx, q.Locale, terms)
		if err == nil {
			for _, tr := range trs {
				if tr.ItemType == ct {
					set.add(tr.ItemID, substringScore)
				}
			}
		}
	}
}

func totalCandidates(sets map[types.ContentType]*candidateSet) int {
	total := 0
	for _, set := range sets {
		total += set.size()
	}
	return total
}
