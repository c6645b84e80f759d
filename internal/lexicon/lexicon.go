package lexicon

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/cosmofeed/cosmofeed/pkg/types"
)

// Expansion is the result of expanding one raw query.
type Expansion struct {
	// Query is the trimmed original query text.
	Query string
	// FTSQuery is the space-joined union of the original query and all
	// dictionary-expanded terms, used to build the full-text match.
	FTSQuery string
	// RerankTerms is the deduplicated token set used for keyword-overlap
	// scoring: word tokens, CJK characters and bigrams, the full CJK
	// query, and dictionary expansions in both directions.
	RerankTerms []string
	// HasCJK reports whether the query contains Han characters.
	HasCJK bool
	// HasLatin reports whether the query contains a run of two or more
	// consecutive Latin letters.
	HasLatin bool
}

// Lexicon is a bidirectional domain keyword dictionary. The zero value
// is not usable; construct with New or Default. The dictionary is data,
// not logic; callers may supply their own mapping.
type Lexicon struct {
	entries map[string][]string
	keys    []string // sorted for deterministic expansion order
}

// New builds a Lexicon from a CJK-phrase → Latin-synonyms mapping.
func New(entries map[string][]string) *Lexicon {
	keys := make([]string, 0, len(entries))
	normalized := make(map[string][]string, len(entries))
	for k, syns := range entries {
		lowered := make([]string, len(syns))
		for i, s := range syns {
			lowered[i] = strings.ToLower(s)
		}
		normalized[k] = lowered
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return &Lexicon{entries: normalized, keys: keys}
}

// Default returns a Lexicon seeded with the built-in zh-TW ↔ en
// astronomy/aerospace dictionary.
func Default() *Lexicon {
	return New(defaultEntries)
}

var latinRun = regexp.MustCompile(`[A-Za-z]{2,}`)
var wordToken = regexp.MustCompile(`[A-Za-z0-9]+`)

// Expand produces the term sets for one query in the given locale.
func (l *Lexicon) Expand(raw string, locale types.Locale) Expansion {
	trimmed := strings.TrimSpace(raw)
	exp := Expansion{
		Query:    trimmed,
		HasCJK:   containsCJK(trimmed),
		HasLatin: latinRun.MatchString(trimmed),
	}
	if trimmed == "" {
		exp.RerankTerms = []string{}
		return exp
	}

	rerank := newTermSet()
	dict := newTermSet() // dictionary expansions feed the FTS query too

	if exp.HasCJK {
		// Every dictionary phrase appearing in the query pulls in its
		// Latin synonyms, so a CJK query also matches English-only rows.
		for _, key := range l.keys {
			if strings.Contains(trimmed, key) {
				for _, syn := range l.entries[key] {
					dict.add(syn)
				}
			}
		}
		// Most domain terms are one or two characters, so index every
		// character and every overlapping bigram of each CJK run.
		for _, run := range cjkRuns(trimmed) {
			for i, r := range run {
				rerank.add(string(r))
				if i+1 < len(run) {
					rerank.add(string(run[i : i+2]))
				}
			}
		}
		rerank.add(strings.ToLower(trimmed))
	}

	if exp.HasLatin && !locale.IsBase() {
		// Reverse lookup: a Latin query under a non-base locale should
		// also reach CJK-only content.
		lower := strings.ToLower(trimmed)
		for _, key := range l.keys {
			for _, syn := range l.entries[key] {
				if strings.Contains(lower, syn) {
					dict.add(key)
					break
				}
			}
		}
	}

	// Word tokens of length >= 2, split on non-alphanumeric boundaries.
	for _, tok := range wordToken.FindAllString(trimmed, -1) {
		if len(tok) >= 2 {
			rerank.add(strings.ToLower(tok))
		}
	}

	for _, t := range dict.terms {
		rerank.add(t)
	}

	ftsTerms := append([]string{trimmed}, dict.terms...)
	exp.FTSQuery = strings.Join(ftsTerms, " ")
	exp.RerankTerms = rerank.terms
	return exp
}

// termSet is an insertion-ordered string set.
type termSet struct {
	terms []string
	seen  map[string]struct{}
}

func newTermSet() *termSet {
	return &termSet{seen: make(map[string]struct{})}
}

func (s *termSet) add(t string) {
	if t == "" {
		return
	}
	if _, ok := s.seen[t]; ok {
		return
	}
	s.seen[t] = struct{}{}
	s.terms = append(s.terms, t)
}

// containsCJK reports whether s contains at least one Han character.
func containsCJK(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

// cjkRuns extracts the maximal runs of consecutive Han characters.
func cjkRuns(s string) [][]rune {
	var runs [][]rune
	var cur []rune
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			cur = append(cur, r)
			continue
		}
		if len(cur) > 0 {
			runs = append(runs, cur)
			cur = nil
		}
	}
	if len(cur) > 0 {
		runs = append(runs, cur)
	}
	return runs
}

// Bigrams returns every overlapping two-character window of the CJK
// runs in s, used by the substring fallback to OR together LIKE
// patterns for logographic queries.
func Bigrams(s string) []string {
	set := newTermSet()
	for _, run := range cjkRuns(s) {
		for i := 0; i+1 < len(run); i++ {
			set.add(string(run[i : i+2]))
		}
	}
	return set.terms
}
