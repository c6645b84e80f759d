// Package lexicon expands free-text queries into the term sets the
// search engine needs: a full-text query string and a keyword set for
// overlap reranking. Expansion is driven by a bidirectional domain
// dictionary (traditional Chinese astronomy/rocketry phrases mapped to
// English synonyms) plus script-aware tokenization: CJK runs are
// decomposed into characters and overlapping bigrams, and Latin text
// into word tokens.
package lexicon
