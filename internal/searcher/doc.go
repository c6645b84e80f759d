// Package searcher implements the hybrid multilingual search engine.
//
// A query runs through a fixed pipeline: term expansion (package
// lexicon), a per-content-type retrieval cascade, batched row
// hydration with locale overrides, score normalization, keyword-overlap
// reranking, a relevance gate, and merge/pagination.
//
// # Retrieval Cascade
//
// Each content type (papers, videos, nasa items) walks an ordered
// fallback sequence until it has usable candidates:
//
//  1. Semantic search in the (type, locale) partition.
//  2. Semantic search in the base-locale partition, when the locale is
//     not the base and either nothing was found anywhere or the query
//     contains Latin text. Scores merge by max per id.
//  3. Legacy unpartitioned semantic search, only when stages 1-2 found
//     nothing for any type.
//  4. Full-text search over the type's index and the translations
//     index, when the type still has nothing or only sub-floor scores.
//  5. Substring match, only when full-text search is unavailable or
//     empty.
//
// Failures in any stage are absorbed as "no candidates from this
// stage"; only hydration failures propagate to the caller.
//
// # Scoring
//
// Native scores are normalized to [0,1] (cosine distance d maps to
// max(0, 1-d/2), full-text ranks map linearly onto [0.5, 0.9],
// substring matches score a flat 0.5) and then combined 50/50 with a
// keyword-overlap score against the hydrated title and snippet. Items
// below the 0.15 relevance floor are only shown as an explicit
// related-items fallback, flagged via showingRelated.
package searcher
