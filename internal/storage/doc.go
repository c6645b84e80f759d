// Package storage defines the narrow store interfaces the search engine
// consumes (semantic index, content rows, translations, full-text
// index) and provides the SQLite implementation of all four.
//
// The engine only reads. Writes (upserts of content rows, translations,
// and embeddings) are the ingestion path used by the external
// aggregation pipeline and by tests.
//
// # Build Tags
//
// Two build configurations are supported, mirroring the two SQLite
// drivers:
//
//   - sqlite_vec (CGO): github.com/mattn/go-sqlite3 with the sqlite-vec
//     extension for SQL-level cosine distance.
//   - default/purego: modernc.org/sqlite with Go-side cosine distance.
package storage
