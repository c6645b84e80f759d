package storage

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"sort"
)

// serializeVector converts a float32 slice to little-endian bytes for
// BLOB storage, compatible with the sqlite-vec extension format.
func serializeVector(vector []float32) []byte {
	buf := make([]byte, len(vector)*4)
	for i, v := range vector {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// deserializeVector converts stored BLOB bytes back to a float32 slice.
func deserializeVector(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("invalid vector blob length %d", len(data))
	}
	vector := make([]float32, len(data)/4)
	for i := range vector {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return vector, nil
}

// cosineDistance returns 1 - cosine similarity, in [0,2].
func cosineDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 2.0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 2.0
	}
	return 1.0 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}

// searchSemantic queries one (item_type, locale) embedding partition
// for the n nearest neighbors of queryVector. locale "" addresses the
// legacy unpartitioned index.
func searchSemantic(ctx context.Context, db *sql.DB, itemType, locale string, queryVector []float32, n int) ([]Neighbor, error) {
	if n <= 0 {
		return []Neighbor{}, nil
	}
	if VectorExtensionAvailable {
		return searchSemanticOptimized(ctx, db, itemType, locale, queryVector, n)
	}
	return searchSemanticFallback(ctx, db, itemType, locale, queryVector, n)
}

// searchSemanticOptimized computes cosine distance at the SQL layer via
// the sqlite-vec extension.
func searchSemanticOptimized(ctx context.Context, db *sql.DB, itemType, locale string, queryVector []float32, n int) ([]Neighbor, error) {
	query := `
		SELECT item_id, vec_distance_cosine(vector, ?) AS distance
		FROM embeddings
		WHERE item_type = ? AND locale = ?
		ORDER BY distance ASC
		LIMIT ?
	`
	rows, err := db.QueryContext(ctx, query, serializeVector(queryVector), itemType, locale, n)
	if err != nil {
		return nil, fmt.Errorf("failed to execute semantic search: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []Neighbor
	for rows.Next() {
		var nb Neighbor
		if err := rows.Scan(&nb.ID, &nb.Distance); err != nil {
			return nil, fmt.Errorf("failed to scan neighbor: %w", err)
		}
		results = append(results, nb)
	}
	return results, rows.Err()
}

// searchSemanticFallback loads the partition's vectors and computes
// cosine distance in Go. Used for purego builds.
func searchSemanticFallback(ctx context.Context, db *sql.DB, itemType, locale string, queryVector []float32, n int) ([]Neighbor, error) {
	query := `
		SELECT item_id, vector
		FROM embeddings
		WHERE item_type = ? AND locale = ?
	`
	rows, err := db.QueryContext(ctx, query, itemType, locale)
	if err != nil {
		return nil, fmt.Errorf("failed to load embeddings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []Neighbor
	for rows.Next() {
		var id string
		var blob []byte
		if err := rows.Scan(&id, &blob); err != nil {
			return nil, fmt.Errorf("failed to scan embedding: %w", err)
		}
		vec, err := deserializeVector(blob)
		if err != nil {
			return nil, err
		}
		results = append(results, Neighbor{ID: id, Distance: cosineDistance(queryVector, vec)})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})
	if len(results) > n {
		results = results[:n]
	}
	return results, nil
}
