package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/cosmofeed/cosmofeed/pkg/types"
)

// patternLimit caps how many rows a substring fallback scan returns.
const patternLimit = 50

// Embedder turns query text into a vector. The search engine never
// sees vectors; only this adapter needs one.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// SQLiteStore implements Backend plus the ingestion write path on a
// single SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	emb Embedder
}

var _ Backend = (*SQLiteStore)(nil)

// openDatabase opens a SQLite database with appropriate settings.
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite benefits from a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteStore opens (or creates) the database at dbPath and applies
// migrations. The embedder is used to vectorize query text for the
// semantic index.
func NewSQLiteStore(dbPath string, emb Embedder) (*SQLiteStore, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}
	return &SQLiteStore{db: db, emb: emb}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// contentTable maps a content type to its canonical table.
func contentTable(ct types.ContentType) (string, error) {
	switch ct {
	case types.ContentPaper:
		return "papers", nil
	case types.ContentVideo:
		return "videos", nil
	case types.ContentNASA:
		return "nasa_items", nil
	}
	return "", fmt.Errorf("%w: %q", types.ErrUnknownContentType, ct)
}

// ftsTable maps a content type to its full-text index table.
func ftsTable(ct types.ContentType) (string, error) {
	switch ct {
	case types.ContentPaper:
		return "papers_fts", nil
	case types.ContentVideo:
		return "videos_fts", nil
	case types.ContentNASA:
		return "nasa_fts", nil
	}
	return "", fmt.Errorf("%w: %q", types.ErrUnknownContentType, ct)
}

// Semantic index

// Query embeds the query text and returns the n nearest neighbors in
// the (type, locale) embedding partition.
func (s *SQLiteStore) Query(ctx context.Context, ct types.ContentType, locale types.Locale, text string, n int) ([]Neighbor, error) {
	vec, err := s.emb.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	return searchSemantic(ctx, s.db, string(ct), string(locale), vec, n)
}

// QueryLegacy queries the pre-locale-partitioning index for a type.
func (s *SQLiteStore) QueryLegacy(ctx context.Context, ct types.ContentType, text string, n int) ([]Neighbor, error) {
	vec, err := s.emb.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	return searchSemantic(ctx, s.db, string(ct), "", vec, n)
}

// Content store

func (s *SQLiteStore) FindByIDs(ctx context.Context, ct types.ContentType, ids []string) ([]ContentRow, error) {
	if len(ids) == 0 {
		return []ContentRow{}, nil
	}
	table, err := contentTable(ct)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id IN (%s)`,
		contentColumns(ct), table, placeholders(len(ids)))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return s.queryContentRows(ctx, ct, query, args...)
}

func (s *SQLiteStore) FindByPatterns(ctx context.Context, ct types.ContentType, terms []string) ([]ContentRow, error) {
	if len(terms) == 0 {
		return []ContentRow{}, nil
	}
	table, err := contentTable(ct)
	if err != nil {
		return nil, err
	}

	cols := []string{"title", "summary"}
	if ct == types.ContentPaper {
		cols = append(cols, "abstract")
	}
	var clauses []string
	var args []interface{}
	for _, term := range terms {
		pattern := "%" + escapeLike(term) + "%"
		for _, col := range cols {
			clauses = append(clauses, fmt.Sprintf("%s LIKE ? ESCAPE '\\'", col))
			args = append(args, pattern)
		}
	}
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s LIMIT %d`,
		contentColumns(ct), table, strings.Join(clauses, " OR "), patternLimit)
	return s.queryContentRows(ctx, ct, query, args...)
}

// contentColumns returns the SELECT column list for a content type.
func contentColumns(ct types.ContentType) string {
	switch ct {
	case types.ContentPaper:
		return "id, title, abstract, summary, url, published_at, authors, categories"
	case types.ContentVideo:
		return "id, title, summary, url, published_at, channel"
	default:
		return "id, title, summary, url, published_at, media_type, center"
	}
}

func (s *SQLiteStore) queryContentRows(ctx context.Context, ct types.ContentType, query string, args ...interface{}) ([]ContentRow, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s rows: %w", ct, err)
	}
	defer func() { _ = rows.Close() }()

	results := []ContentRow{}
	for rows.Next() {
		row := ContentRow{Type: ct}
		switch ct {
		case types.ContentPaper:
			var authors, categories string
			if err := rows.Scan(&row.ID, &row.Title, &row.Abstract, &row.Summary,
				&row.URL, &row.PublishedAt, &authors, &categories); err != nil {
				return nil, fmt.Errorf("failed to scan paper row: %w", err)
			}
			row.Authors = decodeStringList(authors)
			row.Categories = decodeStringList(categories)
		case types.ContentVideo:
			if err := rows.Scan(&row.ID, &row.Title, &row.Summary,
				&row.URL, &row.PublishedAt, &row.Channel); err != nil {
				return nil, fmt.Errorf("failed to scan video row: %w", err)
			}
		default:
			if err := rows.Scan(&row.ID, &row.Title, &row.Summary,
				&row.URL, &row.PublishedAt, &row.MediaType, &row.Center); err != nil {
				return nil, fmt.Errorf("failed to scan nasa row: %w", err)
			}
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// Translation store

func (s *SQLiteStore) FindTranslations(ctx context.Context, lang types.Locale, ct types.ContentType, ids []string) ([]TranslationRow, error) {
	if len(ids) == 0 {
		return []TranslationRow{}, nil
	}
	query := fmt.Sprintf(`
		SELECT item_type, item_id, lang, title, summary
		FROM translations
		WHERE lang = ? AND item_type = ? AND item_id IN (%s)`,
		placeholders(len(ids)))
	args := []interface{}{string(lang), string(ct)}
	for _, id := range ids {
		args = append(args, id)
	}
	return s.queryTranslationRows(ctx, query, args...)
}

func (s *SQLiteStore) MatchTranslations(ctx context.Context, lang types.Locale, terms []string) ([]TranslationRow, error) {
	if len(terms) == 0 {
		return []TranslationRow{}, nil
	}
	var clauses []string
	args := []interface{}{string(lang)}
	for _, term := range terms {
		pattern := "%" + escapeLike(term) + "%"
		clauses = append(clauses, "title LIKE ? ESCAPE '\\'", "summary LIKE ? ESCAPE '\\'")
		args = append(args, pattern, pattern)
	}
	query := fmt.Sprintf(`
		SELECT item_type, item_id, lang, title, summary
		FROM translations
		WHERE lang = ? AND (%s)
		LIMIT %d`, strings.Join(clauses, " OR "), patternLimit)
	return s.queryTranslationRows(ctx, query, args...)
}

func (s *SQLiteStore) queryTranslationRows(ctx context.Context, query string, args ...interface{}) ([]TranslationRow, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query translations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	results := []TranslationRow{}
	for rows.Next() {
		var tr TranslationRow
		var itemType, lang string
		if err := rows.Scan(&itemType, &tr.ItemID, &lang, &tr.Title, &tr.Summary); err != nil {
			return nil, fmt.Errorf("failed to scan translation: %w", err)
		}
		tr.ItemType = types.ContentType(itemType)
		tr.Lang = types.Locale(lang)
		results = append(results, tr)
	}
	return results, rows.Err()
}

// Full-text index

func (s *SQLiteStore) SearchContent(ctx context.Context, ct types.ContentType, match string, limit int) ([]FTSHit, error) {
	table, err := ftsTable(ct)
	if err != nil {
		return nil, err
	}
	sanitized := sanitizeFTSQuery(match)
	if sanitized == "" {
		return []FTSHit{}, nil
	}
	query := fmt.Sprintf(`
		SELECT item_id, rank
		FROM %s
		WHERE %s MATCH ?
		ORDER BY rank
		LIMIT ?`, table, table)
	rows, err := s.db.QueryContext(ctx, query, sanitized, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to execute FTS search: %w", err)
	}
	defer func() { _ = rows.Close() }()

	hits := []FTSHit{}
	for rows.Next() {
		var h FTSHit
		if err := rows.Scan(&h.ID, &h.Rank); err != nil {
			return nil, fmt.Errorf("failed to scan FTS hit: %w", err)
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

func (s *SQLiteStore) SearchTranslations(ctx context.Context, lang types.Locale, match string, limit int) ([]TranslationHit, error) {
	sanitized := sanitizeFTSQuery(match)
	if sanitized == "" {
		return []TranslationHit{}, nil
	}
	query := `
		SELECT item_type, item_id, rank
		FROM translations_fts
		WHERE translations_fts MATCH ? AND lang = ?
		ORDER BY rank
		LIMIT ?`
	rows, err := s.db.QueryContext(ctx, query, sanitized, string(lang), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to execute translations FTS search: %w", err)
	}
	defer func() { _ = rows.Close() }()

	hits := []TranslationHit{}
	for rows.Next() {
		var h TranslationHit
		var itemType string
		if err := rows.Scan(&itemType, &h.ItemID, &h.Rank); err != nil {
			return nil, fmt.Errorf("failed to scan translation hit: %w", err)
		}
		h.ItemType = types.ContentType(itemType)
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// Ingestion write path

// UpsertContent inserts or replaces one canonical content row.
func (s *SQLiteStore) UpsertContent(ctx context.Context, row ContentRow) error {
	switch row.Type {
	case types.ContentPaper:
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO papers (id, title, abstract, summary, url, published_at, authors, categories)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				title = excluded.title, abstract = excluded.abstract,
				summary = excluded.summary, url = excluded.url,
				published_at = excluded.published_at, authors = excluded.authors,
				categories = excluded.categories, updated_at = CURRENT_TIMESTAMP`,
			row.ID, row.Title, row.Abstract, row.Summary, row.URL, row.PublishedAt,
			encodeStringList(row.Authors), encodeStringList(row.Categories))
		return err
	case types.ContentVideo:
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO videos (id, title, summary, url, published_at, channel)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				title = excluded.title, summary = excluded.summary,
				url = excluded.url, published_at = excluded.published_at,
				channel = excluded.channel, updated_at = CURRENT_TIMESTAMP`,
			row.ID, row.Title, row.Summary, row.URL, row.PublishedAt, row.Channel)
		return err
	case types.ContentNASA:
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO nasa_items (id, title, summary, url, published_at, media_type, center)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				title = excluded.title, summary = excluded.summary,
				url = excluded.url, published_at = excluded.published_at,
				media_type = excluded.media_type, center = excluded.center,
				updated_at = CURRENT_TIMESTAMP`,
			row.ID, row.Title, row.Summary, row.URL, row.PublishedAt, row.MediaType, row.Center)
		return err
	}
	return fmt.Errorf("%w: %q", types.ErrUnknownContentType, row.Type)
}

// UpsertTranslation inserts or replaces one localized override.
func (s *SQLiteStore) UpsertTranslation(ctx context.Context, tr TranslationRow) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO translations (item_type, item_id, lang, title, summary)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(item_type, item_id, lang) DO UPDATE SET
			title = excluded.title, summary = excluded.summary,
			updated_at = CURRENT_TIMESTAMP`,
		string(tr.ItemType), tr.ItemID, string(tr.Lang), tr.Title, tr.Summary)
	return err
}

// UpsertEmbedding stores one vector in the (item_type, locale)
// partition. An empty locale addresses the legacy index.
func (s *SQLiteStore) UpsertEmbedding(ctx context.Context, ct types.ContentType, id, locale string, vec []float32) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO embeddings (item_type, item_id, locale, vector, dimension)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(item_type, item_id, locale) DO UPDATE SET
			vector = excluded.vector, dimension = excluded.dimension`,
		string(ct), id, locale, serializeVector(vec), len(vec))
	return err
}

// EmbedContent vectorizes text and stores it for the item in the given
// locale partition.
func (s *SQLiteStore) EmbedContent(ctx context.Context, ct types.ContentType, id string, locale types.Locale, text string) error {
	vec, err := s.emb.Embed(ctx, text)
	if err != nil {
		return fmt.Errorf("failed to embed content: %w", err)
	}
	return s.UpsertEmbedding(ctx, ct, id, string(locale), vec)
}

// Stats returns row counts for the status tool.
func (s *SQLiteStore) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	counts := []struct {
		table string
		dst   *int
	}{
		{"papers", &st.Papers},
		{"videos", &st.Videos},
		{"nasa_items", &st.NasaItems},
		{"translations", &st.Translations},
		{"embeddings", &st.Embeddings},
	}
	for _, c := range counts {
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s", c.table)
		if err := s.db.QueryRowContext(ctx, query).Scan(c.dst); err != nil {
			return Stats{}, fmt.Errorf("failed to count %s: %w", c.table, err)
		}
	}
	return st, nil
}

// Helpers

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func encodeStringList(list []string) string {
	if len(list) == 0 {
		return "[]"
	}
	data, err := json.Marshal(list)
	if err != nil {
		return "[]"
	}
	return string(data)
}

func decodeStringList(data string) []string {
	if data == "" || data == "[]" {
		return nil
	}
	var list []string
	if err := json.Unmarshal([]byte(data), &list); err != nil {
		return nil
	}
	return list
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

var ftsToken = regexp.MustCompile(`[\p{L}\p{N}]+`)

// sanitizeFTSQuery rewrites free text into a safe FTS5 OR-query of
// quoted tokens, stripping operator characters.
func sanitizeFTSQuery(q string) string {
	tokens := ftsToken.FindAllString(q, -1)
	if len(tokens) == 0 {
		return ""
	}
	quoted := make([]string, 0, len(tokens))
	seen := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		lower := strings.ToLower(tok)
		if _, ok := seen[lower]; ok {
			continue
		}
		seen[lower] = struct{}{}
		quoted = append(quoted, `"`+lower+`"`)
	}
	return strings.Join(quoted, " OR ")
}
