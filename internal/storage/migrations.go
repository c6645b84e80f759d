package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// CurrentSchemaVersion tracks the database schema version.
const CurrentSchemaVersion = "1.0.0"

// Migration represents a database schema migration.
type Migration struct {
	Version string
	Up      string
	Down    string
}

// AllMigrations contains all database migrations in order.
var AllMigrations = []Migration{
	{
		Version: "1.0.0",
		Up:      migrationV1Up,
		Down:    migrationV1Down,
	},
}

const migrationV1Up = `
-- Schema version tracking
CREATE TABLE IF NOT EXISTS schema_version (
    version TEXT PRIMARY KEY,
    applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

-- Canonical content rows, one table per content type
CREATE TABLE IF NOT EXISTS papers (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    abstract TEXT DEFAULT '',
    summary TEXT DEFAULT '',
    url TEXT DEFAULT '',
    published_at TEXT DEFAULT '',
    authors TEXT DEFAULT '[]',
    categories TEXT DEFAULT '[]',
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_papers_published ON papers(published_at);

CREATE TABLE IF NOT EXISTS videos (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    summary TEXT DEFAULT '',
    url TEXT DEFAULT '',
    published_at TEXT DEFAULT '',
    channel TEXT DEFAULT '',
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_videos_published ON videos(published_at);

CREATE TABLE IF NOT EXISTS nasa_items (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    summary TEXT DEFAULT '',
    url TEXT DEFAULT '',
    published_at TEXT DEFAULT '',
    media_type TEXT DEFAULT '',
    center TEXT DEFAULT '',
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_nasa_published ON nasa_items(published_at);

-- Localized (title, summary) overrides written by the translation pipeline
CREATE TABLE IF NOT EXISTS translations (
    item_type TEXT NOT NULL,
    item_id TEXT NOT NULL,
    lang TEXT NOT NULL,
    title TEXT DEFAULT '',
    summary TEXT DEFAULT '',
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (item_type, item_id, lang)
);

-- Embeddings partitioned by (item_type, locale); locale '' is the
-- legacy pre-partitioning index
CREATE TABLE IF NOT EXISTS embeddings (
    item_type TEXT NOT NULL,
    item_id TEXT NOT NULL,
    locale TEXT NOT NULL DEFAULT '',
    vector BLOB NOT NULL,
    dimension INTEGER NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (item_type, item_id, locale)
);

CREATE INDEX IF NOT EXISTS idx_embeddings_partition ON embeddings(item_type, locale);

-- Full-text indexes, kept in sync by triggers
CREATE VIRTUAL TABLE IF NOT EXISTS papers_fts USING fts5(
    item_id UNINDEXED,
    title,
    abstract,
    summary
);

CREATE TRIGGER IF NOT EXISTS papers_fts_insert AFTER INSERT ON papers BEGIN
    INSERT INTO papers_fts(item_id, title, abstract, summary)
    VALUES (new.id, new.title, new.abstract, new.summary);
END;

CREATE TRIGGER IF NOT EXISTS papers_fts_delete AFTER DELETE ON papers BEGIN
    DELETE FROM papers_fts WHERE item_id = old.id;
END;

CREATE TRIGGER IF NOT EXISTS papers_fts_update AFTER UPDATE ON papers BEGIN
    DELETE FROM papers_fts WHERE item_id = old.id;
    INSERT INTO papers_fts(item_id, title, abstract, summary)
    VALUES (new.id, new.title, new.abstract, new.summary);
END;

CREATE VIRTUAL TABLE IF NOT EXISTS videos_fts USING fts5(
    item_id UNINDEXED,
    title,
    summary
);

CREATE TRIGGER IF NOT EXISTS videos_fts_insert AFTER INSERT ON videos BEGIN
    INSERT INTO videos_fts(item_id, title, summary)
    VALUES (new.id, new.title, new.summary);
END;

CREATE TRIGGER IF NOT EXISTS videos_fts_delete AFTER DELETE ON videos BEGIN
    DELETE FROM videos_fts WHERE item_id = old.id;
END;

CREATE TRIGGER IF NOT EXISTS videos_fts_update AFTER UPDATE ON videos BEGIN
    DELETE FROM videos_fts WHERE item_id = old.id;
    INSERT INTO videos_fts(item_id, title, summary)
    VALUES (new.id, new.title, new.summary);
END;

CREATE VIRTUAL TABLE IF NOT EXISTS nasa_fts USING fts5(
    item_id UNINDEXED,
    title,
    summary
);

CREATE TRIGGER IF NOT EXISTS nasa_fts_insert AFTER INSERT ON nasa_items BEGIN
    INSERT INTO nasa_fts(item_id, title, summary)
    VALUES (new.id, new.title, new.summary);
END;

CREATE TRIGGER IF NOT EXISTS nasa_fts_delete AFTER DELETE ON nasa_items BEGIN
    DELETE FROM nasa_fts WHERE item_id = old.id;
END;

CREATE TRIGGER IF NOT EXISTS nasa_fts_update AFTER UPDATE ON nasa_items BEGIN
    DELETE FROM nasa_fts WHERE item_id = old.id;
    INSERT INTO nasa_fts(item_id, title, summary)
    VALUES (new.id, new.title, new.summary);
END;

CREATE VIRTUAL TABLE IF NOT EXISTS translations_fts USING fts5(
    item_type UNINDEXED,
    item_id UNINDEXED,
    lang UNINDEXED,
    title,
    summary
);

CREATE TRIGGER IF NOT EXISTS translations_fts_insert AFTER INSERT ON translations BEGIN
    INSERT INTO translations_fts(item_type, item_id, lang, title, summary)
    VALUES (new.item_type, new.item_id, new.lang, new.title, new.summary);
END;

CREATE TRIGGER IF NOT EXISTS translations_fts_delete AFTER DELETE ON translations BEGIN
    DELETE FROM translations_fts
    WHERE item_type = old.item_type AND item_id = old.item_id AND lang = old.lang;
END;

CREATE TRIGGER IF NOT EXISTS translations_fts_update AFTER UPDATE ON translations BEGIN
    DELETE FROM translations_fts
    WHERE item_type = old.item_type AND item_id = old.item_id AND lang = old.lang;
    INSERT INTO translations_fts(item_type, item_id, lang, title, summary)
    VALUES (new.item_type, new.item_id, new.lang, new.title, new.summary);
END;
`

const migrationV1Down = `
DROP TABLE IF EXISTS translations_fts;
DROP TABLE IF EXISTS nasa_fts;
DROP TABLE IF EXISTS videos_fts;
DROP TABLE IF EXISTS papers_fts;
DROP TABLE IF EXISTS embeddings;
DROP TABLE IF EXISTS translations;
DROP TABLE IF EXISTS nasa_items;
DROP TABLE IF EXISTS videos;
DROP TABLE IF EXISTS papers;
DROP TABLE IF EXISTS schema_version;
`

// ApplyMigrations applies all pending migrations to the database.
func ApplyMigrations(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	for _, m := range AllMigrations {
		applied, err := migrationApplied(ctx, db, m.Version)
		if err != nil {
			return err
		}
		if applied {
			continue
		}
		if _, err := db.ExecContext(ctx, m.Up); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", m.Version, err)
		}
		if _, err := db.ExecContext(ctx,
			`INSERT INTO schema_version (version) VALUES (?)`, m.Version); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", m.Version, err)
		}
	}
	return nil
}

func migrationApplied(ctx context.Context, db *sql.DB, version string) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM schema_version WHERE version = ?`, version).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check migration %s: %w", version, err)
	}
	return count > 0, nil
}
