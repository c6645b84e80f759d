package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cosmofeed/cosmofeed/internal/config"
	"github.com/cosmofeed/cosmofeed/internal/embedder"
	"github.com/cosmofeed/cosmofeed/internal/lexicon"
	"github.com/cosmofeed/cosmofeed/internal/searcher"
	"github.com/cosmofeed/cosmofeed/internal/storage"
)

// openApp wires the store, embedder, and searcher from config. The
// caller owns closing the store.
func openApp(cfg *config.Config) (*storage.SQLiteStore, *searcher.Searcher, error) {
	if dir := filepath.Dir(cfg.DBPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	emb, err := embedder.New(embedder.Config{
		Provider:  cfg.Embedder.Provider,
		Model:     cfg.Embedder.Model,
		APIKey:    cfg.Embedder.APIKey,
		CacheSize: cfg.Embedder.CacheSize,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize embedder: %w", err)
	}

	store, err := storage.NewSQLiteStore(cfg.DBPath, emb)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	return store, searcher.NewSearcher(store, lexicon.Default()), nil
}
