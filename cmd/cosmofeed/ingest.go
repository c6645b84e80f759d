package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cosmofeed/cosmofeed/internal/storage"
	"github.com/cosmofeed/cosmofeed/pkg/types"
)

// ingestRecord is one JSON line on the ingest stream. Kind selects the
// target table: paper, video, nasa, or translation.
type ingestRecord struct {
	Kind string `json:"kind"`

	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Summary     string   `json:"summary"`
	Abstract    string   `json:"abstract,omitempty"`
	URL         string   `json:"url,omitempty"`
	PublishedAt string   `json:"publishedAt,omitempty"`
	Authors     []string `json:"authors,omitempty"`
	Categories  []string `json:"categories,omitempty"`
	Channel     string   `json:"channel,omitempty"`
	MediaType   string   `json:"mediaType,omitempty"`
	Center      string   `json:"center,omitempty"`

	// Translation records only.
	ItemType string `json:"itemType,omitempty"`
	ItemID   string `json:"itemId,omitempty"`
	Lang     string `json:"lang,omitempty"`
}

var ingestCmd = &cobra.Command{
	Use:   "ingest [file]",
	Short: "Ingest JSON-lines content records, writing rows and embeddings",
	Long: `ingest reads one JSON object per line, each tagged with a "kind" of
paper, video, nasa, or translation, and upserts it into the store.

Content records are also embedded (title plus summary) into the locale
partition given by --locale so they are reachable by semantic search.
Translation records update the localized title/summary overlay and the
translation full-text index.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		store, _, err := openApp(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		var in io.Reader = os.Stdin
		if len(args) == 1 {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()
			in = f
		}

		localeFlag, _ := cmd.Flags().GetString("locale")
		skipEmbed, _ := cmd.Flags().GetBool("skip-embed")
		locale := types.ParseLocale(localeFlag)

		return runIngest(cmd.Context(), store, in, locale, skipEmbed)
	},
}

func runIngest(ctx context.Context, store *storage.SQLiteStore, in io.Reader, locale types.Locale, skipEmbed bool) error {
	var ingested, skipped int

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var rec ingestRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			slog.Warn("skipping malformed record", "line", line, "error", err)
			skipped++
			continue
		}

		if err := ingestOne(ctx, store, rec, locale, skipEmbed); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		ingested++
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	slog.Info("ingest complete", "ingested", ingested, "skipped", skipped)
	return nil
}

func ingestOne(ctx context.Context, store *storage.SQLiteStore, rec ingestRecord, locale types.Locale, skipEmbed bool) error {
	if rec.Kind == "translation" {
		ct, err := contentTypeFor(rec.ItemType)
		if err != nil {
			return err
		}
		return store.UpsertTranslation(ctx, storage.TranslationRow{
			ItemType: ct,
			ItemID:   rec.ItemID,
			Lang:     types.ParseLocale(rec.Lang),
			Title:    rec.Title,
			Summary:  rec.Summary,
		})
	}

	ct, err := contentTypeFor(rec.Kind)
	if err != nil {
		return err
	}
	if rec.ID == "" {
		return fmt.Errorf("record of kind %q has no id", rec.Kind)
	}

	row := storage.ContentRow{
		ID:          rec.ID,
		Type:        ct,
		Title:       rec.Title,
		Summary:     rec.Summary,
		Abstract:    rec.Abstract,
		URL:         rec.URL,
		PublishedAt: rec.PublishedAt,
		Authors:     rec.Authors,
		Categories:  rec.Categories,
		Channel:     rec.Channel,
		MediaType:   rec.MediaType,
		Center:      rec.Center,
	}
	if err := store.UpsertContent(ctx, row); err != nil {
		return err
	}
	if skipEmbed {
		return nil
	}
	return store.EmbedContent(ctx, ct, rec.ID, locale, row.Title+"\n"+row.Snippet())
}

func contentTypeFor(kind string) (types.ContentType, error) {
	switch kind {
	case "paper":
		return types.ContentPaper, nil
	case "video":
		return types.ContentVideo, nil
	case "nasa":
		return types.ContentNASA, nil
	default:
		return "", fmt.Errorf("unknown record kind %q", kind)
	}
}

func init() {
	ingestCmd.Flags().String("locale", "en", "embedding partition locale for content records")
	ingestCmd.Flags().Bool("skip-embed", false, "upsert rows without computing embeddings")
	rootCmd.AddCommand(ingestCmd)
}
