package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/cosmofeed/cosmofeed/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Run one search query and print the JSON response",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		store, srch, err := openApp(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		typeFilter, _ := cmd.Flags().GetString("type")
		limit, _ := cmd.Flags().GetInt("limit")
		page, _ := cmd.Flags().GetInt("page")
		locale, _ := cmd.Flags().GetString("locale")
		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")

		resp, err := srch.Search(context.Background(), types.Query{
			Text:     args[0],
			Type:     types.ParseTypeFilter(typeFilter),
			PerPage:  limit,
			Page:     page,
			Locale:   types.ParseLocale(locale),
			DateFrom: from,
			DateTo:   to,
		})
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	},
}

func init() {
	searchCmd.Flags().String("type", "all", "content type filter (all|papers|videos|nasa)")
	searchCmd.Flags().Int("limit", types.DefaultPerPage, "results per page")
	searchCmd.Flags().Int("page", 1, "page number")
	searchCmd.Flags().String("locale", "en", "locale (en|zh-TW|ja)")
	searchCmd.Flags().String("from", "", "publish date range start (YYYY-MM-DD)")
	searchCmd.Flags().String("to", "", "publish date range end (YYYY-MM-DD)")
	rootCmd.AddCommand(searchCmd)
}
