package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cosmofeed/cosmofeed/internal/mcp"
	"github.com/cosmofeed/cosmofeed/internal/storage"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the search engine to tool-calling agents over MCP on stdio",
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

		slog.Info("mcp server starting",
			"version", version,
			"buildMode", storage.BuildMode,
			"driver", storage.DriverName)

		server := mcp.NewServer(srch, store)
		return server.Serve(context.Background())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
