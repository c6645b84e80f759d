// Package main is the entry point for the cosmofeed CLI: serving the
// multilingual search engine over HTTP and MCP, one-shot queries, and
// the ingestion write path.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cosmofeed/cosmofeed/internal/config"
)

// version is set at build time via ldflags.
var version = "dev"

var cfgFile string

// rootCmd is the base command for the cosmofeed CLI.
var rootCmd = &cobra.Command{
	Use:   "cosmofeed",
	Short: "Multilingual hybrid search over aggregated astronomy content",
	Long: `cosmofeed serves relevance search over aggregated astronomy/aerospace
content: papers, videos, and NASA media items, with localized titles and
summaries. Search degrades gracefully from semantic vector search through
cross-locale and full-text fallbacks down to substring matching.

The engine is exposed over HTTP (serve) for browsers and over MCP (mcp)
for tool-calling agents; search runs one query from the command line.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./cosmofeed.yaml or ~/.config/cosmofeed/config.yaml)")

	// Log to stderr; stdout is reserved for command output and the MCP
	// protocol.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))
}

// loadConfig reads the effective configuration for a command run.
func loadConfig() (*config.Config, error) {
	return config.Load(cfgFile)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
