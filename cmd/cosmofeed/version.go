package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/cosmofeed/cosmofeed/internal/storage"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("cosmofeed %s\n", version)
		fmt.Printf("  go:        %s\n", runtime.Version())
		fmt.Printf("  buildMode: %s\n", storage.BuildMode)
		fmt.Printf("  driver:    %s\n", storage.DriverName)
		fmt.Printf("  sqliteVec: %v\n", storage.VectorExtensionAvailable)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
