package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nvinuesa/bwporter/internal/sources"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List available source adapters",
	Long: `List all available source adapters that can be used to read exports.

Each adapter supports specific file extensions. The convert command picks
the adapter from the input file extension; preview can auto-detect by
content or be forced with --source.

Examples:
  # List all sources
  bwporter sources`,
	Run: runSources,
}

func runSources(cmd *cobra.Command, args []string) {
	registry := sources.DefaultRegistry()

	fmt.Println("Available source adapters:")
	fmt.Println()

	for _, source := range registry.List() {
		extStr := strings.Join(source.SupportedExtensions(), ", ")

		fmt.Printf("  %-16s %s\n", source.Name(), source.Description())
		fmt.Printf("  %-16s Extensions: %s\n", "", extStr)
		fmt.Println()
	}

	fmt.Println("Use 'bwporter convert -i <input>' to convert an export.")
}
