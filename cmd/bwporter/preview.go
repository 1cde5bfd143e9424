package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/nvinuesa/bwporter/internal/gpcsv"
	"github.com/nvinuesa/bwporter/internal/model"
	"github.com/nvinuesa/bwporter/internal/sources"
)

var previewFlags struct {
	source string
	limit  int
}

var previewCmd = &cobra.Command{
	Use:   "preview [input-file]",
	Short: "Preview a Bitwarden export without conversion",
	Long: `Preview the entries in a Bitwarden export without writing any output.

The preview command shows a summary of what would be converted, including
entry counts and how each URL will be canonicalized. Passwords are always
shown masked.

Examples:
  # Preview a JSON export (source auto-detected)
  bwporter preview bitwarden_export.json

  # Preview a CSV export, forcing the adapter
  bwporter preview --source bitwarden-csv export.csv`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().StringVarP(&previewFlags.source, "source", "s", "", "source type (bitwarden-csv|bitwarden-json)")
	previewCmd.Flags().IntVarP(&previewFlags.limit, "limit", "n", 20, "maximum number of entries to list")
}

func runPreview(cmd *cobra.Command, args []string) error {
	// Show help if no args provided
	if len(args) == 0 {
		cmd.Help()
		return nil
	}

	inputPath := args[0]

	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input path does not exist: %s", inputPath)
	}

	// Get or detect source
	registry := sources.DefaultRegistry()
	var source sources.Source
	if previewFlags.source != "" {
		var ok bool
		source, ok = registry.Get(previewFlags.source)
		if !ok {
			return fmt.Errorf("unknown source type: %s", previewFlags.source)
		}
	} else {
		detected, err := registry.DetectSource(inputPath)
		if err != nil {
			return fmt.Errorf("could not auto-detect source type for: %s", inputPath)
		}
		source = detected
		fmt.Fprintf(os.Stderr, "Auto-detected source: %s\n", source.Name())
	}

	if err := source.Open(inputPath); err != nil {
		return fmt.Errorf("failed to open source: %w", err)
	}
	defer source.Close()

	records, err := source.Read()
	if err != nil {
		return fmt.Errorf("failed to read entries: %w", err)
	}

	printPreviewSummary(records, source.Name(), inputPath)

	// The per-entry listing is only for eyeballing in a terminal; keep
	// piped output to the summary so nothing sensitive lands in files.
	if term.IsTerminal(int(os.Stdout.Fd())) {
		printPreviewEntries(records, previewFlags.limit)
	}

	return nil
}

func printPreviewSummary(records []model.Record, sourceName, inputPath string) {
	fmt.Printf("Source: %s (%s)\n", sourceName, inputPath)
	fmt.Printf("Entries: %d total\n", len(records))
	fmt.Printf("Secure notes: %d\n", gpcsv.SecureNoteCount(records))
}

func printPreviewEntries(records []model.Record, limit int) {
	fmt.Println()
	for i, row := range gpcsv.MapAll(records) {
		if limit > 0 && i >= limit {
			fmt.Printf("  ... and %d more\n", len(records)-limit)
			break
		}
		fmt.Printf("  %-30s %-40s %s\n", truncate(row.Name, 30), truncate(row.URL, 40), maskPassword(row.Password))
	}
}

func maskPassword(password string) string {
	if password == "" {
		return ""
	}
	return strings.Repeat("*", 8)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
