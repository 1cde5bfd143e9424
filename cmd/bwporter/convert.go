package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nvinuesa/bwporter/internal/gpcsv"
	"github.com/nvinuesa/bwporter/internal/model"
	"github.com/nvinuesa/bwporter/internal/sources"
)

const defaultOutputPath = "google_passwords.csv"

var convertFlags struct {
	input   string
	output  string
	dryRun  bool
	verbose bool
	quiet   bool
}

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a Bitwarden export to Google Passwords CSV",
	Long: `Convert a Bitwarden export file to the Google Passwords CSV format.

The input file extension selects the reader: .csv for Bitwarden CSV
exports, .json for unencrypted Bitwarden JSON exports. Any other
extension is rejected before any file is read or written.

Entries without a login URI are given a sentinel URL and a synthesized
username so Google Password Manager accepts them as regular rows.

Examples:
  # Convert a CSV export (default output: google_passwords.csv)
  bwporter convert -i bitwarden_export.csv

  # Convert a JSON export with a custom output name
  bwporter convert -i bitwarden_export.json -o custom_output.csv

  # Preview without writing output
  bwporter convert -i bitwarden_export.json --dry-run`,
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&convertFlags.input, "input", "i", "", "Path to the Bitwarden export file (CSV or JSON, required)")
	convertCmd.Flags().StringVarP(&convertFlags.output, "output", "o", defaultOutputPath, "Path to save the Google CSV file")
	convertCmd.Flags().BoolVar(&convertFlags.dryRun, "dry-run", false, "Preview only, no output file")
	convertCmd.Flags().BoolVarP(&convertFlags.verbose, "verbose", "v", false, "Verbose output")
	convertCmd.Flags().BoolVarP(&convertFlags.quiet, "quiet", "q", false, "Suppress all output except errors")

	convertCmd.MarkFlagRequired("input")
}

func runConvert(cmd *cobra.Command, args []string) error {
	if convertFlags.input == "" {
		return fmt.Errorf("input path is required")
	}

	// Extension dispatch happens before any I/O so an unsupported format
	// fails without touching the filesystem.
	registry := sources.DefaultRegistry()
	source, err := registry.ForExtension(convertFlags.input)
	if err != nil {
		return err
	}

	if err := source.Open(convertFlags.input); err != nil {
		return fmt.Errorf("failed to open source: %w", err)
	}
	defer source.Close()

	if convertFlags.verbose && !convertFlags.quiet {
		fmt.Fprintf(os.Stderr, "Reading entries from %s...\n", convertFlags.input)
	}

	records, err := source.Read()
	if err != nil {
		return fmt.Errorf("failed to read entries: %w", err)
	}

	if !convertFlags.quiet {
		printConversionSummary(records, source.Name())
	}

	if convertFlags.dryRun {
		if !convertFlags.quiet {
			fmt.Fprintln(os.Stderr, "\n[Dry run - no output written]")
		}
		return nil
	}

	if err := gpcsv.WriteFile(convertFlags.output, records); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if !convertFlags.quiet {
		fmt.Printf("Google CSV file saved as %s\n", convertFlags.output)
	}

	return nil
}

func printConversionSummary(records []model.Record, sourceName string) {
	fmt.Fprintf(os.Stderr, "Source: %s (%s)\n", sourceName, convertFlags.input)
	fmt.Fprintf(os.Stderr, "Entries: %d total\n", len(records))

	if noteCount := gpcsv.SecureNoteCount(records); noteCount > 0 {
		fmt.Fprintf(os.Stderr, "  - %d secure note(s) will use the sentinel URL\n", noteCount)
	}
}
