// Package main provides the entry point for the bwporter CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	Version   = "0.1.0-edge"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "bwporter",
	Short: "Convert Bitwarden exports to Google Passwords CSV",
	Long: `bwporter converts Bitwarden export files (CSV or unencrypted JSON)
into the CSV format accepted by Google Password Manager.

The conversion runs offline in a single pass: the export is read into
memory, each entry is mapped to a Google CSV row, and the result is
written out in the original entry order.

Examples:
  # Convert a Bitwarden CSV export (default output: google_passwords.csv)
  bwporter convert -i bitwarden_export.csv

  # Convert a JSON export with a custom output name
  bwporter convert -i bitwarden_export.json -o custom_output.csv

  # Preview without conversion
  bwporter preview bitwarden_export.json`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Disable completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(sourcesCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
