// Package sources provides adapters for reading Bitwarden export files.
package sources

import (
	"github.com/nvinuesa/bwporter/internal/model"
)

// Source defines the interface for export-file adapters.
// Each adapter reads one Bitwarden export format (CSV or JSON) and converts
// it to the internal record representation.
type Source interface {
	// Name returns the unique identifier for this source (e.g., "bitwarden-csv").
	Name() string

	// Description returns a human-readable description of the source.
	Description() string

	// SupportedExtensions returns file extensions this source handles (e.g., [".csv"]).
	SupportedExtensions() []string

	// Detect checks if the given path is valid for this source.
	// Returns a confidence score from 0-100 (100 = definitely this format).
	// A score of 0 means this source cannot handle the path.
	Detect(path string) (confidence int, err error)

	// Open initializes the source with the given file path.
	Open(path string) error

	// Read returns all records from the source in file order.
	// May be called multiple times; returns the same results.
	Read() ([]model.Record, error)

	// Close releases any resources held by the source.
	Close() error
}
