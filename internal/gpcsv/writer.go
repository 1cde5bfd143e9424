package gpcsv

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/nvinuesa/bwporter/internal/model"
)

// Writer errors.
var (
	ErrNoOutputPath = errors.New("output path is required")
)

// SecureNoteCount returns how many records in the slice are secure notes,
// i.e. how many counter values an export would consume.
func SecureNoteCount(records []model.Record) int {
	count := 0
	for _, rec := range records {
		if rec.IsSecureNote() {
			count++
		}
	}
	return count
}

// MapAll converts records to output rows in input order. The secure-note
// counter starts at 1 and is consumed only by records with both URI and
// username empty; all other records are mapped without one.
func MapAll(records []model.Record) []Row {
	rows := make([]Row, 0, len(records))

	secureNoteCounter := 1
	for _, rec := range records {
		if rec.IsSecureNote() {
			rows = append(rows, MapRecord(rec, &secureNoteCounter))
			secureNoteCounter++
		} else {
			rows = append(rows, MapRecord(rec, nil))
		}
	}

	return rows
}

// Write serializes records as Google Passwords CSV to w: header line first,
// then one row per record in input order.
func Write(w io.Writer, records []model.Record) error {
	csvWriter := csv.NewWriter(w)

	if err := csvWriter.Write(Header); err != nil {
		return err
	}

	for _, row := range MapAll(records) {
		if err := csvWriter.Write([]string{row.Name, row.URL, row.Username, row.Password, row.Note}); err != nil {
			return err
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// WriteFile writes the Google Passwords CSV to the given path, creating
// parent directories as needed. The file is created with owner-only
// permissions since it holds plaintext passwords.
func WriteFile(path string, records []model.Record) error {
	if path == "" {
		return ErrNoOutputPath
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}

	if err := Write(f, records); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}
