package sources

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/nvinuesa/bwporter/internal/model"
)

// Bitwarden CSV header columns.
const (
	csvColName     = "name"
	csvColURI      = "login_uri"
	csvColUsername = "login_username"
	csvColPassword = "login_password"
	csvColNotes    = "notes"
)

// BitwardenCSVSource implements the Source interface for Bitwarden CSV exports.
type BitwardenCSVSource struct {
	filePath string
	isOpen   bool
	records  []model.Record
}

// NewBitwardenCSVSource creates a new Bitwarden CSV source adapter.
func NewBitwardenCSVSource() *BitwardenCSVSource {
	return &BitwardenCSVSource{}
}

// Name returns the unique identifier for this source.
func (s *BitwardenCSVSource) Name() string {
	return "bitwarden-csv"
}

// Description returns a human-readable description.
func (s *BitwardenCSVSource) Description() string {
	return "Bitwarden CSV export"
}

// SupportedExtensions returns file extensions this source handles.
func (s *BitwardenCSVSource) SupportedExtensions() []string {
	return []string{".csv"}
}

// Detect checks if the given path is a Bitwarden CSV export.
func (s *BitwardenCSVSource) Detect(path string) (int, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, &ErrFileNotFound{Path: path}
		}
		return 0, err
	}

	if info.IsDir() {
		return 0, nil
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".csv" {
		return 0, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	reader := csv.NewReader(newBOMSkippingReader(f))
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return 0, nil // Not a valid CSV
	}

	return detectBitwardenCSVHeader(header), nil
}

// detectBitwardenCSVHeader checks if the header matches the Bitwarden CSV format.
func detectBitwardenCSVHeader(header []string) int {
	normalized := make([]string, len(header))
	for i, h := range header {
		normalized[i] = strings.ToLower(strings.TrimSpace(h))
	}

	// Bitwarden-specific login_* columns are the strongest indicator.
	indicators := []string{csvColName, csvColURI, csvColUsername, csvColPassword, csvColNotes}
	found := 0
	for _, ind := range indicators {
		for _, h := range normalized {
			if h == ind {
				found++
				break
			}
		}
	}

	switch {
	case found >= 4:
		return 100
	case found >= 2:
		return 70
	case found == 1:
		return 30
	}
	return 0
}

// Open initializes the source with the given file path.
func (s *BitwardenCSVSource) Open(path string) error {
	if s.isOpen {
		return ErrAlreadyOpen
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &ErrFileNotFound{Path: path}
		}
		return &ErrPermissionDenied{Path: path, Op: "stat", Err: err}
	}

	if info.IsDir() {
		return &ErrInvalidFormat{
			Source:  s.Name(),
			Path:    path,
			Details: "path must be a file, not a directory",
		}
	}

	s.filePath = path
	s.isOpen = true
	s.records = nil

	return nil
}

// Read parses the Bitwarden CSV and returns records in file order.
func (s *BitwardenCSVSource) Read() ([]model.Record, error) {
	if !s.isOpen {
		return nil, ErrNotOpen
	}

	// Return cached results if available
	if s.records != nil {
		return s.records, nil
	}

	f, err := os.Open(s.filePath)
	if err != nil {
		return nil, &ErrPermissionDenied{Path: s.filePath, Op: "open", Err: err}
	}
	defer f.Close()

	// Handle UTF-8 BOM
	csvReader := csv.NewReader(newBOMSkippingReader(f))
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1 // Tolerate ragged rows

	header, err := csvReader.Read()
	if err != nil {
		return nil, &ErrInvalidFormat{
			Source:  s.Name(),
			Path:    s.filePath,
			Details: "failed to read CSV header",
			Err:     err,
		}
	}

	// Build column index. Absent columns read as empty string for every row;
	// that is not an error.
	colIndex := make(map[string]int)
	for i, h := range header {
		colIndex[strings.ToLower(strings.TrimSpace(h))] = i
	}

	records := []model.Record{}
	for {
		row, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ErrInvalidFormat{
				Source:  s.Name(),
				Path:    s.filePath,
				Details: "failed to parse CSV row",
				Err:     err,
			}
		}

		records = append(records, recordFromCSVRow(row, colIndex))
	}

	s.records = records
	return records, nil
}

// recordFromCSVRow converts one CSV data row to a record. Fields are carried
// verbatim; a column missing from the header or cut off by a short row reads
// as empty.
func recordFromCSVRow(row []string, colIndex map[string]int) model.Record {
	getField := func(name string) string {
		if idx, ok := colIndex[name]; ok && idx < len(row) {
			return row[idx]
		}
		return ""
	}

	return model.Record{
		ID:       uuid.New().String(),
		Name:     getField(csvColName),
		URI:      getField(csvColURI),
		Username: getField(csvColUsername),
		Password: getField(csvColPassword),
		Notes:    getField(csvColNotes),
	}
}

// Close releases resources.
func (s *BitwardenCSVSource) Close() error {
	s.isOpen = false
	s.filePath = ""
	s.records = nil
	return nil
}

// bomSkippingReader wraps a reader and skips a UTF-8 BOM if present.
// Bytes consumed while probing for the BOM are buffered, so nothing is lost
// on short first reads, small destination buffers, or reads that return data
// together with an error.
type bomSkippingReader struct {
	r       io.Reader
	pending []byte
	err     error
	checked bool
}

func newBOMSkippingReader(r io.Reader) *bomSkippingReader {
	return &bomSkippingReader{r: r}
}

func (r *bomSkippingReader) Read(p []byte) (int, error) {
	if !r.checked {
		r.checked = true

		// Read first 3 bytes to check for BOM
		bom := make([]byte, 3)
		n, err := io.ReadFull(r.r, bom)
		if err == io.ErrUnexpectedEOF {
			err = io.EOF
		}

		// Check for UTF-8 BOM (0xEF, 0xBB, 0xBF)
		if n == 3 && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
			// BOM found, drop it
		} else {
			r.pending = bom[:n]
		}

		// Any probe error is served only after the buffered bytes.
		r.err = err
	}

	if len(r.pending) > 0 {
		n := copy(p, r.pending)
		r.pending = r.pending[n:]
		return n, nil
	}

	if r.err != nil {
		return 0, r.err
	}

	return r.r.Read(p)
}

// init registers the Bitwarden CSV source with the default registry.
func init() {
	RegisterDefault(NewBitwardenCSVSource())
}

// Ensure BitwardenCSVSource implements Source interface
var _ Source = (*BitwardenCSVSource)(nil)
