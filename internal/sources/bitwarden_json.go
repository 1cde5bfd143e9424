package sources

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/nvinuesa/bwporter/internal/model"
)

// Bitwarden item types.
const (
	bitwardenTypeLogin      = 1
	bitwardenTypeSecureNote = 2
	bitwardenTypeCard       = 3
	bitwardenTypeIdentity   = 4
)

// BitwardenExport represents the top-level Bitwarden JSON export structure.
// Items is a pointer so that an export missing the items collection entirely
// can be told apart from one with an empty items array.
type BitwardenExport struct {
	Encrypted bool             `json:"encrypted"`
	Items     *[]BitwardenItem `json:"items"`
}

// BitwardenItem represents a single item in the Bitwarden export.
type BitwardenItem struct {
	ID       string             `json:"id"`
	Type     int                `json:"type"`
	Name     string             `json:"name"`
	Notes    string             `json:"notes"`
	Login    *BitwardenLogin    `json:"login,omitempty"`
	Identity *BitwardenIdentity `json:"identity,omitempty"`
}

// BitwardenLogin represents login data in a Bitwarden item.
type BitwardenLogin struct {
	URIs     []BitwardenURI `json:"uris"`
	Username string         `json:"username"`
	Password string         `json:"password"`
}

// BitwardenURI represents a URI entry in a Bitwarden login.
type BitwardenURI struct {
	URI   string `json:"uri"`
	Match *int   `json:"match,omitempty"`
}

// BitwardenIdentity represents identity data in a Bitwarden item.
type BitwardenIdentity struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Address1  string `json:"address1"`
	Company   string `json:"company"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// BitwardenJSONSource implements the Source interface for Bitwarden JSON exports.
type BitwardenJSONSource struct {
	filePath string
	isOpen   bool
	records  []model.Record
	export   *BitwardenExport
}

// NewBitwardenJSONSource creates a new Bitwarden JSON source adapter.
func NewBitwardenJSONSource() *BitwardenJSONSource {
	return &BitwardenJSONSource{}
}

// Name returns the unique identifier for this source.
func (s *BitwardenJSONSource) Name() string {
	return "bitwarden-json"
}

// Description returns a human-readable description.
func (s *BitwardenJSONSource) Description() string {
	return "Bitwarden unencrypted JSON export"
}

// SupportedExtensions returns file extensions this source handles.
func (s *BitwardenJSONSource) SupportedExtensions() []string {
	return []string{".json"}
}

// Detect checks if the given path is a Bitwarden JSON export.
func (s *BitwardenJSONSource) Detect(path string) (int, error) {
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

	if strings.ToLower(filepath.Ext(path)) != ".json" {
		return 0, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, nil
	}

	var export BitwardenExport
	if err := json.Unmarshal(data, &export); err != nil {
		return 0, nil
	}

	return detectBitwardenStructure(&export), nil
}

// detectBitwardenStructure checks if the JSON matches the Bitwarden export format.
func detectBitwardenStructure(export *BitwardenExport) int {
	// An encrypted export is recognizably Bitwarden but unusable.
	if export.Encrypted {
		return 50
	}

	if export.Items == nil {
		return 0
	}

	indicators := 0
	for _, item := range *export.Items {
		if item.Type >= bitwardenTypeLogin && item.Type <= bitwardenTypeIdentity {
			indicators++
		}
		if item.Login != nil && len(item.Login.URIs) > 0 {
			indicators++
		}
		if indicators >= 3 {
			break
		}
	}

	switch {
	case indicators >= 3:
		return 100
	case indicators >= 1:
		return 80
	}

	// An items key with no recognizable items is weak evidence.
	return 40
}

// Open initializes the source with the given file path.
func (s *BitwardenJSONSource) Open(path string) error {
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

	data, err := os.ReadFile(path)
	if err != nil {
		return &ErrPermissionDenied{Path: path, Op: "read", Err: err}
	}

	var export BitwardenExport
	if err := json.Unmarshal(data, &export); err != nil {
		return &ErrInvalidFormat{
			Source:  s.Name(),
			Path:    path,
			Details: "invalid JSON",
			Err:     err,
		}
	}

	// Reject encrypted exports
	if export.Encrypted {
		return &ErrInvalidFormat{
			Source:  s.Name(),
			Path:    path,
			Details: "encrypted Bitwarden exports are not supported; please export without encryption",
		}
	}

	if export.Items == nil {
		return &ErrInvalidFormat{
			Source:  s.Name(),
			Path:    path,
			Details: "missing top-level items collection",
		}
	}

	s.filePath = path
	s.isOpen = true
	s.records = nil
	s.export = &export

	return nil
}

// Read parses the Bitwarden JSON and returns records in item order.
func (s *BitwardenJSONSource) Read() ([]model.Record, error) {
	if !s.isOpen {
		return nil, ErrNotOpen
	}

	// Return cached results if available
	if s.records != nil {
		return s.records, nil
	}

	items := *s.export.Items
	records := make([]model.Record, 0, len(items))
	for _, item := range items {
		records = append(records, recordFromItem(&item))
	}

	s.records = records
	return records, nil
}

// recordFromItem converts a Bitwarden item to a record, dispatching on the
// item type discriminator. Logins keep their credentials; identities get a
// synthesized note; everything else carries only name and notes.
func recordFromItem(item *BitwardenItem) model.Record {
	rec := model.Record{
		ID:   itemID(item),
		Name: item.Name,
	}

	switch item.Type {
	case bitwardenTypeLogin:
		rec.Notes = item.Notes
		if item.Login != nil {
			rec.Username = item.Login.Username
			rec.Password = item.Login.Password
			if len(item.Login.URIs) > 0 {
				rec.URI = item.Login.URIs[0].URI
			}
		}

	case bitwardenTypeIdentity:
		rec.Notes = identityNotes(item)

	default:
		rec.Notes = item.Notes
	}

	return rec
}

// itemID returns the item's own ID, generating one when the export omits it.
func itemID(item *BitwardenItem) string {
	if item.ID != "" {
		return item.ID
	}
	return uuid.New().String()
}

// identityNotes synthesizes the note body for an identity item: six labeled
// lines in fixed order. Labels render even when the value is empty.
func identityNotes(item *BitwardenItem) string {
	identity := item.Identity
	if identity == nil {
		identity = &BitwardenIdentity{}
	}

	return fmt.Sprintf(
		"Name: %s %s\nPhone: %s\nEmail: %s\nAddress: %s\nCompany: %s\nNotes: %s",
		identity.FirstName,
		identity.LastName,
		identity.Phone,
		identity.Email,
		identity.Address1,
		identity.Company,
		item.Notes,
	)
}

// Close releases resources.
func (s *BitwardenJSONSource) Close() error {
	s.isOpen = false
	s.filePath = ""
	s.records = nil
	s.export = nil
	return nil
}

// init registers the Bitwarden JSON source with the default registry.
func init() {
	RegisterDefault(NewBitwardenJSONSource())
}

// Ensure BitwardenJSONSource implements Source interface
var _ Source = (*BitwardenJSONSource)(nil)
