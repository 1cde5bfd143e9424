package sources

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBitwardenJSONSource_Interface(t *testing.T) {
	s := NewBitwardenJSONSource()

	if s.Name() != "bitwarden-json" {
		t.Errorf("Name() = %v, want bitwarden-json", s.Name())
	}

	if s.Description() == "" {
		t.Error("Description() should not be empty")
	}

	exts := s.SupportedExtensions()
	if len(exts) != 1 || exts[0] != ".json" {
		t.Errorf("SupportedExtensions() = %v, want [.json]", exts)
	}
}

func TestBitwardenJSONSource_Detect(t *testing.T) {
	s := NewBitwardenJSONSource()

	t.Run("Non-existent path", func(t *testing.T) {
		_, err := s.Detect("/nonexistent/export.json")
		if err == nil {
			t.Error("Expected error for non-existent path")
		}
	})

	t.Run("Wrong extension", func(t *testing.T) {
		path := writeTempFile(t, "export.txt", `{"items": []}`)
		confidence, err := s.Detect(path)
		if err != nil {
			t.Fatalf("Detect() error = %v", err)
		}
		if confidence != 0 {
			t.Errorf("Detect() on .txt file should return 0, got %d", confidence)
		}
	})

	t.Run("Invalid JSON", func(t *testing.T) {
		path := writeTempFile(t, "export.json", "{not json")
		confidence, err := s.Detect(path)
		if err != nil {
			t.Fatalf("Detect() error = %v", err)
		}
		if confidence != 0 {
			t.Errorf("Detect() on invalid JSON should return 0, got %d", confidence)
		}
	})

	t.Run("Valid Bitwarden JSON", func(t *testing.T) {
		jsonPath := filepath.Join(getTestdataPath(), "bitwarden", "export.json")
		if _, err := os.Stat(jsonPath); os.IsNotExist(err) {
			t.Skip("testdata/bitwarden/export.json not found")
		}

		confidence, err := s.Detect(jsonPath)
		if err != nil {
			t.Fatalf("Detect() error = %v", err)
		}
		if confidence != 100 {
			t.Errorf("Detect() on valid Bitwarden JSON should return 100, got %d", confidence)
		}
	})

	t.Run("Encrypted export is recognized but unusable", func(t *testing.T) {
		path := writeTempFile(t, "export.json", `{"encrypted": true, "items": []}`)
		confidence, err := s.Detect(path)
		if err != nil {
			t.Fatalf("Detect() error = %v", err)
		}
		if confidence != 50 {
			t.Errorf("Detect() on encrypted export should return 50, got %d", confidence)
		}
	})
}

func TestBitwardenJSONSource_Open(t *testing.T) {
	t.Run("Non-existent file", func(t *testing.T) {
		s := NewBitwardenJSONSource()
		err := s.Open("/nonexistent.json")
		if !IsNotFound(err) {
			t.Errorf("Expected not-found error, got %v", err)
		}
	})

	t.Run("Invalid JSON", func(t *testing.T) {
		path := writeTempFile(t, "export.json", "{broken")

		s := NewBitwardenJSONSource()
		err := s.Open(path)
		if !IsFormatError(err) {
			t.Errorf("Expected format error, got %v", err)
		}
	})

	t.Run("Missing items collection", func(t *testing.T) {
		path := writeTempFile(t, "export.json", `{"encrypted": false, "folders": []}`)

		s := NewBitwardenJSONSource()
		err := s.Open(path)
		if !IsFormatError(err) {
			t.Errorf("Expected format error for missing items, got %v", err)
		}
		if err == nil || !strings.Contains(err.Error(), "items") {
			t.Errorf("error should mention missing items collection: %v", err)
		}
	})

	t.Run("Empty items collection is valid", func(t *testing.T) {
		path := writeTempFile(t, "export.json", `{"encrypted": false, "items": []}`)

		s := NewBitwardenJSONSource()
		if err := s.Open(path); err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer s.Close()

		records, err := s.Read()
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if len(records) != 0 {
			t.Errorf("Read() returned %d records, want 0", len(records))
		}
	})

	t.Run("Encrypted export is rejected", func(t *testing.T) {
		path := writeTempFile(t, "export.json", `{"encrypted": true, "items": []}`)

		s := NewBitwardenJSONSource()
		err := s.Open(path)
		if !IsFormatError(err) {
			t.Errorf("Expected format error for encrypted export, got %v", err)
		}
	})
}

func TestBitwardenJSONSource_Read(t *testing.T) {
	t.Run("Login item", func(t *testing.T) {
		content := `{"items": [
			{"id": "id-1", "type": 1, "name": "GitHub", "notes": "work",
			 "login": {"uris": [{"uri": "https://github.com/login"}, {"uri": "androidapp://com.github.android"}],
			           "username": "octocat", "password": "hunter2"}}
		]}`
		path := writeTempFile(t, "export.json", content)

		s := NewBitwardenJSONSource()
		if err := s.Open(path); err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer s.Close()

		records, err := s.Read()
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if len(records) != 1 {
			t.Fatalf("Read() returned %d records, want 1", len(records))
		}

		rec := records[0]
		if rec.ID != "id-1" {
			t.Errorf("ID = %q, want id-1", rec.ID)
		}
		if rec.Name != "GitHub" || rec.Username != "octocat" || rec.Password != "hunter2" || rec.Notes != "work" {
			t.Errorf("unexpected record: %+v", rec)
		}
		if rec.URI != "https://github.com/login" {
			t.Errorf("URI = %q, want first login URI", rec.URI)
		}
	})

	t.Run("Login item without uris", func(t *testing.T) {
		content := `{"items": [
			{"type": 1, "name": "Legacy", "login": {"username": "root", "password": "toor"}}
		]}`
		path := writeTempFile(t, "export.json", content)

		s := NewBitwardenJSONSource()
		if err := s.Open(path); err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer s.Close()

		records, err := s.Read()
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if records[0].URI != "" {
			t.Errorf("URI = %q, want empty", records[0].URI)
		}
		if records[0].ID == "" {
			t.Error("record without export ID should get a generated one")
		}
	})

	t.Run("Identity item synthesizes labeled notes", func(t *testing.T) {
		content := `{"items": [
			{"type": 4, "name": "Jane ID", "notes": "",
			 "identity": {"firstName": "Jane", "lastName": "Doe"}}
		]}`
		path := writeTempFile(t, "export.json", content)

		s := NewBitwardenJSONSource()
		if err := s.Open(path); err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer s.Close()

		records, err := s.Read()
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}

		rec := records[0]
		if rec.URI != "" || rec.Username != "" || rec.Password != "" {
			t.Errorf("identity record should have no login material: %+v", rec)
		}

		want := "Name: Jane Doe\nPhone: \nEmail: \nAddress: \nCompany: \nNotes: "
		if rec.Notes != want {
			t.Errorf("Notes = %q, want %q", rec.Notes, want)
		}

		lines := strings.Split(rec.Notes, "\n")
		if len(lines) != 6 {
			t.Errorf("identity notes should have 6 lines, got %d", len(lines))
		}
	})

	t.Run("Identity item with all fields", func(t *testing.T) {
		content := `{"items": [
			{"type": 4, "name": "Full ID", "notes": "original",
			 "identity": {"firstName": "Jane", "lastName": "Doe", "phone": "555-0100",
			              "email": "jane@example.com", "address1": "1 Main St", "company": "ACME"}}
		]}`
		path := writeTempFile(t, "export.json", content)

		s := NewBitwardenJSONSource()
		if err := s.Open(path); err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer s.Close()

		records, err := s.Read()
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}

		want := "Name: Jane Doe\nPhone: 555-0100\nEmail: jane@example.com\n" +
			"Address: 1 Main St\nCompany: ACME\nNotes: original"
		if records[0].Notes != want {
			t.Errorf("Notes = %q, want %q", records[0].Notes, want)
		}
	})

	t.Run("Other item types keep name and notes only", func(t *testing.T) {
		content := `{"items": [
			{"type": 2, "name": "Wifi Code", "notes": "attic router"},
			{"type": 3, "name": "Visa", "notes": "expires soon"},
			{"type": 99, "name": "Mystery", "notes": "unknown type"}
		]}`
		path := writeTempFile(t, "export.json", content)

		s := NewBitwardenJSONSource()
		if err := s.Open(path); err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer s.Close()

		records, err := s.Read()
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if len(records) != 3 {
			t.Fatalf("Read() returned %d records, want 3", len(records))
		}

		for _, rec := range records {
			if rec.URI != "" || rec.Username != "" || rec.Password != "" {
				t.Errorf("non-login record should have no login material: %+v", rec)
			}
			if rec.Name == "" || rec.Notes == "" {
				t.Errorf("name and notes should carry over verbatim: %+v", rec)
			}
		}
	})

	t.Run("Item order is preserved", func(t *testing.T) {
		content := `{"items": [
			{"type": 2, "name": "c"},
			{"type": 1, "name": "a", "login": {"username": "u", "password": "p"}},
			{"type": 2, "name": "b"}
		]}`
		path := writeTempFile(t, "export.json", content)

		s := NewBitwardenJSONSource()
		if err := s.Open(path); err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer s.Close()

		records, err := s.Read()
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}

		got := []string{records[0].Name, records[1].Name, records[2].Name}
		if got[0] != "c" || got[1] != "a" || got[2] != "b" {
			t.Errorf("order = %v, want [c a b]", got)
		}
	})

	t.Run("Testdata fixture", func(t *testing.T) {
		jsonPath := filepath.Join(getTestdataPath(), "bitwarden", "export.json")
		if _, err := os.Stat(jsonPath); os.IsNotExist(err) {
			t.Skip("testdata/bitwarden/export.json not found")
		}

		s := NewBitwardenJSONSource()
		if err := s.Open(jsonPath); err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer s.Close()

		records, err := s.Read()
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if len(records) != 4 {
			t.Errorf("Read() returned %d records, want 4", len(records))
		}
	})
}
