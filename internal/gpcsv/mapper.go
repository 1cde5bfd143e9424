// Package gpcsv maps normalized records to the Google Password Manager CSV format.
package gpcsv

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/nvinuesa/bwporter/internal/model"
)

const (
	// SecureNoteURL is the sentinel URL assigned to entries with no login
	// URI. Google Password Manager requires a URL per row, so notes-only
	// entries are parked under a recognizable dummy domain.
	SecureNoteURL = "https://mybitwardensecurenotesdonotdelete.com"

	// SecureNotePassword is the placeholder for entries with no password.
	SecureNotePassword = "secure_note_password"

	// androidScheme is the Bitwarden URI prefix for Android app associations.
	androidScheme = "androidapp://"
)

// Row is one line of the Google Passwords CSV output.
type Row struct {
	Name     string
	URL      string
	Username string
	Password string
	Note     string
}

// Header is the Google Passwords CSV header, in column order.
var Header = []string{"name", "url", "username", "password", "note"}

// CanonicalizeURI converts a raw Bitwarden URI value into the form Google
// Password Manager expects. The raw value may hold several comma-separated
// alternates; candidates are scanned in order and the first one matching
// either rule wins:
//
//  1. starts with http:// or https:// — return https:// plus its host
//  2. contains a dot and is not an androidapp:// URI — return https:// plus
//     the trimmed candidate
//
// An empty input returns the secure-note sentinel URL. When no candidate
// matches, the original value is returned with androidapp:// rewritten to
// the android://@ form. The scan order is load-bearing: both rules are tried
// per candidate before moving to the next.
func CanonicalizeURI(raw string) string {
	if raw == "" {
		return SecureNoteURL
	}

	for _, candidate := range strings.Split(raw, ",") {
		if strings.HasPrefix(candidate, "http://") || strings.HasPrefix(candidate, "https://") {
			parsed, err := url.Parse(candidate)
			if err != nil {
				continue
			}
			return "https://" + parsed.Host
		}
		if strings.Contains(candidate, ".") && !strings.HasPrefix(candidate, androidScheme) {
			return "https://" + strings.TrimSpace(candidate)
		}
	}

	return strings.ReplaceAll(raw, androidScheme, "android://@")
}

// MapRecord converts a record into a Google CSV row. secureNoteCounter must
// be non-nil only for secure-note records (empty URI and empty username);
// for those, the synthesized username carries the counter so every row stays
// unique. Records with an empty username but a real URI fall back to the
// bare name.
func MapRecord(rec model.Record, secureNoteCounter *int) Row {
	password := rec.Password
	if password == "" {
		password = SecureNotePassword
	}

	username := rec.Username
	if username == "" {
		if secureNoteCounter != nil {
			username = fmt.Sprintf("%s - row:%d", rec.Name, *secureNoteCounter)
		} else {
			username = rec.Name
		}
	}

	return Row{
		Name:     rec.Name,
		URL:      CanonicalizeURI(rec.URI),
		Username: username,
		Password: password,
		Note:     rec.Notes,
	}
}
