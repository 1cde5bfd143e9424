// Package model defines the normalized record representation shared by all adapters.
package model

// Record is the normalized intermediate representation of one Bitwarden entry.
// It sits between the source adapters and the Google CSV output and is never
// mutated after construction.
type Record struct {
	// ID is a unique identifier assigned by the source adapter.
	ID string

	// Name is the display label for the entry.
	Name string

	// URI is the raw location string from the export. It may be empty or
	// contain a comma-separated list of alternate URIs.
	URI string

	// Username for login entries.
	Username string

	// Password for login entries.
	Password string

	// Notes contains freeform text. For identity entries the adapter
	// synthesizes this from the structured identity fields.
	Notes string
}

// IsSecureNote reports whether the record carries no login material at all.
// Both the raw URI and the raw username must be empty; an entry with a
// username but no URI is still treated as a login.
func (r Record) IsSecureNote() bool {
	return r.URI == "" && r.Username == ""
}

// IsEmpty reports whether the record has no meaningful data.
func (r Record) IsEmpty() bool {
	return r.Name == "" && r.URI == "" && r.Username == "" &&
		r.Password == "" && r.Notes == ""
}
