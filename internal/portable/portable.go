// Package portable moves whole account collections between stores as a
// versioned JSON document, with explicit conflict handling on import.
package portable

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"totpvault/internal/store"
)

// Version identifies the export document format.
const Version = "1.0"

// ErrAborted reports an import that found conflicts under the Abort policy.
// The store is left untouched.
var ErrAborted = errors.New("import aborted: conflicting accounts")

// Document is the portable export format: the full store mapping plus
// versioning metadata.
type Document struct {
	Version    string                  `json:"version"`
	Accounts   map[string]store.Record `json:"accounts"`
	ExportedAt int64                   `json:"exported_at"`
}

// ConflictPolicy decides what happens to incoming accounts whose keys
// already exist in the store.
type ConflictPolicy int

const (
	// Replace overwrites existing records with incoming ones.
	Replace ConflictPolicy = iota
	// Skip keeps existing records and drops the conflicting incoming ones.
	Skip
	// Abort refuses the whole import when any conflict exists.
	Abort
)

// ParsePolicy maps the user-facing policy names to a ConflictPolicy.
func ParsePolicy(s string) (ConflictPolicy, error) {
	switch s {
	case "replace":
		return Replace, nil
	case "skip":
		return Skip, nil
	case "abort":
		return Abort, nil
	default:
		return 0, fmt.Errorf("unknown conflict policy %q (use replace, skip, or abort)", s)
	}
}

// Result summarizes what an import did.
type Result struct {
	Imported  int
	Conflicts []string
}

// Export captures the store as a Document stamped with the export time.
func Export(s *store.Store, now time.Time) Document {
	return Document{
		Version:    Version,
		Accounts:   s.Snapshot(),
		ExportedAt: now.Unix(),
	}
}

// EncodeTo writes doc as indented JSON.
func EncodeTo(w io.Writer, doc Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

// Decode reads an export document.
func Decode(r io.Reader) (Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("parse import document: %w", err)
	}
	if doc.Accounts == nil {
		return Document{}, errors.New("import document has no accounts")
	}
	return doc, nil
}

// Import merges doc into the store under the given policy, then saves.
// Conflicts are always reported, whatever the policy did with them. Under
// Abort any conflict fails the import before the store is touched.
func Import(s *store.Store, doc Document, policy ConflictPolicy) (Result, error) {
	conflicts := make([]string, 0)
	for key := range doc.Accounts {
		if s.Has(key) {
			conflicts = append(conflicts, key)
		}
	}
	sort.Strings(conflicts)

	if policy == Abort && len(conflicts) > 0 {
		return Result{Conflicts: conflicts}, ErrAborted
	}

	imported := 0
	for key, rec := range doc.Accounts {
		if policy == Skip && s.Has(key) {
			continue
		}
		s.Put(key, rec)
		imported++
	}

	if err := s.Save(); err != nil {
		return Result{Imported: imported, Conflicts: conflicts}, err
	}
	return Result{Imported: imported, Conflicts: conflicts}, nil
}
