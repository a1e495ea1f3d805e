// Package store owns the collection of enrolled TOTP accounts: a flat
// mapping of account-key to record, persisted as a JSON file. The store is
// the only mutator of its records; everything handed out is a copy.
//
// Mutating operations are not safe for concurrent use and belong to a
// single logical owner. Code, Remaining and List are read-only and may be
// polled freely (the display layer refreshes them every second).
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"totpvault/internal/otpauth"
	"totpvault/internal/totp"
)

var (
	// ErrNotFound reports an operation on an account key that is not in
	// the store.
	ErrNotFound = errors.New("account not found")
	// ErrSecretTooShort reports a manually entered secret whose normalized
	// form is shorter than the minimum enrollment length.
	ErrSecretTooShort = errors.New("secret too short")
)

// MinSecretLength is the shortest normalized secret accepted through manual
// entry. QR payloads are exempt; whatever the issuing service encoded is
// taken as-is once it validates.
const MinSecretLength = 16

// ManualIssuer labels accounts enrolled by typing a secret in by hand.
const ManualIssuer = "Manual"

// Store is a file-backed account collection. The zero value is not usable;
// construct with New.
type Store struct {
	path     string
	log      *slog.Logger
	accounts map[string]Record
	now      func() time.Time
}

// New returns a store backed by the JSON document at path. No I/O happens
// until Load or Save.
func New(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		path:     path,
		log:      logger,
		accounts: make(map[string]Record),
		now:      time.Now,
	}
}

// Path returns the backing file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the backing document. A missing file is a normal first run and
// yields an empty store. A document in the retired encrypted format (an
// object holding exactly "salt" and "data") is discarded and the store
// starts empty; that format is never migrated. Any other unreadable content
// also degrades to an empty store, with the error returned so the caller
// can report it; startup must not be blocked by a corrupt file.
func (s *Store) Load() error {
	s.accounts = make(map[string]Record)

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		s.log.Warn("account store unreadable, starting empty", "path", s.path, "err", err)
		return fmt.Errorf("read store: %w", err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		s.log.Warn("account store corrupt, starting empty", "path", s.path, "err", err)
		return fmt.Errorf("parse store: %w", err)
	}

	if isLegacyEncrypted(doc) {
		s.log.Info("discarding legacy encrypted store", "path", s.path)
		return nil
	}

	accounts := make(map[string]Record, len(doc))
	for key, val := range doc {
		var rec Record
		if err := json.Unmarshal(val, &rec); err != nil {
			s.log.Warn("account store corrupt, starting empty", "path", s.path, "key", key, "err", err)
			return fmt.Errorf("parse record %q: %w", key, err)
		}
		accounts[key] = rec
	}
	s.accounts = accounts
	return nil
}

// isLegacyEncrypted recognizes the old encrypted document shape. The key
// material for it is gone, so the content is unrecoverable by design.
func isLegacyEncrypted(doc map[string]json.RawMessage) bool {
	if len(doc) != 2 {
		return false
	}
	_, hasSalt := doc["salt"]
	_, hasData := doc["data"]
	return hasSalt && hasData
}

// Save writes the full mapping to the backing file. On failure the error is
// returned and the in-memory state is untouched, so the caller may retry.
func (s *Store) Save() error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create store directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(s.accounts, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write store: %w", err)
	}
	return nil
}

// AddFromQR enrolls an account from a parsed QR payload. The secret is
// normalized and probed before anything is inserted. Returns the derived
// account key.
func (s *Store) AddFromQR(p otpauth.Payload) (string, error) {
	secret := totp.Normalize(p.Secret)
	if err := totp.Validate(secret); err != nil {
		return "", err
	}

	issuer := p.Issuer
	if issuer == "" {
		issuer = otpauth.DefaultIssuer
	}

	key := s.deriveKey(issuer, p.Account, "")
	s.accounts[key] = Record{
		Secret:  secret,
		Account: p.Account,
		Issuer:  issuer,
		Added:   s.now().Unix(),
	}
	return key, nil
}

// AddManual enrolls an account from a hand-typed secret. An empty issuer
// defaults to "Manual". Beyond the usual validation probe, manual secrets
// must be at least MinSecretLength characters once normalized; typos
// produce short fragments far more often than scanned QR codes do.
func (s *Store) AddManual(account, rawSecret, issuer string) (string, error) {
	if issuer == "" {
		issuer = ManualIssuer
	}

	secret := totp.Normalize(rawSecret)
	if len(secret) < MinSecretLength {
		return "", ErrSecretTooShort
	}
	if err := totp.Validate(secret); err != nil {
		return "", err
	}

	key := s.deriveKey(issuer, account, "")
	s.accounts[key] = Record{
		Secret:  secret,
		Account: account,
		Issuer:  issuer,
		Added:   s.now().Unix(),
	}
	return key, nil
}

// Rename moves the record under key to the key derived from the new
// issuer/account pair, keeping secret and enrollment time. Renaming to the
// record's current identity is a no-op and succeeds. Returns the new key.
func (s *Store) Rename(key, newIssuer, newAccount string) (string, error) {
	rec, ok := s.accounts[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, key)
	}

	newKey := s.deriveKey(newIssuer, newAccount, key)
	rec.Issuer = newIssuer
	rec.Account = newAccount

	if newKey != key {
		delete(s.accounts, key)
	}
	s.accounts[newKey] = rec
	return newKey, nil
}

// Remove deletes the record under key and reports whether anything was
// there.
func (s *Store) Remove(key string) bool {
	if _, ok := s.accounts[key]; !ok {
		return false
	}
	delete(s.accounts, key)
	return true
}

// Code returns the current TOTP code for the account under key. Legacy
// records that are a bare secret string still generate.
func (s *Store) Code(key string, now time.Time) (string, error) {
	rec, ok := s.accounts[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return totp.Code(rec.Secret, now)
}

// Get returns a copy of the record under key.
func (s *Store) Get(key string) (Record, bool) {
	rec, ok := s.accounts[key]
	return rec, ok
}

// Has reports whether key is present.
func (s *Store) Has(key string) bool {
	_, ok := s.accounts[key]
	return ok
}

// Len returns the number of enrolled accounts.
func (s *Store) Len() int {
	return len(s.accounts)
}

// List returns a secret-free projection of every account. Records missing
// display fields (legacy bare secrets) fall back to the key and the default
// issuer so the listing stays renderable.
func (s *Store) List() map[string]Entry {
	out := make(map[string]Entry, len(s.accounts))
	for key, rec := range s.accounts {
		e := Entry{Account: rec.Account, Issuer: rec.Issuer, Added: rec.Added}
		if e.Account == "" {
			e.Account = key
		}
		if e.Issuer == "" {
			e.Issuer = otpauth.DefaultIssuer
		}
		out[key] = e
	}
	return out
}

// Snapshot returns a copy of the full key-to-record mapping, for export.
func (s *Store) Snapshot() map[string]Record {
	out := make(map[string]Record, len(s.accounts))
	for key, rec := range s.accounts {
		out[key] = rec
	}
	return out
}

// Put inserts or replaces a record verbatim. It exists for import, which
// merges already-enrolled records; new enrollments go through AddFromQR or
// AddManual so they are validated.
func (s *Store) Put(key string, rec Record) {
	s.accounts[key] = rec
}

// deriveKey builds the unique account key "{issuer}_{account}", appending
// _1, _2, ... until the key is free. current names a key the caller already
// owns and is allowed to land on (a rename to the same identity).
func (s *Store) deriveKey(issuer, account, current string) string {
	base := issuer + "_" + account
	key := base
	for n := 1; ; n++ {
		if key == current {
			return key
		}
		if _, taken := s.accounts[key]; !taken {
			return key
		}
		key = fmt.Sprintf("%s_%d", base, n)
	}
}
