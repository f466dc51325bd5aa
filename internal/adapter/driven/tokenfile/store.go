// Package tokenfile implements the TokenStore port over a single JSON file.
package tokenfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/natefinch/atomic"

	"github.com/legitsystems/askari-relay/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.TokenStore = (*Store)(nil)

// Store keeps one bearer credential in a JSON file of the shape
// {"access_token": {"token": "...", "timestamp": "..."}}. Saves replace the
// whole file atomically, so a concurrent read sees either the old record or
// the new one, never a torn write.
type Store struct {
	path string
	now  func() time.Time
}

type record struct {
	AccessToken slot `json:"access_token"`
}

type slot struct {
	Token     string `json:"token,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// New creates a Store backed by the file at path, creating the file with an
// empty credential slot when it does not exist yet. Creation uses an
// exclusive create so concurrent first runs cannot clobber each other; an
// already-existing file is left untouched.
func New(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create token directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	switch {
	case err == nil:
		data, _ := json.MarshalIndent(record{}, "", "  ")
		_, writeErr := f.Write(data)
		if closeErr := f.Close(); writeErr == nil {
			writeErr = closeErr
		}
		if writeErr != nil {
			return nil, fmt.Errorf("initialize token file %s: %w", path, writeErr)
		}
	case errors.Is(err, fs.ErrExist):
		// Another process (or an earlier run) already created it.
	default:
		return nil, fmt.Errorf("create token file %s: %w", path, err)
	}

	return &Store{path: path, now: time.Now}, nil
}

// Read returns the stored token, or "" when the slot is empty or the file
// is missing or corrupt. Unreadable state never surfaces as an error; the
// caller simply re-authenticates.
func (s *Store) Read(context.Context) (string, error) {
	rec, err := s.load()
	if err != nil {
		return "", nil
	}
	return rec.AccessToken.Token, nil
}

// Save overwrites the stored token and stamps it with the current time.
func (s *Store) Save(_ context.Context, token string) error {
	rec := record{
		AccessToken: slot{
			Token:     token,
			Timestamp: s.now().UTC().Format(time.RFC3339),
		},
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal token record: %w", err)
	}

	if err := atomic.WriteFile(s.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write token file %s: %w", s.path, err)
	}
	return nil
}

// Clear resets the credential slot to empty, keeping the file in place.
func (s *Store) Clear(context.Context) error {
	data, err := json.MarshalIndent(record{}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal empty token record: %w", err)
	}

	if err := atomic.WriteFile(s.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("clear token file %s: %w", s.path, err)
	}
	return nil
}

// Delete removes the backing file. An already-missing file is success.
func (s *Store) Delete(context.Context) error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete token file %s: %w", s.path, err)
	}
	return nil
}

// IsExpired reports whether the cached token needs replacing. Every failure
// mode (missing file, corrupt JSON, undecodable token, absent expiry claim)
// resolves to expired so the caller re-authenticates rather than presenting
// a broken credential.
func (s *Store) IsExpired(context.Context) bool {
	rec, err := s.load()
	if err != nil || rec.AccessToken.Token == "" {
		return true
	}
	return tokenExpired(rec.AccessToken.Token, s.now())
}

func (s *Store) load() (record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return record{}, err
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return record{}, err
	}
	return rec, nil
}

// tokenExpired decodes the token's claims without verifying its signature
// (verification is the remote service's job; locally the expiry claim is
// only a refresh hint) and compares the exp claim against now.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return !now.Before(exp.Time)
}
