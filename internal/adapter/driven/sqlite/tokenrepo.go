package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/legitsystems/askari-relay/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.TokenStore = (*TokenRepo)(nil)

// TokenRepo is the SQLite implementation of the TokenStore port. The
// auth_token table holds at most one row (id constrained to 1), mirroring
// the single-slot semantics of the file store.
type TokenRepo struct {
	db  *DB
	now func() time.Time
}

// NewTokenRepo creates a TokenRepo over an open, migrated database.
func NewTokenRepo(db *DB) *TokenRepo {
	return &TokenRepo{db: db, now: time.Now}
}

// Read returns the stored token, or "" when the slot is empty. Query
// failures also resolve to "" so callers fall through to re-authentication.
func (r *TokenRepo) Read(ctx context.Context) (string, error) {
	const query = `SELECT token FROM auth_token WHERE id = 1`

	var token string
	err := r.db.Reader.QueryRowContext(ctx, query).Scan(&token)
	if err != nil {
		return "", nil
	}
	return token, nil
}

// Save overwrites the token slot with a fresh issue timestamp. The single
// INSERT OR REPLACE statement makes racing saves last-write-wins without
// ever exposing a torn record.
func (r *TokenRepo) Save(ctx context.Context, token string) error {
	const query = `INSERT OR REPLACE INTO auth_token (id, token, saved_at) VALUES (1, ?, ?)`

	_, err := r.db.Writer.ExecContext(ctx, query, token, r.now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

// Clear empties the token slot.
func (r *TokenRepo) Clear(ctx context.Context) error {
	const query = `DELETE FROM auth_token WHERE id = 1`

	if _, err := r.db.Writer.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}

// Delete removes the stored credential; an already-empty slot is success.
func (r *TokenRepo) Delete(ctx context.Context) error {
	return r.Clear(ctx)
}

// IsExpired reports whether the cached token needs replacing. Missing rows,
// query failures, undecodable tokens, and absent expiry claims all resolve
// to expired.
func (r *TokenRepo) IsExpired(ctx context.Context) bool {
	const query = `SELECT token FROM auth_token WHERE id = 1`

	var token string
	err := r.db.Reader.QueryRowContext(ctx, query).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) || err != nil || token == "" {
		return true
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return !r.now().Before(exp.Time)
}
