package driven

import "context"

// TokenStore is a durable single-slot cache for one bearer credential.
// Implementations must make Save atomic enough that a concurrent Read never
// observes a partially written record; two racing Saves resolve to
// last-write-wins.
type TokenStore interface {
	// IsExpired reports whether the cached token needs replacing. It is
	// true when no token is stored, the store is unreadable, the token
	// cannot be decoded, the expiry claim is missing, or the expiry has
	// passed. It never fails: every read or decode problem resolves to
	// expired so the caller re-authenticates instead of presenting a
	// broken credential.
	IsExpired(ctx context.Context) bool
	// Read returns the stored token, or "" when none is stored or the
	// slot is unreadable.
	Read(ctx context.Context) (string, error)
	// Save overwrites the stored token and records a fresh issue timestamp.
	Save(ctx context.Context, token string) error
	// Clear resets the slot to empty while keeping the backing store.
	Clear(ctx context.Context) error
	// Delete removes the backing record entirely; an already-absent slot
	// is success.
	Delete(ctx context.Context) error
}
