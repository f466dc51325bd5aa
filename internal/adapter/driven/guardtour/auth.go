package guardtour

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/legitsystems/askari-relay/internal/domain/port/driven"
)

// TokenSource supplies the bearer token for one outbound request.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource that always returns the same token, for
// deployments configured with a long-lived credential.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) { return string(t), nil }

// refreshSource implements the check-then-use credential sequence: consult
// the token store before every request, sign in again when the cached token
// is expired, and persist the replacement. Two racing refreshes both sign in
// and both save; last write wins, which the store tolerates.
type refreshSource struct {
	client   *Client
	store    driven.TokenStore
	username string
	password string
}

func (s *refreshSource) Token(ctx context.Context) (string, error) {
	if !s.store.IsExpired(ctx) {
		token, err := s.store.Read(ctx)
		if err == nil && token != "" {
			return token, nil
		}
	}

	token, err := s.client.signIn(ctx, s.username, s.password)
	if err != nil {
		return "", fmt.Errorf("refresh credential: %w", err)
	}

	// A failed save only costs an extra sign-in on the next request.
	if err := s.store.Save(ctx, token); err != nil {
		slog.Warn("failed to persist refreshed token", "error", err)
	}

	return token, nil
}
