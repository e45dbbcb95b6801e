// Package tokenstore persists the session credential. Exactly two durable
// keys exist: the bearer token and an optional cached user snapshot. Both
// are written and cleared together so the store never holds a token without
// a matching snapshot or vice versa.
package tokenstore

import (
	"context"

	"github.com/payshield/payshield-cli/internal/client/models"
)

// Store is the durable home of the session credential. Implementations
// must make SetSession and Clear atomic: a reader sees either the old
// pair or the new pair, never a half-written state.
type Store interface {
	// Token returns the stored bearer token, or "" when none is stored.
	Token(ctx context.Context) (string, error)

	// User returns the cached user snapshot, or nil when none is stored.
	User(ctx context.Context) (*models.User, error)

	// SetSession stores the token and user snapshot as one write.
	SetSession(ctx context.Context, token string, user *models.User) error

	// Clear removes both keys.
	Clear(ctx context.Context) error
}
