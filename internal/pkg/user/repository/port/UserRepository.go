package repository

import (
	"context"

	user "go-parley/internal/pkg/user/domain"
)

// UserRepository defines persistence operations for accounts.
type UserRepository interface {
	// Create persists a new account and returns its id.
	// Returns user.ErrUsernameTaken when the display name is already in use.
	Create(ctx context.Context, u user.User) (int64, error)

	// FindByID returns user.ErrNotFound when no row matches.
	FindByID(ctx context.Context, id int64) (*user.User, error)

	// FindByUsername returns user.ErrNotFound when no row matches.
	FindByUsername(ctx context.Context, username string) (*user.User, error)

	// ResolveUsernames maps the given display names to user ids.
	// Names without a matching account are silently absent from the result.
	ResolveUsernames(ctx context.Context, usernames []string) (map[string]int64, error)

	// UpdatePresence writes the best-effort online flag and last-seen stamp.
	UpdatePresence(ctx context.Context, id int64, online bool) error
}
