package user

import (
	"errors"
	"time"
)

// Domain-level errors for account behaviors.
var (
	ErrUsernameTaken      = errors.New("user: username is already taken")
	ErrNotFound           = errors.New("user: not found")
	ErrInvalidCredentials = errors.New("user: invalid username or password")
	ErrBlankUsername      = errors.New("user: username must not be blank")
	ErrWeakPassword       = errors.New("user: password must be at least 6 characters")
)

// User is an account identity. IsOnline and LastSeen are best-effort caches of
// the runtime presence state; the presence registry is authoritative while the
// process is alive.
type User struct {
	ID           int64      `db:"id"`
	Username     string     `db:"username"`
	PasswordHash string     `db:"password_hash"`
	IsOnline     bool       `db:"is_online"`
	LastSeen     *time.Time `db:"last_seen"`
	CreatedAt    time.Time  `db:"created_at"`
}
