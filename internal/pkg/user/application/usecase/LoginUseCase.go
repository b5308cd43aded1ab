package usecase

import (
	"context"
	"errors"
	"time"

	"go-parley/internal/infrastructure/auth"
	user "go-parley/internal/pkg/user/domain"
	repository "go-parley/internal/pkg/user/repository/port"
)

// LoginInput exchanges credentials for a token.
type LoginInput struct {
	Username string
	Password string
}

// LoginResult carries the issued token and the authenticated account.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *user.User
}

// LoginUseCase verifies credentials and issues a signed token. Unknown
// usernames and wrong passwords both map to the same credentials error so the
// response does not reveal which accounts exist.
type LoginUseCase struct {
	Users    repository.UserRepository
	Verifier *auth.Verifier
}

func NewLoginUseCase(users repository.UserRepository, verifier *auth.Verifier) *LoginUseCase {
	return &LoginUseCase{Users: users, Verifier: verifier}
}

func (uc *LoginUseCase) Execute(ctx context.Context, in LoginInput) (*LoginResult, error) {
	u, err := uc.Users.FindByUsername(ctx, in.Username)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, user.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := auth.CheckPassword(u.PasswordHash, in.Password); err != nil {
		return nil, user.ErrInvalidCredentials
	}

	token, expiresAt, err := uc.Verifier.Issue(u.ID, u.Username)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: u}, nil
}
