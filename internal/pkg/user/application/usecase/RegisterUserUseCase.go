package usecase

import (
	"context"
	"strings"
	"time"

	"go-parley/internal/infrastructure/auth"
	user "go-parley/internal/pkg/user/domain"
	repository "go-parley/internal/pkg/user/repository/port"
)

// RegisterUserInput creates a new account.
type RegisterUserInput struct {
	Username string
	Password string
}

// RegisterUserUseCase hashes the password and creates the account. A taken
// username surfaces as a conflict, not a transport error.
type RegisterUserUseCase struct {
	Users repository.UserRepository
}

func NewRegisterUserUseCase(users repository.UserRepository) *RegisterUserUseCase {
	return &RegisterUserUseCase{Users: users}
}

func (uc *RegisterUserUseCase) Execute(ctx context.Context, in RegisterUserInput) (*user.User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, user.ErrBlankUsername
	}
	if len(in.Password) < 6 {
		return nil, user.ErrWeakPassword
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u := user.User{
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	id, err := uc.Users.Create(ctx, u)
	if err != nil {
		return nil, err
	}
	u.ID = id
	return &u, nil
}
