package usecase

import (
	"context"

	chat "go-parley/internal/pkg/chat/application/domain"
	repository "go-parley/internal/pkg/chat/persistence/repository/port"
)

// RoleOfInput resolves the caller's role inside a conversation.
type RoleOfInput struct {
	ConversationID int64
	UserID         int64
}

// RoleOfUseCase answers "may this user act here and as what". Non-members get
// a membership error, which doubles as the authorization gate for realtime
// channel joins.
type RoleOfUseCase struct {
	Repo repository.ChatRepository
}

func NewRoleOfUseCase(repo repository.ChatRepository) *RoleOfUseCase {
	return &RoleOfUseCase{Repo: repo}
}

func (uc *RoleOfUseCase) Execute(ctx context.Context, in RoleOfInput) (chat.Role, error) {
	role, err := uc.Repo.RoleOf(ctx, in.ConversationID, in.UserID)
	if err != nil {
		return 0, wrapRepoErr(err)
	}
	return role, nil
}
