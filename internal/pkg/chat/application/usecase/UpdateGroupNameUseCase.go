package usecase

import (
	"context"
	"strings"

	chat "go-parley/internal/pkg/chat/application/domain"
	repository "go-parley/internal/pkg/chat/persistence/repository/port"
)

// UpdateGroupNameInput renames a group conversation.
type UpdateGroupNameInput struct {
	ConversationID int64
	RequesterID    int64
	NewName        string
}

// UpdateGroupNameUseCase lets admins and the creator rename the group.
type UpdateGroupNameUseCase struct {
	Repo repository.ChatRepository
}

func NewUpdateGroupNameUseCase(repo repository.ChatRepository) *UpdateGroupNameUseCase {
	return &UpdateGroupNameUseCase{Repo: repo}
}

func (uc *UpdateGroupNameUseCase) Execute(ctx context.Context, in UpdateGroupNameInput) error {
	name := strings.TrimSpace(in.NewName)
	if name == "" {
		return chat.ErrBlankName
	}

	role, err := uc.Repo.RoleOf(ctx, in.ConversationID, in.RequesterID)
	if err != nil {
		return wrapRepoErr(err)
	}
	if !role.CanManage() {
		return chat.ErrInsufficientRole
	}

	return wrapRepoErr(uc.Repo.UpdateName(ctx, in.ConversationID, name))
}
