package usecase

import (
	"context"

	chat "go-parley/internal/pkg/chat/application/domain"
	repository "go-parley/internal/pkg/chat/persistence/repository/port"
)

// LeaveGroupInput removes the caller's own membership from a group.
type LeaveGroupInput struct {
	ConversationID int64
	UserID         int64
}

// LeaveGroupUseCase lets members and admins walk away. The creator cannot
// leave: there is no ownership-transfer path, only group deletion.
type LeaveGroupUseCase struct {
	Repo repository.ChatRepository
}

func NewLeaveGroupUseCase(repo repository.ChatRepository) *LeaveGroupUseCase {
	return &LeaveGroupUseCase{Repo: repo}
}

func (uc *LeaveGroupUseCase) Execute(ctx context.Context, in LeaveGroupInput) error {
	role, err := uc.Repo.RoleOf(ctx, in.ConversationID, in.UserID)
	if err != nil {
		return wrapRepoErr(err)
	}
	if role == chat.RoleCreator {
		return chat.ErrCreatorCannotLeave
	}

	return wrapRepoErr(uc.Repo.RemoveMembership(ctx, in.ConversationID, in.UserID))
}
