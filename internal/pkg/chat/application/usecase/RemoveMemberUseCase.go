package usecase

import (
	"context"
	"errors"

	chat "go-parley/internal/pkg/chat/application/domain"
	repository "go-parley/internal/pkg/chat/persistence/repository/port"
	userdomain "go-parley/internal/pkg/user/domain"
	userrepo "go-parley/internal/pkg/user/repository/port"
)

// RemoveMemberInput removes the user holding TargetUsername from a group.
type RemoveMemberInput struct {
	ConversationID int64
	RequesterID    int64
	TargetUsername string
}

// RemoveMemberUseCase enforces the removal hierarchy: the creator is never
// removable, admins fall only to the creator, and plain members require an
// admin or creator requester.
type RemoveMemberUseCase struct {
	Repo  repository.ChatRepository
	Users userrepo.UserRepository
}

func NewRemoveMemberUseCase(repo repository.ChatRepository, users userrepo.UserRepository) *RemoveMemberUseCase {
	return &RemoveMemberUseCase{Repo: repo, Users: users}
}

// Execute returns the removed user's id so callers can notify their sessions.
func (uc *RemoveMemberUseCase) Execute(ctx context.Context, in RemoveMemberInput) (int64, error) {
	requesterRole, err := uc.Repo.RoleOf(ctx, in.ConversationID, in.RequesterID)
	if err != nil {
		return 0, wrapRepoErr(err)
	}

	target, err := uc.Users.FindByUsername(ctx, in.TargetUsername)
	if err != nil {
		if errors.Is(err, userdomain.ErrNotFound) {
			return 0, chat.ErrUserNotFound
		}
		return 0, wrapRepoErr(err)
	}

	targetRole, err := uc.Repo.RoleOf(ctx, in.ConversationID, target.ID)
	if err != nil {
		return 0, wrapRepoErr(err)
	}

	if targetRole == chat.RoleCreator {
		return 0, chat.ErrCreatorImmutable
	}
	if !requesterRole.CanRemove(targetRole) {
		return 0, chat.ErrInsufficientRole
	}

	if err := uc.Repo.RemoveMembership(ctx, in.ConversationID, target.ID); err != nil {
		return 0, wrapRepoErr(err)
	}
	return target.ID, nil
}
