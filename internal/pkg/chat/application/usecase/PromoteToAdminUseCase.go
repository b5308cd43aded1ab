package usecase

import (
	"context"
	"errors"

	chat "go-parley/internal/pkg/chat/application/domain"
	repository "go-parley/internal/pkg/chat/persistence/repository/port"
	userdomain "go-parley/internal/pkg/user/domain"
	userrepo "go-parley/internal/pkg/user/repository/port"
)

// PromoteToAdminInput raises a plain member to admin.
type PromoteToAdminInput struct {
	ConversationID int64
	RequesterID    int64
	TargetUsername string
}

// PromoteToAdminUseCase is creator-only and requires the target to currently
// hold the member role; the role row is advanced with a compare-and-set so a
// concurrent change makes the call fail rather than clobber.
type PromoteToAdminUseCase struct {
	Repo  repository.ChatRepository
	Users userrepo.UserRepository
}

func NewPromoteToAdminUseCase(repo repository.ChatRepository, users userrepo.UserRepository) *PromoteToAdminUseCase {
	return &PromoteToAdminUseCase{Repo: repo, Users: users}
}

// Execute returns the promoted user's id.
func (uc *PromoteToAdminUseCase) Execute(ctx context.Context, in PromoteToAdminInput) (int64, error) {
	requesterRole, err := uc.Repo.RoleOf(ctx, in.ConversationID, in.RequesterID)
	if err != nil {
		return 0, wrapRepoErr(err)
	}
	if requesterRole != chat.RoleCreator {
		return 0, chat.ErrInsufficientRole
	}

	target, err := uc.Users.FindByUsername(ctx, in.TargetUsername)
	if err != nil {
		if errors.Is(err, userdomain.ErrNotFound) {
			return 0, chat.ErrUserNotFound
		}
		return 0, wrapRepoErr(err)
	}

	changed, err := uc.Repo.SetRole(ctx, in.ConversationID, target.ID, chat.RoleMember, chat.RoleAdmin)
	if err != nil {
		return 0, wrapRepoErr(err)
	}
	if !changed {
		return 0, chat.ErrRoleUnchanged
	}
	return target.ID, nil
}
