package usecase

import (
	"context"
	"errors"

	chat "go-parley/internal/pkg/chat/application/domain"
	repository "go-parley/internal/pkg/chat/persistence/repository/port"
	userdomain "go-parley/internal/pkg/user/domain"
	userrepo "go-parley/internal/pkg/user/repository/port"
)

// DemoteFromAdminInput lowers an admin back to plain member.
type DemoteFromAdminInput struct {
	ConversationID int64
	RequesterID    int64
	TargetUsername string
}

// DemoteFromAdminUseCase is creator-only and requires the target to currently
// hold the admin role. The creator itself never matches that pre-state, so it
// can never be demoted through this path.
type DemoteFromAdminUseCase struct {
	Repo  repository.ChatRepository
	Users userrepo.UserRepository
}

func NewDemoteFromAdminUseCase(repo repository.ChatRepository, users userrepo.UserRepository) *DemoteFromAdminUseCase {
	return &DemoteFromAdminUseCase{Repo: repo, Users: users}
}

// Execute returns the demoted user's id.
func (uc *DemoteFromAdminUseCase) Execute(ctx context.Context, in DemoteFromAdminInput) (int64, error) {
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

	changed, err := uc.Repo.SetRole(ctx, in.ConversationID, target.ID, chat.RoleAdmin, chat.RoleMember)
	if err != nil {
		return 0, wrapRepoErr(err)
	}
	if !changed {
		return 0, chat.ErrRoleUnchanged
	}
	return target.ID, nil
}
