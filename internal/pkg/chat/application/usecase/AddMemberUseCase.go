package usecase

import (
	"context"
	"errors"
	"time"

	chat "go-parley/internal/pkg/chat/application/domain"
	repository "go-parley/internal/pkg/chat/persistence/repository/port"
	userdomain "go-parley/internal/pkg/user/domain"
	userrepo "go-parley/internal/pkg/user/repository/port"
)

// AddMemberInput adds the user holding TargetUsername to a group.
type AddMemberInput struct {
	ConversationID int64
	RequesterID    int64
	TargetUsername string
}

// AddMemberUseCase admits new members. Only admins and the creator may add;
// re-adding an existing member is rejected, not merged.
type AddMemberUseCase struct {
	Repo  repository.ChatRepository
	Users userrepo.UserRepository
}

func NewAddMemberUseCase(repo repository.ChatRepository, users userrepo.UserRepository) *AddMemberUseCase {
	return &AddMemberUseCase{Repo: repo, Users: users}
}

// Execute returns the admitted user's id.
func (uc *AddMemberUseCase) Execute(ctx context.Context, in AddMemberInput) (int64, error) {
	conv, err := uc.Repo.FindConversation(ctx, in.ConversationID)
	if err != nil {
		return 0, wrapRepoErr(err)
	}
	if conv.Kind != chat.KindGroup {
		return 0, chat.ErrNotGroup
	}

	requesterRole, err := uc.Repo.RoleOf(ctx, in.ConversationID, in.RequesterID)
	if err != nil {
		return 0, wrapRepoErr(err)
	}
	if !requesterRole.CanManage() {
		return 0, chat.ErrInsufficientRole
	}

	target, err := uc.Users.FindByUsername(ctx, in.TargetUsername)
	if err != nil {
		if errors.Is(err, userdomain.ErrNotFound) {
			return 0, chat.ErrUserNotFound
		}
		return 0, wrapRepoErr(err)
	}

	err = uc.Repo.AddMembership(ctx, chat.Membership{
		ConversationID: in.ConversationID,
		UserID:         target.ID,
		Role:           chat.RoleMember,
		JoinedAt:       time.Now().UTC(),
	})
	if err != nil {
		return 0, wrapRepoErr(err)
	}
	return target.ID, nil
}
