package usecase

import (
	"context"

	chat "go-parley/internal/pkg/chat/application/domain"
	repository "go-parley/internal/pkg/chat/persistence/repository/port"
	userdomain "go-parley/internal/pkg/user/domain"
	userrepo "go-parley/internal/pkg/user/repository/port"

	"errors"
)

// CreateOneToOneInput opens (or reuses) a direct conversation between the
// requester and the user holding the target display name.
type CreateOneToOneInput struct {
	RequesterID    int64
	TargetUsername string
}

// CreateOneToOneUseCase creates one-to-one conversations idempotently: the
// same unordered user pair always resolves to the same conversation.
type CreateOneToOneUseCase struct {
	Repo  repository.ChatRepository
	Users userrepo.UserRepository
}

func NewCreateOneToOneUseCase(repo repository.ChatRepository, users userrepo.UserRepository) *CreateOneToOneUseCase {
	return &CreateOneToOneUseCase{Repo: repo, Users: users}
}

// Execute resolves the target user and returns the shared conversation,
// creating it atomically on first use. existing reports whether the
// conversation was already there.
func (uc *CreateOneToOneUseCase) Execute(ctx context.Context, in CreateOneToOneInput) (conv chat.Conversation, existing bool, err error) {
	target, err := uc.Users.FindByUsername(ctx, in.TargetUsername)
	if err != nil {
		if errors.Is(err, userdomain.ErrNotFound) {
			return chat.Conversation{}, false, chat.ErrUserNotFound
		}
		return chat.Conversation{}, false, wrapRepoErr(err)
	}
	if target.ID == in.RequesterID {
		return chat.Conversation{}, false, chat.ErrSelfConversation
	}

	conv, existing, err = uc.Repo.CreateOneToOne(ctx, in.RequesterID, target.ID)
	if err != nil {
		return chat.Conversation{}, false, wrapRepoErr(err)
	}
	return conv, existing, nil
}
