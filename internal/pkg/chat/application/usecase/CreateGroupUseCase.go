package usecase

import (
	"context"
	"time"

	chat "go-parley/internal/pkg/chat/application/domain"
	repository "go-parley/internal/pkg/chat/persistence/repository/port"
	userrepo "go-parley/internal/pkg/user/repository/port"
)

// CreateGroupInput carries the data needed to open a named group.
// MemberUsernames that do not resolve to an account are silently skipped.
type CreateGroupInput struct {
	CreatorID       int64
	Name            string
	MemberUsernames []string
}

// CreateGroupUseCase creates a group conversation with the requester as its
// immutable creator.
type CreateGroupUseCase struct {
	Repo  repository.ChatRepository
	Users userrepo.UserRepository
}

func NewCreateGroupUseCase(repo repository.ChatRepository, users userrepo.UserRepository) *CreateGroupUseCase {
	return &CreateGroupUseCase{Repo: repo, Users: users}
}

func (uc *CreateGroupUseCase) Execute(ctx context.Context, in CreateGroupInput) (chat.Conversation, error) {
	conv, err := chat.NewGroup(in.Name, time.Now())
	if err != nil {
		return chat.Conversation{}, err
	}

	resolved, err := uc.Users.ResolveUsernames(ctx, in.MemberUsernames)
	if err != nil {
		return chat.Conversation{}, wrapRepoErr(err)
	}
	memberIDs := make([]int64, 0, len(resolved))
	for _, id := range resolved {
		memberIDs = append(memberIDs, id)
	}

	conv, err = uc.Repo.CreateGroup(ctx, conv, in.CreatorID, memberIDs)
	if err != nil {
		return chat.Conversation{}, wrapRepoErr(err)
	}
	return conv, nil
}
