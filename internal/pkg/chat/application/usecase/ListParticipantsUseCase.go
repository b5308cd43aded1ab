package usecase

import (
	"context"

	chat "go-parley/internal/pkg/chat/application/domain"
	repository "go-parley/internal/pkg/chat/persistence/repository/port"
)

// ListParticipantsInput fetches the roster of a conversation.
type ListParticipantsInput struct {
	ConversationID int64
	UserID         int64
}

// ListParticipantsUseCase returns the member roster, restricted to members.
type ListParticipantsUseCase struct {
	Repo repository.ChatRepository
}

func NewListParticipantsUseCase(repo repository.ChatRepository) *ListParticipantsUseCase {
	return &ListParticipantsUseCase{Repo: repo}
}

func (uc *ListParticipantsUseCase) Execute(ctx context.Context, in ListParticipantsInput) ([]chat.Member, error) {
	member, err := uc.Repo.IsMember(ctx, in.ConversationID, in.UserID)
	if err != nil {
		return nil, wrapRepoErr(err)
	}
	if !member {
		return nil, chat.ErrNotMember
	}

	members, err := uc.Repo.ListMembers(ctx, in.ConversationID)
	if err != nil {
		return nil, wrapRepoErr(err)
	}
	return members, nil
}
