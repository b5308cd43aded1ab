package usecase

import (
	"context"

	chat "go-parley/internal/pkg/chat/application/domain"
	repository "go-parley/internal/pkg/chat/persistence/repository/port"
)

// GetConversationInput fetches one conversation for a member.
type GetConversationInput struct {
	ConversationID int64
	UserID         int64
}

// GetConversationUseCase returns the conversation with its roster. Membership
// is checked before existence details leak to outsiders.
type GetConversationUseCase struct {
	Repo repository.ChatRepository
}

func NewGetConversationUseCase(repo repository.ChatRepository) *GetConversationUseCase {
	return &GetConversationUseCase{Repo: repo}
}

func (uc *GetConversationUseCase) Execute(ctx context.Context, in GetConversationInput) (chat.ConversationSummary, error) {
	member, err := uc.Repo.IsMember(ctx, in.ConversationID, in.UserID)
	if err != nil {
		return chat.ConversationSummary{}, wrapRepoErr(err)
	}
	if !member {
		return chat.ConversationSummary{}, chat.ErrNotMember
	}

	conv, err := uc.Repo.FindConversation(ctx, in.ConversationID)
	if err != nil {
		return chat.ConversationSummary{}, wrapRepoErr(err)
	}
	members, err := uc.Repo.ListMembers(ctx, in.ConversationID)
	if err != nil {
		return chat.ConversationSummary{}, wrapRepoErr(err)
	}
	last, err := uc.Repo.LastMessage(ctx, in.ConversationID)
	if err != nil {
		return chat.ConversationSummary{}, wrapRepoErr(err)
	}
	unread, err := uc.Repo.UnreadCount(ctx, in.ConversationID, in.UserID)
	if err != nil {
		return chat.ConversationSummary{}, wrapRepoErr(err)
	}

	return chat.ConversationSummary{
		Conversation: *conv,
		Members:      members,
		LastMessage:  last,
		Unread:       unread,
	}, nil
}
