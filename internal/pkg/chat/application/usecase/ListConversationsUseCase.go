package usecase

import (
	"context"

	chat "go-parley/internal/pkg/chat/application/domain"
	repository "go-parley/internal/pkg/chat/persistence/repository/port"
)

// ListConversationsInput lists everything UserID belongs to.
type ListConversationsInput struct {
	UserID int64
}

// ListConversationsUseCase assembles the inbox view: each conversation with
// its member roster, most recent message and the caller's unread count.
type ListConversationsUseCase struct {
	Repo repository.ChatRepository
}

func NewListConversationsUseCase(repo repository.ChatRepository) *ListConversationsUseCase {
	return &ListConversationsUseCase{Repo: repo}
}

func (uc *ListConversationsUseCase) Execute(ctx context.Context, in ListConversationsInput) ([]chat.ConversationSummary, error) {
	convs, err := uc.Repo.ListUserConversations(ctx, in.UserID)
	if err != nil {
		return nil, wrapRepoErr(err)
	}

	summaries := make([]chat.ConversationSummary, 0, len(convs))
	for _, conv := range convs {
		members, err := uc.Repo.ListMembers(ctx, conv.ID)
		if err != nil {
			return nil, wrapRepoErr(err)
		}
		last, err := uc.Repo.LastMessage(ctx, conv.ID)
		if err != nil {
			return nil, wrapRepoErr(err)
		}
		unread, err := uc.Repo.UnreadCount(ctx, conv.ID, in.UserID)
		if err != nil {
			return nil, wrapRepoErr(err)
		}
		summaries = append(summaries, chat.ConversationSummary{
			Conversation: conv,
			Members:      members,
			LastMessage:  last,
			Unread:       unread,
		})
	}
	return summaries, nil
}
