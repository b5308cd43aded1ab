package usecase

import (
	"context"

	chat "go-parley/internal/pkg/chat/application/domain"
	repository "go-parley/internal/pkg/chat/persistence/repository/port"
)

const defaultPageSize = 50

// GetMessagesInput pages through a conversation's history. Page is 1-based.
type GetMessagesInput struct {
	ConversationID int64
	UserID         int64
	Page           int
	PageSize       int
}

// GetMessagesUseCase returns a page of history for a member, oldest first
// within the page. Paging walks backwards from the newest message.
type GetMessagesUseCase struct {
	Repo repository.ChatRepository
}

func NewGetMessagesUseCase(repo repository.ChatRepository) *GetMessagesUseCase {
	return &GetMessagesUseCase{Repo: repo}
}

func (uc *GetMessagesUseCase) Execute(ctx context.Context, in GetMessagesInput) ([]chat.Message, error) {
	member, err := uc.Repo.IsMember(ctx, in.ConversationID, in.UserID)
	if err != nil {
		return nil, wrapRepoErr(err)
	}
	if !member {
		return nil, chat.ErrNotMember
	}

	page := in.Page
	if page < 1 {
		page = 1
	}
	pageSize := in.PageSize
	if pageSize < 1 || pageSize > 200 {
		pageSize = defaultPageSize
	}

	msgs, err := uc.Repo.ListMessages(ctx, in.ConversationID, page, pageSize)
	if err != nil {
		return nil, wrapRepoErr(err)
	}

	// repository returns newest first; flip to chronological for clients
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}
