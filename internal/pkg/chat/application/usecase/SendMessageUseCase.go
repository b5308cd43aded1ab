package usecase

import (
	"context"
	"time"

	chat "go-parley/internal/pkg/chat/application/domain"
	repository "go-parley/internal/pkg/chat/persistence/repository/port"
)

// SendMessageInput carries a new text message from an authenticated sender.
type SendMessageInput struct {
	ConversationID int64
	SenderID       int64
	Content        string
}

// SendMessageUseCase persists a text message after verifying membership. The
// returned message already carries its database id so callers can broadcast
// the exact persisted record.
type SendMessageUseCase struct {
	Repo repository.ChatRepository
}

func NewSendMessageUseCase(repo repository.ChatRepository) *SendMessageUseCase {
	return &SendMessageUseCase{Repo: repo}
}

func (uc *SendMessageUseCase) Execute(ctx context.Context, in SendMessageInput) (chat.Message, error) {
	member, err := uc.Repo.IsMember(ctx, in.ConversationID, in.SenderID)
	if err != nil {
		return chat.Message{}, wrapRepoErr(err)
	}
	if !member {
		return chat.Message{}, chat.ErrNotMember
	}

	msg, err := chat.NewTextMessage(in.ConversationID, in.SenderID, in.Content, time.Now().UTC())
	if err != nil {
		return chat.Message{}, err
	}

	id, err := uc.Repo.SaveMessage(ctx, msg)
	if err != nil {
		return chat.Message{}, wrapRepoErr(err)
	}
	msg.ID = id
	return msg, nil
}
