package usecase

import (
	"context"

	qport "go-parley/internal/infrastructure/queue/port"
	chat "go-parley/internal/pkg/chat/application/domain"
	"go-parley/internal/pkg/chat/application/task"
	repository "go-parley/internal/pkg/chat/persistence/repository/port"
)

// DeleteMessageInput removes one message on behalf of its author.
type DeleteMessageInput struct {
	MessageID int64
	UserID    int64
}

// DeleteMessageUseCase lets a sender retract their own message. Attached blobs
// are released through the background queue after the row is gone.
type DeleteMessageUseCase struct {
	Repo  repository.ChatRepository
	Queue qport.Client
}

func NewDeleteMessageUseCase(repo repository.ChatRepository, queue qport.Client) *DeleteMessageUseCase {
	return &DeleteMessageUseCase{Repo: repo, Queue: queue}
}

// Execute returns the deleted message so callers can notify the conversation.
func (uc *DeleteMessageUseCase) Execute(ctx context.Context, in DeleteMessageInput) (*chat.Message, error) {
	msg, err := uc.Repo.FindMessage(ctx, in.MessageID)
	if err != nil {
		return nil, wrapRepoErr(err)
	}
	if msg.SenderID != in.UserID {
		return nil, chat.ErrNotSender
	}

	if err := uc.Repo.DeleteMessage(ctx, in.MessageID); err != nil {
		return nil, wrapRepoErr(err)
	}

	if uc.Queue != nil && msg.IsMedia() {
		if t, err := task.NewReleaseBlobTask(*msg.FileURL); err == nil {
			_, _ = uc.Queue.Enqueue(ctx, t)
		}
	}
	return msg, nil
}
