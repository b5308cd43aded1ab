package usecase

import (
	"context"
	"io"
	"time"

	blob "go-parley/internal/infrastructure/blob/port"
	chat "go-parley/internal/pkg/chat/application/domain"
	repository "go-parley/internal/pkg/chat/persistence/repository/port"
)

// SendFileMessageInput carries an attachment upload bound for a conversation.
// Size is the declared length of Content and is validated against the per-type
// ceiling before any bytes hit storage.
type SendFileMessageInput struct {
	ConversationID int64
	SenderID       int64
	MsgType        chat.MessageType
	FileName       string
	ContentType    string
	Size           int64
	Content        io.Reader
}

// SendFileMessageUseCase validates the upload policy, stores the blob and then
// persists a media message referencing it. A failed persist rolls the blob
// back so storage never accumulates unreferenced files.
type SendFileMessageUseCase struct {
	Repo  repository.ChatRepository
	Blobs blob.Store
}

func NewSendFileMessageUseCase(repo repository.ChatRepository, blobs blob.Store) *SendFileMessageUseCase {
	return &SendFileMessageUseCase{Repo: repo, Blobs: blobs}
}

func (uc *SendFileMessageUseCase) Execute(ctx context.Context, in SendFileMessageInput) (chat.Message, error) {
	member, err := uc.Repo.IsMember(ctx, in.ConversationID, in.SenderID)
	if err != nil {
		return chat.Message{}, wrapRepoErr(err)
	}
	if !member {
		return chat.Message{}, chat.ErrNotMember
	}

	if err := chat.CheckUpload(in.ContentType, in.Size, in.MsgType); err != nil {
		return chat.Message{}, err
	}

	stored, err := uc.Blobs.Save(ctx, io.LimitReader(in.Content, in.Size), in.FileName, in.ContentType)
	if err != nil {
		return chat.Message{}, wrapRepoErr(err)
	}

	msg, err := chat.NewMediaMessage(in.ConversationID, in.SenderID, chat.FileRef{
		URL:  stored.URL,
		Name: stored.Name,
		Size: stored.Size,
	}, in.MsgType, time.Now().UTC())
	if err != nil {
		_ = uc.Blobs.Delete(ctx, stored.URL)
		return chat.Message{}, err
	}

	id, err := uc.Repo.SaveMessage(ctx, msg)
	if err != nil {
		_ = uc.Blobs.Delete(ctx, stored.URL)
		return chat.Message{}, wrapRepoErr(err)
	}
	msg.ID = id
	return msg, nil
}
