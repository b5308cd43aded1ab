package usecase

import (
	"context"

	chat "go-parley/internal/pkg/chat/application/domain"
	repository "go-parley/internal/pkg/chat/persistence/repository/port"
)

// MarkSeenInput acknowledges that UserID has read one message.
type MarkSeenInput struct {
	MessageID int64
	UserID    int64
}

// MarkSeenUseCase advances a single message to seen. The reader must belong to
// the conversation and must not be the sender. Marking an already-seen message
// again succeeds without a transition, so clients can retry freely.
type MarkSeenUseCase struct {
	Repo repository.ChatRepository
}

func NewMarkSeenUseCase(repo repository.ChatRepository) *MarkSeenUseCase {
	return &MarkSeenUseCase{Repo: repo}
}

// Execute returns the message and whether this call performed the transition.
func (uc *MarkSeenUseCase) Execute(ctx context.Context, in MarkSeenInput) (*chat.Message, bool, error) {
	msg, err := uc.Repo.FindMessage(ctx, in.MessageID)
	if err != nil {
		return nil, false, wrapRepoErr(err)
	}

	member, err := uc.Repo.IsMember(ctx, msg.ConversationID, in.UserID)
	if err != nil {
		return nil, false, wrapRepoErr(err)
	}
	if !member {
		return nil, false, chat.ErrNotMember
	}
	if msg.SenderID == in.UserID {
		return nil, false, chat.ErrOwnMessage
	}

	if !msg.Status.CanAdvanceTo(chat.StatusSeen) {
		return msg, false, nil
	}

	changed, err := uc.Repo.AdvanceStatus(ctx, in.MessageID, chat.StatusSeen)
	if err != nil {
		return nil, false, wrapRepoErr(err)
	}
	if changed {
		msg.Status = chat.StatusSeen
	}
	return msg, changed, nil
}
