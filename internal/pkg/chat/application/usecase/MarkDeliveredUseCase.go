package usecase

import (
	"context"

	chat "go-parley/internal/pkg/chat/application/domain"
	repository "go-parley/internal/pkg/chat/persistence/repository/port"
)

// MarkDeliveredInput acknowledges receipt of everything pending in a
// conversation for one user.
type MarkDeliveredInput struct {
	ConversationID int64
	UserID         int64
}

// MarkDeliveredUseCase bulk-advances messages from sent to delivered. Only
// messages authored by others qualify; a user never acknowledges their own.
// Calling it again when nothing is pending is a no-op.
type MarkDeliveredUseCase struct {
	Repo repository.ChatRepository
}

func NewMarkDeliveredUseCase(repo repository.ChatRepository) *MarkDeliveredUseCase {
	return &MarkDeliveredUseCase{Repo: repo}
}

// Execute returns the ids of the messages that actually transitioned.
func (uc *MarkDeliveredUseCase) Execute(ctx context.Context, in MarkDeliveredInput) ([]int64, error) {
	member, err := uc.Repo.IsMember(ctx, in.ConversationID, in.UserID)
	if err != nil {
		return nil, wrapRepoErr(err)
	}
	if !member {
		return nil, chat.ErrNotMember
	}

	ids, err := uc.Repo.MarkDelivered(ctx, in.ConversationID, in.UserID)
	if err != nil {
		return nil, wrapRepoErr(err)
	}
	return ids, nil
}
