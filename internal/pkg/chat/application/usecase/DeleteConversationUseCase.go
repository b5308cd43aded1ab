package usecase

import (
	"context"

	qport "go-parley/internal/infrastructure/queue/port"
	chat "go-parley/internal/pkg/chat/application/domain"
	"go-parley/internal/pkg/chat/application/task"
	repository "go-parley/internal/pkg/chat/persistence/repository/port"
)

// DeleteConversationInput deletes a conversation on behalf of UserID.
type DeleteConversationInput struct {
	ConversationID int64
	UserID         int64
}

// DeleteConversationUseCase applies the asymmetric delete semantics: a group
// is deleted outright (creator only, cascading to memberships and messages),
// while a one-to-one "delete" only removes the caller's own membership and
// leaves the conversation row and the other side untouched.
type DeleteConversationUseCase struct {
	Repo  repository.ChatRepository
	Queue qport.Client
}

func NewDeleteConversationUseCase(repo repository.ChatRepository, queue qport.Client) *DeleteConversationUseCase {
	return &DeleteConversationUseCase{Repo: repo, Queue: queue}
}

// Execute reports whether the conversation row itself was removed.
func (uc *DeleteConversationUseCase) Execute(ctx context.Context, in DeleteConversationInput) (bool, error) {
	conv, err := uc.Repo.FindConversation(ctx, in.ConversationID)
	if err != nil {
		return false, wrapRepoErr(err)
	}

	role, err := uc.Repo.RoleOf(ctx, in.ConversationID, in.UserID)
	if err != nil {
		return false, wrapRepoErr(err)
	}

	if conv.Kind == chat.KindOneToOne {
		if err := uc.Repo.RemoveMembership(ctx, in.ConversationID, in.UserID); err != nil {
			return false, wrapRepoErr(err)
		}
		return false, nil
	}

	if role != chat.RoleCreator {
		return false, chat.ErrInsufficientRole
	}

	fileURLs, err := uc.Repo.DeleteConversation(ctx, in.ConversationID)
	if err != nil {
		return false, wrapRepoErr(err)
	}

	// blob release is best-effort and must not block the delete
	if uc.Queue != nil {
		for _, url := range fileURLs {
			if t, err := task.NewReleaseBlobTask(url); err == nil {
				_, _ = uc.Queue.Enqueue(ctx, t)
			}
		}
	}
	return true, nil
}
