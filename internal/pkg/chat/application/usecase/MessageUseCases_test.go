package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	chat "go-parley/internal/pkg/chat/application/domain"
)

func setupDirect(t *testing.T) (*memChatRepo, *memUserRepo, int64, int64, int64) {
	t.Helper()
	users := newMemUserRepo()
	alice := users.add("alice")
	bob := users.add("bob")
	repo := newMemChatRepo(users)

	conv, _, err := NewCreateOneToOneUseCase(repo, users).Execute(context.Background(), CreateOneToOneInput{
		RequesterID:    alice.ID,
		TargetUsername: "bob",
	})
	require.NoError(t, err)
	return repo, users, conv.ID, alice.ID, bob.ID
}

func TestSendMessageRequiresMembership(t *testing.T) {
	repo, users, convID, alice, _ := setupDirect(t)
	outsider := users.add("outsider")
	ctx := context.Background()
	uc := NewSendMessageUseCase(repo)

	msg, err := uc.Execute(ctx, SendMessageInput{ConversationID: convID, SenderID: alice, Content: "  hello  "})
	require.NoError(t, err)
	require.NotZero(t, msg.ID)
	require.Equal(t, "hello", *msg.Content)
	require.Equal(t, chat.StatusSent, msg.Status)

	_, err = uc.Execute(ctx, SendMessageInput{ConversationID: convID, SenderID: outsider.ID, Content: "hi"})
	require.ErrorIs(t, err, chat.ErrNotMember)

	_, err = uc.Execute(ctx, SendMessageInput{ConversationID: convID, SenderID: alice, Content: "   "})
	require.ErrorIs(t, err, chat.ErrEmptyMessage)
}

func TestStatusPipelineIsMonotonic(t *testing.T) {
	repo, _, convID, alice, bob := setupDirect(t)
	ctx := context.Background()

	msg, err := NewSendMessageUseCase(repo).Execute(ctx, SendMessageInput{ConversationID: convID, SenderID: alice, Content: "ping"})
	require.NoError(t, err)

	delivered := NewMarkDeliveredUseCase(repo)
	seen := NewMarkSeenUseCase(repo)

	// the sender's own bulk ack moves nothing
	ids, err := delivered.Execute(ctx, MarkDeliveredInput{ConversationID: convID, UserID: alice})
	require.NoError(t, err)
	require.Empty(t, ids)

	// the recipient's ack moves the message to delivered, once
	ids, err = delivered.Execute(ctx, MarkDeliveredInput{ConversationID: convID, UserID: bob})
	require.NoError(t, err)
	require.Equal(t, []int64{msg.ID}, ids)

	ids, err = delivered.Execute(ctx, MarkDeliveredInput{ConversationID: convID, UserID: bob})
	require.NoError(t, err)
	require.Empty(t, ids)

	// seen advances it and stays put on retry
	got, changed, err := seen.Execute(ctx, MarkSeenInput{MessageID: msg.ID, UserID: bob})
	require.NoError(t, err)
	require.True(t, changed)
	require.Equal(t, chat.StatusSeen, got.Status)

	got, changed, err = seen.Execute(ctx, MarkSeenInput{MessageID: msg.ID, UserID: bob})
	require.NoError(t, err)
	require.False(t, changed)
	require.Equal(t, chat.StatusSeen, got.Status)

	// once seen, a later delivered ack cannot pull it backwards
	ids, err = delivered.Execute(ctx, MarkDeliveredInput{ConversationID: convID, UserID: bob})
	require.NoError(t, err)
	require.Empty(t, ids)
	final, err := repo.FindMessage(ctx, msg.ID)
	require.NoError(t, err)
	require.Equal(t, chat.StatusSeen, final.Status)
}

func TestMarkSeenGuards(t *testing.T) {
	repo, users, convID, alice, _ := setupDirect(t)
	outsider := users.add("outsider")
	ctx := context.Background()

	msg, err := NewSendMessageUseCase(repo).Execute(ctx, SendMessageInput{ConversationID: convID, SenderID: alice, Content: "ping"})
	require.NoError(t, err)

	seen := NewMarkSeenUseCase(repo)

	// a sender cannot mark their own message
	_, _, err = seen.Execute(ctx, MarkSeenInput{MessageID: msg.ID, UserID: alice})
	require.ErrorIs(t, err, chat.ErrOwnMessage)

	// non-members are rejected before any state changes
	_, _, err = seen.Execute(ctx, MarkSeenInput{MessageID: msg.ID, UserID: outsider.ID})
	require.ErrorIs(t, err, chat.ErrNotMember)

	_, _, err = seen.Execute(ctx, MarkSeenInput{MessageID: 9999, UserID: alice})
	require.ErrorIs(t, err, chat.ErrMessageNotFound)
}

func TestSkipSeenFromSent(t *testing.T) {
	repo, _, convID, alice, bob := setupDirect(t)
	ctx := context.Background()

	msg, err := NewSendMessageUseCase(repo).Execute(ctx, SendMessageInput{ConversationID: convID, SenderID: alice, Content: "ping"})
	require.NoError(t, err)

	// seen may be reached directly from sent, skipping delivered
	got, changed, err := NewMarkSeenUseCase(repo).Execute(ctx, MarkSeenInput{MessageID: msg.ID, UserID: bob})
	require.NoError(t, err)
	require.True(t, changed)
	require.Equal(t, chat.StatusSeen, got.Status)
}

func TestDeleteMessageSenderOnly(t *testing.T) {
	repo, _, convID, alice, bob := setupDirect(t)
	ctx := context.Background()

	msg, err := NewSendMessageUseCase(repo).Execute(ctx, SendMessageInput{ConversationID: convID, SenderID: alice, Content: "oops"})
	require.NoError(t, err)

	del := NewDeleteMessageUseCase(repo, nil)
	_, err = del.Execute(ctx, DeleteMessageInput{MessageID: msg.ID, UserID: bob})
	require.ErrorIs(t, err, chat.ErrNotSender)

	deleted, err := del.Execute(ctx, DeleteMessageInput{MessageID: msg.ID, UserID: alice})
	require.NoError(t, err)
	require.Equal(t, msg.ID, deleted.ID)

	_, err = repo.FindMessage(ctx, msg.ID)
	require.ErrorIs(t, err, chat.ErrMessageNotFound)
}

func TestSendFileMessage(t *testing.T) {
	repo, _, convID, alice, _ := setupDirect(t)
	ctx := context.Background()
	blobs := &memBlobStore{blobs: make(map[string][]byte)}
	uc := NewSendFileMessageUseCase(repo, blobs)

	msg, err := uc.Execute(ctx, SendFileMessageInput{
		ConversationID: convID,
		SenderID:       alice,
		MsgType:        chat.MessageTypeImage,
		FileName:       "pic.png",
		ContentType:    "image/png",
		Size:           4,
		Content:        strings.NewReader("data"),
	})
	require.NoError(t, err)
	require.True(t, msg.IsMedia())
	require.Nil(t, msg.Content)
	require.Len(t, blobs.blobs, 1)

	// disallowed type never reaches storage
	_, err = uc.Execute(ctx, SendFileMessageInput{
		ConversationID: convID,
		SenderID:       alice,
		MsgType:        chat.MessageTypeImage,
		FileName:       "evil.exe",
		ContentType:    "application/x-msdownload",
		Size:           4,
		Content:        strings.NewReader("data"),
	})
	require.ErrorIs(t, err, chat.ErrInvalidFileType)
	require.Len(t, blobs.blobs, 1)

	// oversized upload is rejected up front
	_, err = uc.Execute(ctx, SendFileMessageInput{
		ConversationID: convID,
		SenderID:       alice,
		MsgType:        chat.MessageTypeImage,
		FileName:       "big.png",
		ContentType:    "image/png",
		Size:           6 * 1024 * 1024,
		Content:        strings.NewReader("data"),
	})
	require.ErrorIs(t, err, chat.ErrFileTooLarge)
	require.Len(t, blobs.blobs, 1)
}

func TestGetMessagesChronological(t *testing.T) {
	repo, _, convID, alice, bob := setupDirect(t)
	ctx := context.Background()
	send := NewSendMessageUseCase(repo)

	for _, content := range []string{"one", "two", "three"} {
		_, err := send.Execute(ctx, SendMessageInput{ConversationID: convID, SenderID: alice, Content: content})
		require.NoError(t, err)
	}

	msgs, err := NewGetMessagesUseCase(repo).Execute(ctx, GetMessagesInput{ConversationID: convID, UserID: bob, Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	require.Equal(t, "one", *msgs[0].Content)
	require.Equal(t, "three", *msgs[2].Content)

	// page two of size two holds only the oldest entry
	page2, err := NewGetMessagesUseCase(repo).Execute(ctx, GetMessagesInput{ConversationID: convID, UserID: bob, Page: 2, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, page2, 1)
	require.Equal(t, "one", *page2[0].Content)
}
