package repository

import (
	"context"

	chat "go-parley/internal/pkg/chat/application/domain"
)

// ChatRepository defines persistence operations for the chat domain.
//
// Multi-row writes (conversation plus memberships, cascade deletes) run inside
// a single transaction so a failure between steps never leaves a partial state
// visible to later lookups.
type ChatRepository interface {
	// CreateOneToOne returns the existing active direct conversation between
	// the two users if one exists, otherwise creates the conversation and both
	// member rows atomically. existing reports which path was taken.
	CreateOneToOne(ctx context.Context, userID1, userID2 int64) (conv chat.Conversation, existing bool, err error)

	// CreateGroup persists the conversation, the creator membership and one
	// member row per id in memberIDs, atomically.
	CreateGroup(ctx context.Context, conv chat.Conversation, creatorID int64, memberIDs []int64) (chat.Conversation, error)

	// FindConversation returns chat.ErrConversationNotFound when no active row matches.
	FindConversation(ctx context.Context, id int64) (*chat.Conversation, error)

	// ListUserConversations returns the user's active conversations ordered by
	// most recent message first (creation time for empty conversations).
	ListUserConversations(ctx context.Context, userID int64) ([]chat.Conversation, error)

	// UpdateName renames a group conversation.
	UpdateName(ctx context.Context, conversationID int64, name string) error

	// DeleteConversation removes the conversation, its memberships and its
	// messages in one transaction, returning the blob urls of deleted media
	// messages so the caller can release them.
	DeleteConversation(ctx context.Context, conversationID int64) ([]string, error)

	// AddMembership inserts a membership row.
	// Returns chat.ErrAlreadyMember when the (user, conversation) pair exists.
	AddMembership(ctx context.Context, m chat.Membership) error

	// RemoveMembership deletes a membership row.
	// Returns chat.ErrNotMember when no row matches.
	RemoveMembership(ctx context.Context, conversationID, userID int64) error

	// RoleOf returns chat.ErrNotMember when the user has no membership row.
	RoleOf(ctx context.Context, conversationID, userID int64) (chat.Role, error)

	// SetRole updates a membership's role only when its current role matches
	// expected; reports whether the row was changed.
	SetRole(ctx context.Context, conversationID, userID int64, expected, next chat.Role) (bool, error)

	IsMember(ctx context.Context, conversationID, userID int64) (bool, error)
	ListMembers(ctx context.Context, conversationID int64) ([]chat.Member, error)

	// SaveMessage persists a message and returns its id.
	SaveMessage(ctx context.Context, m chat.Message) (int64, error)

	// FindMessage returns chat.ErrMessageNotFound when no row matches.
	FindMessage(ctx context.Context, id int64) (*chat.Message, error)

	// ListMessages returns one page of conversation history, newest first.
	ListMessages(ctx context.Context, conversationID int64, page, pageSize int) ([]chat.Message, error)

	// LastMessage returns nil without error for an empty conversation.
	LastMessage(ctx context.Context, conversationID int64) (*chat.Message, error)

	// MarkDelivered advances every Sent message in the conversation authored
	// by someone other than userID to Delivered, atomically, and returns the
	// ids that moved.
	MarkDelivered(ctx context.Context, conversationID, userID int64) ([]int64, error)

	// AdvanceStatus moves a message to next only when that keeps the status
	// monotonic; reports whether the row was changed.
	AdvanceStatus(ctx context.Context, messageID int64, next chat.MessageStatus) (bool, error)

	// DeleteMessage removes a message row.
	DeleteMessage(ctx context.Context, messageID int64) error

	// UnreadCount counts messages in the conversation not yet Seen and not
	// authored by userID.
	UnreadCount(ctx context.Context, conversationID, userID int64) (int, error)
}
