package chat

import (
	"strings"
	"time"
)

// Kind distinguishes direct threads from named groups.
// Wire mapping: 0=one-to-one, 1=group.
type Kind int16

const (
	KindOneToOne Kind = 0
	KindGroup    Kind = 1
)

// Conversation is a chat container. Name is set for groups only.
type Conversation struct {
	ID        int64     `db:"id"`
	Kind      Kind      `db:"kind"`
	Name      *string   `db:"name"`
	CreatedAt time.Time `db:"created_at"`
	IsActive  bool      `db:"is_active"`
}

// ConversationSummary is the hydrated listing view of a conversation: its
// members, the most recent message (nil when empty) and the viewer's unread
// count.
type ConversationSummary struct {
	Conversation Conversation
	Members      []Member
	LastMessage  *Message
	Unread       int
}

// NewOneToOne shapes an unnamed direct conversation ready to persist.
func NewOneToOne(now time.Time) Conversation {
	return Conversation{Kind: KindOneToOne, CreatedAt: now.UTC(), IsActive: true}
}

// NewGroup shapes a named group conversation. The name must not be blank.
func NewGroup(name string, now time.Time) (Conversation, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return Conversation{}, ErrBlankName
	}
	return Conversation{Kind: KindGroup, Name: &trimmed, CreatedAt: now.UTC(), IsActive: true}, nil
}
