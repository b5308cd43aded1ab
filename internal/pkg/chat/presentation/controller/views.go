package controller

import (
	"time"

	chat "go-parley/internal/pkg/chat/application/domain"
)

// JSON views returned by the HTTP and websocket surfaces.

type messageView struct {
	ID             int64      `json:"id"`
	ConversationID int64      `json:"conversation_id"`
	SenderID       int64      `json:"sender_id"`
	Content        *string    `json:"content,omitempty"`
	MsgType        int16      `json:"msg_type"`
	FileURL        *string    `json:"file_url,omitempty"`
	FileName       *string    `json:"file_name,omitempty"`
	FileSize       *int64     `json:"file_size,omitempty"`
	SentAt         time.Time  `json:"sent_at"`
	Status         int16      `json:"status"`
}

func toMessageView(m chat.Message) messageView {
	return messageView{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Content:        m.Content,
		MsgType:        int16(m.MsgType),
		FileURL:        m.FileURL,
		FileName:       m.FileName,
		FileSize:       m.FileSize,
		SentAt:         m.SentAt,
		Status:         int16(m.Status),
	}
}

func toMessageViews(msgs []chat.Message) []messageView {
	out := make([]messageView, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toMessageView(m))
	}
	return out
}

type memberView struct {
	UserID   int64      `json:"user_id"`
	Username string     `json:"username"`
	IsOnline bool       `json:"is_online"`
	LastSeen *time.Time `json:"last_seen,omitempty"`
	Role     int16      `json:"role"`
	JoinedAt time.Time  `json:"joined_at"`
}

func toMemberViews(members []chat.Member) []memberView {
	out := make([]memberView, 0, len(members))
	for _, m := range members {
		out = append(out, memberView{
			UserID:   m.UserID,
			Username: m.Username,
			IsOnline: m.IsOnline,
			LastSeen: m.LastSeen,
			Role:     int16(m.Role),
			JoinedAt: m.JoinedAt,
		})
	}
	return out
}

type conversationView struct {
	ID          int64        `json:"id"`
	Kind        int16        `json:"kind"`
	Name        *string      `json:"name,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	Members     []memberView `json:"members,omitempty"`
	LastMessage *messageView `json:"last_message,omitempty"`
	Unread      int          `json:"unread"`
}

func toConversationView(s chat.ConversationSummary) conversationView {
	view := conversationView{
		ID:        s.Conversation.ID,
		Kind:      int16(s.Conversation.Kind),
		Name:      s.Conversation.Name,
		CreatedAt: s.Conversation.CreatedAt,
		Members:   toMemberViews(s.Members),
		Unread:    s.Unread,
	}
	if s.LastMessage != nil {
		mv := toMessageView(*s.LastMessage)
		view.LastMessage = &mv
	}
	return view
}
