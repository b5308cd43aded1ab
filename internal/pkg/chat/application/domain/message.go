package chat

import (
	"strings"
	"time"
)

// MessageType tags the payload carried by a message.
// Wire mapping: 0=text, 1=image, 2=audio, 3=video, 4=file.
type MessageType int16

const (
	MessageTypeText  MessageType = 0
	MessageTypeImage MessageType = 1
	MessageTypeAudio MessageType = 2
	MessageTypeVideo MessageType = 3
	MessageTypeFile  MessageType = 4
)

// MessageStatus is the delivery-acknowledgment state of a message.
// Wire mapping: 0=sent, 1=delivered, 2=seen. Strictly forward, never reversed.
type MessageStatus int16

const (
	StatusSent      MessageStatus = 0
	StatusDelivered MessageStatus = 1
	StatusSeen      MessageStatus = 2
)

// CanAdvanceTo reports whether moving to next keeps the status monotonic.
func (s MessageStatus) CanAdvanceTo(next MessageStatus) bool {
	return next > s
}

// FileRef is an opaque reference to a stored blob.
type FileRef struct {
	URL  string
	Name string
	Size int64
}

// Message is a log entry in a conversation. It carries either text content or
// a file reference, never neither and never both.
type Message struct {
	ID             int64         `db:"id"`
	ConversationID int64         `db:"conversation_id"`
	SenderID       int64         `db:"sender_id"`
	Content        *string       `db:"content"`
	MsgType        MessageType   `db:"msg_type"`
	FileURL        *string       `db:"file_url"`
	FileName       *string       `db:"file_name"`
	FileSize       *int64        `db:"file_size"`
	SentAt         time.Time     `db:"sent_at"`
	Status         MessageStatus `db:"status"`
}

// NewTextMessage validates and shapes a text message ready to persist.
func NewTextMessage(conversationID, senderID int64, content string, now time.Time) (Message, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return Message{}, ErrEmptyMessage
	}
	return Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        &trimmed,
		MsgType:        MessageTypeText,
		SentAt:         now.UTC(),
		Status:         StatusSent,
	}, nil
}

// NewMediaMessage validates and shapes a media message around a blob reference.
// Media messages never carry text content.
func NewMediaMessage(conversationID, senderID int64, ref FileRef, msgType MessageType, now time.Time) (Message, error) {
	if msgType == MessageTypeText {
		return Message{}, ErrAmbiguousPayload
	}
	if ref.URL == "" {
		return Message{}, ErrEmptyMessage
	}
	url, name, size := ref.URL, ref.Name, ref.Size
	return Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		MsgType:        msgType,
		FileURL:        &url,
		FileName:       &name,
		FileSize:       &size,
		SentAt:         now.UTC(),
		Status:         StatusSent,
	}, nil
}

// IsMedia reports whether the message references a stored blob.
func (m Message) IsMedia() bool {
	return m.FileURL != nil && *m.FileURL != ""
}
