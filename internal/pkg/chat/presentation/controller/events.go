package controller

import "encoding/json"

// Outbound realtime event types fanned out to conversation subscribers.
const (
	evConnected    = "connected"
	evJoined       = "joined"
	evLeft         = "left"
	evMessage      = "message"
	evUserJoined   = "user_joined"
	evUserLeft     = "user_left"
	evUserTyping   = "user_typing"
	evStatus       = "message_status"
	evRead         = "message_read"
	evDeleted      = "message_deleted"
	evRenamed      = "conversation_renamed"
	evConvDeleted  = "conversation_deleted"
	evRoleChanged  = "role_changed"
	evError        = "error"
)

type eventFrame struct {
	Type           string       `json:"type"`
	ConversationID int64        `json:"conversation_id,omitempty"`
	UserID         int64        `json:"user_id,omitempty"`
	Username       string       `json:"username,omitempty"`
	MessageID      int64        `json:"message_id,omitempty"`
	MessageIDs     []int64      `json:"message_ids,omitempty"`
	Status         *int16       `json:"status,omitempty"`
	Role           *int16       `json:"role,omitempty"`
	Name           string       `json:"name,omitempty"`
	Message        *messageView `json:"message,omitempty"`
	Error          string       `json:"error,omitempty"`
}

func encodeEvent(ev eventFrame) []byte {
	payload, _ := json.Marshal(ev)
	return payload
}

func i16ptr(v int16) *int16 { return &v }
