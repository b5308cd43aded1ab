package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"go-parley/internal/infrastructure/auth"
	"go-parley/internal/infrastructure/metrics"
	"go-parley/internal/infrastructure/realtime"
	chat "go-parley/internal/pkg/chat/application/domain"
	"go-parley/internal/pkg/chat/application/usecase"
	useruc "go-parley/internal/pkg/user/application/usecase"
)

const (
	readLimit       = 64 * 1024
	pongWait        = 60 * time.Second
	inflightTimeout = 5 * time.Second
)

// ChatSocketController is the websocket gateway. Each upgraded connection maps
// to one device session: presence flips on attach and on the last detach, and
// inbound frames are routed to the same use cases the HTTP surface runs. Every
// broadcast happens strictly after the corresponding write has been persisted.
type ChatSocketController struct {
	router   *realtime.Router
	presence *realtime.Presence
	logger   *zap.SugaredLogger

	roleOfUC        *usecase.RoleOfUseCase
	sendMessageUC   *usecase.SendMessageUseCase
	markDeliveredUC *usecase.MarkDeliveredUseCase
	markSeenUC      *usecase.MarkSeenUseCase
	presenceUC      *useruc.UpdatePresenceUseCase
}

type ChatSocketControllerDeps struct {
	Router          *realtime.Router
	Presence        *realtime.Presence
	Logger          *zap.SugaredLogger
	RoleOfUC        *usecase.RoleOfUseCase
	SendMessageUC   *usecase.SendMessageUseCase
	MarkDeliveredUC *usecase.MarkDeliveredUseCase
	MarkSeenUC      *usecase.MarkSeenUseCase
	PresenceUC      *useruc.UpdatePresenceUseCase
}

func NewChatSocketController(d ChatSocketControllerDeps) *ChatSocketController {
	return &ChatSocketController{
		router:          d.Router,
		presence:        d.Presence,
		logger:          d.Logger,
		roleOfUC:        d.RoleOfUC,
		sendMessageUC:   d.SendMessageUC,
		markDeliveredUC: d.MarkDeliveredUC,
		markSeenUC:      d.MarkSeenUC,
		presenceUC:      d.PresenceUC,
	}
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type inboundFrame struct {
	Type           string `json:"type"`
	ConversationID int64  `json:"conversation_id,omitempty"`
	MessageID      int64  `json:"message_id,omitempty"`
	Content        string `json:"content,omitempty"`
}

func (h *ChatSocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := auth.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			h.logger.Warnw("websocket upgrade failed", "err", err)
			return
		}

		conn := realtime.NewConnection(claims.UserID, ws)
		h.attach(conn)
		defer h.detach(conn)

		_ = conn.Send(encodeEvent(eventFrame{Type: evConnected, UserID: claims.UserID}))

		ws.SetReadLimit(readLimit)
		_ = ws.SetReadDeadline(time.Now().Add(pongWait))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(pongWait))
		})

		for {
			_, raw, err := ws.ReadMessage()
			if err != nil {
				return
			}
			var frame inboundFrame
			if err := json.Unmarshal(raw, &frame); err != nil {
				_ = conn.Send(encodeEvent(eventFrame{Type: evError, Error: "malformed frame"}))
				continue
			}
			h.dispatch(conn, claims, frame)
		}
	}
}

// attach registers the session and flips the user online when this is their
// first live connection.
func (h *ChatSocketController) attach(conn *realtime.Connection) {
	h.router.Attach(conn)
	wasOnline := h.presence.IsOnline(conn.UserID)
	h.presence.AddConnection(conn.UserID, conn.ID)

	metrics.OnlineConnections.Inc()
	if !wasOnline {
		metrics.OnlineUsers.Inc()
		h.updatePresence(conn.UserID, true)
	}
}

// detach unregisters the session and flips the user offline when their last
// connection is gone.
func (h *ChatSocketController) detach(conn *realtime.Connection) {
	h.router.Detach(conn)
	conn.Close(websocket.CloseNormalClosure, "bye")

	metrics.OnlineConnections.Dec()
	if _, offline, ok := h.presence.RemoveConnection(conn.ID); ok && offline {
		metrics.OnlineUsers.Dec()
		h.updatePresence(conn.UserID, false)
	}
}

func (h *ChatSocketController) updatePresence(userID int64, online bool) {
	ctx, cancel := context.WithTimeout(context.Background(), inflightTimeout)
	defer cancel()
	if err := h.presenceUC.Execute(ctx, useruc.UpdatePresenceInput{UserID: userID, Online: online}); err != nil {
		h.logger.Warnw("presence persist failed", "user_id", userID, "online", online, "err", err)
	}
}

func (h *ChatSocketController) dispatch(conn *realtime.Connection, claims *auth.Claims, frame inboundFrame) {
	ctx, cancel := context.WithTimeout(context.Background(), inflightTimeout)
	defer cancel()

	switch frame.Type {
	case "join":
		h.handleJoin(ctx, conn, claims, frame.ConversationID)
	case "leave":
		h.handleLeave(conn, claims, frame.ConversationID)
	case "message":
		h.handleMessage(ctx, conn, frame)
	case "typing":
		h.router.BroadcastExceptUser(frame.ConversationID, encodeEvent(eventFrame{
			Type:           evUserTyping,
			ConversationID: frame.ConversationID,
			UserID:         claims.UserID,
			Username:       claims.Username,
		}), claims.UserID)
	case "mark_delivered":
		h.handleMarkDelivered(ctx, conn, frame.ConversationID)
	case "mark_seen":
		h.handleMarkSeen(ctx, conn, frame.MessageID)
	default:
		_ = conn.Send(encodeEvent(eventFrame{Type: evError, Error: "unknown frame type"}))
	}
}

// handleJoin admits the session into a conversation channel after a
// membership check, so outsiders cannot subscribe to channels they were never
// part of.
func (h *ChatSocketController) handleJoin(ctx context.Context, conn *realtime.Connection, claims *auth.Claims, conversationID int64) {
	if _, err := h.roleOfUC.Execute(ctx, usecase.RoleOfInput{
		ConversationID: conversationID,
		UserID:         conn.UserID,
	}); err != nil {
		h.sendError(conn, err)
		return
	}

	h.router.Join(conversationID, conn)
	_ = conn.Send(encodeEvent(eventFrame{Type: evJoined, ConversationID: conversationID}))
	h.router.BroadcastExceptUser(conversationID, encodeEvent(eventFrame{
		Type:           evUserJoined,
		ConversationID: conversationID,
		UserID:         claims.UserID,
		Username:       claims.Username,
	}), claims.UserID)
}

// handleLeave unsubscribes the session and tells the remaining subscribers.
func (h *ChatSocketController) handleLeave(conn *realtime.Connection, claims *auth.Claims, conversationID int64) {
	h.router.Leave(conversationID, conn)
	_ = conn.Send(encodeEvent(eventFrame{Type: evLeft, ConversationID: conversationID}))
	h.router.BroadcastExceptUser(conversationID, encodeEvent(eventFrame{
		Type:           evUserLeft,
		ConversationID: conversationID,
		UserID:         claims.UserID,
		Username:       claims.Username,
	}), claims.UserID)
}

func (h *ChatSocketController) handleMessage(ctx context.Context, conn *realtime.Connection, frame inboundFrame) {
	msg, err := h.sendMessageUC.Execute(ctx, usecase.SendMessageInput{
		ConversationID: frame.ConversationID,
		SenderID:       conn.UserID,
		Content:        frame.Content,
	})
	if err != nil {
		h.sendError(conn, err)
		return
	}

	metrics.MessagesSent.WithLabelValues("text").Inc()
	view := toMessageView(msg)
	delivered := h.router.Broadcast(frame.ConversationID, encodeEvent(eventFrame{
		Type:           evMessage,
		ConversationID: frame.ConversationID,
		Message:        &view,
	}), "")
	metrics.BroadcastsDelivered.Add(float64(delivered))
}

func (h *ChatSocketController) handleMarkDelivered(ctx context.Context, conn *realtime.Connection, conversationID int64) {
	ids, err := h.markDeliveredUC.Execute(ctx, usecase.MarkDeliveredInput{
		ConversationID: conversationID,
		UserID:         conn.UserID,
	})
	if err != nil {
		h.sendError(conn, err)
		return
	}
	if len(ids) == 0 {
		return
	}

	metrics.StatusTransitions.WithLabelValues("delivered").Add(float64(len(ids)))
	h.router.Broadcast(conversationID, encodeEvent(eventFrame{
		Type:           evStatus,
		ConversationID: conversationID,
		UserID:         conn.UserID,
		MessageIDs:     ids,
		Status:         i16ptr(int16(chat.StatusDelivered)),
	}), "")
}

func (h *ChatSocketController) handleMarkSeen(ctx context.Context, conn *realtime.Connection, messageID int64) {
	msg, changed, err := h.markSeenUC.Execute(ctx, usecase.MarkSeenInput{
		MessageID: messageID,
		UserID:    conn.UserID,
	})
	if err != nil {
		h.sendError(conn, err)
		return
	}
	if !changed {
		return
	}

	metrics.StatusTransitions.WithLabelValues("seen").Inc()
	// the reader already knows; only the other members get the read notice
	h.router.BroadcastExceptUser(msg.ConversationID, encodeEvent(eventFrame{
		Type:           evRead,
		ConversationID: msg.ConversationID,
		UserID:         conn.UserID,
		MessageID:      msg.ID,
		Status:         i16ptr(int16(chat.StatusSeen)),
	}), conn.UserID)
}

func (h *ChatSocketController) sendError(conn *realtime.Connection, err error) {
	if !chat.IsBusinessError(err) {
		h.logger.Errorw("socket operation failed", "user_id", conn.UserID, "err", err)
	}
	_ = conn.Send(encodeEvent(eventFrame{Type: evError, Error: err.Error()}))
}
