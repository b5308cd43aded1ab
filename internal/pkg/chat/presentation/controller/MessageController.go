package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"go-parley/internal/infrastructure/auth"
	"go-parley/internal/infrastructure/metrics"
	"go-parley/internal/infrastructure/realtime"
	chat "go-parley/internal/pkg/chat/application/domain"
	"go-parley/internal/pkg/chat/application/usecase"
)

// MessageController groups the message endpoints: history, sending (text and
// file upload), status acknowledgment and deletion. Every mutation broadcasts
// to the conversation only after the database write succeeded.
type MessageController struct {
	router *realtime.Router

	getMessagesUC   *usecase.GetMessagesUseCase
	sendMessageUC   *usecase.SendMessageUseCase
	sendFileUC      *usecase.SendFileMessageUseCase
	markDeliveredUC *usecase.MarkDeliveredUseCase
	markSeenUC      *usecase.MarkSeenUseCase
	deleteMessageUC *usecase.DeleteMessageUseCase
}

type MessageControllerDeps struct {
	Router          *realtime.Router
	GetMessagesUC   *usecase.GetMessagesUseCase
	SendMessageUC   *usecase.SendMessageUseCase
	SendFileUC      *usecase.SendFileMessageUseCase
	MarkDeliveredUC *usecase.MarkDeliveredUseCase
	MarkSeenUC      *usecase.MarkSeenUseCase
	DeleteMessageUC *usecase.DeleteMessageUseCase
}

func NewMessageController(d MessageControllerDeps) *MessageController {
	return &MessageController{
		router:          d.Router,
		getMessagesUC:   d.GetMessagesUC,
		sendMessageUC:   d.SendMessageUC,
		sendFileUC:      d.SendFileUC,
		markDeliveredUC: d.MarkDeliveredUC,
		markSeenUC:      d.MarkSeenUC,
		deleteMessageUC: d.DeleteMessageUC,
	}
}

func (h *MessageController) List() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, convID, ok := identityAndConvID(c)
		if !ok {
			return
		}

		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))

		msgs, err := h.getMessagesUC.Execute(c.Request.Context(), usecase.GetMessagesInput{
			ConversationID: convID,
			UserID:         claims.UserID,
			Page:           page,
			PageSize:       pageSize,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"messages": toMessageViews(msgs)})
	}
}

type sendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h *MessageController) Send() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, convID, ok := identityAndConvID(c)
		if !ok {
			return
		}

		var req sendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		msg, err := h.sendMessageUC.Execute(c.Request.Context(), usecase.SendMessageInput{
			ConversationID: convID,
			SenderID:       claims.UserID,
			Content:        req.Content,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		metrics.MessagesSent.WithLabelValues("text").Inc()
		view := toMessageView(msg)
		h.router.Broadcast(convID, encodeEvent(eventFrame{
			Type:           evMessage,
			ConversationID: convID,
			Message:        &view,
		}), "")
		c.JSON(http.StatusCreated, view)
	}
}

// Upload accepts a multipart form with a "file" part and a "msg_type" field.
func (h *MessageController) Upload() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, convID, ok := identityAndConvID(c)
		if !ok {
			return
		}

		msgType, err := strconv.ParseInt(c.PostForm("msg_type"), 10, 16)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "msg_type must be an integer"})
			return
		}

		header, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file part is required"})
			return
		}
		f, err := header.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		defer f.Close()

		msg, err := h.sendFileUC.Execute(c.Request.Context(), usecase.SendFileMessageInput{
			ConversationID: convID,
			SenderID:       claims.UserID,
			MsgType:        chat.MessageType(msgType),
			FileName:       header.Filename,
			ContentType:    header.Header.Get("Content-Type"),
			Size:           header.Size,
			Content:        f,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		metrics.MessagesSent.WithLabelValues(typeLabel(msg.MsgType)).Inc()
		view := toMessageView(msg)
		h.router.Broadcast(convID, encodeEvent(eventFrame{
			Type:           evMessage,
			ConversationID: convID,
			Message:        &view,
		}), "")
		c.JSON(http.StatusCreated, view)
	}
}

func (h *MessageController) MarkDelivered() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, convID, ok := identityAndConvID(c)
		if !ok {
			return
		}

		ids, err := h.markDeliveredUC.Execute(c.Request.Context(), usecase.MarkDeliveredInput{
			ConversationID: convID,
			UserID:         claims.UserID,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		if len(ids) > 0 {
			metrics.StatusTransitions.WithLabelValues("delivered").Add(float64(len(ids)))
			h.router.Broadcast(convID, encodeEvent(eventFrame{
				Type:           evStatus,
				ConversationID: convID,
				UserID:         claims.UserID,
				MessageIDs:     ids,
				Status:         i16ptr(int16(chat.StatusDelivered)),
			}), "")
		}
		c.JSON(http.StatusOK, gin.H{"updated": ids})
	}
}

func (h *MessageController) MarkSeen() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := auth.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}
		msgID, err := strconv.ParseInt(c.Param("messageId"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "messageId must be an integer"})
			return
		}

		msg, changed, err := h.markSeenUC.Execute(c.Request.Context(), usecase.MarkSeenInput{
			MessageID: msgID,
			UserID:    claims.UserID,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		if changed {
			metrics.StatusTransitions.WithLabelValues("seen").Inc()
			h.router.BroadcastExceptUser(msg.ConversationID, encodeEvent(eventFrame{
				Type:           evRead,
				ConversationID: msg.ConversationID,
				UserID:         claims.UserID,
				MessageID:      msg.ID,
				Status:         i16ptr(int16(chat.StatusSeen)),
			}), claims.UserID)
		}
		c.JSON(http.StatusOK, toMessageView(*msg))
	}
}

func (h *MessageController) Delete() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := auth.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}
		msgID, err := strconv.ParseInt(c.Param("messageId"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "messageId must be an integer"})
			return
		}

		msg, err := h.deleteMessageUC.Execute(c.Request.Context(), usecase.DeleteMessageInput{
			MessageID: msgID,
			UserID:    claims.UserID,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		h.router.Broadcast(msg.ConversationID, encodeEvent(eventFrame{
			Type:           evDeleted,
			ConversationID: msg.ConversationID,
			UserID:         claims.UserID,
			MessageID:      msg.ID,
		}), "")
		c.Status(http.StatusNoContent)
	}
}

func typeLabel(t chat.MessageType) string {
	switch t {
	case chat.MessageTypeText:
		return "text"
	case chat.MessageTypeImage:
		return "image"
	case chat.MessageTypeAudio:
		return "audio"
	case chat.MessageTypeVideo:
		return "video"
	default:
		return "file"
	}
}

// identityAndConvID mirrors ChatController.identityAndID for handlers that
// live outside that struct.
func identityAndConvID(c *gin.Context) (*auth.Claims, int64, bool) {
	claims, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return nil, 0, false
	}
	convID, err := strconv.ParseInt(c.Param("conversationId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "conversationId must be an integer"})
		return nil, 0, false
	}
	return claims, convID, true
}
