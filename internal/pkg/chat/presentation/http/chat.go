package http

import (
	"github.com/gin-gonic/gin"

	"go-parley/internal/pkg/chat/presentation/controller"
)

// RegisterRoutes binds the conversation, message and websocket endpoints under
// the given authenticated router group.
func RegisterRoutes(g *gin.RouterGroup, chatCtl *controller.ChatController, msgCtl *controller.MessageController, socketCtl *controller.ChatSocketController) {
	g.POST("/conversations", chatCtl.Create())
	g.GET("/conversations", chatCtl.List())
	g.GET("/conversations/:conversationId", chatCtl.Get())
	g.PATCH("/conversations/:conversationId", chatCtl.Rename())
	g.DELETE("/conversations/:conversationId", chatCtl.Delete())

	g.GET("/conversations/:conversationId/members", chatCtl.Participants())
	g.POST("/conversations/:conversationId/members", chatCtl.AddMember())
	g.DELETE("/conversations/:conversationId/members/:username", chatCtl.RemoveMember())
	g.POST("/conversations/:conversationId/members/:username/promote", chatCtl.Promote())
	g.POST("/conversations/:conversationId/members/:username/demote", chatCtl.Demote())
	g.POST("/conversations/:conversationId/leave", chatCtl.Leave())

	g.GET("/conversations/:conversationId/messages", msgCtl.List())
	g.POST("/conversations/:conversationId/messages", msgCtl.Send())
	g.POST("/conversations/:conversationId/files", msgCtl.Upload())
	g.POST("/conversations/:conversationId/delivered", msgCtl.MarkDelivered())
	g.POST("/messages/:messageId/seen", msgCtl.MarkSeen())
	g.DELETE("/messages/:messageId", msgCtl.Delete())

	g.GET("/ws", socketCtl.Handle())
}
