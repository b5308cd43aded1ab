package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-parley/internal/infrastructure/auth"
	"go-parley/internal/infrastructure/realtime"
	chat "go-parley/internal/pkg/chat/application/domain"
	"go-parley/internal/pkg/chat/application/usecase"
)

// ChatController groups the conversation lifecycle and membership endpoints.
// Mutations broadcast to the affected conversation only after the change has
// been persisted.
type ChatController struct {
	router *realtime.Router

	createOneToOneUC *usecase.CreateOneToOneUseCase
	createGroupUC    *usecase.CreateGroupUseCase
	listUC           *usecase.ListConversationsUseCase
	getUC            *usecase.GetConversationUseCase
	participantsUC   *usecase.ListParticipantsUseCase
	renameUC         *usecase.UpdateGroupNameUseCase
	deleteUC         *usecase.DeleteConversationUseCase
	addMemberUC      *usecase.AddMemberUseCase
	removeMemberUC   *usecase.RemoveMemberUseCase
	promoteUC        *usecase.PromoteToAdminUseCase
	demoteUC         *usecase.DemoteFromAdminUseCase
	leaveUC          *usecase.LeaveGroupUseCase
}

type ChatControllerDeps struct {
	Router           *realtime.Router
	CreateOneToOneUC *usecase.CreateOneToOneUseCase
	CreateGroupUC    *usecase.CreateGroupUseCase
	ListUC           *usecase.ListConversationsUseCase
	GetUC            *usecase.GetConversationUseCase
	ParticipantsUC   *usecase.ListParticipantsUseCase
	RenameUC         *usecase.UpdateGroupNameUseCase
	DeleteUC         *usecase.DeleteConversationUseCase
	AddMemberUC      *usecase.AddMemberUseCase
	RemoveMemberUC   *usecase.RemoveMemberUseCase
	PromoteUC        *usecase.PromoteToAdminUseCase
	DemoteUC         *usecase.DemoteFromAdminUseCase
	LeaveUC          *usecase.LeaveGroupUseCase
}

func NewChatController(d ChatControllerDeps) *ChatController {
	return &ChatController{
		router:           d.Router,
		createOneToOneUC: d.CreateOneToOneUC,
		createGroupUC:    d.CreateGroupUC,
		listUC:           d.ListUC,
		getUC:            d.GetUC,
		participantsUC:   d.ParticipantsUC,
		renameUC:         d.RenameUC,
		deleteUC:         d.DeleteUC,
		addMemberUC:      d.AddMemberUC,
		removeMemberUC:   d.RemoveMemberUC,
		promoteUC:        d.PromoteUC,
		demoteUC:         d.DemoteUC,
		leaveUC:          d.LeaveUC,
	}
}

type createConversationRequest struct {
	Kind           int16    `json:"kind"`
	TargetUsername string   `json:"target_username"`
	Name           string   `json:"name"`
	Members        []string `json:"members"`
}

// Create handles both conversation kinds through one endpoint, switching on
// the kind discriminator like the message payload does.
func (h *ChatController) Create() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := auth.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		var req createConversationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		switch chat.Kind(req.Kind) {
		case chat.KindOneToOne:
			conv, existing, err := h.createOneToOneUC.Execute(c.Request.Context(), usecase.CreateOneToOneInput{
				RequesterID:    claims.UserID,
				TargetUsername: req.TargetUsername,
			})
			if err != nil {
				respondError(c, err)
				return
			}
			status := http.StatusCreated
			if existing {
				status = http.StatusOK
			}
			c.JSON(status, gin.H{"id": conv.ID, "kind": int16(conv.Kind), "created_at": conv.CreatedAt})

		case chat.KindGroup:
			conv, err := h.createGroupUC.Execute(c.Request.Context(), usecase.CreateGroupInput{
				CreatorID:       claims.UserID,
				Name:            req.Name,
				MemberUsernames: req.Members,
			})
			if err != nil {
				respondError(c, err)
				return
			}
			c.JSON(http.StatusCreated, gin.H{"id": conv.ID, "kind": int16(conv.Kind), "name": conv.Name, "created_at": conv.CreatedAt})

		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown conversation kind"})
		}
	}
}

func (h *ChatController) List() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := auth.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		summaries, err := h.listUC.Execute(c.Request.Context(), usecase.ListConversationsInput{UserID: claims.UserID})
		if err != nil {
			respondError(c, err)
			return
		}

		views := make([]conversationView, 0, len(summaries))
		for _, s := range summaries {
			views = append(views, toConversationView(s))
		}
		c.JSON(http.StatusOK, gin.H{"conversations": views})
	}
}

func (h *ChatController) Get() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, convID, ok := h.identityAndID(c)
		if !ok {
			return
		}

		summary, err := h.getUC.Execute(c.Request.Context(), usecase.GetConversationInput{
			ConversationID: convID,
			UserID:         claims.UserID,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, toConversationView(summary))
	}
}

func (h *ChatController) Participants() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, convID, ok := h.identityAndID(c)
		if !ok {
			return
		}

		members, err := h.participantsUC.Execute(c.Request.Context(), usecase.ListParticipantsInput{
			ConversationID: convID,
			UserID:         claims.UserID,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"members": toMemberViews(members)})
	}
}

type renameRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *ChatController) Rename() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, convID, ok := h.identityAndID(c)
		if !ok {
			return
		}

		var req renameRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		err := h.renameUC.Execute(c.Request.Context(), usecase.UpdateGroupNameInput{
			ConversationID: convID,
			RequesterID:    claims.UserID,
			NewName:        req.Name,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		h.router.Broadcast(convID, encodeEvent(eventFrame{
			Type:           evRenamed,
			ConversationID: convID,
			UserID:         claims.UserID,
			Name:           req.Name,
		}), "")
		c.Status(http.StatusNoContent)
	}
}

func (h *ChatController) Delete() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, convID, ok := h.identityAndID(c)
		if !ok {
			return
		}

		removed, err := h.deleteUC.Execute(c.Request.Context(), usecase.DeleteConversationInput{
			ConversationID: convID,
			UserID:         claims.UserID,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		if removed {
			h.router.Broadcast(convID, encodeEvent(eventFrame{
				Type:           evConvDeleted,
				ConversationID: convID,
			}), "")
		}
		c.Status(http.StatusNoContent)
	}
}

type memberRequest struct {
	Username string `json:"username" binding:"required"`
}

func (h *ChatController) AddMember() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, convID, ok := h.identityAndID(c)
		if !ok {
			return
		}

		var req memberRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		userID, err := h.addMemberUC.Execute(c.Request.Context(), usecase.AddMemberInput{
			ConversationID: convID,
			RequesterID:    claims.UserID,
			TargetUsername: req.Username,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		h.router.Broadcast(convID, encodeEvent(eventFrame{
			Type:           evUserJoined,
			ConversationID: convID,
			UserID:         userID,
			Username:       req.Username,
		}), "")
		c.Status(http.StatusNoContent)
	}
}

func (h *ChatController) RemoveMember() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, convID, ok := h.identityAndID(c)
		if !ok {
			return
		}

		username := c.Param("username")
		userID, err := h.removeMemberUC.Execute(c.Request.Context(), usecase.RemoveMemberInput{
			ConversationID: convID,
			RequesterID:    claims.UserID,
			TargetUsername: username,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		h.router.Broadcast(convID, encodeEvent(eventFrame{
			Type:           evUserLeft,
			ConversationID: convID,
			UserID:         userID,
			Username:       username,
		}), "")
		c.Status(http.StatusNoContent)
	}
}

func (h *ChatController) Promote() gin.HandlerFunc {
	return h.roleChange(true)
}

func (h *ChatController) Demote() gin.HandlerFunc {
	return h.roleChange(false)
}

func (h *ChatController) roleChange(promote bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, convID, ok := h.identityAndID(c)
		if !ok {
			return
		}

		username := c.Param("username")
		var (
			userID int64
			err    error
			role   chat.Role
		)
		if promote {
			userID, err = h.promoteUC.Execute(c.Request.Context(), usecase.PromoteToAdminInput{
				ConversationID: convID,
				RequesterID:    claims.UserID,
				TargetUsername: username,
			})
			role = chat.RoleAdmin
		} else {
			userID, err = h.demoteUC.Execute(c.Request.Context(), usecase.DemoteFromAdminInput{
				ConversationID: convID,
				RequesterID:    claims.UserID,
				TargetUsername: username,
			})
			role = chat.RoleMember
		}
		if err != nil {
			respondError(c, err)
			return
		}

		h.router.Broadcast(convID, encodeEvent(eventFrame{
			Type:           evRoleChanged,
			ConversationID: convID,
			UserID:         userID,
			Username:       username,
			Role:           i16ptr(int16(role)),
		}), "")
		c.Status(http.StatusNoContent)
	}
}

func (h *ChatController) Leave() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, convID, ok := h.identityAndID(c)
		if !ok {
			return
		}

		err := h.leaveUC.Execute(c.Request.Context(), usecase.LeaveGroupInput{
			ConversationID: convID,
			UserID:         claims.UserID,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		h.router.Broadcast(convID, encodeEvent(eventFrame{
			Type:           evUserLeft,
			ConversationID: convID,
			UserID:         claims.UserID,
			Username:       claims.Username,
		}), "")
		c.Status(http.StatusNoContent)
	}
}

// identityAndID pulls the authenticated claims and the conversation id path
// parameter, writing the error response itself when either is missing.
func (h *ChatController) identityAndID(c *gin.Context) (*auth.Claims, int64, bool) {
	return identityAndConvID(c)
}
