package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	chat "go-parley/internal/pkg/chat/application/domain"
	"go-parley/internal/pkg/chat/application/usecase"
	user "go-parley/internal/pkg/user/domain"
)

// respondError maps domain outcomes onto HTTP statuses. Anything not
// recognized as a business outcome is treated as a backend failure.
func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, chat.ErrConversationNotFound),
		errors.Is(err, chat.ErrMessageNotFound),
		errors.Is(err, chat.ErrUserNotFound),
		errors.Is(err, user.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, chat.ErrNotMember),
		errors.Is(err, chat.ErrInsufficientRole),
		errors.Is(err, chat.ErrCreatorImmutable),
		errors.Is(err, chat.ErrCreatorCannotLeave),
		errors.Is(err, chat.ErrNotSender),
		errors.Is(err, chat.ErrOwnMessage):
		return http.StatusForbidden

	case errors.Is(err, chat.ErrAlreadyMember),
		errors.Is(err, chat.ErrRoleUnchanged),
		errors.Is(err, user.ErrUsernameTaken):
		return http.StatusConflict

	case errors.Is(err, chat.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge

	case errors.Is(err, chat.ErrInvalidFileType):
		return http.StatusUnsupportedMediaType

	case errors.Is(err, chat.ErrBlankName),
		errors.Is(err, chat.ErrSelfConversation),
		errors.Is(err, chat.ErrEmptyMessage),
		errors.Is(err, chat.ErrAmbiguousPayload),
		errors.Is(err, chat.ErrNotGroup),
		errors.Is(err, user.ErrBlankUsername),
		errors.Is(err, user.ErrWeakPassword):
		return http.StatusBadRequest

	case errors.Is(err, user.ErrInvalidCredentials):
		return http.StatusUnauthorized

	case errors.Is(err, usecase.ErrPersistence):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}
