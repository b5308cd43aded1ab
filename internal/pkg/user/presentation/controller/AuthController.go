package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"go-parley/internal/pkg/user/application/usecase"
	user "go-parley/internal/pkg/user/domain"
)

// AuthController handles account registration and login.
type AuthController struct {
	registerUC *usecase.RegisterUserUseCase
	loginUC    *usecase.LoginUseCase
}

func NewAuthController(registerUC *usecase.RegisterUserUseCase, loginUC *usecase.LoginUseCase) *AuthController {
	return &AuthController{registerUC: registerUC, loginUC: loginUC}
}

type credentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type userView struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *AuthController) Register() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req credentialsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		u, err := h.registerUC.Execute(c.Request.Context(), usecase.RegisterUserInput{
			Username: req.Username,
			Password: req.Password,
		})
		if err != nil {
			c.JSON(registerStatus(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, userView{ID: u.ID, Username: u.Username, CreatedAt: u.CreatedAt})
	}
}

func (h *AuthController) Login() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req credentialsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		res, err := h.loginUC.Execute(c.Request.Context(), usecase.LoginInput{
			Username: req.Username,
			Password: req.Password,
		})
		if err != nil {
			if errors.Is(err, user.ErrInvalidCredentials) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"token":      res.Token,
			"expires_at": res.ExpiresAt,
			"user":       userView{ID: res.User.ID, Username: res.User.Username, CreatedAt: res.User.CreatedAt},
		})
	}
}

func registerStatus(err error) int {
	switch {
	case errors.Is(err, user.ErrUsernameTaken):
		return http.StatusConflict
	case errors.Is(err, user.ErrBlankUsername), errors.Is(err, user.ErrWeakPassword):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
