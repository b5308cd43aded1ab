package http

import (
	"github.com/gin-gonic/gin"

	"go-parley/internal/pkg/user/presentation/controller"
)

// RegisterRoutes binds the public account endpoints.
func RegisterRoutes(g *gin.RouterGroup, authCtl *controller.AuthController) {
	g.POST("/auth/register", authCtl.Register())
	g.POST("/auth/login", authCtl.Login())
}
