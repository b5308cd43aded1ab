package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"go-parley/internal/infrastructure/auth"
	blobport "go-parley/internal/infrastructure/blob/port"
	cacheport "go-parley/internal/infrastructure/cache/port"
	"go-parley/internal/infrastructure/config"
	"go-parley/internal/infrastructure/middleware"
	qport "go-parley/internal/infrastructure/queue/port"
	"go-parley/internal/infrastructure/realtime"
	chatusecase "go-parley/internal/pkg/chat/application/usecase"
	chatadapter "go-parley/internal/pkg/chat/persistence/repository/adapter"
	chatcontroller "go-parley/internal/pkg/chat/presentation/controller"
	chathttp "go-parley/internal/pkg/chat/presentation/http"
	userusecase "go-parley/internal/pkg/user/application/usecase"
	useradapter "go-parley/internal/pkg/user/repository/adapter"
	usercontroller "go-parley/internal/pkg/user/presentation/controller"
	userhttp "go-parley/internal/pkg/user/presentation/http"
)

// Deps carries the shared infrastructure handed to the route tree.
type Deps struct {
	Cfg      *config.Config
	Logger   *zap.SugaredLogger
	Pool     *pgxpool.Pool
	Cache    cacheport.Cache
	Queue    qport.Client
	Blobs    blobport.Store
	Router   *realtime.Router
	Presence *realtime.Presence
	Verifier *auth.Verifier
	Limiter  *middleware.LimiterStore
}

// Register wires repositories, use cases and controllers onto the engine.
func Register(r *gin.Engine, d Deps) {
	chatRepo := chatadapter.NewPgChatRepository(d.Logger, d.Pool)
	userRepo := useradapter.NewPgUserRepository(d.Logger, d.Pool)

	registerUC := userusecase.NewRegisterUserUseCase(userRepo)
	loginUC := userusecase.NewLoginUseCase(userRepo, d.Verifier)
	presenceUC := userusecase.NewUpdatePresenceUseCase(userRepo, d.Cache, d.Logger)

	authCtl := usercontroller.NewAuthController(registerUC, loginUC)

	chatCtl := chatcontroller.NewChatController(chatcontroller.ChatControllerDeps{
		Router:           d.Router,
		CreateOneToOneUC: chatusecase.NewCreateOneToOneUseCase(chatRepo, userRepo),
		CreateGroupUC:    chatusecase.NewCreateGroupUseCase(chatRepo, userRepo),
		ListUC:           chatusecase.NewListConversationsUseCase(chatRepo),
		GetUC:            chatusecase.NewGetConversationUseCase(chatRepo),
		ParticipantsUC:   chatusecase.NewListParticipantsUseCase(chatRepo),
		RenameUC:         chatusecase.NewUpdateGroupNameUseCase(chatRepo),
		DeleteUC:         chatusecase.NewDeleteConversationUseCase(chatRepo, d.Queue),
		AddMemberUC:      chatusecase.NewAddMemberUseCase(chatRepo, userRepo),
		RemoveMemberUC:   chatusecase.NewRemoveMemberUseCase(chatRepo, userRepo),
		PromoteUC:        chatusecase.NewPromoteToAdminUseCase(chatRepo, userRepo),
		DemoteUC:         chatusecase.NewDemoteFromAdminUseCase(chatRepo, userRepo),
		LeaveUC:          chatusecase.NewLeaveGroupUseCase(chatRepo),
	})

	msgCtl := chatcontroller.NewMessageController(chatcontroller.MessageControllerDeps{
		Router:          d.Router,
		GetMessagesUC:   chatusecase.NewGetMessagesUseCase(chatRepo),
		SendMessageUC:   chatusecase.NewSendMessageUseCase(chatRepo),
		SendFileUC:      chatusecase.NewSendFileMessageUseCase(chatRepo, d.Blobs),
		MarkDeliveredUC: chatusecase.NewMarkDeliveredUseCase(chatRepo),
		MarkSeenUC:      chatusecase.NewMarkSeenUseCase(chatRepo),
		DeleteMessageUC: chatusecase.NewDeleteMessageUseCase(chatRepo, d.Queue),
	})

	socketCtl := chatcontroller.NewChatSocketController(chatcontroller.ChatSocketControllerDeps{
		Router:          d.Router,
		Presence:        d.Presence,
		Logger:          d.Logger,
		RoleOfUC:        chatusecase.NewRoleOfUseCase(chatRepo),
		SendMessageUC:   chatusecase.NewSendMessageUseCase(chatRepo),
		MarkDeliveredUC: chatusecase.NewMarkDeliveredUseCase(chatRepo),
		MarkSeenUC:      chatusecase.NewMarkSeenUseCase(chatRepo),
		PresenceUC:      presenceUC,
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.Static(d.Cfg.UploadBaseURL, d.Cfg.UploadPath)

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(d.Limiter))

	userhttp.RegisterRoutes(api, authCtl)

	authed := api.Group("")
	authed.Use(d.Verifier.Middleware())
	chathttp.RegisterRoutes(authed, chatCtl, msgCtl, socketCtl)
}
