package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	v1 "go-parley/cmd/api/router/v1"
	"go-parley/internal/infrastructure/auth"
	blobadapter "go-parley/internal/infrastructure/blob/adapter"
	cacheadapter "go-parley/internal/infrastructure/cache/adapter"
	"go-parley/internal/infrastructure/config"
	"go-parley/internal/infrastructure/database"
	"go-parley/internal/infrastructure/metrics"
	"go-parley/internal/infrastructure/middleware"
	queueadapter "go-parley/internal/infrastructure/queue/adapter"
	"go-parley/internal/infrastructure/realtime"
	"go-parley/internal/pkg/chat/application/task"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zl.Sync()
	logger := zl.Sugar()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	pool, err := database.Connect(connectCtx, cfg.DBURL)
	cancel()
	if err != nil {
		logger.Fatalw("database connect failed", "err", err)
	}
	defer pool.Close()

	cache, err := cacheadapter.NewRedisCache(cfg.RedisURL)
	if err != nil {
		logger.Fatalw("redis connect failed", "err", err)
	}
	defer cache.Close()

	queueClient, err := queueadapter.NewAsynqClient(cfg.RedisURL)
	if err != nil {
		logger.Fatalw("queue client failed", "err", err)
	}
	defer queueClient.Close()

	queueServer, err := queueadapter.NewAsynqServer(cfg.RedisURL, cfg.QueueConcurrency, logger)
	if err != nil {
		logger.Fatalw("queue server failed", "err", err)
	}

	blobs, err := blobadapter.NewLocalStore(cfg.UploadPath, cfg.UploadBaseURL)
	if err != nil {
		logger.Fatalw("blob store failed", "err", err)
	}

	task.NewReleaseBlobHandler(blobs, logger).Register(queueServer)
	go func() {
		if err := queueServer.Run(ctx); err != nil {
			logger.Errorw("queue server stopped", "err", err)
		}
	}()

	metrics.Register()

	limiter := middleware.NewLimiterStore(cfg.RateLimitPerMinute, cfg.RateLimitBurst, 10*time.Minute)
	defer limiter.Stop()

	rtRouter := realtime.NewRouter()
	defer rtRouter.Close()

	deps := v1.Deps{
		Cfg:      cfg,
		Logger:   logger,
		Pool:     pool,
		Cache:    cache,
		Queue:    queueClient,
		Blobs:    blobs,
		Router:   rtRouter,
		Presence: realtime.NewPresence(),
		Verifier: auth.NewVerifier(cfg.JWTSecret, cfg.TokenTTL),
		Limiter:  limiter,
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	v1.Register(engine, deps)

	srv := &http.Server{Addr: cfg.Addr, Handler: engine}
	go func() {
		logger.Infow("listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalw("server failed", "err", err)
		}
	}()

	<-ctx.Done()
	logger.Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorw("shutdown", "err", err)
	}
}
