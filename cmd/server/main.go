// Package main runs the photo delivery HTTP server with WebSocket and graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/focalframe/backend/config"
	"github.com/focalframe/backend/internal/auth"
	"github.com/focalframe/backend/internal/events"
	"github.com/focalframe/backend/internal/middleware"
	"github.com/focalframe/backend/internal/notify"
	"github.com/focalframe/backend/internal/payments"
	"github.com/focalframe/backend/internal/photos"
	"github.com/focalframe/backend/internal/workflow"
	"github.com/focalframe/backend/pkg/database"
	"github.com/focalframe/backend/pkg/queue"
	"github.com/focalframe/backend/pkg/redis"
	"github.com/focalframe/backend/pkg/response"
	"github.com/focalframe/backend/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	var s3Client *storage.S3
	if cfg.AWS.Region != "" {
		s3Cfg := storage.S3Config{
			Region:               cfg.AWS.Region,
			AccessKeyID:          cfg.AWS.AccessKeyID,
			SecretAccessKey:      cfg.AWS.SecretAccessKey,
			PhotosBucket:         cfg.AWS.PhotosBucket,
			PresignExpireMinutes: cfg.AWS.PresignExpireMinutes,
		}
		s3Client, err = storage.NewS3(ctx, s3Cfg, logger)
		if err != nil {
			logger.Warn("s3 disabled", zap.Error(err))
		}
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	redisPubSub := notify.NewRedisPubSub(rdb.Client, logger)
	hub := notify.NewHub(logger, redisPubSub, redisPubSub)

	// Auth
	authRepo := auth.NewRepository(pool)
	authHandler := auth.NewHandler(authRepo, jwtService, logger)

	// Events and selection workflow
	eventRepo := events.NewRepository(pool)
	eventHandler := events.NewHandler(eventRepo)
	workflowService := workflow.NewService(eventRepo, logger)
	workflowHandler := events.NewWorkflowHandler(workflowService, hub, logger)

	// Photos and gallery
	jobQueue := queue.NewQueue(rdb.Client, logger)
	photoRepo := photos.NewRepository(pool)
	photoHandler := photos.NewHandler(photoRepo, eventRepo, s3Client, jobQueue, hub, cfg.Uploads, logger)

	// Payments
	paymentRepo := payments.NewRepository(pool)
	paymentHandler := payments.NewHandler(paymentRepo, logger)

	jwtValidate := func(token string) (userID, role string, err error) {
		claims, err := jwtService.Validate(token)
		if err != nil {
			return "", "", err
		}
		return claims.UserID.String(), claims.Role, nil
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Auth (public)
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/register", authHandler.Register)
	}

	// Protected API (JWT required)
	api := router.Group("")
	api.Use(middleware.JWT(jwtService))
	{
		// Users (for client assignment)
		api.GET("/users", middleware.RequireRole("admin", "photographer"), authHandler.List)

		// Events
		api.GET("/events", eventHandler.List)
		api.POST("/events", middleware.RequireRole("admin", "photographer"), eventHandler.Create)

		// Per-event routes: viewer must be admin, the photographer or an assigned client
		ev := api.Group("/events/:id")
		ev.Use(events.RequireEventAccess(eventRepo))
		{
			ev.GET("", eventHandler.GetByID)
			ev.PATCH("", eventHandler.Update)
			ev.DELETE("", eventHandler.Delete)
			ev.POST("/clients", eventHandler.AssignClient)
			ev.POST("/sub-events", eventHandler.AddSubEvent)

			// Selection workflow
			ev.POST("/submit", workflowHandler.Submit)
			ev.PATCH("/workflow", workflowHandler.Update)
			ev.POST("/approve-all", workflowHandler.ApproveAll)

			// Gallery
			ev.GET("/photos", photoHandler.ListByEvent)
			ev.GET("/facets", photoHandler.Facets)
			ev.POST("/photos", photoHandler.Upload)
			ev.POST("/edited", photoHandler.UploadEditedBatch)
			ev.POST("/people/rename", photoHandler.RenamePerson)

			// Payments
			ev.GET("/payments", paymentHandler.List)
			ev.POST("/payments", paymentHandler.Record)

			// Addon services
			ev.GET("/addons", eventHandler.ListAddons)
			ev.POST("/addons", eventHandler.CreateAddon)
		}
		api.PATCH("/addons/:id", middleware.RequireRole("admin", "photographer"), eventHandler.UpdateAddon)

		// Photo-level routes; event access is checked per photo in the handler
		api.POST("/photos/:id/toggle-selection", photoHandler.ToggleSelection)
		api.POST("/photos/:id/review", photoHandler.Review)
		api.POST("/photos/:id/edited", photoHandler.UploadEdited)
		api.GET("/photos/:id/download-url", photoHandler.DownloadURL)
		api.PATCH("/photos/:id", photoHandler.UpdateMetadata)
		api.DELETE("/photos/:id", photoHandler.Delete)
		api.POST("/photos/:id/comments", photoHandler.AddComment)
		api.GET("/photos/:id/comments", photoHandler.ListComments)
		api.PATCH("/comments/:id/resolve", middleware.RequireRole("admin", "photographer"), photoHandler.ResolveComment)
	}

	// WebSocket (token in query; no Authorization header required)
	router.GET("/ws", func(c *gin.Context) {
		notify.ServeWs(hub, logger, jwtValidate)(c)
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
