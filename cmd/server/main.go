// Package main runs the events platform HTTP server with graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/macerhappen/backend/config"
	"github.com/macerhappen/backend/internal/auth"
	"github.com/macerhappen/backend/internal/categories"
	"github.com/macerhappen/backend/internal/events"
	"github.com/macerhappen/backend/internal/llm"
	"github.com/macerhappen/backend/internal/middleware"
	"github.com/macerhappen/backend/internal/models"
	"github.com/macerhappen/backend/internal/moderation"
	"github.com/macerhappen/backend/internal/participants"
	"github.com/macerhappen/backend/internal/ranking"
	"github.com/macerhappen/backend/internal/recommend"
	"github.com/macerhappen/backend/internal/users"
	"github.com/macerhappen/backend/pkg/database"
	"github.com/macerhappen/backend/pkg/queue"
	"github.com/macerhappen/backend/pkg/redis"
	"github.com/macerhappen/backend/pkg/response"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}
	if cfg.LLM.APIKey == "" {
		logger.Warn("LLM_API_KEY not set; moderation will reject all events and feeds will be unranked")
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

	rdb, err := redis.NewClient(ctx, redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB}, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	jwtService := auth.NewJWTService(cfg.JWT.Secret)
	jobQueue := queue.NewQueue(rdb.Client, logger)

	// LLM clients: one breaker per use so ranking trouble does not block moderation.
	llmConfig := func(name string) llm.Config {
		return llm.Config{Name: name, APIKey: cfg.LLM.APIKey, BaseURL: cfg.LLM.BaseURL, Model: cfg.LLM.Model, Timeout: cfg.LLM.Timeout}
	}
	gate := moderation.NewGate(llm.NewClient(llmConfig("moderation"), logger), logger)
	ranker := ranking.NewRanker(llm.NewClient(llmConfig("ranking"), logger), cfg.Recommend.DescriptionLimit, logger)

	userRepo := users.NewRepository(pool)
	categoryRepo := categories.NewRepository(pool)
	eventRepo := events.NewRepository(pool)
	participantRepo := participants.NewRepository(pool)
	reviewRepo := moderation.NewRepository(pool)

	// Recommendations
	feedService := recommend.NewService(
		participantRepo,
		recommend.NewSelector(participantRepo, eventRepo),
		recommend.NewProfileBuilder(participantRepo, cfg.Recommend.LikedLimit),
		ranker,
		recommend.NewRedisCache(rdb.Client, cfg.Recommend.CacheTTL),
		logger,
	)
	feedHandler := recommend.NewHandler(feedService, logger)

	eventService := events.NewService(eventRepo, gate, categoryRepo, jobQueue, logger)
	eventHandler := events.NewHandler(eventService, logger)

	participantService := participants.NewService(participantRepo, eventRepo, categoryRepo, feedService, logger)
	participantHandler := participants.NewHandler(participantService, logger)

	categoryHandler := categories.NewHandler(categoryRepo, logger)
	reviewHandler := moderation.NewHandler(reviewRepo, logger)
	profileHandler := users.NewHandler(userRepo, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	public := router.Group("/public")
	{
		public.GET("/categories", categoryHandler.List)
		public.GET("/events", eventHandler.ListPublic)
		public.GET("/events/:id", eventHandler.GetPublic)
		public.GET("/organizers", profileHandler.ListOrganizers)
		public.GET("/organizers/:id", profileHandler.GetOrganizer)
		public.GET("/participants/:id", profileHandler.GetParticipant)
	}

	authenticated := func(role models.Role) []gin.HandlerFunc {
		return []gin.HandlerFunc{
			middleware.JWT(jwtService),
			middleware.RequireRole(role),
			middleware.ActiveUser(userRepo, logger),
		}
	}

	participant := router.Group("/participants", authenticated(models.RoleParticipant)...)
	{
		participant.GET("/feed", feedHandler.Feed)
		participant.POST("/swipes", participantHandler.Swipe)
		participant.GET("/swipes/history", participantHandler.History)
		participant.GET("/preferences", participantHandler.GetPreferences)
		participant.PATCH("/preferences", participantHandler.UpdatePreferences)
	}

	organizer := router.Group("/organizers", authenticated(models.RoleOrganizer)...)
	{
		organizer.GET("/events", eventHandler.ListMine)
		organizer.POST("/events", eventHandler.Create)
		organizer.GET("/events/:id", eventHandler.GetMine)
		organizer.PATCH("/events/:id", eventHandler.Update)
		organizer.DELETE("/events/:id", eventHandler.Delete)
	}

	admin := router.Group("/admin", authenticated(models.RoleAdmin)...)
	{
		admin.GET("/moderation-reviews", reviewHandler.ListPending)
		admin.PATCH("/moderation-reviews/:id/resolve", reviewHandler.Resolve)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
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
