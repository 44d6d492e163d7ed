package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/btc-academy/academy-api/api/swagger"
	"github.com/btc-academy/academy-api/internal/handler"
	"github.com/btc-academy/academy-api/internal/middleware"
	"github.com/btc-academy/academy-api/internal/repository"
	"github.com/btc-academy/academy-api/internal/service"
	"github.com/btc-academy/academy-api/internal/workspace"
	"github.com/btc-academy/academy-api/pkg/cache"
	"github.com/btc-academy/academy-api/pkg/config"
	"github.com/btc-academy/academy-api/pkg/database"
	"github.com/btc-academy/academy-api/pkg/logger"
	corsmiddleware "github.com/btc-academy/academy-api/pkg/middleware/cors"
	reqidmiddleware "github.com/btc-academy/academy-api/pkg/middleware/requestid"
	"github.com/btc-academy/academy-api/pkg/storage"
)

// @title Academy API
// @version 1.0.0
// @description Bitcoin education platform API
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close() //nolint:errcheck

	validate := validator.New()
	metricsService := service.NewMetricsService()

	var cacheService *service.CacheService
	if redisClient, err := cache.NewRedis(cfg.Redis); err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
	} else {
		defer redisClient.Close() //nolint:errcheck
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheService = service.NewCacheService(cacheRepo, metricsService, cfg.Leaderboard.CacheTTL, logr, true)
	}

	wsClient := workspace.NewClient(cfg.Workspace, logr)

	adminRepo := repository.NewAdminRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	chapterRepo := repository.NewChapterProgressRepository(db)
	eventRepo := repository.NewEventRepository(db)
	satsRepo := repository.NewSatsRepository(db)
	mentorshipRepo := repository.NewMentorshipRepository(db)
	blogRepo := repository.NewBlogRepository(db)

	identityService := service.NewIdentityService(adminRepo, profileRepo, studentRepo, logr)
	chapterService := service.NewChapterService(identityService, chapterRepo, validate, logr, cfg.Chapters.Total)
	satsService := service.NewSatsService(satsRepo, identityService, wsClient, cfg.Workspace.SatsRewardsDBID, logr)
	leaderboardService := service.NewLeaderboardService(wsClient, cacheService, logr, service.LeaderboardServiceConfig{
		SatsRewardsDBID:  cfg.Workspace.SatsRewardsDBID,
		AchievementsDBID: cfg.Workspace.AchievementsDBID,
		ResolveCap:       cfg.Workspace.ResolveCap,
		CacheTTL:         cfg.Leaderboard.CacheTTL,
	})
	mentorshipService := service.NewMentorshipService(mentorshipRepo, validate, logr)
	eventService := service.NewEventService(eventRepo, validate, logr)
	profileService := service.NewProfileService(profileRepo, validate, logr)
	blogService := service.NewBlogService(blogRepo, studentRepo, satsRepo, int64(cfg.Rewards.BlogPostSats), validate, logr)
	authService := service.NewAuthService(adminRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "academy-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	progressParams := service.ProgressServiceParams{
		Profiles:      profileRepo,
		Students:      studentRepo,
		Chapters:      chapterRepo,
		Events:        eventRepo,
		Logger:        logr,
		TotalChapters: cfg.Chapters.Total,
	}
	if cfg.Exports.Enabled {
		exportStorage, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init export storage", "error", err)
		}
		progressParams.Storage = exportStorage
		progressParams.Signer = storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
		go cleanupExports(ctx, exportStorage, cfg.Exports.SignedURLTTL, logr)
	}
	progressService := service.NewProgressService(progressParams)

	blogService.StartWorkers(ctx)
	defer blogService.StopWorkers()

	authHandler := handler.NewAuthHandler(authService)
	chapterHandler := handler.NewChapterHandler(chapterService)
	satsHandler := handler.NewSatsHandler(satsService)
	leaderboardHandler := handler.NewLeaderboardHandler(leaderboardService)
	mentorshipHandler := handler.NewMentorshipHandler(mentorshipService)
	eventHandler := handler.NewEventHandler(eventService)
	profileHandler := handler.NewProfileHandler(profileService)
	progressHandler := handler.NewProgressHandler(progressService)
	blogHandler := handler.NewBlogHandler(blogService)
	metricsHandler := handler.NewMetricsHandler(metricsService, db)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/refresh", authHandler.Refresh)

		api.GET("/chapters/unlock-status", chapterHandler.UnlockStatus)
		api.GET("/sats", satsHandler.Totals)
		api.GET("/sats/stats", satsHandler.Stats)
		api.GET("/workspace/sats", satsHandler.WorkspaceTotals)
		if cfg.Leaderboard.Enabled {
			api.GET("/leaderboard/sats", leaderboardHandler.Sats)
			api.GET("/leaderboard/achievements", leaderboardHandler.Achievements)
		}
		api.GET("/events", eventHandler.List)
		api.GET("/mentors", mentorshipHandler.ActiveMentors)
		api.POST("/profiles/register", profileHandler.Register)
		api.GET("/profiles/:id", profileHandler.Get)

		authed := api.Group("", middleware.JWT(authService))
		{
			authed.POST("/auth/logout", authHandler.Logout)
			authed.GET("/auth/me", authHandler.Me)
		}

		admin := api.Group("/admin", middleware.JWT(authService), middleware.RequireAdmin())
		{
			admin.GET("/mentorships", mentorshipHandler.List)
			admin.PATCH("/mentorships", mentorshipHandler.UpdateStatus)
			admin.POST("/chapters/complete", chapterHandler.MarkCompleted)
			admin.POST("/events/attendance", eventHandler.RecordAttendance)
			admin.GET("/students/progress", progressHandler.List)
			admin.GET("/students/progress/export", progressHandler.Export)
			admin.POST("/blog/approve", blogHandler.Approve)
			admin.POST("/blog/reject", blogHandler.Reject)
			admin.GET("/system/metrics", metricsHandler.Stats)
			if cfg.Leaderboard.Enabled {
				admin.POST("/leaderboard/refresh", leaderboardHandler.Refresh)
			}
		}

		// Download link is authorized by its signed token, not a session.
		api.GET("/admin/students/progress/download", progressHandler.Download)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("shutdown error", "error", err)
	}
}

// cleanupExports drops export files once their signed URLs can no
// longer reference them.
func cleanupExports(ctx context.Context, store *storage.LocalStorage, ttl time.Duration, logr *zap.Logger) {
	if ttl <= 0 {
		ttl = time.Hour
	}
	ticker := time.NewTicker(ttl)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := store.CleanupOlderThan(ttl)
			if err != nil {
				logr.Sugar().Warnw("export cleanup failed", "error", err)
				continue
			}
			if len(removed) > 0 {
				logr.Sugar().Infow("expired exports removed", "count", len(removed))
			}
		}
	}
}
