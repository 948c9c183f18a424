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

	_ "github.com/noah-isme/scholarship-approval-api/api/swagger"
	"github.com/noah-isme/scholarship-approval-api/internal/handler"
	"github.com/noah-isme/scholarship-approval-api/internal/middleware"
	"github.com/noah-isme/scholarship-approval-api/internal/repository"
	"github.com/noah-isme/scholarship-approval-api/internal/service"
	"github.com/noah-isme/scholarship-approval-api/pkg/authz"
	"github.com/noah-isme/scholarship-approval-api/pkg/cache"
	"github.com/noah-isme/scholarship-approval-api/pkg/config"
	"github.com/noah-isme/scholarship-approval-api/pkg/database"
	"github.com/noah-isme/scholarship-approval-api/pkg/events"
	"github.com/noah-isme/scholarship-approval-api/pkg/jobs"
	"github.com/noah-isme/scholarship-approval-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/scholarship-approval-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/scholarship-approval-api/pkg/middleware/requestid"
	"github.com/noah-isme/scholarship-approval-api/pkg/storage"
)

// @title Scholarship Approval API
// @version 1.0.0
// @description Multi-level approval workflow for scholar registrations, work plans and monthly reports.
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	checks := map[string]handler.Pinger{"postgres": db}
	metrics := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, calendar cache disabled", zap.Error(err))
	} else {
		defer redisClient.Close()
		cacheRepo = repository.NewCacheRepository(redisClient, cfg.Redis.KeyPrefix, logr)
		checks["redis"] = cache.Check{Client: redisClient}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Calendar.CacheTTL, logr, cacheRepo != nil)

	permissions, err := authz.New(cfg.Authz.PolicyFile)
	if err != nil {
		logr.Fatal("failed to load authorization policy", zap.Error(err))
	}

	documents, err := storage.NewLocalStorage(cfg.Documents.StorageDir, cfg.Documents.MaxFileSizeBytes)
	if err != nil {
		logr.Fatal("failed to prepare document storage", zap.Error(err))
	}

	publisher := events.NewPublisher(cfg.Kafka)
	defer publisher.Close()

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	calendarRepo := repository.NewCalendarRepository(db)
	scholarRepo := repository.NewScholarRepository(db)
	termRepo := repository.NewTermRepository(db)
	workPlanRepo := repository.NewWorkPlanRepository(db)
	reportRepo := repository.NewMonthlyReportRepository(db)
	remittanceRepo := repository.NewRemittanceRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	notifications := service.NewNotificationService(notificationRepo, metrics, logr)
	notifications.StartQueue(ctx, jobs.QueueConfig{
		Workers:    cfg.Notifications.Workers,
		BufferSize: cfg.Notifications.BufferSize,
		MaxRetries: cfg.Notifications.Retries,
		Logger:     logr,
	})
	defer notifications.StopQueue()

	deps := service.RunnerDeps{
		Store:     repository.NewTransitionStore(db),
		Calendars: calendarRepo,
		Audit:     auditRepo,
		Events:    publisher,
		Notifier:  notifications,
		Metrics:   metrics,
		Logger:    logr,
	}

	authSvc := service.NewAuthService(userRepo, auditRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "scholarship-approval-api",
		SingleSession:      true,
	})
	calendarSvc := service.NewCalendarConfigService(calendarRepo, cacheSvc, cfg.Calendar.CacheTTL, validate, logr)
	workPlanSvc := service.NewWorkPlanWorkflowService(workPlanRepo, termRepo, deps, validate, cfg.Workflow.MaxJustification, nil)
	registrationSvc := service.NewRegistrationWorkflowService(scholarRepo, userRepo, deps, validate, cfg.Workflow.MaxJustification, nil)
	reportSvc := service.NewReportWorkflowService(reportRepo, scholarRepo, termRepo, remittanceRepo, workPlanSvc, documents, deps, validate, service.ReportWorkflowConfig{
		MaxJustification: cfg.Workflow.MaxJustification,
		EnforceWindow:    cfg.Workflow.ReportWindowEnforced,
		AllowedMIMEs:     cfg.Documents.AllowedMIMEs,
	})

	r := gin.New()
	r.MaxMultipartMemory = cfg.Documents.MaxFileSizeBytes
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS))
	r.Use(middleware.Metrics(metrics))

	handler.RegisterRoutes(r, cfg.APIPrefix, handler.Handlers{
		Auth:          handler.NewAuthHandler(authSvc),
		Calendar:      handler.NewCalendarConfigHandler(calendarSvc),
		Reports:       handler.NewMonthlyReportHandler(reportSvc),
		Registrations: handler.NewRegistrationHandler(registrationSvc),
		WorkPlans:     handler.NewWorkPlanHandler(workPlanSvc),
		Notifications: handler.NewNotificationHandler(notifications),
		Metrics:       handler.NewMetricsHandler(metrics, checks),
	}, handler.RouterDeps{
		Tokens:      authSvc,
		Permissions: permissions,
		Audit:       auditRepo,
		Logger:      logr,
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
