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
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/Nagarajan160520/Nursing-backend-sub000/api/swagger"
	"github.com/Nagarajan160520/Nursing-backend-sub000/internal/handler"
	"github.com/Nagarajan160520/Nursing-backend-sub000/internal/middleware"
	"github.com/Nagarajan160520/Nursing-backend-sub000/internal/models"
	"github.com/Nagarajan160520/Nursing-backend-sub000/internal/repository"
	"github.com/Nagarajan160520/Nursing-backend-sub000/internal/service"
	"github.com/Nagarajan160520/Nursing-backend-sub000/pkg/cache"
	"github.com/Nagarajan160520/Nursing-backend-sub000/pkg/config"
	"github.com/Nagarajan160520/Nursing-backend-sub000/pkg/database"
	"github.com/Nagarajan160520/Nursing-backend-sub000/pkg/jobs"
	"github.com/Nagarajan160520/Nursing-backend-sub000/pkg/logger"
	"github.com/Nagarajan160520/Nursing-backend-sub000/pkg/mailer"
	corsmiddleware "github.com/Nagarajan160520/Nursing-backend-sub000/pkg/middleware/cors"
	reqidmiddleware "github.com/Nagarajan160520/Nursing-backend-sub000/pkg/middleware/requestid"
)

// @title Nursing College Admission API
// @version 1.0.0
// @description Admission provisioning pipeline and student portal backend
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
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	var cacheRepo *repository.CacheRepository
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, availability cache disabled", "error", err)
	} else {
		defer redisClient.Close()
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
	}

	accountRepo := repository.NewAccountRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrolleeRepo := repository.NewEnrolleeRepository(db)
	provisioningRepo := repository.NewProvisioningRepository(db)

	metricsSvc := service.NewMetricsService()

	authSvc := service.NewAuthService(accountRepo, nil, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	var availabilityCache service.AvailabilityCache
	if cacheRepo != nil {
		availabilityCache = cacheRepo
	}
	courseSvc := service.NewCourseService(courseRepo, availabilityCache, cfg.Admission.AvailabilityCacheTTL, metricsSvc, nil, logr)
	enrolleeSvc := service.NewEnrolleeService(enrolleeRepo, cfg.Admission.InstituteName, nil, logr)

	allocatorSvc := service.NewAllocatorService(enrolleeRepo, cfg.Admission.IdentifierAttempts, logr)
	credentialSvc := service.NewCredentialService(enrolleeRepo, cfg.Admission.EmailDomain, cfg.Admission.PasswordLength, logr)
	capacitySvc := service.NewCapacityService(courseRepo, logr)

	var mail mailer.Mailer
	switch cfg.Notifications.Provider {
	case "sendgrid":
		mail = mailer.NewSendGridMailer(cfg.Notifications.SendGridKey, cfg.Notifications.FromName, cfg.Notifications.FromAddress)
	default:
		mail = mailer.NewConsoleMailer(logr)
	}
	notificationSvc := service.NewNotificationService(mail, jobs.QueueConfig{
		Workers:    cfg.Notifications.Workers,
		MaxRetries: cfg.Notifications.MaxRetries,
		RetryDelay: cfg.Notifications.RetryDelay,
	}, logr)

	admissionSvc := service.NewAdmissionService(service.AdmissionServiceDeps{
		Courses:      courseRepo,
		Identities:   enrolleeRepo,
		Capacity:     capacitySvc,
		Allocator:    allocatorSvc,
		Credentials:  credentialSvc,
		Provisioning: provisioningRepo,
		Dispatcher:   notificationSvc,
		Availability: courseSvc,
		Metrics:      metricsSvc,
		Logger:       logr,
	})

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Notifications.Enabled {
		notificationSvc.Start(rootCtx)
		defer notificationSvc.Stop()
	}

	authHandler := handler.NewAuthHandler(authSvc)
	admissionHandler := handler.NewAdmissionHandler(admissionSvc)
	enrolleeHandler := handler.NewEnrolleeHandler(enrolleeSvc)
	courseHandler := handler.NewCourseHandler(courseSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/change-password", middleware.JWT(authSvc), authHandler.ChangePassword)
	auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)

	courses := api.Group("/courses")
	courses.GET("", courseHandler.List)
	courses.GET("/:id", courseHandler.Get)
	courses.GET("/:id/availability", courseHandler.Availability)

	admin := api.Group("/admin", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin))
	admin.POST("/courses", courseHandler.Create)
	admin.POST("/students", admissionHandler.Provision)
	admin.GET("/students", enrolleeHandler.List)
	admin.GET("/students/export", enrolleeHandler.ExportCSV)
	admin.GET("/students/:id", enrolleeHandler.Get)
	admin.PATCH("/students/:id/status", enrolleeHandler.UpdateStatus)
	admin.GET("/students/:id/letter", enrolleeHandler.AdmissionLetter)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-rootCtx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
