package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	catalogapp "github.com/lms/backend/internal/application/catalog"
	enrollmentapp "github.com/lms/backend/internal/application/enrollment"
	identityapp "github.com/lms/backend/internal/application/identity"
	"github.com/lms/backend/internal/infrastructure/auth"
	"github.com/lms/backend/internal/infrastructure/cache"
	"github.com/lms/backend/internal/infrastructure/config"
	"github.com/lms/backend/internal/infrastructure/event"
	"github.com/lms/backend/internal/infrastructure/logger"
	"github.com/lms/backend/internal/infrastructure/payment"
	"github.com/lms/backend/internal/infrastructure/persistence"
	"github.com/lms/backend/internal/infrastructure/telemetry"
	"github.com/lms/backend/internal/interfaces/http/handler"
	"github.com/lms/backend/internal/interfaces/http/router"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting LMS backend",
		zap.String("version", version),
		zap.String("env", cfg.App.Env),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Tracing
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tracerProvider.Shutdown(shutdownCtx)
	}()

	// Database
	db, err := persistence.NewDatabase(cfg.Database, cfg.Telemetry, log, cfg.Log.Level)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	// Repositories
	membershipRepo := persistence.NewGormMembershipRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	courseRepo := persistence.NewGormCourseRepository(db.DB)
	communityRepo := persistence.NewGormCommunityRepository(db.DB)

	planCache, err := cache.NewPlanCache(cfg.Cache, cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to initialize plan cache", zap.Error(err))
	}
	defer func() {
		_ = planCache.Close()
	}()
	planRepo := cache.NewCachingPlanRepository(persistence.NewGormPaymentPlanRepository(db.DB), planCache, log)

	// Auth
	jwtService := auth.NewJWTService(cfg.JWT)
	var blacklist auth.TokenBlacklist
	if cfg.Cache.Backend == "redis" {
		blacklist = auth.NewRedisTokenBlacklist(redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}))
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
	}

	// Payment processor; nil means paid plans are denied as unconfigured
	processor, err := payment.NewPaymentProcessor(cfg.Payment, log)
	if err != nil {
		log.Fatal("Failed to initialize payment processor", zap.Error(err))
	}

	eventBus := event.NewInMemoryEventBus(log)

	// Application services
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, identityapp.DefaultAuthServiceConfig(), log)
	courseService := catalogapp.NewCourseService(courseRepo, log)
	communityService := catalogapp.NewCommunityService(communityRepo, log)
	planService := catalogapp.NewPaymentPlanService(planRepo, courseRepo, communityRepo, log)
	activationService := enrollmentapp.NewActivationService(
		membershipRepo, invoiceRepo, planRepo, courseRepo, communityRepo,
		processor, eventBus, log, cfg.Payment.InitiateTimeout,
	)
	confirmationService := enrollmentapp.NewConfirmationService(membershipRepo, invoiceRepo, eventBus, log)
	membershipService := enrollmentapp.NewMembershipService(membershipRepo, invoiceRepo, log)

	var webhookService *enrollmentapp.StripeWebhookService
	if cfg.Payment.Processor == "stripe" {
		webhookService = enrollmentapp.NewStripeWebhookService(cfg.Payment.StripeWebhookSecret, confirmationService, log)
	}

	// HTTP
	r := router.New(router.Config{
		AppEnv:         cfg.App.Env,
		HTTP:           cfg.HTTP,
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		Logger:         log,
		TracingEnabled: cfg.Telemetry.Enabled,
	})
	r.Register(handler.NewSystemHandler(version)).
		Register(handler.NewAuthHandler(authService)).
		Register(handler.NewCourseHandler(courseService)).
		Register(handler.NewCommunityHandler(communityService)).
		Register(handler.NewPaymentPlanHandler(planService)).
		Register(handler.NewEnrollmentHandler(activationService, membershipService)).
		Register(handler.NewWebhookHandler(webhookService, log))

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        r.Setup(),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
		os.Exit(1)
	}

	log.Info("Server stopped")
}
