package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lms/backend/internal/infrastructure/auth"
	"github.com/lms/backend/internal/infrastructure/config"
	"github.com/lms/backend/internal/infrastructure/logger"
	"github.com/lms/backend/internal/interfaces/http/middleware"
)

// RouteRegistrar registers a handler's routes on an API group
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Config holds the dependencies needed to assemble the HTTP engine
type Config struct {
	AppEnv         string
	HTTP           config.HTTPConfig
	JWTService     *auth.JWTService
	TokenBlacklist auth.TokenBlacklist
	Logger         *zap.Logger
	TracingEnabled bool
}

// Paths that never require authentication
var authSkipPaths = []string{
	"/api/v1/auth/register",
	"/api/v1/auth/login",
	"/api/v1/auth/refresh",
	"/api/v1/payments/webhook",
	"/api/v1/system/ping",
	"/api/v1/system/info",
	"/health",
}

// Router assembles the gin engine and registers handlers
type Router struct {
	engine     *gin.Engine
	registrars []RouteRegistrar
}

// New builds a gin engine with the full middleware stack applied
func New(cfg Config) *Router {
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	engine.Use(logger.Recovery(cfg.Logger))
	engine.Use(middleware.RequestID())
	if cfg.TracingEnabled {
		engine.Use(middleware.Tracing())
	}
	engine.Use(logger.GinMiddleware(cfg.Logger))
	engine.Use(middleware.Secure())

	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsCfg))

	maxBody := cfg.HTTP.MaxBodySize
	if maxBody <= 0 {
		maxBody = 4 << 20
	}
	engine.Use(middleware.BodyLimit(maxBody))

	engine.Use(middleware.JWTAuth(middleware.JWTMiddlewareConfig{
		JWTService:     cfg.JWTService,
		TokenBlacklist: cfg.TokenBlacklist,
		SkipPaths:      authSkipPaths,
		Logger:         cfg.Logger,
	}))

	if cfg.TracingEnabled {
		engine.Use(middleware.SpanAnnotator())
	}

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return &Router{engine: engine}
}

// Register queues a handler for route registration
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup mounts all registered handlers under /api/v1 and returns the engine
func (r *Router) Setup() *gin.Engine {
	api := r.engine.Group("/api/v1")
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
	return r.engine
}

// Engine returns the underlying gin engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
