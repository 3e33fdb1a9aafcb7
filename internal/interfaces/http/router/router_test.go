package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lms/backend/internal/infrastructure/auth"
	"github.com/lms/backend/internal/infrastructure/config"
)

type pingRegistrar struct{}

func (pingRegistrar) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	rg.POST("/payments/webhook", func(c *gin.Context) {
		c.String(http.StatusOK, "received")
	})
	rg.POST("/auth/login", func(c *gin.Context) {
		c.String(http.StatusOK, "login")
	})
}

func testRouterConfig() Config {
	return Config{
		AppEnv: "test",
		JWTService: auth.NewJWTService(config.JWTConfig{
			Secret:                 "test-secret-key-32-characters-long",
			AccessTokenExpiration:  15 * time.Minute,
			RefreshTokenExpiration: 24 * time.Hour,
			Issuer:                 "test-issuer",
		}),
		Logger: zap.NewNop(),
	}
}

func TestRouter_HealthBypassesAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := New(testRouterConfig()).Register(pingRegistrar{}).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestRouter_APIRequiresAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := New(testRouterConfig()).Register(pingRegistrar{}).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_SkipPathsBypassAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := New(testRouterConfig()).Register(pingRegistrar{}).Setup()

	for _, path := range []string{"/api/v1/payments/webhook", "/api/v1/auth/login"} {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, "path %s", path)
	}
}

func TestRouter_AuthenticatedRequestPasses(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testRouterConfig()
	engine := New(cfg).Register(pingRegistrar{}).Setup()

	pair, err := cfg.JWTService.GenerateTokenPair(auth.GenerateTokenInput{
		TenantID: uuid.New(),
		UserID:   uuid.New(),
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
