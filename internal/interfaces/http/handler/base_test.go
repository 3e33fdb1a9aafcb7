package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/lms/backend/internal/domain/shared"
	"github.com/lms/backend/internal/interfaces/http/middleware"
)

// authAs returns a middleware that injects an authenticated identity the
// way the JWT middleware would
func authAs(tenantID, userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.JWTTenantIDKey, tenantID.String())
		c.Set(middleware.JWTUserIDKey, userID.String())
		c.Next()
	}
}

func TestHandleError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"concurrency conflict", shared.ErrConcurrencyConflict, http.StatusConflict, "CONCURRENCY_CONFLICT"},
		{"unauthorized", shared.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"payment not configured", shared.ErrPaymentNotConfigured, http.StatusUnprocessableEntity, "PAYMENT_NOT_CONFIGURED"},
		{"custom domain code", shared.NewDomainError("EMAIL_TAKEN", "Email is already registered"), http.StatusConflict, "EMAIL_TAKEN"},
		{"unknown code falls back to 500", shared.NewDomainError("SOMETHING_ELSE", "boom"), http.StatusInternalServerError, "SOMETHING_ELSE"},
		{"plain error", errors.New("database exploded"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var h BaseHandler
			r := gin.New()
			r.GET("/fail", func(c *gin.Context) {
				h.HandleError(c, tt.err)
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantCode)
		})
	}
}

func TestHandleError_DoesNotLeakInternals(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var h BaseHandler
	r := gin.New()
	r.GET("/fail", func(c *gin.Context) {
		h.HandleError(c, errors.New("pq: connection refused host=10.0.0.3"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.3")
}

func TestParseIDParam(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/things/:id", func(c *gin.Context) {
		id, ok := parseIDParam(c, "id")
		if !ok {
			c.Status(http.StatusBadRequest)
			return
		}
		c.String(http.StatusOK, id.String())
	})

	valid := uuid.New()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/things/"+valid.String(), nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, valid.String(), w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/things/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
