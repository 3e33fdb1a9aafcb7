package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{ErrCodeBadRequest, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeNotFound, http.StatusNotFound},
		{"CONCURRENCY_CONFLICT", http.StatusConflict},
		{"EMAIL_TAKEN", http.StatusConflict},
		{"INVALID_CREDENTIALS", http.StatusUnauthorized},
		{"ACCOUNT_LOCKED", http.StatusForbidden},
		{"TOKEN_EXPIRED", http.StatusUnauthorized},
		{"PAYMENT_NOT_CONFIGURED", http.StatusUnprocessableEntity},
		{"SLUG_TAKEN", http.StatusConflict},
		{"PAYMENT_FAILED", http.StatusBadGateway},
		{"SOMETHING_UNKNOWN", http.StatusInternalServerError},
		{"", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, GetHTTPStatus(tt.code))
		})
	}
}

func TestNewMeta(t *testing.T) {
	meta := NewMeta(2, 20, 45)
	assert.Equal(t, 2, meta.Page)
	assert.Equal(t, 20, meta.PageSize)
	assert.Equal(t, int64(45), meta.Total)
	assert.Equal(t, 3, meta.TotalPages)

	empty := NewMeta(1, 0, 10)
	assert.Equal(t, 0, empty.TotalPages)
}

func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponseWithRequestID("NOT_FOUND", "Resource not found", "req-1")
	assert.False(t, resp.Success)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
	assert.Equal(t, "req-1", resp.Error.RequestID)
	assert.Nil(t, resp.Data)
}
