package dto

import "net/http"

// Error codes returned by the API. Domain errors carry their own codes;
// these constants cover the codes the HTTP layer itself produces.
const (
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeConflict        = "CONFLICT"
	ErrCodeTooManyRequests = "TOO_MANY_REQUESTS"
	ErrCodeInternal        = "INTERNAL_ERROR"
)

// errorCodeHTTPStatus maps error codes to HTTP status codes. Codes not
// listed here fall back to 500.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeValidation:      http.StatusUnprocessableEntity,
	ErrCodeUnauthorized:    http.StatusUnauthorized,
	ErrCodeForbidden:       http.StatusForbidden,
	ErrCodeNotFound:        http.StatusNotFound,
	ErrCodeConflict:        http.StatusConflict,
	ErrCodeTooManyRequests: http.StatusTooManyRequests,
	ErrCodeInternal:        http.StatusInternalServerError,

	// Shared domain codes
	"INVALID_INPUT":          http.StatusBadRequest,
	"ALREADY_EXISTS":         http.StatusConflict,
	"CONCURRENCY_CONFLICT":   http.StatusConflict,
	"INVALID_STATE":          http.StatusConflict,
	"PAYMENT_NOT_CONFIGURED": http.StatusUnprocessableEntity,

	// Identity
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"ACCOUNT_LOCKED":      http.StatusForbidden,
	"ACCOUNT_DEACTIVATED": http.StatusForbidden,
	"ACCOUNT_INACTIVE":    http.StatusForbidden,
	"EMAIL_TAKEN":         http.StatusConflict,
	"USER_NOT_FOUND":      http.StatusNotFound,
	"TOKEN_EXPIRED":       http.StatusUnauthorized,
	"TOKEN_INVALID":       http.StatusUnauthorized,
	"TOKEN_REVOKED":       http.StatusUnauthorized,
	"TOKEN_MAX_REFRESH":   http.StatusUnauthorized,
	"TOKEN_ERROR":         http.StatusInternalServerError,

	// Catalog
	"SLUG_TAKEN":          http.StatusConflict,
	"INVALID_TITLE":       http.StatusBadRequest,
	"INVALID_NAME":        http.StatusBadRequest,
	"INVALID_PLAN":        http.StatusBadRequest,
	"INVALID_PLAN_TYPE":   http.StatusBadRequest,
	"INVALID_AMOUNT":      http.StatusBadRequest,
	"INVALID_CURRENCY":    http.StatusBadRequest,
	"PLAN_ARCHIVED":       http.StatusUnprocessableEntity,
	"INVALID_ENTITY":      http.StatusBadRequest,
	"INVALID_ENTITY_TYPE": http.StatusBadRequest,
	"ENTITY_NOT_FOUND":    http.StatusNotFound,

	// Enrollment
	"INVALID_TENANT":       http.StatusBadRequest,
	"INVALID_STATUS":       http.StatusBadRequest,
	"INVALID_SESSION":      http.StatusBadRequest,
	"MEMBERSHIP_NOT_FOUND": http.StatusNotFound,
	"ALREADY_ACTIVE":       http.StatusConflict,
	"PAYMENT_FAILED":       http.StatusBadGateway,
}

// GetHTTPStatus returns the HTTP status code for an error code
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
