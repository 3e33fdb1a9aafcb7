// Package middleware provides the HTTP middleware chain for the API.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// maxRequestIDAttr caps the request id length recorded on spans.
const maxRequestIDAttr = 128

// TracingConfig configures the request tracing middleware.
type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

// DefaultTracingConfig returns the tracing defaults.
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		ServiceName: "lms-backend",
		Enabled:     true,
	}
}

// Tracing returns the request tracing middleware with default configuration.
func Tracing() gin.HandlerFunc {
	return TracingWithConfig(DefaultTracingConfig())
}

// TracingWithConfig returns the otelgin span-per-request middleware. Pair it
// with SpanAnnotator, mounted later in the chain, to record request identity
// and error status on the span before it ends.
func TracingWithConfig(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}
	return otelgin.Middleware(cfg.ServiceName)
}

// SpanAnnotator records the request id and, once authentication has run, the
// tenant and user identifiers on the active span. Responses with 4xx/5xx
// status mark the span with an error status. It must run inside the Tracing
// middleware so the span is still recording.
func SpanAnnotator() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}

		if id := spanRequestID(c); id != "" {
			span.SetAttributes(attribute.String("request_id", id))
		}
		if tenantID := c.GetString(JWTTenantIDKey); tenantID != "" {
			span.SetAttributes(attribute.String("tenant_id", tenantID))
		}
		if userID := c.GetString(JWTUserIDKey); userID != "" {
			span.SetAttributes(attribute.String("user_id", userID))
		}

		if status := c.Writer.Status(); status >= http.StatusBadRequest {
			span.SetStatus(codes.Error, http.StatusText(status))
			span.SetAttributes(attribute.Int("http.status_code", status))
		}
	}
}

// spanRequestID prefers the id assigned by the RequestID middleware and falls
// back to the inbound header, truncated so oversized headers cannot bloat
// trace storage.
func spanRequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	header := c.GetHeader("X-Request-ID")
	if len(header) > maxRequestIDAttr {
		return header[:maxRequestIDAttr]
	}
	return header
}
