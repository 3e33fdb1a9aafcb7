package handler

import (
	"io"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lms/backend/internal/application/enrollment"
)

// maxWebhookBody bounds the webhook payload we are willing to read
const maxWebhookBody = 1 << 16

// WebhookHandler receives payment processor callbacks
type WebhookHandler struct {
	BaseHandler
	webhooks *enrollment.StripeWebhookService
	logger   *zap.Logger
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(webhooks *enrollment.StripeWebhookService, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		webhooks: webhooks,
		logger:   logger,
	}
}

// RegisterRoutes registers webhook endpoints on the given group.
// These routes are excluded from JWT authentication; the processor
// signature is the only credential.
func (h *WebhookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	payments := rg.Group("/payments")
	{
		payments.POST("/webhook", h.HandleStripeWebhook)
	}
}

// HandleStripeWebhook verifies and processes a Stripe event
func (h *WebhookHandler) HandleStripeWebhook(c *gin.Context) {
	if h.webhooks == nil {
		h.NotFound(c, "Webhook processing is not configured")
		return
	}

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		h.BadRequest(c, "Unable to read request body")
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	result, err := h.webhooks.ProcessWebhook(c.Request.Context(), payload, signature)
	if err != nil {
		h.logger.Warn("webhook processing failed",
			zap.Error(err),
			zap.String("request_id", getRequestID(c)),
		)
		h.BadRequest(c, "Webhook processing failed")
		return
	}

	h.Success(c, result)
}
