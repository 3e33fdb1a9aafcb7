package enrollment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/webhook"
	"go.uber.org/zap"
)

// StripeWebhookService handles Stripe webhook events
type StripeWebhookService struct {
	webhookSecret string
	confirmations *ConfirmationService
	logger        *zap.Logger
}

// NewStripeWebhookService creates a new StripeWebhookService
func NewStripeWebhookService(webhookSecret string, confirmations *ConfirmationService, logger *zap.Logger) *StripeWebhookService {
	return &StripeWebhookService{
		webhookSecret: webhookSecret,
		confirmations: confirmations,
		logger:        logger,
	}
}

// WebhookResult contains the result of processing a webhook
type WebhookResult struct {
	EventID   string `json:"event_id"`
	EventType string `json:"event_type"`
	Processed bool   `json:"processed"`
	Message   string `json:"message,omitempty"`
}

// ProcessWebhook verifies the event signature and settles the referenced
// invoice. Event types without a settlement mapping are acknowledged so
// Stripe does not retry them.
func (s *StripeWebhookService) ProcessWebhook(ctx context.Context, payload []byte, signature string) (*WebhookResult, error) {
	event, err := webhook.ConstructEvent(payload, signature, s.webhookSecret)
	if err != nil {
		s.logger.Error("Failed to verify webhook signature", zap.Error(err))
		return nil, fmt.Errorf("webhook signature verification failed: %w", err)
	}

	s.logger.Info("Processing Stripe webhook event",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)))

	result := &WebhookResult{
		EventID:   event.ID,
		EventType: string(event.Type),
		Processed: true,
	}

	switch event.Type {
	case "checkout.session.completed", "checkout.session.async_payment_succeeded":
		err = s.handleSessionCompleted(ctx, event)
	case "checkout.session.async_payment_failed", "checkout.session.expired":
		err = s.handleSessionFailed(ctx, event)
	default:
		s.logger.Debug("Unhandled webhook event type",
			zap.String("event_type", string(event.Type)))
		result.Message = "Event type not handled"
	}

	if err != nil {
		s.logger.Error("Failed to process webhook event",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
		result.Processed = false
		result.Message = err.Error()
		return result, err
	}

	return result, nil
}

// handleSessionCompleted settles the invoice referenced by the checkout
// session and activates its membership
func (s *StripeWebhookService) handleSessionCompleted(ctx context.Context, event stripe.Event) error {
	session, invoiceID, err := s.parseSession(event)
	if err != nil {
		return err
	}
	if invoiceID == uuid.Nil {
		return nil
	}

	subscriptionID := ""
	subscriptionMethod := ""
	if session.Subscription != nil {
		subscriptionID = session.Subscription.ID
		subscriptionMethod = "stripe"
	}

	return s.confirmations.ConfirmSuccess(ctx, invoiceID, subscriptionID, subscriptionMethod)
}

// handleSessionFailed settles the invoice as failed so the user can start
// a fresh payment session
func (s *StripeWebhookService) handleSessionFailed(ctx context.Context, event stripe.Event) error {
	_, invoiceID, err := s.parseSession(event)
	if err != nil {
		return err
	}
	if invoiceID == uuid.Nil {
		return nil
	}
	return s.confirmations.ConfirmFailure(ctx, invoiceID)
}

// parseSession unmarshals the checkout session and extracts the invoice ID
// bound into its metadata at session creation. Sessions without the
// metadata did not originate here and are skipped.
func (s *StripeWebhookService) parseSession(event stripe.Event) (*stripe.CheckoutSession, uuid.UUID, error) {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return nil, uuid.Nil, fmt.Errorf("failed to unmarshal checkout session: %w", err)
	}

	raw, ok := session.Metadata["invoice_id"]
	if !ok || raw == "" {
		s.logger.Warn("Checkout session has no invoice metadata, skipping",
			zap.String("session_id", session.ID))
		return &session, uuid.Nil, nil
	}

	invoiceID, err := uuid.Parse(raw)
	if err != nil {
		s.logger.Warn("Checkout session carries malformed invoice metadata, skipping",
			zap.String("session_id", session.ID),
			zap.String("invoice_id", raw))
		return &session, uuid.Nil, nil
	}

	return &session, invoiceID, nil
}
