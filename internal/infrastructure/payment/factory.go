package payment

import (
	"fmt"

	"github.com/lms/backend/internal/domain/enrollment"
	"github.com/lms/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewPaymentProcessor builds the processor selected by configuration.
// An empty processor name returns nil: the deployment runs without a
// payment processor and paid plans are denied at activation time.
func NewPaymentProcessor(cfg config.PaymentConfig, logger *zap.Logger) (enrollment.PaymentProcessor, error) {
	switch cfg.Processor {
	case "":
		logger.Info("No payment processor configured, paid plans are disabled")
		return nil, nil
	case "noop":
		logger.Warn("Using no-op payment processor, payments are simulated")
		return NewNoopProcessor(cfg.Currency), nil
	case "stripe":
		processor, err := NewStripeProcessor(&StripeConfig{
			SecretKey:     cfg.StripeSecretKey,
			WebhookSecret: cfg.StripeWebhookSecret,
			Currency:      cfg.Currency,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create stripe processor: %w", err)
		}
		return processor, nil
	default:
		return nil, fmt.Errorf("unsupported payment processor: %q", cfg.Processor)
	}
}
