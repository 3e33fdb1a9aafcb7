package payment

import (
	"context"
	"fmt"
	"strings"

	"github.com/lms/backend/internal/domain/enrollment"
)

// NoopProcessor is a processor stand-in for development and testing.
// It accepts every initiation and reports every subscription as valid;
// nothing is ever charged.
type NoopProcessor struct {
	currency string
}

// NewNoopProcessor creates a no-op processor settling in the given currency
func NewNoopProcessor(currency string) *NoopProcessor {
	if currency == "" {
		currency = "USD"
	}
	return &NoopProcessor{currency: strings.ToUpper(currency)}
}

// Name implements enrollment.PaymentProcessor
func (p *NoopProcessor) Name() string {
	return "noop"
}

// CurrencyISOCode implements enrollment.PaymentProcessor
func (p *NoopProcessor) CurrencyISOCode() string {
	return p.currency
}

// Initiate returns a deterministic tracker derived from the invoice ID
func (p *NoopProcessor) Initiate(_ context.Context, req *enrollment.InitiatePaymentRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	return fmt.Sprintf("noop_%s", req.Metadata.InvoiceID), nil
}

// ValidateSubscription always reports the subscription as valid
func (p *NoopProcessor) ValidateSubscription(context.Context, string) (bool, error) {
	return true, nil
}

var _ enrollment.PaymentProcessor = (*NoopProcessor)(nil)
