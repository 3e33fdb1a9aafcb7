package payment

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/checkout/session"
	"github.com/stripe/stripe-go/v81/subscription"
	"go.uber.org/zap"

	"github.com/lms/backend/internal/domain/enrollment"
)

// minorUnitFactor converts major currency units to the minor units
// Stripe expects (e.g. dollars to cents)
var minorUnitFactor = decimal.NewFromInt(100)

// StripeConfig holds configuration for the Stripe processor
type StripeConfig struct {
	// SecretKey is the Stripe secret API key (sk_test_xxx or sk_live_xxx)
	SecretKey string

	// WebhookSecret is the secret for verifying webhook signatures
	WebhookSecret string

	// Currency is the settlement currency ISO code (e.g. "USD")
	Currency string
}

// Validate validates the Stripe configuration
func (c *StripeConfig) Validate() error {
	if c.SecretKey == "" {
		return fmt.Errorf("stripe: secret key is required")
	}
	if c.Currency == "" {
		return fmt.Errorf("stripe: currency is required")
	}
	return nil
}

// StripeProcessor implements enrollment.PaymentProcessor over Stripe
// Checkout. One checkout session is opened per invoice; the invoice ID
// doubles as the idempotency key so a retried initiate call cannot open
// a second session.
type StripeProcessor struct {
	config *StripeConfig
	logger *zap.Logger
}

// NewStripeProcessor creates a new Stripe processor
func NewStripeProcessor(config *StripeConfig, logger *zap.Logger) (*StripeProcessor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	stripe.Key = config.SecretKey

	return &StripeProcessor{
		config: config,
		logger: logger,
	}, nil
}

// Name implements enrollment.PaymentProcessor
func (p *StripeProcessor) Name() string {
	return "stripe"
}

// CurrencyISOCode implements enrollment.PaymentProcessor
func (p *StripeProcessor) CurrencyISOCode() string {
	return strings.ToUpper(p.config.Currency)
}

// Initiate opens a Stripe Checkout session for the invoice and returns
// the session ID as the payment tracker
func (p *StripeProcessor) Initiate(ctx context.Context, req *enrollment.InitiatePaymentRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	p.logger.Debug("Creating Stripe checkout session",
		zap.String("invoice_id", req.Metadata.InvoiceID.String()),
		zap.String("membership_id", req.Metadata.MembershipID.String()))

	params := p.buildSessionParams(req)
	params.Context = ctx
	// Retried initiations for the same invoice reuse the session
	params.SetIdempotencyKey(req.Metadata.InvoiceID.String())

	sess, err := session.New(params)
	if err != nil {
		p.logger.Error("Failed to create Stripe checkout session",
			zap.String("invoice_id", req.Metadata.InvoiceID.String()),
			zap.Error(err))
		return "", fmt.Errorf("%w: %v", enrollment.ErrProcessorRequestFailed, err)
	}
	if sess.ID == "" {
		return "", enrollment.ErrProcessorInvalidResponse
	}

	p.logger.Info("Created Stripe checkout session",
		zap.String("session_id", sess.ID),
		zap.String("invoice_id", req.Metadata.InvoiceID.String()))

	return sess.ID, nil
}

// ValidateSubscription reports whether a Stripe subscription is still in
// good standing
func (p *StripeProcessor) ValidateSubscription(ctx context.Context, subscriptionID string) (bool, error) {
	if subscriptionID == "" {
		return false, nil
	}

	params := &stripe.SubscriptionParams{}
	params.Context = ctx

	sub, err := subscription.Get(subscriptionID, params)
	if err != nil {
		p.logger.Error("Failed to get Stripe subscription",
			zap.String("subscription_id", subscriptionID),
			zap.Error(err))
		return false, fmt.Errorf("%w: %v", enrollment.ErrProcessorRequestFailed, err)
	}

	switch sub.Status {
	case stripe.SubscriptionStatusActive, stripe.SubscriptionStatusTrialing:
		return true, nil
	default:
		return false, nil
	}
}

func (p *StripeProcessor) buildSessionParams(req *enrollment.InitiatePaymentRequest) *stripe.CheckoutSessionParams {
	currency := strings.ToLower(req.Plan.Currency)
	if currency == "" {
		currency = strings.ToLower(p.config.Currency)
	}

	// Stripe wants amounts in the currency's minor unit
	unitAmount := req.Plan.Amount().Mul(minorUnitFactor).IntPart()

	mode := stripe.CheckoutSessionModePayment
	if req.Plan.Type.IsRecurring() {
		mode = stripe.CheckoutSessionModeSubscription
	}

	lineItem := &stripe.CheckoutSessionLineItemParams{
		Quantity: stripe.Int64(1),
		PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
			Currency:   stripe.String(currency),
			UnitAmount: stripe.Int64(unitAmount),
			ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
				Name: stripe.String(req.Product.Title),
			},
		},
	}
	if req.Plan.Type.IsRecurring() {
		lineItem.PriceData.Recurring = &stripe.CheckoutSessionLineItemPriceDataRecurringParams{
			Interval: stripe.String("month"),
		}
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(mode)),
		LineItems:  []*stripe.CheckoutSessionLineItemParams{lineItem},
		SuccessURL: stripe.String(req.Origin + "/payment/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(req.Origin + "/payment/cancelled"),
		Metadata: map[string]string{
			"membership_id": req.Metadata.MembershipID.String(),
			"invoice_id":    req.Metadata.InvoiceID.String(),
			"entity_id":     req.Metadata.EntityID.String(),
			"entity_type":   req.Product.Type.String(),
		},
	}
	return params
}

var _ enrollment.PaymentProcessor = (*StripeProcessor)(nil)
