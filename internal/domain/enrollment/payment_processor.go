package enrollment

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lms/backend/internal/domain/catalog"
)

// Processor errors
var (
	ErrProcessorRequestFailed   = errors.New("payment: processor request failed")
	ErrProcessorInvalidResponse = errors.New("payment: invalid processor response")
	ErrProcessorTimeout         = errors.New("payment: processor call timed out")
)

// PaymentMetadata ties a processor-side session back to the ledger records
// it was created for. The processor must echo it on callbacks.
type PaymentMetadata struct {
	MembershipID    uuid.UUID `json:"membership_id"`
	InvoiceID       uuid.UUID `json:"invoice_id"`
	CurrencyISOCode string    `json:"currency_iso_code"`
	EntityID        uuid.UUID `json:"entity_id"`
}

// InitiatePaymentRequest asks the processor to open a checkout session
type InitiatePaymentRequest struct {
	Metadata PaymentMetadata
	Plan     *catalog.PaymentPlan
	Product  catalog.Product
	// Origin is the caller-supplied base URL the processor redirects
	// back to after checkout
	Origin string
}

// Validate validates the initiate payment request
func (r *InitiatePaymentRequest) Validate() error {
	if r.Metadata.MembershipID == uuid.Nil {
		return errors.New("payment: membership ID is required")
	}
	if r.Metadata.InvoiceID == uuid.Nil {
		return errors.New("payment: invoice ID is required")
	}
	if r.Plan == nil {
		return errors.New("payment: plan is required")
	}
	if r.Product.ID == uuid.Nil {
		return errors.New("payment: product is required")
	}
	if r.Origin == "" {
		return errors.New("payment: origin is required")
	}
	return nil
}

// PaymentProcessor is the port to the external payment gateway.
// It is defined in the domain layer; concrete adapters (Stripe, the no-op
// processor for free-only deployments) live in the infrastructure layer.
type PaymentProcessor interface {
	// Name identifies the processor; recorded on every invoice it handles
	Name() string

	// CurrencyISOCode returns the settlement currency the processor is
	// configured for
	CurrencyISOCode() string

	// Initiate opens a provider-side checkout session and returns an
	// opaque tracker the caller redirects the user to. Implementations
	// must be idempotent when called twice with the same
	// metadata.invoice_id.
	Initiate(ctx context.Context, req *InitiatePaymentRequest) (string, error)

	// ValidateSubscription reports whether a recurring subscription is
	// still in good standing with the provider
	ValidateSubscription(ctx context.Context, subscriptionID string) (bool, error)
}
