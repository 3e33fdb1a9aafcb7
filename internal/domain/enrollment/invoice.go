package enrollment

import (
	"github.com/google/uuid"
	"github.com/lms/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the settlement state of an invoice
type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "PENDING"
	InvoiceStatusPaid    InvoiceStatus = "PAID"
	InvoiceStatusFailed  InvoiceStatus = "FAILED"
)

// IsValid returns true if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusPaid, InvoiceStatusFailed:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// IsFinal returns true once the invoice has settled
func (s InvoiceStatus) IsFinal() bool {
	return s == InvoiceStatusPaid || s == InvoiceStatusFailed
}

// Invoice records one payment session attempt. Exactly one invoice exists
// per membership session; apart from its status an invoice is immutable
// once created.
type Invoice struct {
	shared.TenantAggregateRoot
	MembershipID             uuid.UUID
	MembershipSessionID      uuid.UUID
	Amount                   decimal.Decimal
	CurrencyISOCode          string
	Status                   InvoiceStatus
	PaymentProcessor         string
	PaymentProcessorEntityID string
}

// NewInvoice creates a PENDING invoice bound to a membership payment session
func NewInvoice(tenantID, membershipID, sessionID uuid.UUID, amount decimal.Decimal, currencyISOCode, processorName, processorEntityID string) (*Invoice, error) {
	if membershipID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_MEMBERSHIP", "Membership ID cannot be empty")
	}
	if sessionID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SESSION", "Session ID cannot be empty")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Invoice amount cannot be negative")
	}
	if currencyISOCode == "" {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency ISO code cannot be empty")
	}
	if processorName == "" {
		return nil, shared.NewDomainError("INVALID_PROCESSOR", "Payment processor name cannot be empty")
	}

	return &Invoice{
		TenantAggregateRoot:      shared.NewTenantAggregateRoot(tenantID),
		MembershipID:             membershipID,
		MembershipSessionID:      sessionID,
		Amount:                   amount,
		CurrencyISOCode:          currencyISOCode,
		Status:                   InvoiceStatusPending,
		PaymentProcessor:         processorName,
		PaymentProcessorEntityID: processorEntityID,
	}, nil
}

// MarkPaid settles the invoice as paid
func (i *Invoice) MarkPaid() error {
	return i.markStatus(InvoiceStatusPaid)
}

// MarkFailed settles the invoice as failed
func (i *Invoice) MarkFailed() error {
	return i.markStatus(InvoiceStatusFailed)
}

func (i *Invoice) markStatus(target InvoiceStatus) error {
	if i.Status.IsFinal() {
		return shared.NewDomainError("INVOICE_SETTLED", "Invoice has already settled")
	}
	i.Status = target
	return nil
}
