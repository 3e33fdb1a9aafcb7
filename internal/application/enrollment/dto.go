package enrollment

import (
	"github.com/google/uuid"
	"github.com/lms/backend/internal/domain/catalog"
	"github.com/lms/backend/internal/domain/enrollment"
	"github.com/lms/backend/internal/domain/shared"
)

// ActivationRequest carries one activation attempt
type ActivationRequest struct {
	TenantID      uuid.UUID
	UserID        uuid.UUID
	EntityType    catalog.EntityType
	EntityID      uuid.UUID
	PlanID        uuid.UUID
	Origin        string
	JoiningReason string
}

// Validate validates the activation request
func (r ActivationRequest) Validate() error {
	if r.TenantID == uuid.Nil {
		return shared.NewDomainError("INVALID_TENANT", "Tenant ID is required")
	}
	if r.UserID == uuid.Nil {
		return shared.ErrUnauthorized
	}
	if !r.EntityType.IsValid() {
		return shared.NewDomainError("INVALID_ENTITY_TYPE", "Unknown entity type")
	}
	if r.EntityID == uuid.Nil {
		return shared.NewDomainError("INVALID_ENTITY", "Entity ID is required")
	}
	if r.PlanID == uuid.Nil {
		return shared.NewDomainError("INVALID_PLAN", "Plan ID is required")
	}
	return nil
}

// ActivationStatus is the tri-state outcome of an activation attempt
type ActivationStatus string

const (
	// ActivationStatusSuccess means access is confirmed; nothing to pay
	ActivationStatusSuccess ActivationStatus = "success"
	// ActivationStatusInitiated means a payment session was opened and
	// the caller must redirect to the processor
	ActivationStatusInitiated ActivationStatus = "initiated"
	// ActivationStatusFailed means the attempt was denied with a
	// user-safe reason
	ActivationStatusFailed ActivationStatus = "failed"
)

// ActivationResult is the outcome of one activation attempt
type ActivationResult struct {
	Status         ActivationStatus            `json:"status"`
	MembershipID   uuid.UUID                   `json:"membership_id,omitempty"`
	PaymentTracker string                      `json:"payment_tracker,omitempty"`
	InvoiceID      uuid.UUID                   `json:"invoice_id,omitempty"`
	Metadata       *enrollment.PaymentMetadata `json:"metadata,omitempty"`
	Reason         string                      `json:"reason,omitempty"`
}

// Granted builds a success result
func Granted(m *enrollment.Membership) *ActivationResult {
	return &ActivationResult{
		Status:       ActivationStatusSuccess,
		MembershipID: m.ID,
	}
}

// Initiated builds a result pointing the caller at the processor session
func Initiated(m *enrollment.Membership, invoice *enrollment.Invoice, tracker string, metadata enrollment.PaymentMetadata) *ActivationResult {
	return &ActivationResult{
		Status:         ActivationStatusInitiated,
		MembershipID:   m.ID,
		PaymentTracker: tracker,
		InvoiceID:      invoice.ID,
		Metadata:       &metadata,
	}
}

// Denied builds a failed result with a user-safe reason
func Denied(reason string) *ActivationResult {
	return &ActivationResult{
		Status: ActivationStatusFailed,
		Reason: reason,
	}
}
