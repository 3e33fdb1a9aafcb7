package enrollment

import (
	"github.com/google/uuid"
	"github.com/lms/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeMembership = "Membership"

// Event type constants
const (
	EventTypeMembershipActivated      = "MembershipActivated"
	EventTypeMembershipExpired        = "MembershipExpired"
	EventTypeMembershipRejected       = "MembershipRejected"
	EventTypePaymentSessionInitiated  = "PaymentSessionInitiated"
)

// MembershipActivatedEvent is raised when a membership reaches ACTIVE
type MembershipActivatedEvent struct {
	shared.BaseDomainEvent
	MembershipID  uuid.UUID `json:"membership_id"`
	UserID        uuid.UUID `json:"user_id"`
	EntityID      uuid.UUID `json:"entity_id"`
	EntityType    string    `json:"entity_type"`
	PaymentPlanID uuid.UUID `json:"payment_plan_id"`
}

// NewMembershipActivatedEvent creates a new MembershipActivatedEvent
func NewMembershipActivatedEvent(m *Membership) *MembershipActivatedEvent {
	return &MembershipActivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMembershipActivated, AggregateTypeMembership, m.ID, m.TenantID),
		MembershipID:    m.ID,
		UserID:          m.UserID,
		EntityID:        m.EntityID,
		EntityType:      m.EntityType.String(),
		PaymentPlanID:   m.PaymentPlanID,
	}
}

// EventType returns the event type name
func (e *MembershipActivatedEvent) EventType() string {
	return EventTypeMembershipActivated
}

// MembershipExpiredEvent is raised when a membership lapses
type MembershipExpiredEvent struct {
	shared.BaseDomainEvent
	MembershipID uuid.UUID `json:"membership_id"`
	UserID       uuid.UUID `json:"user_id"`
	EntityID     uuid.UUID `json:"entity_id"`
	EntityType   string    `json:"entity_type"`
}

// NewMembershipExpiredEvent creates a new MembershipExpiredEvent
func NewMembershipExpiredEvent(m *Membership) *MembershipExpiredEvent {
	return &MembershipExpiredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMembershipExpired, AggregateTypeMembership, m.ID, m.TenantID),
		MembershipID:    m.ID,
		UserID:          m.UserID,
		EntityID:        m.EntityID,
		EntityType:      m.EntityType.String(),
	}
}

// EventType returns the event type name
func (e *MembershipExpiredEvent) EventType() string {
	return EventTypeMembershipExpired
}

// MembershipRejectedEvent is raised when a membership is terminally refused
type MembershipRejectedEvent struct {
	shared.BaseDomainEvent
	MembershipID uuid.UUID `json:"membership_id"`
	UserID       uuid.UUID `json:"user_id"`
	EntityID     uuid.UUID `json:"entity_id"`
	EntityType   string    `json:"entity_type"`
}

// NewMembershipRejectedEvent creates a new MembershipRejectedEvent
func NewMembershipRejectedEvent(m *Membership) *MembershipRejectedEvent {
	return &MembershipRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMembershipRejected, AggregateTypeMembership, m.ID, m.TenantID),
		MembershipID:    m.ID,
		UserID:          m.UserID,
		EntityID:        m.EntityID,
		EntityType:      m.EntityType.String(),
	}
}

// EventType returns the event type name
func (e *MembershipRejectedEvent) EventType() string {
	return EventTypeMembershipRejected
}

// PaymentSessionInitiatedEvent is raised when a new paid session begins
type PaymentSessionInitiatedEvent struct {
	shared.BaseDomainEvent
	MembershipID uuid.UUID `json:"membership_id"`
	SessionID    uuid.UUID `json:"session_id"`
	InvoiceID    uuid.UUID `json:"invoice_id"`
	UserID       uuid.UUID `json:"user_id"`
}

// NewPaymentSessionInitiatedEvent creates a new PaymentSessionInitiatedEvent
func NewPaymentSessionInitiatedEvent(m *Membership, sessionID, invoiceID uuid.UUID) *PaymentSessionInitiatedEvent {
	return &PaymentSessionInitiatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentSessionInitiated, AggregateTypeMembership, m.ID, m.TenantID),
		MembershipID:    m.ID,
		SessionID:       sessionID,
		InvoiceID:       invoiceID,
		UserID:          m.UserID,
	}
}

// EventType returns the event type name
func (e *PaymentSessionInitiatedEvent) EventType() string {
	return EventTypePaymentSessionInitiated
}
