package enrollment

import (
	"github.com/google/uuid"
	"github.com/lms/backend/internal/domain/catalog"
	"github.com/lms/backend/internal/domain/shared"
)

// MembershipStatus represents the lifecycle state of a membership
type MembershipStatus string

const (
	// MembershipStatusNone marks a membership that has never been
	// persisted. It exists only in memory while the activation flow
	// decides whether a record is needed at all.
	MembershipStatusNone MembershipStatus = "NONE"
	// MembershipStatusPending indicates a payment session is in flight
	MembershipStatusPending MembershipStatus = "PENDING"
	// MembershipStatusActive indicates the user has access to the entity
	MembershipStatusActive MembershipStatus = "ACTIVE"
	// MembershipStatusRejected is terminal; the flow never leaves it
	MembershipStatusRejected MembershipStatus = "REJECTED"
	// MembershipStatusExpired indicates access lapsed; re-initiation is allowed
	MembershipStatusExpired MembershipStatus = "EXPIRED"
)

// IsValid returns true if the status is a valid MembershipStatus
func (s MembershipStatus) IsValid() bool {
	switch s {
	case MembershipStatusNone, MembershipStatusPending, MembershipStatusActive,
		MembershipStatusRejected, MembershipStatusExpired:
		return true
	}
	return false
}

// String returns the string representation of MembershipStatus
func (s MembershipStatus) String() string {
	return string(s)
}

// IsPersistent returns true for statuses that may be stored in the ledger
func (s MembershipStatus) IsPersistent() bool {
	return s.IsValid() && s != MembershipStatusNone
}

// CanTransitionTo checks if the status can transition to the target status.
// This is the single allowed-transition table for the activation flow;
// repositories and services must not encode their own status rules.
func (s MembershipStatus) CanTransitionTo(target MembershipStatus) bool {
	switch s {
	case MembershipStatusNone:
		return target == MembershipStatusPending || target == MembershipStatusActive
	case MembershipStatusPending:
		return target == MembershipStatusActive || target == MembershipStatusRejected || target == MembershipStatusExpired
	case MembershipStatusActive:
		return target == MembershipStatusExpired
	case MembershipStatusExpired:
		return target == MembershipStatusPending || target == MembershipStatusActive
	case MembershipStatusRejected:
		return false // Terminal
	}
	return false
}

// Membership records a user's access relationship to a purchasable entity.
// At most one membership exists per (tenant, user, entity type, entity);
// plan changes mutate the record, they never create a second one. Records
// are never hard-deleted so the payment audit trail survives expiry and
// rejection.
type Membership struct {
	shared.TenantAggregateRoot
	UserID             uuid.UUID
	EntityType         catalog.EntityType
	EntityID           uuid.UUID
	Status             MembershipStatus
	PaymentPlanID      uuid.UUID
	SessionID          *uuid.UUID
	SubscriptionID     *string
	SubscriptionMethod string
	JoiningReason      string
}

// NewMembership creates an in-memory membership in the NONE status.
// Nothing is persisted until the activation flow decides a transition
// is needed.
func NewMembership(tenantID, userID uuid.UUID, entityType catalog.EntityType, entityID uuid.UUID) (*Membership, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if !entityType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ENTITY_TYPE", "Unknown entity type")
	}
	if entityID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ENTITY", "Entity ID cannot be empty")
	}

	return &Membership{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		UserID:              userID,
		EntityType:          entityType,
		EntityID:            entityID,
		Status:              MembershipStatusNone,
	}, nil
}

// IsNew returns true if the membership has never been persisted
func (m *Membership) IsNew() bool {
	return m.Status == MembershipStatusNone
}

// BeginPaymentSession moves the membership into PENDING with a fresh
// session token. Any previous subscription linkage is discarded; the new
// session supersedes it.
func (m *Membership) BeginPaymentSession(planID, sessionID uuid.UUID) error {
	if planID == uuid.Nil {
		return shared.NewDomainError("INVALID_PLAN", "Payment plan ID cannot be empty")
	}
	if sessionID == uuid.Nil {
		return shared.NewDomainError("INVALID_SESSION", "Session ID cannot be empty")
	}
	if err := m.transitionTo(MembershipStatusPending); err != nil {
		return err
	}
	m.PaymentPlanID = planID
	m.SessionID = &sessionID
	m.SubscriptionID = nil
	m.SubscriptionMethod = ""
	return nil
}

// ActivateFree grants access immediately without a payment session
func (m *Membership) ActivateFree(planID uuid.UUID, joiningReason string) error {
	if planID == uuid.Nil {
		return shared.NewDomainError("INVALID_PLAN", "Payment plan ID cannot be empty")
	}
	if err := m.transitionTo(MembershipStatusActive); err != nil {
		return err
	}
	m.PaymentPlanID = planID
	m.JoiningReason = joiningReason
	return nil
}

// Activate settles a pending payment session. For recurring plans the
// processor-side subscription handle and method are recorded.
func (m *Membership) Activate(subscriptionID, subscriptionMethod string) error {
	if m.Status != MembershipStatusPending {
		return shared.ErrInvalidState
	}
	if err := m.transitionTo(MembershipStatusActive); err != nil {
		return err
	}
	if subscriptionID != "" {
		m.SubscriptionID = &subscriptionID
		m.SubscriptionMethod = subscriptionMethod
	}
	return nil
}

// Expire lapses the membership; a later activation attempt may re-initiate
func (m *Membership) Expire() error {
	return m.transitionTo(MembershipStatusExpired)
}

// Reject marks the membership as terminally refused
func (m *Membership) Reject() error {
	if m.Status != MembershipStatusPending {
		return shared.ErrInvalidState
	}
	return m.transitionTo(MembershipStatusRejected)
}

// transitionTo applies a status change after consulting the allowed
// transition table. The session token is only ever carried in PENDING;
// every transition out of PENDING clears it.
func (m *Membership) transitionTo(target MembershipStatus) error {
	if !m.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION",
			"Cannot transition membership from "+m.Status.String()+" to "+target.String())
	}
	m.Status = target
	if target != MembershipStatusPending {
		m.SessionID = nil
	}
	return nil
}

// Snapshot captures the mutable fields so a failed operation can be
// compensated with a transition back to the pre-mutation state.
type Snapshot struct {
	Status             MembershipStatus
	PaymentPlanID      uuid.UUID
	SessionID          *uuid.UUID
	SubscriptionID     *string
	SubscriptionMethod string
	JoiningReason      string
}

// Snapshot returns a copy of the membership's mutable state
func (m *Membership) Snapshot() Snapshot {
	return Snapshot{
		Status:             m.Status,
		PaymentPlanID:      m.PaymentPlanID,
		SessionID:          m.SessionID,
		SubscriptionID:     m.SubscriptionID,
		SubscriptionMethod: m.SubscriptionMethod,
		JoiningReason:      m.JoiningReason,
	}
}

// Restore rewinds the membership's mutable state to a snapshot.
// Used by the activation flow to roll back a PENDING transition whose
// paired invoice could not be written.
func (m *Membership) Restore(s Snapshot) {
	m.Status = s.Status
	m.PaymentPlanID = s.PaymentPlanID
	m.SessionID = s.SessionID
	m.SubscriptionID = s.SubscriptionID
	m.SubscriptionMethod = s.SubscriptionMethod
	m.JoiningReason = s.JoiningReason
}
