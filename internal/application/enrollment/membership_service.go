package enrollment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/lms/backend/internal/domain/catalog"
	"github.com/lms/backend/internal/domain/enrollment"
	"github.com/lms/backend/internal/domain/shared"
)

// MembershipResponse is the API representation of a membership record
type MembershipResponse struct {
	ID             uuid.UUID  `json:"id"`
	UserID         uuid.UUID  `json:"user_id"`
	EntityType     string     `json:"entity_type"`
	EntityID       uuid.UUID  `json:"entity_id"`
	Status         string     `json:"status"`
	PaymentPlanID  uuid.UUID  `json:"payment_plan_id"`
	SessionID      *uuid.UUID `json:"session_id,omitempty"`
	SubscriptionID *string    `json:"subscription_id,omitempty"`
	JoiningReason  string     `json:"joining_reason,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func toMembershipResponse(m *enrollment.Membership) MembershipResponse {
	return MembershipResponse{
		ID:             m.ID,
		UserID:         m.UserID,
		EntityType:     m.EntityType.String(),
		EntityID:       m.EntityID,
		Status:         m.Status.String(),
		PaymentPlanID:  m.PaymentPlanID,
		SessionID:      m.SessionID,
		SubscriptionID: m.SubscriptionID,
		JoiningReason:  m.JoiningReason,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func toMembershipResponses(memberships []enrollment.Membership) []MembershipResponse {
	responses := make([]MembershipResponse, len(memberships))
	for i := range memberships {
		responses[i] = toMembershipResponse(&memberships[i])
	}
	return responses
}

// InvoiceResponse is the API representation of an invoice
type InvoiceResponse struct {
	ID                       uuid.UUID       `json:"id"`
	MembershipID             uuid.UUID       `json:"membership_id"`
	Amount                   decimal.Decimal `json:"amount"`
	Currency                 string          `json:"currency"`
	Status                   string          `json:"status"`
	PaymentProcessor         string          `json:"payment_processor"`
	PaymentProcessorEntityID string          `json:"payment_processor_entity_id,omitempty"`
	CreatedAt                time.Time       `json:"created_at"`
}

func toInvoiceResponse(inv *enrollment.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:                       inv.ID,
		MembershipID:             inv.MembershipID,
		Amount:                   inv.Amount,
		Currency:                 inv.CurrencyISOCode,
		Status:                   string(inv.Status),
		PaymentProcessor:         inv.PaymentProcessor,
		PaymentProcessorEntityID: inv.PaymentProcessorEntityID,
		CreatedAt:                inv.CreatedAt,
	}
}

// MembershipService answers read queries over the membership and invoice
// ledgers. All writes go through the activation and confirmation flows.
type MembershipService struct {
	membershipRepo enrollment.MembershipRepository
	invoiceRepo    enrollment.InvoiceRepository
	logger         *zap.Logger
}

// NewMembershipService creates a new MembershipService
func NewMembershipService(
	membershipRepo enrollment.MembershipRepository,
	invoiceRepo enrollment.InvoiceRepository,
	logger *zap.Logger,
) *MembershipService {
	return &MembershipService{
		membershipRepo: membershipRepo,
		invoiceRepo:    invoiceRepo,
		logger:         logger,
	}
}

// GetForEntity returns the caller's membership for an entity, or
// shared.ErrNotFound when the user has never interacted with it
func (s *MembershipService) GetForEntity(ctx context.Context, tenantID, userID uuid.UUID, entityType catalog.EntityType, entityID uuid.UUID) (*MembershipResponse, error) {
	if !entityType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ENTITY_TYPE", "Unknown entity type")
	}

	membership, err := s.membershipRepo.FindForEntity(ctx, tenantID, userID, entityType, entityID)
	if err != nil {
		return nil, err
	}

	response := toMembershipResponse(membership)
	return &response, nil
}

// ListForUser lists a user's memberships across all entities
func (s *MembershipService) ListForUser(ctx context.Context, tenantID, userID uuid.UUID, filter shared.Filter) ([]MembershipResponse, error) {
	memberships, err := s.membershipRepo.FindAllForUser(ctx, tenantID, userID, filter)
	if err != nil {
		return nil, err
	}
	return toMembershipResponses(memberships), nil
}

// ListForEntity returns the member roster of an entity with a total count
func (s *MembershipService) ListForEntity(ctx context.Context, tenantID uuid.UUID, entityType catalog.EntityType, entityID uuid.UUID, filter shared.Filter) ([]MembershipResponse, int64, error) {
	if !entityType.IsValid() {
		return nil, 0, shared.NewDomainError("INVALID_ENTITY_TYPE", "Unknown entity type")
	}

	memberships, err := s.membershipRepo.FindAllForEntity(ctx, tenantID, entityType, entityID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.membershipRepo.CountForEntity(ctx, tenantID, entityType, entityID, filter)
	if err != nil {
		return nil, 0, err
	}

	return toMembershipResponses(memberships), total, nil
}

// ListInvoices lists the invoices of a membership, newest first
func (s *MembershipService) ListInvoices(ctx context.Context, tenantID, membershipID uuid.UUID, filter shared.Filter) ([]InvoiceResponse, error) {
	// Ownership check before exposing the ledger
	if _, err := s.membershipRepo.FindByIDForTenant(ctx, tenantID, membershipID); err != nil {
		return nil, err
	}

	invoices, err := s.invoiceRepo.FindAllForMembership(ctx, tenantID, membershipID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = toInvoiceResponse(&invoices[i])
	}
	return responses, nil
}

// Reject marks a pending membership as rejected by a moderator. The
// record is terminal afterwards: the user cannot re-enroll.
func (s *MembershipService) Reject(ctx context.Context, tenantID, membershipID uuid.UUID) error {
	membership, err := s.membershipRepo.FindByIDForTenant(ctx, tenantID, membershipID)
	if err != nil {
		return err
	}

	previous := membership.Status
	if err := membership.Reject(); err != nil {
		return err
	}

	if err := s.membershipRepo.TransitionFrom(ctx, membership, previous); err != nil {
		return err
	}

	s.logger.Info("Membership rejected",
		zap.String("membership_id", membershipID.String()),
		zap.String("tenant_id", tenantID.String()))

	return nil
}
