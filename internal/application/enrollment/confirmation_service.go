package enrollment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lms/backend/internal/domain/enrollment"
	"github.com/lms/backend/internal/domain/shared"
	"github.com/lms/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ConfirmationService settles payment sessions from processor callbacks.
// Both paths are idempotent: a replayed callback for an invoice that has
// already settled is a no-op.
type ConfirmationService struct {
	membershipRepo enrollment.MembershipRepository
	invoiceRepo    enrollment.InvoiceRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewConfirmationService creates a new ConfirmationService
func NewConfirmationService(
	membershipRepo enrollment.MembershipRepository,
	invoiceRepo enrollment.InvoiceRepository,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *ConfirmationService {
	return &ConfirmationService{
		membershipRepo: membershipRepo,
		invoiceRepo:    invoiceRepo,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// ConfirmSuccess marks the invoice paid and activates its membership.
// For recurring plans the processor-side subscription handle is recorded
// on the membership.
func (s *ConfirmationService) ConfirmSuccess(ctx context.Context, invoiceID uuid.UUID, subscriptionID, subscriptionMethod string) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "confirmation", "confirm_success",
		telemetry.WithAttribute(telemetry.SpanAttrInvoiceID, invoiceID.String()))
	defer span.End()

	invoice, settled, err := s.settleInvoice(ctx, invoiceID, enrollment.InvoiceStatusPaid)
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	if !settled {
		// Replayed callback; the first delivery already did the work.
		return nil
	}

	membership, err := s.membershipRepo.FindByID(ctx, invoice.MembershipID)
	if err != nil {
		telemetry.RecordError(span, err)
		return fmt.Errorf("failed to load membership for invoice %s: %w", invoiceID, err)
	}

	if !s.sessionMatches(membership, invoice) {
		// The membership has moved on to a newer payment session; this
		// callback settles an abandoned invoice and must not touch it.
		s.logStaleSession(invoiceID, membership)
		return nil
	}

	if err := membership.Activate(subscriptionID, subscriptionMethod); err != nil {
		// The membership already left PENDING (e.g. the expiry sweep
		// got there first); the invoice stays PAID for reconciliation.
		s.logger.Warn("Paid invoice settled but membership was not pending",
			zap.String("invoice_id", invoiceID.String()),
			zap.String("membership_id", membership.ID.String()),
			zap.String("status", membership.Status.String()),
		)
		return nil
	}
	if err := s.membershipRepo.TransitionFrom(ctx, membership, enrollment.MembershipStatusPending); err != nil {
		if errors.Is(err, shared.ErrConcurrencyConflict) {
			s.logger.Warn("Membership moved concurrently during payment confirmation",
				zap.String("membership_id", membership.ID.String()))
			return nil
		}
		telemetry.RecordError(span, err)
		return err
	}

	s.publishEvents(ctx, enrollment.NewMembershipActivatedEvent(membership))
	s.logger.Info("Payment confirmed, membership activated",
		zap.String("invoice_id", invoiceID.String()),
		zap.String("membership_id", membership.ID.String()),
	)
	return nil
}

// ConfirmFailure marks the invoice failed and expires its membership so
// the user can start a fresh payment session.
func (s *ConfirmationService) ConfirmFailure(ctx context.Context, invoiceID uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "confirmation", "confirm_failure",
		telemetry.WithAttribute(telemetry.SpanAttrInvoiceID, invoiceID.String()))
	defer span.End()

	invoice, settled, err := s.settleInvoice(ctx, invoiceID, enrollment.InvoiceStatusFailed)
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	if !settled {
		return nil
	}

	membership, err := s.membershipRepo.FindByID(ctx, invoice.MembershipID)
	if err != nil {
		telemetry.RecordError(span, err)
		return fmt.Errorf("failed to load membership for invoice %s: %w", invoiceID, err)
	}

	if !s.sessionMatches(membership, invoice) {
		s.logStaleSession(invoiceID, membership)
		return nil
	}

	if err := membership.Expire(); err != nil {
		s.logger.Warn("Failed invoice settled but membership was not pending",
			zap.String("invoice_id", invoiceID.String()),
			zap.String("membership_id", membership.ID.String()),
			zap.String("status", membership.Status.String()),
		)
		return nil
	}
	if err := s.membershipRepo.TransitionFrom(ctx, membership, enrollment.MembershipStatusPending); err != nil {
		if errors.Is(err, shared.ErrConcurrencyConflict) {
			s.logger.Warn("Membership moved concurrently during failure confirmation",
				zap.String("membership_id", membership.ID.String()))
			return nil
		}
		telemetry.RecordError(span, err)
		return err
	}

	s.publishEvents(ctx, enrollment.NewMembershipExpiredEvent(membership))
	s.logger.Info("Payment failed, membership expired",
		zap.String("invoice_id", invoiceID.String()),
		zap.String("membership_id", membership.ID.String()),
	)
	return nil
}

// settleInvoice moves an invoice out of PENDING. The bool return reports
// whether this call performed the settlement; false means the invoice had
// already settled and the callback is a replay.
func (s *ConfirmationService) settleInvoice(ctx context.Context, invoiceID uuid.UUID, status enrollment.InvoiceStatus) (*enrollment.Invoice, bool, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load invoice %s: %w", invoiceID, err)
	}

	if err := s.invoiceRepo.MarkStatus(ctx, invoiceID, status); err != nil {
		if errors.Is(err, shared.ErrConcurrencyConflict) {
			return invoice, false, nil
		}
		return nil, false, fmt.Errorf("failed to settle invoice %s: %w", invoiceID, err)
	}
	return invoice, true, nil
}

// sessionMatches reports whether the invoice still settles the membership's
// current payment session.
func (s *ConfirmationService) sessionMatches(membership *enrollment.Membership, invoice *enrollment.Invoice) bool {
	return membership.SessionID != nil && *membership.SessionID == invoice.MembershipSessionID
}

func (s *ConfirmationService) logStaleSession(invoiceID uuid.UUID, membership *enrollment.Membership) {
	s.logger.Warn("Settled invoice no longer matches the membership's payment session",
		zap.String("invoice_id", invoiceID.String()),
		zap.String("membership_id", membership.ID.String()),
		zap.String("status", membership.Status.String()),
	)
}

func (s *ConfirmationService) publishEvents(ctx context.Context, events ...shared.DomainEvent) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish domain events", zap.Error(err))
	}
}
