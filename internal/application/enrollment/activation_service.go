package enrollment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lms/backend/internal/domain/catalog"
	"github.com/lms/backend/internal/domain/enrollment"
	"github.com/lms/backend/internal/domain/shared"
	"github.com/lms/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// User-safe denial reasons. These are returned verbatim to the caller;
// infrastructure details never leak through them.
const (
	ReasonInvalidPlan          = "invalid plan"
	ReasonPaymentNotConfigured = "payment not configured"
	ReasonPreviouslyRejected   = "previously rejected, contact support"
	ReasonPaymentPending       = "payment already pending"
	ReasonAlreadyEnrolled      = "already enrolled"
	ReasonJoiningReasonNeeded  = "joining reason required"
)

// casAttempts bounds how often a request restarts its decision after
// losing a conditional write to a concurrent request.
const casAttempts = 3

// defaultInitiateTimeout bounds processor calls when the configuration
// does not specify one.
const defaultInitiateTimeout = 15 * time.Second

// ActivationService orchestrates membership activation: free grants,
// paid session initiation and the guards between them. It is stateless;
// correctness under concurrent requests for the same membership relies
// on the repository's conditional writes.
type ActivationService struct {
	membershipRepo  enrollment.MembershipRepository
	invoiceRepo     enrollment.InvoiceRepository
	planRepo        catalog.PaymentPlanRepository
	courseRepo      catalog.CourseRepository
	communityRepo   catalog.CommunityRepository
	processor       enrollment.PaymentProcessor // nil for free-only deployments
	eventPublisher  shared.EventPublisher
	logger          *zap.Logger
	initiateTimeout time.Duration
}

// NewActivationService creates a new ActivationService. The processor may
// be nil; paid plans are then denied as unconfigured.
func NewActivationService(
	membershipRepo enrollment.MembershipRepository,
	invoiceRepo enrollment.InvoiceRepository,
	planRepo catalog.PaymentPlanRepository,
	courseRepo catalog.CourseRepository,
	communityRepo catalog.CommunityRepository,
	processor enrollment.PaymentProcessor,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
	initiateTimeout time.Duration,
) *ActivationService {
	if initiateTimeout <= 0 {
		initiateTimeout = defaultInitiateTimeout
	}
	return &ActivationService{
		membershipRepo:  membershipRepo,
		invoiceRepo:     invoiceRepo,
		planRepo:        planRepo,
		courseRepo:      courseRepo,
		communityRepo:   communityRepo,
		processor:       processor,
		eventPublisher:  eventPublisher,
		logger:          logger,
		initiateTimeout: initiateTimeout,
	}
}

// Activate runs the activation decision for one user and entity.
//
// The decision is evaluated in a fixed precedence order: plan resolution,
// processor requirement, terminal status short-circuits, cross-plan
// collision check, free fast path, paid session creation. A lost
// conditional write restarts the whole decision from the membership
// re-read, at most casAttempts times.
func (s *ActivationService) Activate(ctx context.Context, req ActivationRequest) (*ActivationResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "activation", "activate")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrUserID, req.UserID.String(),
		telemetry.SpanAttrEntityType, string(req.EntityType),
		telemetry.SpanAttrEntityID, req.EntityID.String(),
		telemetry.SpanAttrPlanID, req.PlanID.String(),
	)

	if err := req.Validate(); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	var lastErr error
	for attempt := 1; attempt <= casAttempts; attempt++ {
		result, err := s.tryActivate(ctx, req)
		if err == nil {
			telemetry.SetAttribute(span, "result_status", string(result.Status))
			return result, nil
		}
		if !errors.Is(err, shared.ErrConcurrencyConflict) {
			telemetry.RecordError(span, err)
			return nil, err
		}

		lastErr = err
		s.logger.Info("Activation lost a conditional write, retrying",
			zap.String("user_id", req.UserID.String()),
			zap.String("entity_id", req.EntityID.String()),
			zap.Int("attempt", attempt),
		)
	}

	telemetry.RecordError(span, lastErr)
	return nil, fmt.Errorf("activation retries exhausted: %w", lastErr)
}

// tryActivate runs one pass of the decision. A shared.ErrConcurrencyConflict
// return means the caller should re-read and re-decide.
func (s *ActivationService) tryActivate(ctx context.Context, req ActivationRequest) (*ActivationResult, error) {
	// Step 1: the plan must exist and belong to the target entity.
	entity, err := s.resolveEntity(ctx, req.TenantID, req.EntityType, req.EntityID)
	if err != nil {
		return nil, err
	}

	plan, err := s.planRepo.FindByIDForTenant(ctx, req.TenantID, req.PlanID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return Denied(ReasonInvalidPlan), nil
		}
		return nil, fmt.Errorf("failed to resolve plan: %w", err)
	}
	if plan.Archived || !plan.BelongsTo(req.EntityType, req.EntityID) {
		return Denied(ReasonInvalidPlan), nil
	}

	// Step 2: paid plans need a configured processor.
	if plan.Type.RequiresProcessor() && s.processor == nil {
		s.logger.Error("Paid plan activation without a configured payment processor",
			zap.String("tenant_id", req.TenantID.String()),
			zap.String("plan_id", plan.ID.String()),
		)
		return Denied(ReasonPaymentNotConfigured), nil
	}

	// Step 3: load the membership, or start from a blank in-memory one.
	membership, err := s.membershipRepo.FindForEntity(ctx, req.TenantID, req.UserID, req.EntityType, req.EntityID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, fmt.Errorf("failed to load membership: %w", err)
		}
		membership, err = enrollment.NewMembership(req.TenantID, req.UserID, req.EntityType, req.EntityID)
		if err != nil {
			return nil, err
		}
	}

	// Step 4: terminal short-circuits by current status.
	switch membership.Status {
	case enrollment.MembershipStatusRejected:
		return Denied(ReasonPreviouslyRejected), nil

	case enrollment.MembershipStatusPending:
		// The primary double-charge guard: one session at a time.
		return Denied(ReasonPaymentPending), nil

	case enrollment.MembershipStatusActive:
		result, fallThrough, err := s.checkActiveMembership(ctx, membership, plan)
		if err != nil {
			return nil, err
		}
		if !fallThrough {
			return result, nil
		}
		// Subscription lapsed; membership is now EXPIRED and
		// re-initiation continues below.
	}

	// Step 5: no other record for the same (user, entity) may hold a
	// PENDING or ACTIVE status.
	collisions, err := s.membershipRepo.FindCollisions(ctx, req.TenantID, req.UserID, req.EntityType, req.EntityID, membership.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership collisions: %w", err)
	}
	for i := range collisions {
		switch collisions[i].Status {
		case enrollment.MembershipStatusPending:
			return Denied(ReasonPaymentPending), nil
		case enrollment.MembershipStatusActive:
			return Denied(ReasonAlreadyEnrolled), nil
		}
	}

	// Step 6: free fast path.
	if plan.IsFree() {
		return s.activateFree(ctx, membership, plan, entity, req.JoiningReason)
	}

	// Step 7: paid session creation.
	return s.initiatePaidSession(ctx, membership, plan, entity, req.Origin)
}

// checkActiveMembership decides what an ACTIVE membership means for the
// requested plan. The bool return signals that the membership has been
// expired and the decision should continue with re-initiation.
func (s *ActivationService) checkActiveMembership(ctx context.Context, membership *enrollment.Membership, plan *catalog.PaymentPlan) (*ActivationResult, bool, error) {
	switch {
	case plan.IsFree():
		// Idempotent no-op.
		return Granted(membership), false, nil

	case plan.Type.IsRecurring() && membership.SubscriptionID != nil:
		valid, err := s.validateSubscription(ctx, *membership.SubscriptionID)
		if err != nil {
			return nil, false, err
		}
		if valid {
			return Granted(membership), false, nil
		}

		// Provider says the subscription lapsed. Record the expiry
		// before allowing re-initiation.
		if err := membership.Expire(); err != nil {
			return nil, false, err
		}
		if err := s.membershipRepo.TransitionFrom(ctx, membership, enrollment.MembershipStatusActive); err != nil {
			return nil, false, err
		}
		s.publishEvents(ctx, enrollment.NewMembershipExpiredEvent(membership))
		return nil, true, nil

	case plan.Type.IsRecurring():
		// Recurring plan without a recorded subscription handle; there
		// is nothing to re-validate against, access stands.
		return Granted(membership), false, nil

	default:
		// One-time purchases never re-initiate.
		return Denied(ReasonAlreadyEnrolled), false, nil
	}
}

// activateFree grants access immediately. Communities that vet their
// members require a joining reason first.
func (s *ActivationService) activateFree(ctx context.Context, membership *enrollment.Membership, plan *catalog.PaymentPlan, entity *resolvedEntity, joiningReason string) (*ActivationResult, error) {
	if entity.RequiresJoiningReason && joiningReason == "" {
		return Denied(ReasonJoiningReasonNeeded), nil
	}

	previous := membership.Status
	if err := membership.ActivateFree(plan.ID, joiningReason); err != nil {
		return nil, err
	}
	if err := s.persistTransition(ctx, membership, previous); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, enrollment.NewMembershipActivatedEvent(membership))
	s.logger.Info("Membership activated on free plan",
		zap.String("membership_id", membership.ID.String()),
		zap.String("plan_id", plan.ID.String()),
	)
	return Granted(membership), nil
}

// initiatePaidSession runs the paid branch: CAS the membership into
// PENDING, open the processor session, record the invoice. A processor or
// invoice failure rolls the membership back to its pre-transition state so
// no PENDING row without a matching invoice survives.
func (s *ActivationService) initiatePaidSession(ctx context.Context, membership *enrollment.Membership, plan *catalog.PaymentPlan, entity *resolvedEntity, origin string) (*ActivationResult, error) {
	snapshot := membership.Snapshot()
	previous := membership.Status
	sessionID := uuid.New()

	if err := membership.BeginPaymentSession(plan.ID, sessionID); err != nil {
		return nil, err
	}
	if err := s.persistTransition(ctx, membership, previous); err != nil {
		// A concurrent request won this transition; the retry loop
		// re-reads and hits the PENDING guard.
		return nil, err
	}

	invoice, err := enrollment.NewInvoice(
		membership.TenantID,
		membership.ID,
		sessionID,
		plan.Amount(),
		plan.Currency,
		s.processor.Name(),
		"",
	)
	if err != nil {
		s.compensate(ctx, membership, snapshot)
		return nil, err
	}

	metadata := enrollment.PaymentMetadata{
		MembershipID:    membership.ID,
		InvoiceID:       invoice.ID,
		CurrencyISOCode: plan.Currency,
		EntityID:        membership.EntityID,
	}

	tracker, err := s.initiatePayment(ctx, &enrollment.InitiatePaymentRequest{
		Metadata: metadata,
		Plan:     plan,
		Product:  entity.Product,
		Origin:   origin,
	})
	if err != nil {
		s.compensate(ctx, membership, snapshot)
		return nil, fmt.Errorf("payment initiation failed: %w", err)
	}

	invoice.PaymentProcessorEntityID = tracker
	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		s.compensate(ctx, membership, snapshot)
		return nil, fmt.Errorf("failed to record invoice: %w", err)
	}

	s.publishEvents(ctx, enrollment.NewPaymentSessionInitiatedEvent(membership, sessionID, invoice.ID))
	s.logger.Info("Payment session initiated",
		zap.String("membership_id", membership.ID.String()),
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("processor", s.processor.Name()),
		zap.String("amount", invoice.Amount.String()),
	)

	return Initiated(membership, invoice, tracker, metadata), nil
}

// persistTransition writes a membership that has just changed status.
// Fresh records are inserted; existing ones go through the conditional
// update keyed on the status the decision was based on.
func (s *ActivationService) persistTransition(ctx context.Context, membership *enrollment.Membership, previous enrollment.MembershipStatus) error {
	if previous == enrollment.MembershipStatusNone {
		return s.membershipRepo.Create(ctx, membership)
	}
	return s.membershipRepo.TransitionFrom(ctx, membership, previous)
}

// compensate rolls a PENDING membership back to its pre-transition state
// after a downstream failure. A membership that never existed before the
// attempt is parked in EXPIRED instead, since rows are never deleted.
func (s *ActivationService) compensate(ctx context.Context, membership *enrollment.Membership, snapshot enrollment.Snapshot) {
	if snapshot.Status == enrollment.MembershipStatusNone {
		if err := membership.Expire(); err != nil {
			s.logger.Error("Compensation failed to expire membership",
				zap.String("membership_id", membership.ID.String()),
				zap.Error(err),
			)
			return
		}
	} else {
		membership.Restore(snapshot)
	}

	if err := s.membershipRepo.TransitionFrom(ctx, membership, enrollment.MembershipStatusPending); err != nil {
		s.logger.Error("Compensating transition failed, membership may be stuck in PENDING",
			zap.String("membership_id", membership.ID.String()),
			zap.String("target_status", membership.Status.String()),
			zap.Error(err),
		)
	}
}

// initiatePayment calls the processor with a bounded timeout
func (s *ActivationService) initiatePayment(ctx context.Context, req *enrollment.InitiatePaymentRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	callCtx, cancel := context.WithTimeout(ctx, s.initiateTimeout)
	defer cancel()

	tracker, err := s.processor.Initiate(callCtx, req)
	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return "", enrollment.ErrProcessorTimeout
		}
		return "", err
	}
	if tracker == "" {
		return "", enrollment.ErrProcessorInvalidResponse
	}
	return tracker, nil
}

// validateSubscription calls the processor with a bounded timeout
func (s *ActivationService) validateSubscription(ctx context.Context, subscriptionID string) (bool, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.initiateTimeout)
	defer cancel()

	valid, err := s.processor.ValidateSubscription(callCtx, subscriptionID)
	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return false, enrollment.ErrProcessorTimeout
		}
		return false, fmt.Errorf("subscription validation failed: %w", err)
	}
	return valid, nil
}

// resolvedEntity carries what the decision needs to know about the
// purchasable entity.
type resolvedEntity struct {
	Product               catalog.Product
	RequiresJoiningReason bool
}

func (s *ActivationService) resolveEntity(ctx context.Context, tenantID uuid.UUID, entityType catalog.EntityType, entityID uuid.UUID) (*resolvedEntity, error) {
	switch entityType {
	case catalog.EntityTypeCourse:
		course, err := s.courseRepo.FindByIDForTenant(ctx, tenantID, entityID)
		if err != nil {
			return nil, err
		}
		return &resolvedEntity{Product: course.Product()}, nil

	case catalog.EntityTypeCommunity:
		community, err := s.communityRepo.FindByIDForTenant(ctx, tenantID, entityID)
		if err != nil {
			return nil, err
		}
		return &resolvedEntity{
			Product:               community.Product(),
			RequiresJoiningReason: community.RequiresJoiningReason(),
		}, nil

	default:
		return nil, shared.NewDomainError("INVALID_ENTITY_TYPE", "Unknown entity type")
	}
}

// publishEvents publishes domain events; failures are logged, never
// surfaced, since the state change has already been persisted.
func (s *ActivationService) publishEvents(ctx context.Context, events ...shared.DomainEvent) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish domain events", zap.Error(err))
	}
}
