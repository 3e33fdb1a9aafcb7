package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lms/backend/internal/domain/catalog"
	"github.com/lms/backend/internal/domain/shared"
)

// PaymentPlanService handles payment plan catalog operations
type PaymentPlanService struct {
	planRepo      catalog.PaymentPlanRepository
	courseRepo    catalog.CourseRepository
	communityRepo catalog.CommunityRepository
	logger        *zap.Logger
}

// NewPaymentPlanService creates a new PaymentPlanService
func NewPaymentPlanService(
	planRepo catalog.PaymentPlanRepository,
	courseRepo catalog.CourseRepository,
	communityRepo catalog.CommunityRepository,
	logger *zap.Logger,
) *PaymentPlanService {
	return &PaymentPlanService{
		planRepo:      planRepo,
		courseRepo:    courseRepo,
		communityRepo: communityRepo,
		logger:        logger,
	}
}

// Create attaches a new payment plan to a course or community
func (s *PaymentPlanService) Create(ctx context.Context, tenantID uuid.UUID, req CreatePaymentPlanRequest) (*PaymentPlanResponse, error) {
	entityType := catalog.EntityType(req.EntityType)
	if !entityType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ENTITY_TYPE", "Unknown entity type")
	}

	if err := s.checkEntityExists(ctx, tenantID, entityType, req.EntityID); err != nil {
		return nil, err
	}

	plan, err := catalog.NewPaymentPlan(tenantID, entityType, req.EntityID, req.Name, catalog.PaymentPlanType(req.Type), req.Currency)
	if err != nil {
		return nil, err
	}

	switch plan.Type {
	case catalog.PaymentPlanTypeOneTime:
		if err := plan.SetOneTimeAmount(req.OneTimeAmount); err != nil {
			return nil, err
		}
	case catalog.PaymentPlanTypeSubscription:
		if err := plan.SetSubscriptionAmounts(req.SubscriptionMonthlyAmount, req.SubscriptionYearlyAmount); err != nil {
			return nil, err
		}
	case catalog.PaymentPlanTypeEMI:
		if err := plan.SetEMI(req.EMIAmount, req.EMIInstallments); err != nil {
			return nil, err
		}
	}

	if err := s.planRepo.Save(ctx, plan); err != nil {
		return nil, err
	}

	s.logger.Info("Payment plan created",
		zap.String("plan_id", plan.ID.String()),
		zap.String("entity_type", plan.EntityType.String()),
		zap.String("entity_id", plan.EntityID.String()),
		zap.String("type", plan.Type.String()))

	response := ToPaymentPlanResponse(plan)
	return &response, nil
}

// GetByID retrieves a payment plan by ID
func (s *PaymentPlanService) GetByID(ctx context.Context, tenantID, planID uuid.UUID) (*PaymentPlanResponse, error) {
	plan, err := s.planRepo.FindByIDForTenant(ctx, tenantID, planID)
	if err != nil {
		return nil, err
	}
	response := ToPaymentPlanResponse(plan)
	return &response, nil
}

// ListForEntity lists the selectable plans attached to an entity
func (s *PaymentPlanService) ListForEntity(ctx context.Context, tenantID uuid.UUID, entityType catalog.EntityType, entityID uuid.UUID) ([]PaymentPlanResponse, error) {
	if !entityType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ENTITY_TYPE", "Unknown entity type")
	}

	plans, err := s.planRepo.FindForEntity(ctx, tenantID, entityType, entityID)
	if err != nil {
		return nil, err
	}

	return ToPaymentPlanResponses(plans), nil
}

// Archive withdraws a plan from new activations. Existing memberships
// keep their terms.
func (s *PaymentPlanService) Archive(ctx context.Context, tenantID, planID uuid.UUID) error {
	plan, err := s.planRepo.FindByIDForTenant(ctx, tenantID, planID)
	if err != nil {
		return err
	}
	if plan.Archived {
		return nil
	}

	plan.Archive()
	if err := s.planRepo.Save(ctx, plan); err != nil {
		return err
	}

	s.logger.Info("Payment plan archived", zap.String("plan_id", planID.String()))

	return nil
}

func (s *PaymentPlanService) checkEntityExists(ctx context.Context, tenantID uuid.UUID, entityType catalog.EntityType, entityID uuid.UUID) error {
	var err error
	switch entityType {
	case catalog.EntityTypeCourse:
		_, err = s.courseRepo.FindByIDForTenant(ctx, tenantID, entityID)
	case catalog.EntityTypeCommunity:
		_, err = s.communityRepo.FindByIDForTenant(ctx, tenantID, entityID)
	}
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INVALID_ENTITY", "Entity not found")
		}
		return err
	}
	return nil
}
