package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lms/backend/internal/domain/catalog"
	"github.com/lms/backend/internal/domain/shared"
)

// GormPaymentPlanRepository implements catalog.PaymentPlanRepository using GORM
type GormPaymentPlanRepository struct {
	db *gorm.DB
}

// NewGormPaymentPlanRepository creates a new GormPaymentPlanRepository
func NewGormPaymentPlanRepository(db *gorm.DB) *GormPaymentPlanRepository {
	return &GormPaymentPlanRepository{db: db}
}

// FindByIDForTenant finds a payment plan by ID within a tenant
func (r *GormPaymentPlanRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.PaymentPlan, error) {
	var plan catalog.PaymentPlan
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// FindForEntity lists the non-archived plans attached to an entity
func (r *GormPaymentPlanRepository) FindForEntity(ctx context.Context, tenantID uuid.UUID, entityType catalog.EntityType, entityID uuid.UUID) ([]catalog.PaymentPlan, error) {
	var plans []catalog.PaymentPlan
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND entity_type = ? AND entity_id = ? AND archived = ?",
			tenantID, entityType, entityID, false).
		Order("created_at asc").
		Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

// Save creates or updates a payment plan
func (r *GormPaymentPlanRepository) Save(ctx context.Context, plan *catalog.PaymentPlan) error {
	return r.db.WithContext(ctx).Save(plan).Error
}

// Ensure GormPaymentPlanRepository implements PaymentPlanRepository
var _ catalog.PaymentPlanRepository = (*GormPaymentPlanRepository)(nil)
