package cache

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lms/backend/internal/domain/catalog"
)

// CachingPlanRepository decorates a PaymentPlanRepository with a
// read-through cache on the by-ID lookup used by the activation flow.
// Listings always hit the store; writes invalidate.
type CachingPlanRepository struct {
	inner  catalog.PaymentPlanRepository
	cache  PlanCache
	logger *zap.Logger
}

// NewCachingPlanRepository wraps a plan repository with a cache
func NewCachingPlanRepository(inner catalog.PaymentPlanRepository, cache PlanCache, logger *zap.Logger) *CachingPlanRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachingPlanRepository{
		inner:  inner,
		cache:  cache,
		logger: logger,
	}
}

// FindByIDForTenant reads through the cache
func (r *CachingPlanRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.PaymentPlan, error) {
	cached, err := r.cache.Get(ctx, tenantID, id)
	if err != nil {
		// A broken cache must not break plan resolution
		r.logger.Warn("Plan cache read failed",
			zap.String("plan_id", id.String()),
			zap.Error(err))
	}
	if cached != nil {
		return cached, nil
	}

	plan, err := r.inner.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, plan); err != nil {
		r.logger.Warn("Plan cache write failed",
			zap.String("plan_id", id.String()),
			zap.Error(err))
	}

	return plan, nil
}

// FindForEntity bypasses the cache
func (r *CachingPlanRepository) FindForEntity(ctx context.Context, tenantID uuid.UUID, entityType catalog.EntityType, entityID uuid.UUID) ([]catalog.PaymentPlan, error) {
	return r.inner.FindForEntity(ctx, tenantID, entityType, entityID)
}

// Save writes through and invalidates the cached entry
func (r *CachingPlanRepository) Save(ctx context.Context, plan *catalog.PaymentPlan) error {
	if err := r.inner.Save(ctx, plan); err != nil {
		return err
	}

	if err := r.cache.Delete(ctx, plan.TenantID, plan.ID); err != nil {
		r.logger.Warn("Plan cache invalidation failed",
			zap.String("plan_id", plan.ID.String()),
			zap.Error(err))
	}

	return nil
}

var _ catalog.PaymentPlanRepository = (*CachingPlanRepository)(nil)
