package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lms/backend/internal/domain/catalog"
)

// PlanCache caches payment plans read on the activation hot path.
// A nil flag on Get distinguishes a miss from an error.
type PlanCache interface {
	// Get retrieves a cached plan. Returns (nil, nil) on a miss.
	Get(ctx context.Context, tenantID, planID uuid.UUID) (*catalog.PaymentPlan, error)

	// Set stores a plan with the cache's configured TTL
	Set(ctx context.Context, plan *catalog.PaymentPlan) error

	// Delete removes a plan from the cache
	Delete(ctx context.Context, tenantID, planID uuid.UUID) error

	// Close releases any resources held by the cache
	Close() error
}

func planCacheKey(tenantID, planID uuid.UUID) string {
	return fmt.Sprintf("payment_plan:%s:%s", tenantID, planID)
}

// NoopPlanCache never caches. Used when caching is disabled.
type NoopPlanCache struct{}

func (NoopPlanCache) Get(context.Context, uuid.UUID, uuid.UUID) (*catalog.PaymentPlan, error) {
	return nil, nil
}

func (NoopPlanCache) Set(context.Context, *catalog.PaymentPlan) error { return nil }

func (NoopPlanCache) Delete(context.Context, uuid.UUID, uuid.UUID) error { return nil }

func (NoopPlanCache) Close() error { return nil }

var _ PlanCache = NoopPlanCache{}

// defaultPlanTTL bounds staleness when invalidation is missed
const defaultPlanTTL = 5 * time.Minute
