package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lms/backend/internal/domain/catalog"
)

type planEntry struct {
	plan      catalog.PaymentPlan
	expiresAt time.Time
}

// InMemoryPlanCache implements PlanCache with a process-local map.
// Suitable for single-instance deployments and tests; entries expire
// lazily on read.
type InMemoryPlanCache struct {
	mu      sync.RWMutex
	entries map[string]planEntry
	ttl     time.Duration
}

// NewInMemoryPlanCache creates an in-memory plan cache
func NewInMemoryPlanCache(ttl time.Duration) *InMemoryPlanCache {
	if ttl <= 0 {
		ttl = defaultPlanTTL
	}
	return &InMemoryPlanCache{
		entries: make(map[string]planEntry),
		ttl:     ttl,
	}
}

// Get retrieves a cached plan. Returns (nil, nil) on a miss.
func (c *InMemoryPlanCache) Get(_ context.Context, tenantID, planID uuid.UUID) (*catalog.PaymentPlan, error) {
	key := planCacheKey(tenantID, planID)

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, nil
	}

	// Copy so callers cannot mutate the cached value
	plan := entry.plan
	return &plan, nil
}

// Set stores a plan with the configured TTL
func (c *InMemoryPlanCache) Set(_ context.Context, plan *catalog.PaymentPlan) error {
	if plan == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[planCacheKey(plan.TenantID, plan.ID)] = planEntry{
		plan:      *plan,
		expiresAt: time.Now().Add(c.ttl),
	}
	return nil
}

// Delete removes a plan from the cache
func (c *InMemoryPlanCache) Delete(_ context.Context, tenantID, planID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, planCacheKey(tenantID, planID))
	return nil
}

// Close implements PlanCache
func (c *InMemoryPlanCache) Close() error {
	return nil
}

var _ PlanCache = (*InMemoryPlanCache)(nil)
