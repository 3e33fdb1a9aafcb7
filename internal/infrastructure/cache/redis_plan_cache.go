package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/lms/backend/internal/domain/catalog"
	"github.com/lms/backend/internal/infrastructure/config"
)

// RedisPlanCache implements PlanCache using Redis
type RedisPlanCache struct {
	client     *redis.Client
	ownsClient bool // true if we created the client and should close it
	ttl        time.Duration
	logger     *zap.Logger
}

// NewRedisPlanCache creates a Redis-backed plan cache with its own client
func NewRedisPlanCache(cfg config.RedisConfig, ttl time.Duration, logger *zap.Logger) (*RedisPlanCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	cache := NewRedisPlanCacheWithClient(client, ttl, logger)
	cache.ownsClient = true
	return cache, nil
}

// NewRedisPlanCacheWithClient creates a cache over an existing Redis
// client. The caller retains ownership of the client.
func NewRedisPlanCacheWithClient(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisPlanCache {
	if ttl <= 0 {
		ttl = defaultPlanTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisPlanCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Get retrieves a cached plan. Returns (nil, nil) on a miss.
func (c *RedisPlanCache) Get(ctx context.Context, tenantID, planID uuid.UUID) (*catalog.PaymentPlan, error) {
	key := planCacheKey(tenantID, planID)

	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get plan from cache: %w", err)
	}

	var plan catalog.PaymentPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		c.logger.Error("Failed to unmarshal cached plan",
			zap.String("plan_id", planID.String()),
			zap.Error(err))
		// Drop the corrupted entry
		_ = c.client.Del(ctx, key)
		return nil, nil
	}

	return &plan, nil
}

// Set stores a plan with the configured TTL
func (c *RedisPlanCache) Set(ctx context.Context, plan *catalog.PaymentPlan) error {
	if plan == nil {
		return nil
	}

	data, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}

	key := planCacheKey(plan.TenantID, plan.ID)
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set plan in cache: %w", err)
	}
	return nil
}

// Delete removes a plan from the cache
func (c *RedisPlanCache) Delete(ctx context.Context, tenantID, planID uuid.UUID) error {
	if err := c.client.Del(ctx, planCacheKey(tenantID, planID)).Err(); err != nil {
		return fmt.Errorf("failed to delete plan from cache: %w", err)
	}
	return nil
}

// Close releases the Redis client if this cache owns it
func (c *RedisPlanCache) Close() error {
	if c.ownsClient {
		return c.client.Close()
	}
	return nil
}

var _ PlanCache = (*RedisPlanCache)(nil)
