package cache

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/lms/backend/internal/infrastructure/config"
)

// NewPlanCache creates a plan cache for the configured backend. The
// redis backend falls back to in-memory when the server is unreachable,
// with a warning; multi-instance deployments should treat that as a
// deploy blocker.
func NewPlanCache(cfg config.CacheConfig, redisCfg config.RedisConfig, logger *zap.Logger) (PlanCache, error) {
	switch cfg.Backend {
	case "redis":
		planCache, err := NewRedisPlanCache(redisCfg, cfg.PlanTTL, logger)
		if err == nil {
			logger.Info("Using Redis plan cache")
			return planCache, nil
		}
		logger.Warn("Redis unavailable, falling back to in-memory plan cache. "+
			"Cached plans will not be shared across instances.",
			zap.Error(err))
		return NewInMemoryPlanCache(cfg.PlanTTL), nil
	case "", "memory":
		return NewInMemoryPlanCache(cfg.PlanTTL), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
