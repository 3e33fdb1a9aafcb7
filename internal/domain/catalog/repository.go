package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/lms/backend/internal/domain/shared"
)

// PaymentPlanRepository provides access to the payment plan catalog
type PaymentPlanRepository interface {
	// FindByIDForTenant finds a plan by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*PaymentPlan, error)
	// FindForEntity lists the non-archived plans attached to an entity
	FindForEntity(ctx context.Context, tenantID uuid.UUID, entityType EntityType, entityID uuid.UUID) ([]PaymentPlan, error)
	// Save creates or updates a plan
	Save(ctx context.Context, plan *PaymentPlan) error
}

// CourseRepository provides access to courses
type CourseRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Course, error)
	FindBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*Course, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Course, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, course *Course) error
}

// CommunityRepository provides access to communities
type CommunityRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Community, error)
	FindBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*Community, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Community, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, community *Community) error
}
