package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lms/backend/internal/domain/catalog"
	"github.com/lms/backend/internal/domain/enrollment"
	"github.com/lms/backend/internal/domain/shared"
	"github.com/lms/backend/internal/infrastructure/persistence/models"
)

// GormMembershipRepository implements enrollment.MembershipRepository using GORM.
// All writes are conditional: Create relies on the unique composite index and
// TransitionFrom on a status-guarded UPDATE, so concurrent activation attempts
// surface as shared.ErrConcurrencyConflict instead of lost updates.
type GormMembershipRepository struct {
	db *gorm.DB
}

// NewGormMembershipRepository creates a new GormMembershipRepository
func NewGormMembershipRepository(db *gorm.DB) *GormMembershipRepository {
	return &GormMembershipRepository{db: db}
}

// FindByID finds a membership by ID
func (r *GormMembershipRepository) FindByID(ctx context.Context, id uuid.UUID) (*enrollment.Membership, error) {
	var model models.MembershipModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForTenant finds a membership by ID within a tenant
func (r *GormMembershipRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*enrollment.Membership, error) {
	var model models.MembershipModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindForEntity finds the membership for the composite key (tenant, user, entity)
func (r *GormMembershipRepository) FindForEntity(ctx context.Context, tenantID, userID uuid.UUID, entityType catalog.EntityType, entityID uuid.UUID) (*enrollment.Membership, error) {
	var model models.MembershipModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND user_id = ? AND entity_type = ? AND entity_id = ?",
			tenantID, userID, entityType, entityID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindCollisions returns other PENDING or ACTIVE memberships for the same
// (user, entity), excluding the given membership ID
func (r *GormMembershipRepository) FindCollisions(ctx context.Context, tenantID, userID uuid.UUID, entityType catalog.EntityType, entityID, excludeID uuid.UUID) ([]enrollment.Membership, error) {
	var membershipModels []models.MembershipModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND user_id = ? AND entity_type = ? AND entity_id = ? AND id <> ? AND status IN ?",
			tenantID, userID, entityType, entityID, excludeID,
			[]enrollment.MembershipStatus{enrollment.MembershipStatusPending, enrollment.MembershipStatusActive}).
		Find(&membershipModels).Error; err != nil {
		return nil, err
	}
	return toDomainMemberships(membershipModels), nil
}

// FindAllForEntity lists memberships of an entity (the member roster)
func (r *GormMembershipRepository) FindAllForEntity(ctx context.Context, tenantID uuid.UUID, entityType catalog.EntityType, entityID uuid.UUID, filter shared.Filter) ([]enrollment.Membership, error) {
	var membershipModels []models.MembershipModel

	query := r.entityQuery(ctx, tenantID, entityType, entityID, filter).
		Order(sortClause(filter.OrderBy, filter.OrderDir, MembershipSortFields)).
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize)

	if err := query.Find(&membershipModels).Error; err != nil {
		return nil, err
	}
	return toDomainMemberships(membershipModels), nil
}

// CountForEntity counts memberships of an entity
func (r *GormMembershipRepository) CountForEntity(ctx context.Context, tenantID uuid.UUID, entityType catalog.EntityType, entityID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.entityQuery(ctx, tenantID, entityType, entityID, filter).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindAllForUser lists a user's memberships across entities
func (r *GormMembershipRepository) FindAllForUser(ctx context.Context, tenantID, userID uuid.UUID, filter shared.Filter) ([]enrollment.Membership, error) {
	var membershipModels []models.MembershipModel

	query := r.db.WithContext(ctx).
		Where("tenant_id = ? AND user_id = ?", tenantID, userID)
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}

	if err := query.
		Order(sortClause(filter.OrderBy, filter.OrderDir, MembershipSortFields)).
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&membershipModels).Error; err != nil {
		return nil, err
	}
	return toDomainMemberships(membershipModels), nil
}

// Create inserts a membership that has just left the NONE status. A unique
// index violation means another request inserted the first record for the
// same (tenant, user, entity) and is reported as a concurrency conflict.
func (r *GormMembershipRepository) Create(ctx context.Context, membership *enrollment.Membership) error {
	if !membership.Status.IsPersistent() {
		return shared.NewDomainError("INVALID_STATUS", "Membership status cannot be persisted")
	}

	model := models.MembershipModelFromDomain(membership)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrConcurrencyConflict
		}
		return err
	}
	return nil
}

// TransitionFrom persists the membership's current state with an UPDATE
// guarded on the stored status still being expected. Zero rows affected
// means another request moved the record first.
func (r *GormMembershipRepository) TransitionFrom(ctx context.Context, membership *enrollment.Membership, expected enrollment.MembershipStatus) error {
	updates := map[string]interface{}{
		"status":              membership.Status,
		"payment_plan_id":     membership.PaymentPlanID,
		"session_id":          membership.SessionID,
		"subscription_id":     membership.SubscriptionID,
		"subscription_method": membership.SubscriptionMethod,
		"joining_reason":      membership.JoiningReason,
		"version":             gorm.Expr("version + 1"),
		"updated_at":          time.Now(),
	}

	result := r.db.WithContext(ctx).
		Model(&models.MembershipModel{}).
		Where("id = ? AND status = ?", membership.ID, expected).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}

	membership.IncrementVersion()
	return nil
}

func (r *GormMembershipRepository) entityQuery(ctx context.Context, tenantID uuid.UUID, entityType catalog.EntityType, entityID uuid.UUID, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).
		Model(&models.MembershipModel{}).
		Where("tenant_id = ? AND entity_type = ? AND entity_id = ?", tenantID, entityType, entityID)
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	return query
}

func toDomainMemberships(membershipModels []models.MembershipModel) []enrollment.Membership {
	memberships := make([]enrollment.Membership, len(membershipModels))
	for i := range membershipModels {
		memberships[i] = *membershipModels[i].ToDomain()
	}
	return memberships
}

// isUniqueViolation reports whether the error is a unique index violation.
// The string checks cover drivers that predate GORM's error translation.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

// Ensure GormMembershipRepository implements MembershipRepository
var _ enrollment.MembershipRepository = (*GormMembershipRepository)(nil)
