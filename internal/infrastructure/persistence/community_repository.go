package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lms/backend/internal/domain/catalog"
	"github.com/lms/backend/internal/domain/shared"
)

// GormCommunityRepository implements catalog.CommunityRepository using GORM
type GormCommunityRepository struct {
	db *gorm.DB
}

// NewGormCommunityRepository creates a new GormCommunityRepository
func NewGormCommunityRepository(db *gorm.DB) *GormCommunityRepository {
	return &GormCommunityRepository{db: db}
}

// FindByIDForTenant finds a community by ID within a tenant
func (r *GormCommunityRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Community, error) {
	var community catalog.Community
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&community).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &community, nil
}

// FindBySlug finds a community by slug within a tenant
func (r *GormCommunityRepository) FindBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*catalog.Community, error) {
	var community catalog.Community
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND slug = ?", tenantID, slug).
		First(&community).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &community, nil
}

// FindAllForTenant returns a tenant's communities with pagination
func (r *GormCommunityRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Community, error) {
	var communities []catalog.Community
	if err := r.applyFilter(r.db.WithContext(ctx).Where("tenant_id = ?", tenantID), filter).
		Order(sortClause(filter.OrderBy, filter.OrderDir, CommunitySortFields)).
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&communities).Error; err != nil {
		return nil, err
	}
	return communities, nil
}

// CountForTenant counts a tenant's communities matching the filter
func (r *GormCommunityRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Community{}).Where("tenant_id = ?", tenantID), filter).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a community
func (r *GormCommunityRepository) Save(ctx context.Context, community *catalog.Community) error {
	return r.db.WithContext(ctx).Save(community).Error
}

func (r *GormCommunityRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR slug LIKE ?", pattern, pattern)
	}
	if enabled, ok := filter.Filters["enabled"]; ok {
		query = query.Where("enabled = ?", enabled)
	}
	return query
}

// Ensure GormCommunityRepository implements CommunityRepository
var _ catalog.CommunityRepository = (*GormCommunityRepository)(nil)
