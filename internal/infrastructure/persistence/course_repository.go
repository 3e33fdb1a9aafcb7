package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lms/backend/internal/domain/catalog"
	"github.com/lms/backend/internal/domain/shared"
)

// GormCourseRepository implements catalog.CourseRepository using GORM
type GormCourseRepository struct {
	db *gorm.DB
}

// NewGormCourseRepository creates a new GormCourseRepository
func NewGormCourseRepository(db *gorm.DB) *GormCourseRepository {
	return &GormCourseRepository{db: db}
}

// FindByIDForTenant finds a course by ID within a tenant
func (r *GormCourseRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Course, error) {
	var course catalog.Course
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &course, nil
}

// FindBySlug finds a course by slug within a tenant
func (r *GormCourseRepository) FindBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*catalog.Course, error) {
	var course catalog.Course
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND slug = ?", tenantID, slug).
		First(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &course, nil
}

// FindAllForTenant returns a tenant's courses with pagination
func (r *GormCourseRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Course, error) {
	var courses []catalog.Course
	if err := r.applyFilter(r.db.WithContext(ctx).Where("tenant_id = ?", tenantID), filter).
		Order(sortClause(filter.OrderBy, filter.OrderDir, CourseSortFields)).
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

// CountForTenant counts a tenant's courses matching the filter
func (r *GormCourseRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Course{}).Where("tenant_id = ?", tenantID), filter).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a course
func (r *GormCourseRepository) Save(ctx context.Context, course *catalog.Course) error {
	return r.db.WithContext(ctx).Save(course).Error
}

func (r *GormCourseRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("title LIKE ? OR slug LIKE ?", pattern, pattern)
	}
	if published, ok := filter.Filters["published"]; ok {
		query = query.Where("published = ?", published)
	}
	return query
}

// Ensure GormCourseRepository implements CourseRepository
var _ catalog.CourseRepository = (*GormCourseRepository)(nil)
