package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/lms/backend/internal/domain/catalog"
	"github.com/lms/backend/internal/domain/shared"
)

// MockCourseRepository is a mock implementation of catalog.CourseRepository
type MockCourseRepository struct {
	mock.Mock
}

func (m *MockCourseRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Course, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Course), args.Error(1)
}

func (m *MockCourseRepository) FindBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*catalog.Course, error) {
	args := m.Called(ctx, tenantID, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Course), args.Error(1)
}

func (m *MockCourseRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Course, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Course), args.Error(1)
}

func (m *MockCourseRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCourseRepository) Save(ctx context.Context, course *catalog.Course) error {
	args := m.Called(ctx, course)
	return args.Error(0)
}

// MockCommunityRepository is a mock implementation of catalog.CommunityRepository
type MockCommunityRepository struct {
	mock.Mock
}

func (m *MockCommunityRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Community, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Community), args.Error(1)
}

func (m *MockCommunityRepository) FindBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*catalog.Community, error) {
	args := m.Called(ctx, tenantID, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Community), args.Error(1)
}

func (m *MockCommunityRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Community, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Community), args.Error(1)
}

func (m *MockCommunityRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCommunityRepository) Save(ctx context.Context, community *catalog.Community) error {
	args := m.Called(ctx, community)
	return args.Error(0)
}

// MockPaymentPlanRepository is a mock implementation of catalog.PaymentPlanRepository
type MockPaymentPlanRepository struct {
	mock.Mock
}

func (m *MockPaymentPlanRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.PaymentPlan, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.PaymentPlan), args.Error(1)
}

func (m *MockPaymentPlanRepository) FindForEntity(ctx context.Context, tenantID uuid.UUID, entityType catalog.EntityType, entityID uuid.UUID) ([]catalog.PaymentPlan, error) {
	args := m.Called(ctx, tenantID, entityType, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.PaymentPlan), args.Error(1)
}

func (m *MockPaymentPlanRepository) Save(ctx context.Context, plan *catalog.PaymentPlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}
