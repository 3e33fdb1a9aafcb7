package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lms/backend/internal/domain/catalog"
	"github.com/lms/backend/internal/domain/shared"
)

type planFixture struct {
	planRepo      *MockPaymentPlanRepository
	courseRepo    *MockCourseRepository
	communityRepo *MockCommunityRepository
	service       *PaymentPlanService
	tenantID      uuid.UUID
}

func newPlanFixture(t *testing.T) *planFixture {
	t.Helper()

	planRepo := new(MockPaymentPlanRepository)
	courseRepo := new(MockCourseRepository)
	communityRepo := new(MockCommunityRepository)

	return &planFixture{
		planRepo:      planRepo,
		courseRepo:    courseRepo,
		communityRepo: communityRepo,
		service:       NewPaymentPlanService(planRepo, courseRepo, communityRepo, zap.NewNop()),
		tenantID:      uuid.New(),
	}
}

func TestPaymentPlanService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("one-time plan for a course", func(t *testing.T) {
		f := newPlanFixture(t)
		course, err := catalog.NewCourse(f.tenantID, "Introduction to Go", "intro-to-go")
		require.NoError(t, err)

		f.courseRepo.On("FindByIDForTenant", ctx, f.tenantID, course.ID).Return(course, nil)
		f.planRepo.On("Save", ctx, mock.AnythingOfType("*catalog.PaymentPlan")).Return(nil)

		result, err := f.service.Create(ctx, f.tenantID, CreatePaymentPlanRequest{
			Name:          "Lifetime access",
			EntityType:    "COURSE",
			EntityID:      course.ID,
			Type:          "ONE_TIME",
			Currency:      "USD",
			OneTimeAmount: decimal.NewFromInt(4900),
		})
		require.NoError(t, err)
		assert.Equal(t, "ONE_TIME", result.Type)
		assert.True(t, decimal.NewFromInt(4900).Equal(result.OneTimeAmount))
		assert.False(t, result.Archived)
	})

	t.Run("subscription plan amounts", func(t *testing.T) {
		f := newPlanFixture(t)
		community, err := catalog.NewCommunity(f.tenantID, "Go Learners", "go-learners")
		require.NoError(t, err)

		f.communityRepo.On("FindByIDForTenant", ctx, f.tenantID, community.ID).Return(community, nil)
		f.planRepo.On("Save", ctx, mock.AnythingOfType("*catalog.PaymentPlan")).Return(nil)

		result, err := f.service.Create(ctx, f.tenantID, CreatePaymentPlanRequest{
			Name:                      "Monthly membership",
			EntityType:                "COMMUNITY",
			EntityID:                  community.ID,
			Type:                      "SUBSCRIPTION",
			Currency:                  "USD",
			SubscriptionMonthlyAmount: decimal.NewFromInt(19),
			SubscriptionYearlyAmount:  decimal.NewFromInt(190),
		})
		require.NoError(t, err)
		assert.Equal(t, "SUBSCRIPTION", result.Type)
		assert.True(t, decimal.NewFromInt(19).Equal(result.SubscriptionMonthlyAmount))
	})

	t.Run("unknown entity", func(t *testing.T) {
		f := newPlanFixture(t)
		entityID := uuid.New()
		f.courseRepo.On("FindByIDForTenant", ctx, f.tenantID, entityID).Return(nil, shared.ErrNotFound)

		_, err := f.service.Create(ctx, f.tenantID, CreatePaymentPlanRequest{
			Name:       "Orphan plan",
			EntityType: "COURSE",
			EntityID:   entityID,
			Type:       "FREE",
			Currency:   "USD",
		})
		assert.Error(t, err)
		f.planRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("invalid entity type", func(t *testing.T) {
		f := newPlanFixture(t)

		_, err := f.service.Create(ctx, f.tenantID, CreatePaymentPlanRequest{
			Name:       "Bad plan",
			EntityType: "WEBINAR",
			EntityID:   uuid.New(),
			Type:       "FREE",
			Currency:   "USD",
		})
		assert.Error(t, err)
	})

	t.Run("invalid currency", func(t *testing.T) {
		f := newPlanFixture(t)
		course, err := catalog.NewCourse(f.tenantID, "Introduction to Go", "intro-to-go")
		require.NoError(t, err)
		f.courseRepo.On("FindByIDForTenant", ctx, f.tenantID, course.ID).Return(course, nil)

		_, err = f.service.Create(ctx, f.tenantID, CreatePaymentPlanRequest{
			Name:       "Bad currency",
			EntityType: "COURSE",
			EntityID:   course.ID,
			Type:       "FREE",
			Currency:   "DOLLARS",
		})
		assert.Error(t, err)
	})
}

func TestPaymentPlanService_Archive(t *testing.T) {
	ctx := context.Background()
	f := newPlanFixture(t)

	plan, err := catalog.NewPaymentPlan(f.tenantID, catalog.EntityTypeCourse, uuid.New(), "Lifetime access", catalog.PaymentPlanTypeOneTime, "USD")
	require.NoError(t, err)

	f.planRepo.On("FindByIDForTenant", ctx, f.tenantID, plan.ID).Return(plan, nil)
	f.planRepo.On("Save", ctx, plan).Return(nil).Once()

	require.NoError(t, f.service.Archive(ctx, f.tenantID, plan.ID))
	assert.True(t, plan.Archived)

	// Archiving an archived plan is a no-op
	require.NoError(t, f.service.Archive(ctx, f.tenantID, plan.ID))
	f.planRepo.AssertExpectations(t)
}

func TestPaymentPlanService_ListForEntity(t *testing.T) {
	ctx := context.Background()
	f := newPlanFixture(t)
	entityID := uuid.New()

	plan, err := catalog.NewPaymentPlan(f.tenantID, catalog.EntityTypeCourse, entityID, "Lifetime access", catalog.PaymentPlanTypeOneTime, "USD")
	require.NoError(t, err)

	f.planRepo.On("FindForEntity", ctx, f.tenantID, catalog.EntityTypeCourse, entityID).
		Return([]catalog.PaymentPlan{*plan}, nil)

	results, err := f.service.ListForEntity(ctx, f.tenantID, catalog.EntityTypeCourse, entityID)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Lifetime access", results[0].Name)

	_, err = f.service.ListForEntity(ctx, f.tenantID, catalog.EntityType("WEBINAR"), entityID)
	assert.Error(t, err)
}
