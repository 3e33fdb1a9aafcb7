package enrollment

import (
	"context"

	"github.com/google/uuid"
	"github.com/lms/backend/internal/domain/catalog"
	"github.com/lms/backend/internal/domain/enrollment"
	"github.com/lms/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// =============================================================================
// Repository and port mocks
// =============================================================================

type MockMembershipRepository struct {
	mock.Mock
}

func (m *MockMembershipRepository) FindByID(ctx context.Context, id uuid.UUID) (*enrollment.Membership, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*enrollment.Membership), args.Error(1)
}

func (m *MockMembershipRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*enrollment.Membership, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*enrollment.Membership), args.Error(1)
}

func (m *MockMembershipRepository) FindForEntity(ctx context.Context, tenantID, userID uuid.UUID, entityType catalog.EntityType, entityID uuid.UUID) (*enrollment.Membership, error) {
	args := m.Called(ctx, tenantID, userID, entityType, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*enrollment.Membership), args.Error(1)
}

func (m *MockMembershipRepository) FindCollisions(ctx context.Context, tenantID, userID uuid.UUID, entityType catalog.EntityType, entityID, excludeID uuid.UUID) ([]enrollment.Membership, error) {
	args := m.Called(ctx, tenantID, userID, entityType, entityID, excludeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]enrollment.Membership), args.Error(1)
}

func (m *MockMembershipRepository) FindAllForEntity(ctx context.Context, tenantID uuid.UUID, entityType catalog.EntityType, entityID uuid.UUID, filter shared.Filter) ([]enrollment.Membership, error) {
	args := m.Called(ctx, tenantID, entityType, entityID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]enrollment.Membership), args.Error(1)
}

func (m *MockMembershipRepository) CountForEntity(ctx context.Context, tenantID uuid.UUID, entityType catalog.EntityType, entityID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, entityType, entityID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMembershipRepository) FindAllForUser(ctx context.Context, tenantID, userID uuid.UUID, filter shared.Filter) ([]enrollment.Membership, error) {
	args := m.Called(ctx, tenantID, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]enrollment.Membership), args.Error(1)
}

func (m *MockMembershipRepository) Create(ctx context.Context, membership *enrollment.Membership) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}

func (m *MockMembershipRepository) TransitionFrom(ctx context.Context, membership *enrollment.Membership, expected enrollment.MembershipStatus) error {
	args := m.Called(ctx, membership, expected)
	return args.Error(0)
}

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*enrollment.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*enrollment.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*enrollment.Invoice, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*enrollment.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindBySessionID(ctx context.Context, sessionID uuid.UUID) (*enrollment.Invoice, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*enrollment.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAllForMembership(ctx context.Context, tenantID, membershipID uuid.UUID, filter shared.Filter) ([]enrollment.Invoice, error) {
	args := m.Called(ctx, tenantID, membershipID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]enrollment.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) Create(ctx context.Context, invoice *enrollment.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) MarkStatus(ctx context.Context, id uuid.UUID, status enrollment.InvoiceStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

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

type MockPaymentProcessor struct {
	mock.Mock
}

func (m *MockPaymentProcessor) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockPaymentProcessor) CurrencyISOCode() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockPaymentProcessor) Initiate(ctx context.Context, req *enrollment.InitiatePaymentRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockPaymentProcessor) ValidateSubscription(ctx context.Context, subscriptionID string) (bool, error) {
	args := m.Called(ctx, subscriptionID)
	return args.Bool(0), args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}
