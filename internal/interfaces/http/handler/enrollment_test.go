package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	appenrollment "github.com/lms/backend/internal/application/enrollment"
	"github.com/lms/backend/internal/domain/catalog"
	"github.com/lms/backend/internal/infrastructure/event"
	"github.com/lms/backend/internal/infrastructure/payment"
	"github.com/lms/backend/internal/infrastructure/persistence"
	"github.com/lms/backend/internal/infrastructure/persistence/models"
)

// enrollmentFixture wires real services over an in-memory database so the
// handler tests exercise the whole activation path.
type enrollmentFixture struct {
	db       *gorm.DB
	tenantID uuid.UUID
	userID   uuid.UUID
	router   *gin.Engine
	planRepo catalog.PaymentPlanRepository
}

func newEnrollmentFixture(t *testing.T) *enrollmentFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.MembershipModel{},
		&models.InvoiceModel{},
		&catalog.Course{},
		&catalog.Community{},
		&catalog.PaymentPlan{},
	))

	logger := zap.NewNop()
	membershipRepo := persistence.NewGormMembershipRepository(db)
	invoiceRepo := persistence.NewGormInvoiceRepository(db)
	planRepo := persistence.NewGormPaymentPlanRepository(db)
	courseRepo := persistence.NewGormCourseRepository(db)
	communityRepo := persistence.NewGormCommunityRepository(db)
	bus := event.NewInMemoryEventBus(logger)

	activations := appenrollment.NewActivationService(
		membershipRepo, invoiceRepo, planRepo, courseRepo, communityRepo,
		payment.NewNoopProcessor("USD"), bus, logger, 0,
	)
	memberships := appenrollment.NewMembershipService(membershipRepo, invoiceRepo, logger)

	f := &enrollmentFixture{
		db:       db,
		tenantID: uuid.New(),
		userID:   uuid.New(),
		planRepo: planRepo,
	}

	r := gin.New()
	r.Use(authAs(f.tenantID, f.userID))
	NewEnrollmentHandler(activations, memberships).RegisterRoutes(r.Group("/api/v1"))
	f.router = r
	return f
}

// seedCourseWithPlan persists a published course and a plan for it
func (f *enrollmentFixture) seedCourseWithPlan(t *testing.T, planType catalog.PaymentPlanType) (*catalog.Course, *catalog.PaymentPlan) {
	t.Helper()

	course, err := catalog.NewCourse(f.tenantID, "Go from scratch", "go-from-scratch")
	require.NoError(t, err)
	course.Publish()
	require.NoError(t, f.db.Create(course).Error)

	plan, err := catalog.NewPaymentPlan(f.tenantID, catalog.EntityTypeCourse, course.ID, "Standard", planType, "USD")
	require.NoError(t, err)
	if planType == catalog.PaymentPlanTypeOneTime {
		require.NoError(t, plan.SetOneTimeAmount(decimal.NewFromInt(49)))
	}
	require.NoError(t, f.planRepo.Save(t.Context(), plan))
	return course, plan
}

func (f *enrollmentFixture) activate(t *testing.T, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/enrollment/activate", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	f.router.ServeHTTP(w, req)
	return w
}

func TestEnrollmentHandler_Activate_FreePlan(t *testing.T) {
	f := newEnrollmentFixture(t)
	course, plan := f.seedCourseWithPlan(t, catalog.PaymentPlanTypeFree)

	w := f.activate(t, ActivateRequest{
		EntityType: "COURSE",
		EntityID:   course.ID,
		PlanID:     plan.ID,
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data appenrollment.ActivationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, appenrollment.ActivationStatusSuccess, resp.Data.Status)
	assert.NotEqual(t, uuid.Nil, resp.Data.MembershipID)

	// The membership is visible through the read endpoints
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/memberships/entity?entity_type=COURSE&entity_id="+course.ID.String(), nil)
	f.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ACTIVE")
}

func TestEnrollmentHandler_Activate_PaidPlanInitiates(t *testing.T) {
	f := newEnrollmentFixture(t)
	course, plan := f.seedCourseWithPlan(t, catalog.PaymentPlanTypeOneTime)

	w := f.activate(t, ActivateRequest{
		EntityType: "COURSE",
		EntityID:   course.ID,
		PlanID:     plan.ID,
		Origin:     "https://school.example.com",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data appenrollment.ActivationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, appenrollment.ActivationStatusInitiated, resp.Data.Status)
	assert.NotEmpty(t, resp.Data.PaymentTracker)
	assert.NotEqual(t, uuid.Nil, resp.Data.InvoiceID)

	// Matching invoice is recorded as PENDING
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/memberships/"+resp.Data.MembershipID.String()+"/invoices", nil)
	f.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "PENDING")
}

func TestEnrollmentHandler_Activate_InvalidBody(t *testing.T) {
	f := newEnrollmentFixture(t)

	w := f.activate(t, gin.H{"entity_type": "COURSE"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEnrollmentHandler_Activate_UnknownPlan(t *testing.T) {
	f := newEnrollmentFixture(t)
	course, _ := f.seedCourseWithPlan(t, catalog.PaymentPlanTypeFree)

	w := f.activate(t, ActivateRequest{
		EntityType: "COURSE",
		EntityID:   course.ID,
		PlanID:     uuid.New(),
	})

	// Unknown plans are a denial, not an error
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data appenrollment.ActivationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, appenrollment.ActivationStatusFailed, resp.Data.Status)
	assert.Equal(t, appenrollment.ReasonInvalidPlan, resp.Data.Reason)
}

func TestEnrollmentHandler_Activate_UnknownEntity(t *testing.T) {
	f := newEnrollmentFixture(t)

	w := f.activate(t, ActivateRequest{
		EntityType: "COURSE",
		EntityID:   uuid.New(),
		PlanID:     uuid.New(),
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEnrollmentHandler_Activate_Unauthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// A router without the auth context set
	r := gin.New()
	NewEnrollmentHandler(nil, nil).RegisterRoutes(r.Group("/api/v1"))

	payload, err := json.Marshal(ActivateRequest{
		EntityType: "COURSE",
		EntityID:   uuid.New(),
		PlanID:     uuid.New(),
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/enrollment/activate", bytes.NewReader(payload))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestEnrollmentHandler_Roster(t *testing.T) {
	f := newEnrollmentFixture(t)
	course, plan := f.seedCourseWithPlan(t, catalog.PaymentPlanTypeFree)

	w := f.activate(t, ActivateRequest{
		EntityType: "COURSE",
		EntityID:   course.ID,
		PlanID:     plan.ID,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/memberships/roster?entity_type=COURSE&entity_id="+course.ID.String(), nil)
	f.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), f.userID.String())
	assert.Contains(t, w.Body.String(), `"total":1`)
}

func TestEnrollmentHandler_Roster_InvalidEntityType(t *testing.T) {
	f := newEnrollmentFixture(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/memberships/roster?entity_type=WEBINAR&entity_id="+uuid.New().String(), nil)
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
