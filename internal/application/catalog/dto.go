package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lms/backend/internal/domain/catalog"
	"github.com/lms/backend/internal/domain/shared"
)

// CreateCourseRequest contains the input for creating a course
type CreateCourseRequest struct {
	Title       string `json:"title" binding:"required"`
	Slug        string `json:"slug" binding:"required"`
	Description string `json:"description"`
	Privacy     string `json:"privacy"`
}

// UpdateCourseRequest contains the input for updating a course
type UpdateCourseRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Privacy     *string `json:"privacy"`
}

// CourseResponse is the API representation of a course
type CourseResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Privacy     string    `json:"privacy"`
	Published   bool      `json:"published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToCourseResponse converts a domain course to its API representation
func ToCourseResponse(course *catalog.Course) CourseResponse {
	return CourseResponse{
		ID:          course.ID,
		Title:       course.Title,
		Slug:        course.Slug,
		Description: course.Description,
		Privacy:     string(course.Privacy),
		Published:   course.Published,
		CreatedAt:   course.CreatedAt,
		UpdatedAt:   course.UpdatedAt,
	}
}

// ToCourseResponses converts a slice of courses
func ToCourseResponses(courses []catalog.Course) []CourseResponse {
	responses := make([]CourseResponse, len(courses))
	for i := range courses {
		responses[i] = ToCourseResponse(&courses[i])
	}
	return responses
}

// CreateCommunityRequest contains the input for creating a community
type CreateCommunityRequest struct {
	Name              string `json:"name" binding:"required"`
	Slug              string `json:"slug" binding:"required"`
	Description       string `json:"description"`
	AutoAcceptMembers bool   `json:"auto_accept_members"`
}

// UpdateCommunityRequest contains the input for updating a community
type UpdateCommunityRequest struct {
	Name              *string `json:"name"`
	Description       *string `json:"description"`
	AutoAcceptMembers *bool   `json:"auto_accept_members"`
}

// CommunityResponse is the API representation of a community
type CommunityResponse struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Slug              string    `json:"slug"`
	Description       string    `json:"description"`
	Enabled           bool      `json:"enabled"`
	AutoAcceptMembers bool      `json:"auto_accept_members"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ToCommunityResponse converts a domain community to its API representation
func ToCommunityResponse(community *catalog.Community) CommunityResponse {
	return CommunityResponse{
		ID:                community.ID,
		Name:              community.Name,
		Slug:              community.Slug,
		Description:       community.Description,
		Enabled:           community.Enabled,
		AutoAcceptMembers: community.AutoAcceptMembers,
		CreatedAt:         community.CreatedAt,
		UpdatedAt:         community.UpdatedAt,
	}
}

// ToCommunityResponses converts a slice of communities
func ToCommunityResponses(communities []catalog.Community) []CommunityResponse {
	responses := make([]CommunityResponse, len(communities))
	for i := range communities {
		responses[i] = ToCommunityResponse(&communities[i])
	}
	return responses
}

// ListFilter contains common pagination options for catalog listings
type ListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Search   string `form:"search"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
}

// CreatePaymentPlanRequest contains the input for creating a payment plan
type CreatePaymentPlanRequest struct {
	Name                      string          `json:"name" binding:"required"`
	EntityType                string          `json:"entity_type" binding:"required"`
	EntityID                  uuid.UUID       `json:"entity_id" binding:"required"`
	Type                      string          `json:"type" binding:"required"`
	Currency                  string          `json:"currency" binding:"required"`
	OneTimeAmount             decimal.Decimal `json:"one_time_amount"`
	SubscriptionMonthlyAmount decimal.Decimal `json:"subscription_monthly_amount"`
	SubscriptionYearlyAmount  decimal.Decimal `json:"subscription_yearly_amount"`
	EMIAmount                 decimal.Decimal `json:"emi_amount"`
	EMIInstallments           int             `json:"emi_installments"`
}

// PaymentPlanResponse is the API representation of a payment plan
type PaymentPlanResponse struct {
	ID                        uuid.UUID       `json:"id"`
	Name                      string          `json:"name"`
	EntityType                string          `json:"entity_type"`
	EntityID                  uuid.UUID       `json:"entity_id"`
	Type                      string          `json:"type"`
	Currency                  string          `json:"currency"`
	OneTimeAmount             decimal.Decimal `json:"one_time_amount"`
	SubscriptionMonthlyAmount decimal.Decimal `json:"subscription_monthly_amount"`
	SubscriptionYearlyAmount  decimal.Decimal `json:"subscription_yearly_amount"`
	EMIAmount                 decimal.Decimal `json:"emi_amount"`
	EMIInstallments           int             `json:"emi_installments"`
	Archived                  bool            `json:"archived"`
	CreatedAt                 time.Time       `json:"created_at"`
}

// ToPaymentPlanResponse converts a domain plan to its API representation
func ToPaymentPlanResponse(plan *catalog.PaymentPlan) PaymentPlanResponse {
	return PaymentPlanResponse{
		ID:                        plan.ID,
		Name:                      plan.Name,
		EntityType:                plan.EntityType.String(),
		EntityID:                  plan.EntityID,
		Type:                      plan.Type.String(),
		Currency:                  plan.Currency,
		OneTimeAmount:             plan.OneTimeAmount,
		SubscriptionMonthlyAmount: plan.SubscriptionMonthlyAmount,
		SubscriptionYearlyAmount:  plan.SubscriptionYearlyAmount,
		EMIAmount:                 plan.EMIAmount,
		EMIInstallments:           plan.EMIInstallments,
		Archived:                  plan.Archived,
		CreatedAt:                 plan.CreatedAt,
	}
}

// ToPaymentPlanResponses converts a slice of plans
func ToPaymentPlanResponses(plans []catalog.PaymentPlan) []PaymentPlanResponse {
	responses := make([]PaymentPlanResponse, len(plans))
	for i := range plans {
		responses[i] = ToPaymentPlanResponse(&plans[i])
	}
	return responses
}

func (f ListFilter) domainFilter() shared.Filter {
	filter := shared.Filter{
		Page:     f.Page,
		PageSize: f.PageSize,
		Search:   f.Search,
		OrderBy:  f.OrderBy,
		OrderDir: f.OrderDir,
		Filters:  make(map[string]interface{}),
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}
	return filter
}
