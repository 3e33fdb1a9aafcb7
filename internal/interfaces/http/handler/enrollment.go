package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appenrollment "github.com/lms/backend/internal/application/enrollment"
	"github.com/lms/backend/internal/domain/catalog"
	"github.com/lms/backend/internal/domain/shared"
	"github.com/lms/backend/internal/interfaces/http/dto"
)

// ActivateRequest is the request body for an enrollment activation attempt
type ActivateRequest struct {
	EntityType    string    `json:"entity_type" binding:"required"`
	EntityID      uuid.UUID `json:"entity_id" binding:"required"`
	PlanID        uuid.UUID `json:"plan_id" binding:"required"`
	Origin        string    `json:"origin"`
	JoiningReason string    `json:"joining_reason"`
}

// EnrollmentHandler handles enrollment activation and membership queries
type EnrollmentHandler struct {
	BaseHandler
	activations *appenrollment.ActivationService
	memberships *appenrollment.MembershipService
}

// NewEnrollmentHandler creates a new EnrollmentHandler
func NewEnrollmentHandler(
	activations *appenrollment.ActivationService,
	memberships *appenrollment.MembershipService,
) *EnrollmentHandler {
	return &EnrollmentHandler{
		activations: activations,
		memberships: memberships,
	}
}

// RegisterRoutes registers enrollment endpoints on the given group
func (h *EnrollmentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	enrollment := rg.Group("/enrollment")
	{
		enrollment.POST("/activate", h.Activate)
	}

	memberships := rg.Group("/memberships")
	{
		memberships.GET("", h.ListMine)
		memberships.GET("/entity", h.GetForEntity)
		memberships.GET("/roster", h.Roster)
		memberships.GET("/:id/invoices", h.ListInvoices)
		memberships.POST("/:id/reject", h.Reject)
	}
}

// Activate runs one activation attempt for the authenticated user.
// Free plans grant access immediately; paid plans open a payment session
// the caller must redirect to.
func (h *EnrollmentHandler) Activate(c *gin.Context) {
	userID := getUserID(c)
	if userID == uuid.Nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ActivateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.activations.Activate(c.Request.Context(), appenrollment.ActivationRequest{
		TenantID:      getTenantID(c),
		UserID:        userID,
		EntityType:    catalog.EntityType(req.EntityType),
		EntityID:      req.EntityID,
		PlanID:        req.PlanID,
		Origin:        req.Origin,
		JoiningReason: req.JoiningReason,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ListMine returns the authenticated user's memberships
func (h *EnrollmentHandler) ListMine(c *gin.Context) {
	userID := getUserID(c)
	if userID == uuid.Nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}

	memberships, err := h.memberships.ListForUser(c.Request.Context(), getTenantID(c), userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, memberships)
}

// GetForEntity returns the authenticated user's membership for one entity
func (h *EnrollmentHandler) GetForEntity(c *gin.Context) {
	userID := getUserID(c)
	if userID == uuid.Nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	entityType := catalog.EntityType(c.Query("entity_type"))
	if !entityType.IsValid() {
		h.BadRequest(c, "Invalid entity type")
		return
	}
	entityID, err := uuid.Parse(c.Query("entity_id"))
	if err != nil {
		h.BadRequest(c, "Invalid entity ID")
		return
	}

	membership, err := h.memberships.GetForEntity(c.Request.Context(), getTenantID(c), userID, entityType, entityID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, membership)
}

// Roster lists memberships for one course or community
func (h *EnrollmentHandler) Roster(c *gin.Context) {
	entityType := catalog.EntityType(c.Query("entity_type"))
	if !entityType.IsValid() {
		h.BadRequest(c, "Invalid entity type")
		return
	}
	entityID, err := uuid.Parse(c.Query("entity_id"))
	if err != nil {
		h.BadRequest(c, "Invalid entity ID")
		return
	}

	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}

	memberships, total, err := h.memberships.ListForEntity(c.Request.Context(), getTenantID(c), entityType, entityID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, memberships, dto.NewMeta(filter.Page, filter.PageSize, total))
}

// ListInvoices lists the invoices recorded for one membership
func (h *EnrollmentHandler) ListInvoices(c *gin.Context) {
	membershipID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid membership ID")
		return
	}

	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}

	invoices, err := h.memberships.ListInvoices(c.Request.Context(), getTenantID(c), membershipID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoices)
}

// Reject bars a membership from future activation
func (h *EnrollmentHandler) Reject(c *gin.Context) {
	membershipID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid membership ID")
		return
	}

	if err := h.memberships.Reject(c.Request.Context(), getTenantID(c), membershipID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

func (h *EnrollmentHandler) bindFilter(c *gin.Context) (shared.Filter, bool) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return shared.Filter{}, false
	}

	filter := shared.DefaultFilter()
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}
	filter.Search = req.Search
	filter.OrderBy = req.OrderBy
	filter.OrderDir = req.OrderDir
	return filter, true
}
