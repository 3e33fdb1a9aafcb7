package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appcatalog "github.com/lms/backend/internal/application/catalog"
	"github.com/lms/backend/internal/domain/catalog"
)

// PaymentPlanHandler handles payment plan endpoints
type PaymentPlanHandler struct {
	BaseHandler
	planService *appcatalog.PaymentPlanService
}

// NewPaymentPlanHandler creates a new PaymentPlanHandler
func NewPaymentPlanHandler(planService *appcatalog.PaymentPlanService) *PaymentPlanHandler {
	return &PaymentPlanHandler{planService: planService}
}

// RegisterRoutes registers payment plan endpoints on the given group
func (h *PaymentPlanHandler) RegisterRoutes(rg *gin.RouterGroup) {
	plans := rg.Group("/plans")
	{
		plans.POST("", h.Create)
		plans.GET("", h.ListForEntity)
		plans.GET("/:id", h.Get)
		plans.POST("/:id/archive", h.Archive)
	}
}

// Create creates a new payment plan for a course or community
func (h *PaymentPlanHandler) Create(c *gin.Context) {
	var req appcatalog.CreatePaymentPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	plan, err := h.planService.Create(c.Request.Context(), getTenantID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, plan)
}

// ListForEntity returns the selectable plans for a course or community
func (h *PaymentPlanHandler) ListForEntity(c *gin.Context) {
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

	plans, err := h.planService.ListForEntity(c.Request.Context(), getTenantID(c), entityType, entityID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, plans)
}

// Get returns a single payment plan by ID
func (h *PaymentPlanHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid plan ID")
		return
	}

	plan, err := h.planService.GetByID(c.Request.Context(), getTenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, plan)
}

// Archive retires a plan from new enrollments
func (h *PaymentPlanHandler) Archive(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid plan ID")
		return
	}

	if err := h.planService.Archive(c.Request.Context(), getTenantID(c), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
