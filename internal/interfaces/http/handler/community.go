package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/lms/backend/internal/application/catalog"
	"github.com/lms/backend/internal/interfaces/http/dto"
)

// CommunityHandler handles community catalog endpoints
type CommunityHandler struct {
	BaseHandler
	communityService *catalog.CommunityService
}

// NewCommunityHandler creates a new CommunityHandler
func NewCommunityHandler(communityService *catalog.CommunityService) *CommunityHandler {
	return &CommunityHandler{communityService: communityService}
}

// RegisterRoutes registers community endpoints on the given group
func (h *CommunityHandler) RegisterRoutes(rg *gin.RouterGroup) {
	communities := rg.Group("/communities")
	{
		communities.POST("", h.Create)
		communities.GET("", h.List)
		communities.GET("/:id", h.Get)
		communities.GET("/slug/:slug", h.GetBySlug)
		communities.PUT("/:id", h.Update)
		communities.POST("/:id/enable", h.Enable)
		communities.POST("/:id/disable", h.Disable)
	}
}

// Create creates a new community
func (h *CommunityHandler) Create(c *gin.Context) {
	var req catalog.CreateCommunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	community, err := h.communityService.Create(c.Request.Context(), getTenantID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, community)
}

// List returns a page of communities for the tenant
func (h *CommunityHandler) List(c *gin.Context) {
	var filter catalog.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	communities, total, err := h.communityService.List(c.Request.Context(), getTenantID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, communities, dto.NewMeta(filter.Page, filter.PageSize, total))
}

// Get returns a single community by ID
func (h *CommunityHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid community ID")
		return
	}

	community, err := h.communityService.GetByID(c.Request.Context(), getTenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, community)
}

// GetBySlug returns a single community by slug
func (h *CommunityHandler) GetBySlug(c *gin.Context) {
	community, err := h.communityService.GetBySlug(c.Request.Context(), getTenantID(c), c.Param("slug"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, community)
}

// Update updates community fields
func (h *CommunityHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid community ID")
		return
	}

	var req catalog.UpdateCommunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	community, err := h.communityService.Update(c.Request.Context(), getTenantID(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, community)
}

// Enable opens a community for enrollment
func (h *CommunityHandler) Enable(c *gin.Context) {
	h.setEnabled(c, true)
}

// Disable closes a community to enrollment
func (h *CommunityHandler) Disable(c *gin.Context) {
	h.setEnabled(c, false)
}

func (h *CommunityHandler) setEnabled(c *gin.Context, enabled bool) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid community ID")
		return
	}

	if err := h.communityService.SetEnabled(c.Request.Context(), getTenantID(c), id, enabled); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
