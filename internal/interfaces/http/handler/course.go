package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/lms/backend/internal/application/catalog"
	"github.com/lms/backend/internal/interfaces/http/dto"
)

// CourseHandler handles course catalog endpoints
type CourseHandler struct {
	BaseHandler
	courseService *catalog.CourseService
}

// NewCourseHandler creates a new CourseHandler
func NewCourseHandler(courseService *catalog.CourseService) *CourseHandler {
	return &CourseHandler{courseService: courseService}
}

// RegisterRoutes registers course endpoints on the given group
func (h *CourseHandler) RegisterRoutes(rg *gin.RouterGroup) {
	courses := rg.Group("/courses")
	{
		courses.POST("", h.Create)
		courses.GET("", h.List)
		courses.GET("/:id", h.Get)
		courses.GET("/slug/:slug", h.GetBySlug)
		courses.PUT("/:id", h.Update)
		courses.POST("/:id/publish", h.Publish)
		courses.POST("/:id/unpublish", h.Unpublish)
	}
}

// Create creates a new course
func (h *CourseHandler) Create(c *gin.Context) {
	var req catalog.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	course, err := h.courseService.Create(c.Request.Context(), getTenantID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, course)
}

// List returns a page of courses for the tenant
func (h *CourseHandler) List(c *gin.Context) {
	var filter catalog.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	courses, total, err := h.courseService.List(c.Request.Context(), getTenantID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, courses, dto.NewMeta(filter.Page, filter.PageSize, total))
}

// Get returns a single course by ID
func (h *CourseHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid course ID")
		return
	}

	course, err := h.courseService.GetByID(c.Request.Context(), getTenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, course)
}

// GetBySlug returns a single course by slug
func (h *CourseHandler) GetBySlug(c *gin.Context) {
	course, err := h.courseService.GetBySlug(c.Request.Context(), getTenantID(c), c.Param("slug"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, course)
}

// Update updates course fields
func (h *CourseHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid course ID")
		return
	}

	var req catalog.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	course, err := h.courseService.Update(c.Request.Context(), getTenantID(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, course)
}

// Publish makes a course visible to learners
func (h *CourseHandler) Publish(c *gin.Context) {
	h.setPublished(c, true)
}

// Unpublish hides a course from learners
func (h *CourseHandler) Unpublish(c *gin.Context) {
	h.setPublished(c, false)
}

func (h *CourseHandler) setPublished(c *gin.Context, published bool) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid course ID")
		return
	}

	var err error
	if published {
		err = h.courseService.Publish(c.Request.Context(), getTenantID(c), id)
	} else {
		err = h.courseService.Unpublish(c.Request.Context(), getTenantID(c), id)
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
