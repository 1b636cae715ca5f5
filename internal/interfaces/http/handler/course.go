package handler

import (
	"github.com/gin-gonic/gin"

	registryapp "github.com/campus/backend/internal/application/registry"
	"github.com/campus/backend/internal/interfaces/http/dto"
	"github.com/campus/backend/internal/interfaces/http/middleware"
)

// CourseHandler handles course API endpoints on the course service.
type CourseHandler struct {
	BaseHandler
	courses *registryapp.CourseService
}

// NewCourseHandler creates a new CourseHandler.
func NewCourseHandler(courses *registryapp.CourseService) *CourseHandler {
	return &CourseHandler{courses: courses}
}

// Create handles POST /courses. The course carries its externally
// assigned id in the body.
func (h *CourseHandler) Create(c *gin.Context) {
	var req registryapp.SaveCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	course, err := h.courses.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, course)
}

// Get handles GET /courses/:id.
func (h *CourseHandler) Get(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid course ID")
		return
	}

	course, err := h.courses.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, course)
}

// List handles GET /courses.
func (h *CourseHandler) List(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	query := registryapp.ListQuery{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Search:   req.Search,
	}
	page, err := h.courses.List(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Update handles PUT /courses/:id. Updates never touch enrollment
// snapshots taken before the change.
func (h *CourseHandler) Update(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid course ID")
		return
	}

	var req registryapp.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	course, err := h.courses.Update(c.Request.Context(), uri.ID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, course)
}

// Delete handles DELETE /courses/:id.
func (h *CourseHandler) Delete(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid course ID")
		return
	}

	if err := h.courses.Delete(c.Request.Context(), uri.ID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
