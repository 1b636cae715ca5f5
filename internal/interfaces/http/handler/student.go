package handler

import (
	"github.com/gin-gonic/gin"

	registryapp "github.com/campus/backend/internal/application/registry"
	"github.com/campus/backend/internal/interfaces/http/dto"
	"github.com/campus/backend/internal/interfaces/http/middleware"
)

// StudentHandler handles student API endpoints.
type StudentHandler struct {
	BaseHandler
	students *registryapp.StudentService
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(students *registryapp.StudentService) *StudentHandler {
	return &StudentHandler{students: students}
}

// Create handles POST /students.
func (h *StudentHandler) Create(c *gin.Context) {
	var req registryapp.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	student, err := h.students.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, student)
}

// Get handles GET /students/:id.
func (h *StudentHandler) Get(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid student ID")
		return
	}

	student, err := h.students.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, student)
}

// List handles GET /students.
func (h *StudentHandler) List(c *gin.Context) {
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
	page, err := h.students.List(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Update handles PUT /students/:id.
func (h *StudentHandler) Update(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid student ID")
		return
	}

	var req registryapp.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	student, err := h.students.Update(c.Request.Context(), uri.ID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, student)
}

// Delete handles DELETE /students/:id.
func (h *StudentHandler) Delete(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid student ID")
		return
	}

	if err := h.students.Delete(c.Request.Context(), uri.ID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
