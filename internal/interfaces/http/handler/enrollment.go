package handler

import (
	"github.com/gin-gonic/gin"

	registryapp "github.com/campus/backend/internal/application/registry"
	"github.com/campus/backend/internal/interfaces/http/middleware"
)

// enrollmentURI binds the composite key from the route.
type enrollmentURI struct {
	StudentID int64 `uri:"id" binding:"required,min=1"`
	CourseID  int64 `uri:"course_id" binding:"required,min=1"`
}

// studentURI binds just the student id.
type studentURI struct {
	StudentID int64 `uri:"id" binding:"required,min=1"`
}

// EnrollmentHandler handles enrollment API endpoints on the student
// service.
type EnrollmentHandler struct {
	BaseHandler
	enrollments *registryapp.EnrollmentService
}

// NewEnrollmentHandler creates a new EnrollmentHandler.
func NewEnrollmentHandler(enrollments *registryapp.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments}
}

// Enroll handles POST /students/:id/enrollments.
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	var uri studentURI
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid student ID")
		return
	}

	var req registryapp.EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	enrollment, err := h.enrollments.Enroll(c.Request.Context(), uri.StudentID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, enrollment)
}

// List handles GET /students/:id/enrollments.
func (h *EnrollmentHandler) List(c *gin.Context) {
	var uri studentURI
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid student ID")
		return
	}

	enrollments, err := h.enrollments.ListByStudent(c.Request.Context(), uri.StudentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, enrollments)
}

// Get handles GET /students/:id/enrollments/:course_id.
func (h *EnrollmentHandler) Get(c *gin.Context) {
	var uri enrollmentURI
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid enrollment key")
		return
	}

	enrollment, err := h.enrollments.GetByKey(c.Request.Context(), uri.StudentID, uri.CourseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, enrollment)
}
