package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus/backend/internal/domain/shared"
	"github.com/campus/backend/internal/infrastructure/event"
	"github.com/campus/backend/internal/infrastructure/resilience"
	"github.com/campus/backend/internal/interfaces/http/dto"
)

// BaseHandler provides shared response helpers for HTTP handlers.
type BaseHandler struct{}

func getRequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	return c.GetHeader("X-Request-ID")
}

// Success sends a 200 response.
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a 200 response with pagination meta.
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 response.
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 response.
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with an explicit status code.
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// BadRequest sends a 400 response.
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 response.
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// Conflict sends a 409 response.
func (h *BaseHandler) Conflict(c *gin.Context, message string) {
	h.Error(c, http.StatusConflict, dto.ErrCodeConflict, message)
}

// InternalError sends a 500 response.
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// HandleError maps service errors to HTTP responses. Sentinel and domain
// errors get their specific codes; resilience failures report the
// dependency, and everything else degrades to a generic 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	requestID := getRequestID(c)

	switch {
	case errors.Is(err, shared.ErrNotFound):
		h.NotFound(c, "Resource not found")
		return
	case errors.Is(err, shared.ErrAlreadyExists):
		c.JSON(http.StatusConflict, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeAlreadyExists, "Resource already exists", requestID))
		return
	case errors.Is(err, resilience.ErrDownstreamUnavailable):
		c.JSON(http.StatusServiceUnavailable, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeDownstreamUnavailable,
			"A dependent service is unavailable, try again later",
			requestID))
		return
	case errors.Is(err, event.ErrPublishFailed):
		// The record was created; only its event announcement failed.
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeEventPublishFailed,
			"The record was saved but could not be announced to downstream consumers",
			requestID))
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponseWithRequestID(code, domainErr.Message, requestID))
		return
	}

	c.JSON(http.StatusInternalServerError, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeInternal, "An unexpected error occurred", requestID))
}
