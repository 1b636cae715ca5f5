package dto

import (
	"net/http"
	"strings"
)

// Error code constants organized by category.
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	ErrCodeValidation       = "ERR_VALIDATION"
	ErrCodeValidationFormat = "ERR_VALIDATION_FORMAT"
	ErrCodeValidationRange  = "ERR_VALIDATION_RANGE"
)

// Resource error codes
const (
	ErrCodeNotFound      = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	ErrCodeConflict      = "ERR_CONFLICT"
)

// Input error codes
const (
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"
)

// Dependency error codes
const (
	// ErrCodeDownstreamUnavailable is used when a dependent service cannot
	// be reached: its circuit is open or every retried call failed.
	ErrCodeDownstreamUnavailable = "ERR_DOWNSTREAM_UNAVAILABLE"
	// ErrCodeEventPublishFailed is used when a state change was committed
	// but its event never reached the broker.
	ErrCodeEventPublishFailed = "ERR_EVENT_PUBLISH_FAILED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:       http.StatusBadRequest,
	ErrCodeValidationFormat: http.StatusBadRequest,
	ErrCodeValidationRange:  http.StatusBadRequest,

	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeConflict:      http.StatusConflict,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,

	ErrCodeDownstreamUnavailable: http.StatusServiceUnavailable,
	ErrCodeEventPublishFailed:    http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code, falling
// back to 500 for unknown codes.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// domainErrorCodeMapping maps domain error codes to wire codes.
var domainErrorCodeMapping = map[string]string{
	"NOT_FOUND":      ErrCodeNotFound,
	"ALREADY_EXISTS": ErrCodeAlreadyExists,
	"INVALID_INPUT":  ErrCodeInvalidInput,
	"INTERNAL_ERROR": ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the wire format.
// Codes already in the wire format pass through unchanged.
func NormalizeErrorCode(code string) string {
	if wireCode, ok := domainErrorCodeMapping[code]; ok {
		return wireCode
	}
	// Field-level domain codes (INVALID_EMAIL, INVALID_GRADE, ...) are
	// all input problems.
	if strings.HasPrefix(code, "INVALID_") {
		return ErrCodeInvalidInput
	}
	return code
}
