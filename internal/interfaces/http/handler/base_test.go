package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus/backend/internal/domain/shared"
	"github.com/campus/backend/internal/infrastructure/event"
	"github.com/campus/backend/internal/infrastructure/resilience"
	"github.com/campus/backend/internal/interfaces/http/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestGetRequestID(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(*gin.Context)
		expectedID string
	}{
		{
			name:       "from context",
			setup:      func(c *gin.Context) { c.Set("request_id", "ctx-id") },
			expectedID: "ctx-id",
		},
		{
			name:       "from header when context empty",
			setup:      func(c *gin.Context) { c.Request.Header.Set("X-Request-ID", "header-id") },
			expectedID: "header-id",
		},
		{
			name:       "empty when unset",
			setup:      func(c *gin.Context) {},
			expectedID: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(c)
			assert.Equal(t, tt.expectedID, getRequestID(c))
		})
	}
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "not found",
			err:        shared.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   dto.ErrCodeNotFound,
		},
		{
			name:       "already exists",
			err:        shared.ErrAlreadyExists,
			wantStatus: http.StatusConflict,
			wantCode:   dto.ErrCodeAlreadyExists,
		},
		{
			name:       "downstream unavailable",
			err:        resilience.ErrDownstreamUnavailable,
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   dto.ErrCodeDownstreamUnavailable,
		},
		{
			name:       "publish failed",
			err:        event.ErrPublishFailed,
			wantStatus: http.StatusInternalServerError,
			wantCode:   dto.ErrCodeEventPublishFailed,
		},
		{
			name:       "domain invalid input",
			err:        shared.NewDomainError("INVALID_INPUT", "Course 999 does not exist"),
			wantStatus: http.StatusBadRequest,
			wantCode:   dto.ErrCodeInvalidInput,
		},
		{
			name:       "domain field validation",
			err:        shared.NewDomainError("INVALID_EMAIL", "A valid email address is required"),
			wantStatus: http.StatusBadRequest,
			wantCode:   dto.ErrCodeInvalidInput,
		},
		{
			name:       "domain duplicate",
			err:        shared.NewDomainError("ALREADY_EXISTS", "A student with this email already exists"),
			wantStatus: http.StatusConflict,
			wantCode:   dto.ErrCodeAlreadyExists,
		},
		{
			name:       "unexpected",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   dto.ErrCodeInternal,
		},
	}

	h := &BaseHandler{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			h.HandleError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestHandleErrorCarriesRequestID(t *testing.T) {
	h := &BaseHandler{}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set("request_id", "req-42")

	h.HandleError(c, resilience.ErrDownstreamUnavailable)

	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "req-42", resp.Error.RequestID)
}

func TestHandleErrorPublishFailureMentionsCommittedRecord(t *testing.T) {
	h := &BaseHandler{}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	h.HandleError(c, event.ErrPublishFailed)

	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Contains(t, resp.Error.Message, "saved")
}
