package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/campus/backend/internal/infrastructure/resilience"
)

// ErrCourseNotFound is returned when the course directory has no course
// with the requested id.
var ErrCourseNotFound = errors.New("course not found")

// Target name used for the circuit breaker and log fields.
const courseServiceTarget = "course-service"

// CourseSnapshot is the course state returned by the directory at call
// time. Callers copy it into their own records; it carries no live
// reference back to the directory.
type CourseSnapshot struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Credits int    `json:"credits"`
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// CourseDirectoryClient fetches course snapshots from the course service
// over HTTP. Every call goes through the resilience executor, so network
// faults and 5xx responses are retried and repeated failures open the
// circuit for this target.
type CourseDirectoryClient struct {
	baseURL    string
	httpClient *http.Client
	exec       *resilience.Executor
	logger     *zap.Logger
}

// CourseDirectoryOption configures a CourseDirectoryClient.
type CourseDirectoryOption func(*CourseDirectoryClient)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) CourseDirectoryOption {
	return func(c *CourseDirectoryClient) {
		c.httpClient = hc
	}
}

// NewCourseDirectoryClient creates a client for the directory at baseURL.
func NewCourseDirectoryClient(baseURL string, exec *resilience.Executor, logger *zap.Logger, opts ...CourseDirectoryOption) *CourseDirectoryClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &CourseDirectoryClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		exec:   exec,
		logger: logger.Named("course_directory"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetCourse fetches the current snapshot for a course. It returns
// ErrCourseNotFound for an unknown id and an error wrapping
// resilience.ErrDownstreamUnavailable when the directory cannot be
// reached.
func (c *CourseDirectoryClient) GetCourse(ctx context.Context, id int64) (*CourseSnapshot, error) {
	var snapshot CourseSnapshot

	err := c.exec.Do(ctx, courseServiceTarget, func(ctx context.Context) error {
		url := fmt.Sprintf("%s/api/v1/courses/%d", c.baseURL, id)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return resilience.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			// Connection and timeout failures are retryable.
			return err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return resilience.Permanent(fmt.Errorf("course %d: %w", id, ErrCourseNotFound))
		case resp.StatusCode >= 500:
			return fmt.Errorf("course directory returned %d", resp.StatusCode)
		case resp.StatusCode >= 400:
			return resilience.Permanent(fmt.Errorf("course directory rejected request: %d", resp.StatusCode))
		}

		var env envelope
		if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
			return fmt.Errorf("decode course response: %w", err)
		}
		if !env.Success {
			code := ""
			if env.Error != nil {
				code = env.Error.Code
			}
			return resilience.Permanent(fmt.Errorf("course directory error: %s", code))
		}
		if err := json.Unmarshal(env.Data, &snapshot); err != nil {
			return fmt.Errorf("decode course payload: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Debug("course snapshot fetched",
		zap.Int64("course_id", snapshot.ID),
		zap.String("title", snapshot.Title),
	)
	return &snapshot, nil
}
