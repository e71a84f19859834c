// Package client is the Go SDK for the array analysis HTTP service.  It
// covers the two analyze endpoints, translates non-2xx responses into typed
// APIErrors, and propagates context cancellation untouched so callers can
// distinguish an aborted request from a failed one.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/arraylab/beamtune/pkg/errors"
	"github.com/arraylab/beamtune/pkg/types"
)

const Version = "0.1.0"

// Endpoint paths of the analysis service.
const (
	PathLinearAnalyze = "/api/linear-array/analyze"
	PathPlanarAnalyze = "/api/planar-array/analyze"
)

// Logger defines the logging interface used by the Client.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// noopLogger is a no-op implementation of Logger.
type noopLogger struct{}

func (noopLogger) Debugf(format string, args ...interface{}) {}
func (noopLogger) Infof(format string, args ...interface{})  {}
func (noopLogger) Errorf(format string, args ...interface{}) {}

// Client is the analysis service SDK client.  It is safe for concurrent use;
// request state lives entirely on the stack.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	logger     Logger
}

// APIError represents an error response from the analysis service.
type APIError struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	RequestID  string `json:"request_id"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("analysis service: HTTP %d: %s [request_id=%s]", e.StatusCode, e.Message, e.RequestID)
}

// IsServerError reports whether the failure originated in the service rather
// than the request.
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}

// NewClient creates an analysis service client for the given base URL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.ErrInvalidConfig
	}

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid baseURL: %v", errors.ErrInvalidConfig, err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, fmt.Errorf("%w: baseURL scheme must be http or https", errors.ErrInvalidConfig)
	}

	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		userAgent:  fmt.Sprintf("beamtune-go-sdk/%s", Version),
		logger:     &noopLogger{},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// AnalyzeLinear runs a linear-array analysis.  Cancelling ctx aborts the
// in-flight HTTP exchange and returns ctx's error.
func (c *Client) AnalyzeLinear(ctx context.Context, req types.LinearRequest) (*types.AnalysisResult, error) {
	var result types.AnalysisResult
	if err := c.post(ctx, PathLinearAnalyze, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AnalyzePlanar runs a planar-array analysis.
func (c *Client) AnalyzePlanar(ctx context.Context, req types.PlanarRequest) (*types.AnalysisResult, error) {
	var result types.AnalysisResult
	if err := c.post(ctx, PathPlanarAnalyze, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// post performs a single JSON POST exchange.  Analyze requests are never
// retried here: a superseding edit re-issues through the scheduler, and a
// duplicate in-flight request would violate its single-flight discipline.
func (c *Client) post(ctx context.Context, path string, body interface{}, result interface{}) error {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.New().String()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Surface context cancellation as such; the scheduler swallows it.
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.Errorf("request failed: %v", err)
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("failed to read response body: %w", err)
	}

	c.logger.Debugf("POST %s %d (%v)", path, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.parseError(resp.StatusCode, respBody, requestID)
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}

	return nil
}

// parseError builds an APIError from a non-2xx response.  An unparsable or
// empty body falls back to a generic message carrying the HTTP status.
func (c *Client) parseError(statusCode int, body []byte, requestID string) *APIError {
	apiErr := &APIError{StatusCode: statusCode, RequestID: requestID}

	var errResp types.ErrorResponse
	if len(body) > 0 && json.Unmarshal(body, &errResp) == nil && errResp.Message != "" {
		apiErr.Message = errResp.Message
	} else {
		apiErr.Message = fmt.Sprintf("unknown server error (HTTP %d)", statusCode)
	}
	return apiErr
}
