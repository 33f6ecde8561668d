package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/courtside/pkg/logger"
)

// requestIDHeader matches the header the service echoes back.
const requestIDHeader = "X-Request-ID"

// HTTPClient wraps http.Client with timeout and request tagging.
type HTTPClient struct {
	client   *http.Client
	baseURL  string
	requests atomic.Int64
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// getJSON issues a GET for path and decodes a 200 body into v.
// Any other status is ErrUnexpectedStatus. Safe for concurrent use.
func (c *HTTPClient) getJSON(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	id := uuid.NewString()
	req.Header.Set(requestIDHeader, id)
	req.Header.Set("Accept", "application/json")

	c.requests.Add(1)
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("GET %s: read body: %w", path, err)
	}

	logger.Get().Debug(ctx, "probe request",
		logger.String("path", path),
		logger.Int("status", resp.StatusCode),
		logger.String("requestID", id),
	)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: GET %s returned %d: %s", ErrUnexpectedStatus, path, resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("GET %s: decode: %w", path, err)
	}
	return nil
}
