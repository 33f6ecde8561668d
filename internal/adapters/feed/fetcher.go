package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/okian/courtside/pkg/metrics"
)

// DefaultTimeout bounds a single upstream request when no client is supplied.
const DefaultTimeout = 10 * time.Second

// maxPayloadBytes caps how much of an upstream body is read.
const maxPayloadBytes = 32 << 20

// Fetcher returns the raw feed payload for a game.
type Fetcher interface {
	Fetch(ctx context.Context, gameID string) ([]byte, error)
}

// HTTPFetcher fetches the feed over HTTP from a URL template containing one %s.
type HTTPFetcher struct {
	template string
	client   *http.Client
}

// FetcherOption configures an HTTPFetcher.
type FetcherOption func(*HTTPFetcher)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *HTTPFetcher) {
		if c != nil {
			f.client = c
		}
	}
}

// WithTimeout sets the per-request timeout on the underlying client.
func WithTimeout(d time.Duration) FetcherOption {
	return func(f *HTTPFetcher) {
		if d > 0 {
			f.client = &http.Client{Timeout: d, Transport: f.client.Transport}
		}
	}
}

// NewHTTPFetcher creates a fetcher for urlTemplate.
func NewHTTPFetcher(urlTemplate string, opts ...FetcherOption) *HTTPFetcher {
	f := &HTTPFetcher{
		template: urlTemplate,
		client:   &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// URL returns the upstream URL for gameID.
func (f *HTTPFetcher) URL(gameID string) string {
	return fmt.Sprintf(f.template, gameID)
}

// Fetch implements Fetcher. Transport errors and non-2xx responses are ErrFetch.
func (f *HTTPFetcher) Fetch(ctx context.Context, gameID string) ([]byte, error) {
	start := time.Now()
	payload, err := f.fetch(ctx, gameID)
	metrics.RecordFeedFetchLatency(float64(time.Since(start).Nanoseconds()) / 1e6)
	if err != nil {
		metrics.RecordFeedFetch(metrics.ResultError)
		return nil, err
	}
	metrics.RecordFeedFetch(metrics.ResultOK)
	return payload, nil
}

func (f *HTTPFetcher) fetch(ctx context.Context, gameID string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL(gameID), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", ErrFetch, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: upstream status %d", ErrFetch, resp.StatusCode)
	}

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrFetch, err)
	}
	return payload, nil
}
