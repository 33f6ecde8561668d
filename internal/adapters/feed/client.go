package feed

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/okian/courtside/internal/adapters/repository"
	"github.com/okian/courtside/internal/domain/model"
	"github.com/okian/courtside/pkg/logger"
	"github.com/okian/courtside/pkg/metrics"
)

// Client turns raw feed payloads into events. Concurrent requests for the
// same game share one upstream fetch; an optional Store caches payloads.
type Client struct {
	fetcher Fetcher
	store   repository.Store
	ttl     time.Duration
	log     logger.Logger
	timeout time.Duration
	group   singleflight.Group
}

// DefaultFlightTimeout bounds one shared load, cache round trips included.
const DefaultFlightTimeout = 30 * time.Second

// Option configures a Client.
type Option func(*Client)

// WithStore enables payload caching with the given TTL.
func WithStore(store repository.Store, ttl time.Duration) Option {
	return func(c *Client) {
		c.store = store
		c.ttl = ttl
	}
}

// WithLogger sets the logger used for cache diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithFlightTimeout bounds the shared load that concurrent callers wait on.
// The load is detached from any single caller's cancellation.
func WithFlightTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// NewClient creates a Client on top of fetcher.
func NewClient(fetcher Fetcher, opts ...Option) *Client {
	c := &Client{fetcher: fetcher, timeout: DefaultFlightTimeout}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Events returns the decoded event sequence for gameID.
func (c *Client) Events(ctx context.Context, gameID string) ([]model.Event, error) {
	ch := c.group.DoChan(gameID, func() (interface{}, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()
		return c.load(fctx, gameID)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}

	events, _ := res.Val.([]model.Event)
	if res.Shared {
		// Callers of a shared flight must not alias the same backing array.
		events = append([]model.Event(nil), events...)
	}
	metrics.UpdateFeedEvents(len(events))
	return events, nil
}

func (c *Client) load(ctx context.Context, gameID string) ([]model.Event, error) {
	if c.store == nil {
		payload, err := c.fetcher.Fetch(ctx, gameID)
		if err != nil {
			return nil, err
		}
		return Decode(payload)
	}

	cached, err := c.store.Get(ctx, gameID)
	switch {
	case err == nil:
		events, derr := Decode(cached)
		if derr == nil {
			metrics.RecordFeedCache(metrics.CacheHit)
			return events, nil
		}
		metrics.RecordFeedCache(metrics.CacheError)
		c.warn(ctx, "discarding undecodable cached feed", gameID, derr)
	case errors.Is(err, repository.ErrNotFound):
		metrics.RecordFeedCache(metrics.CacheMiss)
	default:
		metrics.RecordFeedCache(metrics.CacheError)
		c.warn(ctx, "feed cache lookup failed", gameID, err)
	}

	payload, err := c.fetcher.Fetch(ctx, gameID)
	if err != nil {
		return nil, err
	}
	events, err := Decode(payload)
	if err != nil {
		return nil, err
	}
	if perr := c.store.Put(ctx, gameID, payload, c.ttl); perr != nil {
		c.warn(ctx, "feed cache write failed", gameID, perr)
	}
	return events, nil
}

func (c *Client) warn(ctx context.Context, msg, gameID string, err error) {
	if c.log == nil {
		return
	}
	fields := []logger.Field{logger.String("game_id", gameID)}
	if err != nil {
		fields = append(fields, logger.Error(err))
	}
	c.log.Warn(ctx, msg, fields...)
}
