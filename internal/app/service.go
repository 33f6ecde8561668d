// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/courtside/internal/domain/aggregate"
	"github.com/okian/courtside/internal/domain/model"
	"github.com/okian/courtside/internal/domain/types"
	"github.com/okian/courtside/pkg/logger"
	"github.com/okian/courtside/pkg/metrics"
)

// Query names used for counters and metrics labels.
const (
	QueryRoster  = "roster"
	QueryActions = "actions"
	QueryTotals  = "totals"
)

// DefaultGameID is the game served when none is configured.
const DefaultGameID = "0022000180"

// EventSource supplies the ordered play-by-play events of a game.
type EventSource interface {
	Events(ctx context.Context, gameID string) ([]model.Event, error)
}

// Service answers the game queries by loading a fresh event sequence per call
// and handing it to the aggregation engine.
type Service struct {
	mu sync.RWMutex

	source       EventSource
	gameID       string
	cacheBackend string

	// State
	started        bool
	queries        map[string]int64
	failures       map[string]int64
	lastEventCount int
	lastFetchedAt  time.Time

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSource sets the event source queried on every call.
func WithSource(source EventSource) Option {
	return func(s *Service) {
		if source != nil {
			s.source = source
		}
	}
}

// WithGameID selects the game served by the queries.
func WithGameID(id string) Option {
	return func(s *Service) {
		if id != "" {
			s.gameID = id
		}
	}
}

// WithCacheBackend records the active feed cache backend for GetStats.
func WithCacheBackend(name string) Option {
	return func(s *Service) {
		s.cacheBackend = name
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		gameID:       DefaultGameID,
		cacheBackend: "none",
		queries:      make(map[string]int64),
		failures:     make(map[string]int64),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start validates the wiring and marks the service ready.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.source == nil {
		return ErrNoEventSource
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.started = true
	s.logger.Info(ctx, "game service started",
		logger.String("gameID", s.gameID),
		logger.String("cacheBackend", s.cacheBackend),
	)
	return nil
}

// Stop marks the service stopped. Queries keep working against the source.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "game service stopped")
}

// GameID returns the served game id.
func (s *Service) GameID() string { return s.gameID }

// Roster returns the distinct participant names of every team.
func (s *Service) Roster(ctx context.Context) (types.Roster, error) {
	start := time.Now()
	events, err := s.load(ctx)
	if err != nil {
		s.finish(QueryRoster, start, err)
		return nil, err
	}
	roster := aggregate.RosterByTeam(events)
	s.finish(QueryRoster, start, nil)
	return roster, nil
}

// PlayerActions returns the actions attributable to name.
// Returns an error wrapping aggregate.ErrNoMatchingData when there are none.
func (s *Service) PlayerActions(ctx context.Context, name string) ([]types.ParticipantAction, error) {
	start := time.Now()
	events, err := s.load(ctx)
	if err != nil {
		s.finish(QueryActions, start, err)
		return nil, err
	}
	actions, err := aggregate.EventsForParticipant(events, name)
	s.finish(QueryActions, start, err)
	if err != nil {
		return nil, err
	}
	return actions, nil
}

// Totals returns the ranked per-team statistic lines.
func (s *Service) Totals(ctx context.Context) (types.TeamTotals, error) {
	start := time.Now()
	events, err := s.load(ctx)
	if err != nil {
		s.finish(QueryTotals, start, err)
		return nil, err
	}
	totals := aggregate.TotalsByTeam(events)
	s.finish(QueryTotals, start, nil)
	return totals, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	queries := make(map[string]int64, len(s.queries))
	for k, v := range s.queries {
		queries[k] = v
	}
	failures := make(map[string]int64, len(s.failures))
	for k, v := range s.failures {
		failures[k] = v
	}

	stats := map[string]interface{}{
		"started":        s.started,
		"gameId":         s.gameID,
		"cacheBackend":   s.cacheBackend,
		"queries":        queries,
		"failures":       failures,
		"lastEventCount": s.lastEventCount,
	}
	if !s.lastFetchedAt.IsZero() {
		stats["lastFetchedAt"] = s.lastFetchedAt.UTC().Format(time.RFC3339)
	}
	return stats
}

func (s *Service) load(ctx context.Context) ([]model.Event, error) {
	if s.source == nil {
		return nil, fmt.Errorf("%w: %w", ErrGameDataUnavailable, ErrNoEventSource)
	}
	events, err := s.source.Events(ctx, s.gameID)
	if err != nil {
		s.log().Warn(ctx, "failed to load game events",
			logger.String("gameID", s.gameID),
			logger.Error(err),
		)
		return nil, fmt.Errorf("%w: game %s: %w", ErrGameDataUnavailable, s.gameID, err)
	}

	s.mu.Lock()
	s.lastEventCount = len(events)
	s.lastFetchedAt = time.Now()
	s.mu.Unlock()
	return events, nil
}

func (s *Service) finish(query string, start time.Time, err error) {
	result := metrics.ResultOK
	switch {
	case err == nil:
	case errors.Is(err, aggregate.ErrNoMatchingData):
		result = metrics.ResultNotFound
	default:
		result = metrics.ResultError
	}

	metrics.RecordQuery(query, result)
	metrics.RecordQueryLatency(query, float64(time.Since(start).Nanoseconds())/1e6)

	s.mu.Lock()
	s.queries[query]++
	if err != nil {
		s.failures[query]++
	}
	s.mu.Unlock()
}

func (s *Service) log() logger.Logger {
	s.mu.RLock()
	l := s.logger
	s.mu.RUnlock()
	if l == nil {
		return logger.Get()
	}
	return l
}
