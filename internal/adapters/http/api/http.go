// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/okian/courtside/internal/app"
	"github.com/okian/courtside/internal/domain/aggregate"
	"github.com/okian/courtside/internal/domain/types"
	"github.com/okian/courtside/pkg/logger"
)

// Messages returned for the two not-found conditions of the game queries.
const (
	msgGameDataNotFound = "Game data not found."
	msgActionsNotFound  = "Actions for %s not found."
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Roster(ctx context.Context) (types.Roster, error)
	PlayerActions(ctx context.Context, name string) ([]types.ParticipantAction, error)
	Totals(ctx context.Context) (types.TeamTotals, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	playersHandler *PlayersHandler
	actionsHandler *ActionsHandler
	totalsHandler  *TotalsHandler

	log        logger.Logger
	requestLog bool
	errLog     logger.Logger
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithRequestLog enables a debug access log line per request using l.
func WithRequestLog(l logger.Logger) ServerOption {
	return func(s *Server) {
		if l != nil {
			s.log = l
			s.requestLog = true
		}
	}
}

// WithErrorLog logs the cause of every 500 answered by the query routes.
func WithErrorLog(l logger.Logger) ServerOption {
	return func(s *Server) {
		if l != nil {
			s.errLog = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...ServerOption) *Server {
	s := &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		playersHandler: NewPlayersHandler(deps),
		actionsHandler: NewActionsHandler(deps),
		totalsHandler:  NewTotalsHandler(deps),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.playersHandler.log = s.errLog
	s.actionsHandler.log = s.errLog
	s.totalsHandler.log = s.errLog
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", s.wrap(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("/stats", s.wrap(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/games/players", s.wrap(s.playersHandler.HandleGetPlayers, "players"))
	mux.HandleFunc("/games/players/", s.wrap(s.actionsHandler.HandleGetActions, "actions"))
	mux.HandleFunc("/games/totals", s.wrap(s.totalsHandler.HandleGetTotals, "totals"))
}

func (s *Server) wrap(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	h := MetricsMiddleware(next, endpoint)
	if s.requestLog {
		h = AccessLogMiddleware(h, s.log)
	}
	return RequestIDMiddleware(h)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

func writeMessage(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// queryError classifies a service error raised by op. Missing game data
// and unmatched participants are ErrNotFound.
func queryError(op string, err error) error {
	if errors.Is(err, service.ErrGameDataUnavailable) || errors.Is(err, aggregate.ErrNoMatchingData) {
		return WrapKind(op, ErrNotFound, err)
	}
	return Wrap(op, err)
}

// writeQueryError maps service errors onto the HTTP surface.
// ErrNotFound is 404, anything else is a 500 whose cause only reaches the log.
func writeQueryError(r *http.Request, w http.ResponseWriter, log logger.Logger, op string, err error, notFoundMsg string) {
	err = queryError(op, err)
	switch {
	case errors.Is(err, aggregate.ErrNoMatchingData):
		writeMessage(w, http.StatusNotFound, "not_found", notFoundMsg)
	case errors.Is(err, ErrNotFound):
		writeMessage(w, http.StatusNotFound, "not_found", msgGameDataNotFound)
	default:
		if log != nil {
			log.Error(r.Context(), "query failed",
				logger.Error(err),
				logger.String("path", r.URL.Path),
				logger.String("requestID", RequestIDFromContext(r.Context())),
			)
		}
		writeError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}
