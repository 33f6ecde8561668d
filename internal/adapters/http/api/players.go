package api

import (
	"net/http"

	"github.com/okian/courtside/pkg/logger"
)

// PlayersHandler serves the team rosters.
type PlayersHandler struct {
	deps Dependencies
	log  logger.Logger
}

// NewPlayersHandler creates a new players handler.
func NewPlayersHandler(deps Dependencies) *PlayersHandler {
	return &PlayersHandler{deps: deps}
}

// HandleGetPlayers handles GET /games/players requests.
func (h *PlayersHandler) HandleGetPlayers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	roster, err := h.deps.Roster(r.Context())
	if err != nil {
		writeQueryError(r, w, h.log, "players", err, msgGameDataNotFound)
		return
	}
	writeJSON(w, http.StatusOK, roster)
}
