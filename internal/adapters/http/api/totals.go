package api

import (
	"net/http"

	"github.com/okian/courtside/pkg/logger"
)

// TotalsHandler serves the ranked per-team statistic lines.
type TotalsHandler struct {
	deps Dependencies
	log  logger.Logger
}

// NewTotalsHandler creates a new totals handler.
func NewTotalsHandler(deps Dependencies) *TotalsHandler {
	return &TotalsHandler{deps: deps}
}

// HandleGetTotals handles GET /games/totals requests.
func (h *TotalsHandler) HandleGetTotals(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	totals, err := h.deps.Totals(r.Context())
	if err != nil {
		writeQueryError(r, w, h.log, "totals", err, msgGameDataNotFound)
		return
	}
	writeJSON(w, http.StatusOK, totals)
}
