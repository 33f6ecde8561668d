package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/okian/courtside/pkg/logger"
)

const (
	actionsPrefix = "/games/players/"
	actionsSuffix = "/actions"
)

// ActionsHandler serves the actions of a single player.
type ActionsHandler struct {
	deps Dependencies
	log  logger.Logger
}

// NewActionsHandler creates a new actions handler.
func NewActionsHandler(deps Dependencies) *ActionsHandler {
	return &ActionsHandler{deps: deps}
}

// HandleGetActions handles GET /games/players/{playerName}/actions requests.
func (h *ActionsHandler) HandleGetActions(w http.ResponseWriter, r *http.Request) {
	const op = "actions"

	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	name, err := playerFromPath(r.URL)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	actions, err := h.deps.PlayerActions(r.Context(), name)
	if err != nil {
		writeQueryError(r, w, h.log, op, err, fmt.Sprintf(msgActionsNotFound, name))
		return
	}
	writeJSON(w, http.StatusOK, actions)
}

// playerFromPath extracts the decoded player name from
// /games/players/{playerName}/actions.
func playerFromPath(u *url.URL) (string, error) {
	path := u.EscapedPath()
	if !strings.HasPrefix(path, actionsPrefix) || !strings.HasSuffix(path, actionsSuffix) {
		return "", fmt.Errorf("unsupported path %q", u.Path)
	}
	raw := strings.TrimSuffix(strings.TrimPrefix(path, actionsPrefix), actionsSuffix)
	if raw == "" || strings.Contains(raw, "/") {
		return "", fmt.Errorf("unsupported path %q", u.Path)
	}
	name, err := url.PathUnescape(raw)
	if err != nil {
		return "", fmt.Errorf("invalid player name: %w", err)
	}
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("missing player name")
	}
	return name, nil
}
