package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gridironlabs/mockdraft/go/internal/draft"
)

// StateProvider defines what the gateway needs to serve read-model state.
type StateProvider interface {
	GetState(ctx context.Context, id uuid.UUID) (*draft.State, error)
}

// Handler serves the websocket subscribe endpoint and the state read model.
type Handler struct {
	manager *ConnectionManager
	states  StateProvider
}

func NewHandler(manager *ConnectionManager, states StateProvider) *Handler {
	return &Handler{manager: manager, states: states}
}

// HandleWebSocket upgrades GET /drafts/{id}/ws?user_id=... to an event feed.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	draftID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid draft id", http.StatusBadRequest)
		return
	}
	userID := r.URL.Query().Get("user_id")

	if err := h.manager.Subscribe(w, r, userID, draftID); err != nil {
		log.Error().Err(err).Str("draft_id", draftID.String()).Msg("websocket subscribe failed")
	}
}

// HandleState serves GET /drafts/{id}/state as JSON: the draft snapshot and
// its pick log. Late joiners load this once, then follow the socket.
func (h *Handler) HandleState(w http.ResponseWriter, r *http.Request) {
	draftID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid draft id", http.StatusBadRequest)
		return
	}

	state, err := h.states.GetState(r.Context(), draftID)
	if err != nil {
		if errors.Is(err, draft.ErrDraftNotFound) {
			http.Error(w, "draft not found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Str("draft_id", draftID.String()).Msg("failed to load draft state")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(state); err != nil {
		log.Error().Err(err).Msg("failed to encode draft state")
	}
}
